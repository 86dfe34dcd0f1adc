// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles the optional gbs settings file, which supplies
// defaults for the service URL, the credential location and the editor used
// by interactive commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultURL is the GreedyBandit API endpoint used when neither a flag nor the
// settings file names one.
const DefaultURL = "https://api.greedybandit.com"

// Settings represents the contents of ~/.config/gbs/config.yaml.
type Settings struct {
	// URL overrides the default service URL
	URL string `yaml:"url,omitempty"`

	// Credential is the path to the credential file (may start with '~/')
	Credential string `yaml:"credential,omitempty"`

	// Editor is the command used by 'service edit' (e.g. "code --wait")
	Editor string `yaml:"editor,omitempty"`
}

// Dir returns ~/.config/gbs. The credential file lives there too, so the
// XDG config dir is deliberately not consulted.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gbs"), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig reads the settings file. A missing file yields zero Settings.
func LoadConfig() (Settings, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return Settings{}, err
	}
	return LoadConfigFrom(configPath)
}

func LoadConfigFrom(configPath string) (Settings, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Settings
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.Credential = strings.TrimSpace(cfg.Credential)
	cfg.Editor = strings.TrimSpace(cfg.Editor)

	return cfg, nil
}

func EnsureConfigDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	err = os.MkdirAll(dir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return nil
}

func SaveConfig(cfg Settings) error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}

	err = EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configPath, data, 0640)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}

// ResolveURL picks the service URL: flag value, then settings, then DefaultURL.
func (s Settings) ResolveURL(flagValue string) string {
	switch {
	case flagValue != "":
		return strings.TrimRight(flagValue, "/")
	case s.URL != "":
		return s.URL
	default:
		return DefaultURL
	}
}

func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
