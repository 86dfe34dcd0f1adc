// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package credential loads the GreedyBandit service credential and derives
// the Basic authorization header from it.
package credential

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gbs/internal/config"

	"github.com/goccy/go-json"
)

const fileName = "credential.json"

// ErrIncomplete is returned when the credential file lacks a required field.
var ErrIncomplete = errors.New("credential is missing a required field")

// Credential identifies an account to the service.
type Credential struct {
	AccountID string `json:"account_id"`
	Secret    string `json:"secret"`
}

// NotFoundError means the resolved credential path does not exist.
type NotFoundError struct {
	Path        string
	DefaultPath string
}

func (e *NotFoundError) Error() string {
	return "Credential not found: " + e.Path
}

func (e *NotFoundError) ErrorTitle() string { return e.Error() }

func (e *NotFoundError) ErrorDetail() string {
	return fmt.Sprintf("Save your credential to %q. You may also specify a custom location using --cred option.", e.DefaultPath)
}

// DefaultPath returns ~/.config/gbs/credential.json.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Resolve picks the credential path: the --cred flag, then the path from the
// settings file, then DefaultPath. A leading "~/" is expanded.
func Resolve(explicit, configured string) (string, error) {
	path := explicit
	if path == "" {
		path = configured
	}
	if path == "" {
		return DefaultPath()
	}
	return config.ResolvePath(path)
}

// Load reads and parses the credential file at path.
func Load(path string) (Credential, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			return Credential{}, fmt.Errorf("failed to stat credential file %s: %w", path, err)
		}
		defaultPath, pathErr := DefaultPath()
		if pathErr != nil {
			defaultPath = filepath.Join("~", ".config", "gbs", fileName)
		}
		return Credential{}, &NotFoundError{Path: path, DefaultPath: defaultPath}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to read credential file %s: %w", path, err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, fmt.Errorf("failed to parse credential file %s: %w", path, err)
	}

	switch {
	case cred.AccountID == "":
		return Credential{}, fmt.Errorf("%w: account_id (%s)", ErrIncomplete, path)
	case cred.Secret == "":
		return Credential{}, fmt.Errorf("%w: secret (%s)", ErrIncomplete, path)
	}

	return cred, nil
}

// AuthHeader returns the value of the Authorization header for c.
func (c Credential) AuthHeader() string {
	token := c.AccountID + ":" + c.Secret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(token))
}
