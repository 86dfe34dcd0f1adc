// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Settings{}, cfg)
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	want := Settings{URL: "http://localhost:8080", Credential: "~/creds/gbs.json", Editor: "nano"}
	require.NoError(t, SaveConfig(want))

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "gbs", "config.yaml"), path)

	got, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigNormalizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: \" http://example.com/ \"\neditor: vim\n"), 0600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", cfg.URL)
	assert.Equal(t, "vim", cfg.Editor)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: [unterminated"), 0600))

	_, err := LoadConfigFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, DefaultURL, Settings{}.ResolveURL(""))
	assert.Equal(t, "http://cfg", Settings{URL: "http://cfg"}.ResolveURL(""))
	assert.Equal(t, "http://flag", Settings{URL: "http://cfg"}.ResolveURL("http://flag/"))
}

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ResolvePath("~/a/b.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "a", "b.json"), got)

	got, err = ResolvePath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
