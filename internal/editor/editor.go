// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package editor hands a document to the user's text editor and reads it back.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"gbs/internal/logger"
	"gbs/internal/util"
)

// Editor lets the user change content interactively. saved is false when the
// user quit without writing the file; edited is nil in that case.
type Editor interface {
	Edit(ctx context.Context, content []byte) (edited []byte, saved bool, err error)
}

var fallbackEditors = []string{"sensible-editor", "vim", "nano", "vi"}

// Resolve picks the editor command: the configured one, then $VISUAL, then
// $EDITOR, then the first common editor found on PATH.
func Resolve(configured string) string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	for _, name := range fallbackEditors {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return "vi"
}

// External runs Command through sh with the path of a temporary file appended.
type External struct {
	Command   string
	Extension string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExternal returns an editor attached to the process terminal.
func NewExternal(command, extension string) *External {
	return &External{
		Command:   command,
		Extension: extension,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

func (e *External) Edit(ctx context.Context, content []byte) ([]byte, bool, error) {
	f, err := os.CreateTemp("", "gbs-*"+e.Extension)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create temporary file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	_, writeErr := f.Write(content)
	closeErr := f.Close()
	if writeErr != nil {
		return nil, false, fmt.Errorf("failed to write temporary file %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return nil, false, fmt.Errorf("failed to write temporary file %s: %w", path, closeErr)
	}

	// Backdated so that a save within the same second still moves the mtime.
	past := time.Now().Add(-2 * time.Second)
	if err := os.Chtimes(path, past, past); err != nil {
		return nil, false, fmt.Errorf("failed to prepare temporary file %s: %w", path, err)
	}
	before, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat temporary file %s: %w", path, err)
	}

	shellCmd := util.ShellCommand(e.Command, path)
	logger.Debug("launching editor", "command", shellCmd)

	cmd := exec.CommandContext(ctx, "sh", "-c", shellCmd)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, fmt.Errorf("editor %q failed: %w", e.Command, err)
	}

	after, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat temporary file %s: %w", path, err)
	}
	if after.ModTime().Equal(before.ModTime()) {
		return nil, false, nil
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read temporary file %s: %w", path, err)
	}
	return edited, true, nil
}
