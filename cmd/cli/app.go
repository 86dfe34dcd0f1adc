// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"gbs/internal/api"
	"gbs/internal/config"
	"gbs/internal/credential"
	"gbs/internal/editor"
	"gbs/internal/logger"
	"gbs/internal/render"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// App carries what one invocation needs: resolved settings, flag values and
// the collaborators tests replace.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// NewEditor builds the editor for 'service edit' from the resolved command.
	NewEditor func(command string) editor.Editor
	// Spinner shows progress on Stderr while a request is in flight.
	Spinner bool
	// Width is the wrap width for error details; zero means the terminal width.
	Width int
	// DisableLogFile keeps logs off disk.
	DisableLogFile bool

	credFlag string
	urlFlag  string
	verbose  bool

	prepared bool
	settings config.Settings
}

func newApp() *App {
	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewEditor: func(command string) editor.Editor {
			return editor.NewExternal(command, ".json")
		},
		Spinner: isatty.IsTerminal(os.Stderr.Fd()),
	}
}

// prepare sets up logging and reads the settings file. Completion callbacks
// run without the persistent hooks, so it is safe to call more than once.
func (a *App) prepare() error {
	if a.prepared {
		return nil
	}
	logger.InitLogger(logger.Options{Verbose: a.verbose, DisableFile: a.DisableLogFile})

	settings, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a.settings = settings
	a.prepared = true
	return nil
}

func (a *App) client() *api.Client {
	return api.NewClient(a.settings.ResolveURL(a.urlFlag), api.WithUserAgent("gbs/"+version))
}

func (a *App) renderer() *render.Renderer {
	r := render.New(a.Stdout)
	if a.Width > 0 {
		r.Width = a.Width
	}
	return r
}

// loadCredential resolves and reads the credential for an authenticated call.
func (a *App) loadCredential() (credential.Credential, error) {
	path, err := credential.Resolve(a.credFlag, a.settings.Credential)
	if err != nil {
		return credential.Credential{}, err
	}
	logger.Debug("loading credential", "path", path)
	return credential.Load(path)
}

// send runs one request, showing a spinner on a terminal. The spinner is
// stopped before anything is rendered.
func (a *App) send(suffix string, call func() (*api.Response, error)) (*api.Response, error) {
	if !a.Spinner {
		return call()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()

	return call()
}

// authenticated loads the credential and performs one authenticated call,
// rendering a local error if the credential cannot be used.
func (a *App) authenticated(suffix string, call func(cred credential.Credential) (*api.Response, error)) (*api.Response, error) {
	cred, err := a.loadCredential()
	if err != nil {
		return nil, a.renderer().Local(err)
	}
	resp, err := a.send(suffix, func() (*api.Response, error) {
		return call(cred)
	})
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
