// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package clierr defines the errors gbs detects locally, as opposed to the
// error documents returned by the GreedyBandit service.
package clierr

import (
	"errors"
	"fmt"
)

// Error is a locally detected failure. It renders exactly like a remote
// error document, so the JSON shape matches {title, detail}.
type Error struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func New(title, detail string) *Error {
	return &Error{Title: title, Detail: detail}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Title
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

// From converts err into an *Error. Errors that already carry a title (or
// implement Titled) keep it; anything else becomes a generic failure titled
// with its message.
func From(err error) *Error {
	var cliErr *Error
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var titled Titled
	if errors.As(err, &titled) {
		return &Error{Title: titled.ErrorTitle(), Detail: titled.ErrorDetail()}
	}
	return &Error{Title: err.Error()}
}

// Titled is implemented by domain errors that know how to present themselves
// as a banner.
type Titled interface {
	error
	ErrorTitle() string
	ErrorDetail() string
}

// ExitError signals that an error has already been shown to the user and the
// process should exit with Code without printing anything else.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ErrRendered is the ExitError returned after an error banner was printed.
var ErrRendered = &ExitError{Code: 1}
