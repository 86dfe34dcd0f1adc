// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package render prints API responses and errors to the terminal.
package render

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gbs/internal/api"
	"gbs/internal/clierr"
	"gbs/internal/logger"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	indent       = "    "
)

var (
	errorTitleColor = color.New(color.FgRed)
	warningColor    = color.New(color.FgYellow)
)

// Renderer writes one command's outcome to Out.
type Renderer struct {
	Out   io.Writer
	Width int
}

// New returns a Renderer writing to out, wrapped to the width of the terminal
// on stdout.
func New(out io.Writer) *Renderer {
	return &Renderer{Out: out, Width: TerminalWidth(os.Stdout)}
}

// TerminalWidth reports the column count of f, or 80 when f is not a terminal.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// JSON pretty-prints a successful JSON response. Error responses are rendered
// as a banner and reported with clierr.ErrRendered.
func (r *Renderer) JSON(resp *api.Response) error {
	if resp.IsError() {
		return r.Remote(resp)
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", indent); err != nil {
		logger.Warn("response is not JSON, printing verbatim", "request_id", resp.RequestID, "error", err)
		return r.Text(resp)
	}
	out.WriteByte('\n')
	_, err := r.Out.Write(out.Bytes())
	return err
}

// Text prints a successful response body verbatim, e.g. a CSV report.
func (r *Renderer) Text(resp *api.Response) error {
	if resp.IsError() {
		return r.Remote(resp)
	}

	if _, err := r.Out.Write(resp.Body); err != nil {
		return err
	}
	if !bytes.HasSuffix(resp.Body, []byte("\n")) {
		_, err := io.WriteString(r.Out, "\n")
		return err
	}
	return nil
}

// Remote renders an error document returned by the service.
func (r *Renderer) Remote(resp *api.Response) error {
	statusLine := fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	var doc map[string]any
	if err := json.Unmarshal(resp.Body, &doc); err != nil || doc == nil {
		detail := strings.TrimSpace(string(resp.Body))
		return r.banner(statusLine, detail, nil)
	}

	title, _ := doc["title"].(string)
	if title == "" {
		title = statusLine
	}
	detail, _ := doc["detail"].(string)

	pretty := bytes.TrimSpace(resp.Body)
	var out bytes.Buffer
	if err := json.Indent(&out, pretty, "", indent); err == nil {
		pretty = out.Bytes()
	}
	return r.banner(title, detail, pretty)
}

// Local renders an error detected by gbs itself. Anything that is not a
// *clierr.Error is shown with its message as the title.
func (r *Renderer) Local(err error) error {
	e := clierr.From(err)
	doc, marshalErr := json.MarshalIndent(e, "", indent)
	if marshalErr != nil {
		doc = []byte(e.Title)
	}
	return r.banner(e.Title, e.Detail, doc)
}

// Warning prints a highlighted notice that is not an error.
func (r *Renderer) Warning(msg string) {
	warningColor.Fprintln(r.Out, msg)
}

func (r *Renderer) banner(title, detail string, doc []byte) error {
	errorTitleColor.Fprintf(r.Out, "[Error] %s\n", title)

	switch {
	case detail != "":
		width := r.Width
		if width <= 0 {
			width = defaultWidth
		}
		fmt.Fprintln(r.Out, ansi.Wrap(detail, width, ""))
	case len(doc) > 0:
		fmt.Fprintln(r.Out, string(doc))
	}

	return clierr.ErrRendered
}
