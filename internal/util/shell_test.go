// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteArgForShell(t *testing.T) {
	assert.Equal(t, `'/tmp/a b.json'`, QuoteArgForShell("/tmp/a b.json"))
	assert.Equal(t, `'it'\''s'`, QuoteArgForShell("it's"))
	assert.Equal(t, `~/'cfg/x.json'`, QuoteArgForShell("~/cfg/x.json"))
}

func TestShellCommand(t *testing.T) {
	assert.Equal(t, `code --wait '/tmp/gbs 1.json'`, ShellCommand(" code --wait ", "/tmp/gbs 1.json"))
	assert.Equal(t, "vi", ShellCommand("vi"))
}
