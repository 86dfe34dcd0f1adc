// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package util

import "strings"

// QuoteArgForShell quotes an argument for safe use in a POSIX shell command.
// It uses single quotes and escapes any internal single quotes. A leading
// "~/" is left outside the quotes so the shell still expands it.
func QuoteArgForShell(arg string) string {
	if strings.HasPrefix(arg, "~/") {
		quotedPart := strings.ReplaceAll(arg[2:], "'", `'\''`)
		return `~/'` + quotedPart + `'`
	}

	quotedArg := strings.ReplaceAll(arg, "'", `'\''`)
	return `'` + quotedArg + `'`
}

// ShellCommand appends quoted args to command, which is passed through
// unquoted so user-configured commands like "code --wait" keep their flags.
func ShellCommand(command string, args ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(command))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(QuoteArgForShell(arg))
	}
	return b.String()
}
