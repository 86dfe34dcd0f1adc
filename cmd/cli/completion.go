// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"strings"

	"gbs/internal/api"
	"gbs/internal/logger"

	"github.com/spf13/cobra"
)

// discoverServicesForCompletion lists service ids with the stored credential.
// Failures only mean no suggestions, so they are logged and swallowed.
func discoverServicesForCompletion(cmd *cobra.Command, a *App) []string {
	if err := a.prepare(); err != nil {
		logger.Debug("completion: settings unavailable", "error", err)
		return nil
	}

	cred, err := a.loadCredential()
	if err != nil {
		logger.Debug("completion: credential unavailable", "error", err)
		return nil
	}

	resp, err := a.client().ListServices(cmd.Context(), cred.AuthHeader())
	if err != nil || resp.IsError() {
		logger.Debug("completion: listing services failed", "error", err)
		return nil
	}
	return api.ServiceIDs(resp.Body)
}

// serviceCompletionFunc completes the first positional argument with the ids
// of the account's services.
func serviceCompletionFunc(a *App) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var suggestions []string
		for _, id := range discoverServicesForCompletion(cmd, a) {
			if strings.HasPrefix(id, toComplete) {
				suggestions = append(suggestions, id)
			}
		}
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	}
}

// credentialCompletion limits --cred suggestions to JSON files.
func credentialCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
