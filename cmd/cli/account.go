// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"

	"gbs/internal/api"
	"gbs/internal/credential"

	"github.com/spf13/cobra"
)

func newAccountCmd(a *App) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage account",
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "create <email> <name>",
		Short: "Create new account",
		Long: `Create new account with given EMAIL and NAME. An email containing a link
to a service credential will be sent.`,
		Example: "  gbs account create alan@mail.com Alan",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, name := args[0], args[1]
			resp, err := a.send("Creating account...", func() (*api.Response, error) {
				return a.client().CreateAccount(cmd.Context(), email, name)
			})
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			return a.renderer().JSON(resp)
		},
	})

	accountCmd.AddCommand(&cobra.Command{
		Use:   "credential <email>",
		Short: "Request new service credential",
		Long: `Let the service send an e-mail containing a link to new service credential.
Calling this API alone won't affect the current credential.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.send("Requesting credential...", func() (*api.Response, error) {
				return a.client().RequestServiceCredential(cmd.Context(), args[0])
			})
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			return a.renderer().JSON(resp)
		},
	})

	accountCmd.AddCommand(&cobra.Command{
		Use:   "describe",
		Short: "Get account information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.authenticated("Fetching account...", func(cred credential.Credential) (*api.Response, error) {
				return a.client().DescribeAccount(cmd.Context(), cred.AuthHeader(), cred.AccountID)
			})
			if err != nil {
				return err
			}
			return a.renderer().JSON(resp)
		},
	})

	return accountCmd
}
