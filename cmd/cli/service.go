// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"fmt"
	"net/http"

	"gbs/internal/api"
	"gbs/internal/clierr"
	"gbs/internal/credential"
	"gbs/internal/editor"
	"gbs/internal/logger"

	"github.com/spf13/cobra"
)

func newServiceCmd(a *App) *cobra.Command {
	serviceCmd := &cobra.Command{
		Use:   "service",
		Short: "Manage services",
	}

	serviceCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Get all service configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.authenticated("Fetching services...", func(cred credential.Credential) (*api.Response, error) {
				return a.client().ListServices(cmd.Context(), cred.AuthHeader())
			})
			if err != nil {
				return err
			}
			return a.renderer().JSON(resp)
		},
	})

	serviceCmd.AddCommand(&cobra.Command{
		Use:               "describe <svc_id>",
		Short:             "Get service configuration",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: serviceCompletionFunc(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.authenticated("Fetching service...", func(cred credential.Credential) (*api.Response, error) {
				return a.client().DescribeService(cmd.Context(), cred.AuthHeader(), args[0])
			})
			if err != nil {
				return err
			}
			return a.renderer().JSON(resp)
		},
	})

	serviceCmd.AddCommand(&cobra.Command{
		Use:               "delete <svc_id>",
		Short:             "Delete service configuration",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: serviceCompletionFunc(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.authenticated("Deleting service...", func(cred credential.Credential) (*api.Response, error) {
				return a.client().DeleteService(cmd.Context(), cred.AuthHeader(), args[0])
			})
			if err != nil {
				return err
			}
			return a.renderer().JSON(resp)
		},
	})

	serviceCmd.AddCommand(&cobra.Command{
		Use:   "edit <svc_id>",
		Short: "Create or update service configuration",
		Long: `Opens the service configuration in your editor and uploads it when you save.
A service that does not exist yet starts from an empty configuration.
Read-only fields (account_id, svc_id, update_dt) are removed before editing.

The editor is taken from the settings file, then $VISUAL, then $EDITOR.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: serviceCompletionFunc(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editService(cmd.Context(), args[0])
		},
	})

	return serviceCmd
}

// editService fetches the current configuration, lets the user edit it and
// PUTs the result. Nothing is sent unless the editor saved valid JSON.
func (a *App) editService(ctx context.Context, svcID string) error {
	r := a.renderer()

	cred, err := a.loadCredential()
	if err != nil {
		return r.Local(err)
	}
	client := a.client()
	auth := cred.AuthHeader()

	resp, err := a.send("Fetching service...", func() (*api.Response, error) {
		return client.DescribeService(ctx, auth, svcID)
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var current []byte
	switch {
	case resp.StatusCode == http.StatusNotFound:
		logger.Info("service not found, starting from an empty configuration", "svc_id", svcID)
		current = api.EmptyServiceConfig()
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		current, err = api.EditableServiceConfig(resp.Body)
		if err != nil {
			return r.Local(clierr.New("Invalid service configuration", err.Error()))
		}
	default:
		return r.JSON(resp)
	}

	edited, saved, err := a.NewEditor(editor.Resolve(a.settings.Editor)).Edit(ctx, append(current, '\n'))
	if err != nil {
		return r.Local(clierr.New("Editor failed", err.Error()))
	}
	if !saved {
		r.Warning("Configuration not saved.")
		return nil
	}

	doc, err := api.CompactJSON(edited)
	if err != nil {
		return r.Local(clierr.New("Invalid JSON", err.Error()))
	}

	resp, err = a.send("Saving service...", func() (*api.Response, error) {
		return client.PutService(ctx, auth, svcID, doc)
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return r.JSON(resp)
}
