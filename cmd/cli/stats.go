// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"gbs/internal/api"
	"gbs/internal/credential"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *App) *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Get statistics",
		Long:  "Fetch CSV reports computed by the service for one experiment of a service.",
	}

	statsCmd.AddCommand(newStatsReportCmd(a, "arms", "Get arm statistics as CSV", api.StatsArms))
	statsCmd.AddCommand(newStatsReportCmd(a, "seg", "Get segment statistics as CSV", api.StatsSegments))
	statsCmd.AddCommand(newStatsReportCmd(a, "goal", "Get goal statistics as CSV", api.StatsGoals))

	return statsCmd
}

func newStatsReportCmd(a *App, name, short string, kind api.StatsKind) *cobra.Command {
	return &cobra.Command{
		Use:               name + " <svc_id> <exp_id>",
		Short:             short,
		Example:           "  gbs stats " + name + " my-service exp-1 > " + name + ".csv",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: serviceCompletionFunc(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcID, expID := args[0], args[1]
			resp, err := a.authenticated("Fetching statistics...", func(cred credential.Credential) (*api.Response, error) {
				return a.client().Stats(cmd.Context(), cred.AuthHeader(), kind, svcID, expID)
			})
			if err != nil {
				return err
			}
			return a.renderer().Text(resp)
		},
	}
}
