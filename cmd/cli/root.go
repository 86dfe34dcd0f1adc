// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gbs/internal/clierr"
	"gbs/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X gbs/cmd/cli.version=...".
var version = "dev"

var (
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
)

func newRootCmd(a *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gbs",
		Short: "GreedyBandit CLI",
		Long: `GreedyBandit is a cloud-based A/B testing and optimization engine.

More information is available on https://api.greedybandit.com`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.credFlag, "cred", "", "Absolute path to the credential file")
	rootCmd.PersistentFlags().StringVar(&a.urlFlag, "url", "", "GreedyBandit service URL (default \""+config.DefaultURL+"\")")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log requests to stderr")
	_ = rootCmd.RegisterFlagCompletionFunc("cred", credentialCompletion)

	rootCmd.AddCommand(newAccountCmd(a))
	rootCmd.AddCommand(newServiceCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// RunCLI runs gbs with the process arguments and exits.
func RunCLI() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], newApp())
	stop()
	os.Exit(code)
}

// execute runs one invocation and returns the process exit code. Errors that
// were already rendered only set the code; everything else, transport
// failures included, is printed to stderr.
func execute(ctx context.Context, args []string, a *App) int {
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.Stdout)
	rootCmd.SetErr(a.Stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *clierr.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	errorColor.Fprintf(a.Stderr, "Error: %v\n", err)
	return 1
}
