// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"os"
	"strings"

	"gbs/internal/config"
	"gbs/internal/credential"
	"gbs/internal/editor"
	"gbs/internal/logger"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	settingKeyStyle = lipgloss.NewStyle().Bold(true).Width(12)
	settingBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// newConfigCmd is the parent command for the settings file subcommands
func newConfigCmd(a *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gbs settings",
		Long: `Provides subcommands to manage ~/.config/gbs/config.yaml.
Settings supply defaults for --url, --cred and the editor used by 'service edit'.
Command-line flags always take precedence.`,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective settings and where they come from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			credPath, err := credential.Resolve(a.credFlag, a.settings.Credential)
			if err != nil {
				return err
			}

			rows := []string{
				settingRow("url", a.settings.ResolveURL(a.urlFlag), source(a.urlFlag, a.settings.URL)),
				settingRow("credential", credPath, source(a.credFlag, a.settings.Credential)),
				settingRow("editor", editor.Resolve(a.settings.Editor), editorSource(a.settings.Editor)),
			}
			fmt.Fprintln(a.Stdout, settingBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the locations of the settings, credential and log files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			credPath, err := credential.DefaultPath()
			if err != nil {
				return err
			}
			logPath, err := logger.LogFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Stdout, "Settings:   %s\n", settingsPath)
			fmt.Fprintf(a.Stdout, "Credential: %s\n", credPath)
			fmt.Fprintf(a.Stdout, "Log:        %s\n", logPath)
			return nil
		},
	})

	configCmd.AddCommand(newConfigSetCmd(a, "set-url <url>", "Set the default service URL",
		`Sets the GreedyBandit service URL used when --url is not given.
To revert to the default, set it to an empty string: gbs config set-url ""`,
		func(cfg *config.Settings, value string) error {
			if value != "" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
				return fmt.Errorf("URL must start with http:// or https://")
			}
			cfg.URL = strings.TrimRight(value, "/")
			return nil
		}))

	configCmd.AddCommand(newConfigSetCmd(a, "set-cred <path>", "Set the default credential file",
		`Sets the credential file used when --cred is not given.
Use an absolute path or a path starting with '~/'.`,
		func(cfg *config.Settings, value string) error {
			if value != "" && !strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "~/") {
				return fmt.Errorf("path must be absolute or start with '~/'")
			}
			cfg.Credential = value
			return nil
		}))

	configCmd.AddCommand(newConfigSetCmd(a, "set-editor <command>", "Set the editor used by 'service edit'",
		`Sets the command that opens service configurations, e.g. "code --wait".
The file path is appended as the last argument.`,
		func(cfg *config.Settings, value string) error {
			cfg.Editor = value
			return nil
		}))

	return configCmd
}

func newConfigSetCmd(a *App, use, short, long string, apply func(*config.Settings, string) error) *cobra.Command {
	key := strings.TrimPrefix(strings.Fields(use)[0], "set-")
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.TrimSpace(args[0])

			cfg := a.settings
			if err := apply(&cfg, value); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}
			a.settings = cfg
			logger.Info("setting updated", "key", key, "value", value)

			if value == "" {
				successColor.Fprintf(a.Stdout, "Setting '%s' reset to default.\n", key)
			} else {
				successColor.Fprintf(a.Stdout, "Setting '%s' set to: %s\n", key, identifierColor.Sprint(value))
			}
			return nil
		},
	}
}

func settingRow(key, value, origin string) string {
	return settingKeyStyle.Render(key) + value + " " + dimColor.Sprintf("(%s)", origin)
}

func source(flagValue, configured string) string {
	switch {
	case flagValue != "":
		return "flag"
	case configured != "":
		return "settings file"
	default:
		return "default"
	}
}

func editorSource(configured string) string {
	if configured == "" && (os.Getenv("VISUAL") != "" || os.Getenv("EDITOR") != "") {
		return "environment"
	}
	return source("", configured)
}
