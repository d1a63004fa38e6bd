package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsort/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "config",
		Short:        "Manage the docsort configuration",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigPathCommand())
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Print the effective configuration",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "watch_dir                 = %s\n", cfg.Paths.WatchDir)
			fmt.Fprintf(out, "log_dir                   = %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "stability_timeout_seconds = %d\n", cfg.Sorting.StabilityTimeoutSeconds)
			fmt.Fprintf(out, "stability_poll_seconds    = %d\n", cfg.Sorting.StabilityPollSeconds)
			fmt.Fprintf(out, "move_attempts             = %d\n", cfg.Sorting.MoveAttempts)
			fmt.Fprintf(out, "move_retry_delay_seconds  = %d\n", cfg.Sorting.MoveRetryDelaySeconds)
			fmt.Fprintf(out, "log_format                = %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "log_level                 = %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Write a sample configuration file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if _, statErr := os.Stat(path); statErr == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			} else if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
				return statErr
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote sample config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "path",
		Short:        "Print the default configuration file location",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
