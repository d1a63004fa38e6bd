package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"docsort/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "status",
		Short:        "Show the running daemon's status",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return fmt.Errorf("fetch status: %w", err)
				}
				printStatus(cmd, status)
				return nil
			})
		},
	}
}

func printStatus(cmd *cobra.Command, status *ipc.StatusResponse) {
	out := cmd.OutOrStdout()
	colorize := isTerminalWriter(out)

	kind := statusOK
	message := "watching " + status.WatchRoot
	if !status.Running {
		kind = statusWarn
		message = "daemon up, watcher not running"
	}

	fmt.Fprintln(out, "docsort daemon")
	fmt.Fprintln(out, renderStatusLine("State", kind, message, colorize))
	fmt.Fprintln(out, renderStatusLine("PID", statusInfo, strconv.Itoa(status.PID), colorize))
	fmt.Fprintln(out, renderStatusLine("Journal", statusInfo, status.JournalPath, colorize))

	sortedKind := statusOK
	if status.Failed > 0 {
		sortedKind = statusWarn
	}
	counts := fmt.Sprintf("%d sorted, %d failed, %d total", status.Completed, status.Failed, status.Total)
	fmt.Fprintln(out, renderStatusLine("Files", sortedKind, counts, colorize))
}
