package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"docsort/internal/ipc"
	"docsort/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:          "history",
		Short:        "Show recently sorted files",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := historyRows(ctx, limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no files sorted yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "When", "File", "Date", "Source", "Result"},
				rows, 1,
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	return cmd
}

// historyRows prefers the live daemon and falls back to reading the journal
// directly when no daemon is up.
func historyRows(ctx *commandContext, limit int) ([][]string, error) {
	var rows [][]string
	err := ctx.withClient(func(client *ipc.Client) error {
		resp, err := client.History(limit)
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		for _, record := range resp.Records {
			rows = append(rows, []string{
				strconv.FormatInt(record.ID, 10),
				shortTimestamp(record.CreatedAt),
				displayPath(record.Status, record.SourcePath, record.FinalPath),
				record.ResolvedDate,
				record.DateSource,
				historyResult(record.Status, record.ErrorMessage),
			})
		}
		return nil
	})
	if err == nil {
		return rows, nil
	}

	cfg, cfgErr := ctx.ensureConfig()
	if cfgErr != nil {
		return nil, err
	}
	store, openErr := journal.Open(cfg)
	if openErr != nil {
		return nil, err
	}
	defer store.Close()

	records, recErr := store.Recent(nil, limit)
	if recErr != nil {
		return nil, recErr
	}
	for _, record := range records {
		rows = append(rows, []string{
			strconv.FormatInt(record.ID, 10),
			record.CreatedAt.Local().Format("2006-01-02 15:04"),
			displayPath(string(record.Status), record.SourcePath, record.FinalPath),
			record.ResolvedDate,
			record.DateSource,
			historyResult(string(record.Status), record.ErrorMessage),
		})
	}
	return rows, nil
}

func displayPath(status, sourcePath, finalPath string) string {
	if status == string(journal.StatusCompleted) && finalPath != "" {
		return filepath.Base(finalPath)
	}
	return filepath.Base(sourcePath)
}

func historyResult(status, errorMessage string) string {
	if status == string(journal.StatusCompleted) {
		return "sorted"
	}
	if errorMessage != "" {
		return "failed: " + errorMessage
	}
	return "failed"
}

func shortTimestamp(value string) string {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return parsed.Local().Format("2006-01-02 15:04")
}
