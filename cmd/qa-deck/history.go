// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qa-deck/internal/history"
	"github.com/pdiddy/qa-deck/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past deck builds",
	Long: `History lists the builds recorded in the history database, newest first.
Use --id or --latest to show one build with the files that went into it,
and --format yaml or json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return fmt.Errorf("history is disabled: set --history-db")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	id, _ := cmd.Flags().GetInt64("id")
	latest, _ := cmd.Flags().GetBool("latest")
	format, _ := cmd.Flags().GetString("format")

	store, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var builds []types.BuildRecord
	switch {
	case id > 0:
		b, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		builds = []types.BuildRecord{b}
	case latest:
		b, err := store.Latest(ctx)
		if err != nil {
			return err
		}
		builds = []types.BuildRecord{b}
	default:
		builds, err = store.List(ctx, limit)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if format == "table" {
		formatHistoryTable(out, builds, id > 0 || latest)
		return nil
	}
	return history.Export(out, builds, format)
}

func formatHistoryTable(w io.Writer, builds []types.BuildRecord, withSources bool) {
	if len(builds) == 0 {
		fmt.Fprintln(w, "No builds recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-7s  %-12s  %s\n", "ID", "Built", "Records", "SHA256", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, b := range builds {
		sha := b.SHA256
		if len(sha) > 12 {
			sha = sha[:12]
		}
		fmt.Fprintf(w, "%-5d  %-20s  %-7d  %-12s  %s\n",
			b.ID, b.BuiltAt.Local().Format(time.DateTime), b.Records, sha, b.OutputPath)

		if withSources {
			for _, src := range b.Sources {
				fmt.Fprintf(w, "       %4d  %s\n", src.Records, src.RelPath)
			}
		}
	}
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of builds to list")
	historyCmd.Flags().Int64("id", 0, "show a single build with its source files")
	historyCmd.Flags().Bool("latest", false, "show the most recent build with its source files")
	historyCmd.Flags().String("format", "table", "output format: table, yaml, or json")

	rootCmd.AddCommand(historyCmd)
}
