// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qa-deck/internal/deck"
	"github.com/pdiddy/qa-deck/internal/history"
	"github.com/pdiddy/qa-deck/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Build the deck from every markdown file under a directory",
	Long: `Build walks dir (default: the current directory), copies every card file
into the staging directory under a flattened name, merges them, rewrites the
result into Anki records and writes the deck. node_modules, hidden
directories, README.md and Excalidraw drawings are skipped.

The deck is written through a temporary file, so a failed run leaves any
previous deck in place. Each successful build is recorded in the history
database unless --history-db is empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.SourceDir = args[0]
	}
	if noStaging, _ := cmd.Flags().GetBool("no-staging"); noStaging {
		cfg.StagingDir = ""
	}

	ctx := context.Background()
	out := cmd.OutOrStdout()

	m, err := deck.Build(ctx, cfg, out)
	if err != nil {
		return err
	}

	if cfg.HistoryDB != "" {
		id, err := recordBuild(ctx, cfg.HistoryDB, m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: build history not updated: %v\n", err)
		} else {
			fmt.Fprintf(out, "recorded: build #%d\n", id)
		}
	}
	return nil
}

func recordBuild(ctx context.Context, path string, m types.Manifest) (int64, error) {
	store, err := history.NewStore(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	return store.Record(ctx, m)
}

func init() {
	flags := buildCmd.Flags()
	flags.String("output", deck.DefaultOutputPath, "deck file to write")
	flags.String("staging-dir", deck.DefaultStagingDir, "directory for flattened copies of the source files")
	flags.Bool("no-staging", false, "read source files in place instead of staging copies")
	flags.String("manifest", "", "also write a YAML build manifest to this path")
	flags.StringSlice("exclude", nil, "file or directory names to skip (repeatable)")

	viper.BindPFlag("output_path", flags.Lookup("output"))
	viper.BindPFlag("staging_dir", flags.Lookup("staging-dir"))
	viper.BindPFlag("manifest_path", flags.Lookup("manifest"))
	viper.BindPFlag("excludes", flags.Lookup("exclude"))

	rootCmd.AddCommand(buildCmd)
}
