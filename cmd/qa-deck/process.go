// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qa-deck/internal/deck"
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Rewrite an already merged markdown file into a deck in place",
	Long: `Process runs the post-processing pipeline over a file that already holds
merged, stamped content and replaces it with the finished deck. A file that
already carries the deck header is rejected and left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := deck.ValidatePipeline(cfg.Pipeline); err != nil {
			return err
		}

		n, err := deck.Process(args[0], deck.PipelineOptions(cfg.Pipeline))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "processed: %s (%d records)\n", args[0], n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
