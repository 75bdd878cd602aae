// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qa-deck CLI.
// qa-deck turns a tree of question/answer markdown notes into an Anki
// import deck.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qa-deck/internal/deck"
	"github.com/pdiddy/qa-deck/internal/history"
	"github.com/pdiddy/qa-deck/internal/pipeline"
	"github.com/pdiddy/qa-deck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the qa-deck CLI.
var rootCmd = &cobra.Command{
	Use:   "qa-deck",
	Short: "Build Anki decks from question/answer markdown notes",
	Long: `qa-deck collects the markdown files under a directory, merges them and
rewrites the result into a tab-separated Anki import file.

Every "###### " heading starts a card. "**В:** " lines hold the question and
"**О:**" starts the answer. Inline and fenced code become <code> and
<pre><code> markup. The directory path of each file becomes the card's deck.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./qa-deck.yaml or ~/.config/qa-deck/config.yaml)")
	flags.String("history-db", history.DefaultPath, "SQLite build history (empty disables history)")
	flags.String("note-type", pipeline.DefaultNoteType, "note type written to column 1")
	flags.String("section-marker", pipeline.DefaultSectionMarker, "heading that ends a --- administrative block")
	flags.Bool("compact", false, "remove every blank line from the deck body")

	viper.BindPFlag("history_db", flags.Lookup("history-db"))
	viper.BindPFlag("pipeline.note_type", flags.Lookup("note-type"))
	viper.BindPFlag("pipeline.section_marker", flags.Lookup("section-marker"))
	viper.BindPFlag("pipeline.compact_blank_lines", flags.Lookup("compact"))

	viper.SetDefault("source_dir", deck.DefaultSourceDir)
	viper.SetDefault("staging_dir", deck.DefaultStagingDir)
	viper.SetDefault("output_path", deck.DefaultOutputPath)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("qa-deck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "qa-deck"))
		}
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()

	viper.SetEnvPrefix("QA_DECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves flags, environment and config file into a BuildConfig.
func loadConfig() (types.BuildConfig, error) {
	var cfg types.BuildConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
