//go:build mage

// Package main contains Mage build targets for qa-deck developer tooling.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/qa-deck/internal/merge"
	"github.com/pdiddy/qa-deck/internal/pipeline"
	"github.com/pdiddy/qa-deck/internal/source"
)

// projectDirs lists the working directories a deck build expects.
var projectDirs = []string{
	"target",
	"temp",
	".qa-deck",
}

// Init creates the working directories for a deck build.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "qa-deck"
	cmdPkg  = "./cmd/qa-deck"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Deck builds the binary and runs a deck build over the notes in the current
// directory.
func Deck() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "build")
}

// Cards prints how many cards each markdown file under the current
// directory contributes, without writing a deck.
func Cards() error {
	ctx := context.Background()
	files, err := source.Discover(ctx, source.Options{
		Root:      ".",
		SkipPaths: projectDirs,
	})
	if err != nil {
		return err
	}

	var log bytes.Buffer
	_, merged, err := merge.Merge(ctx, files, pipeline.DefaultSectionMarker, &log)
	if err != nil {
		return err
	}

	total := 0
	for _, f := range merged {
		fmt.Printf("%5d  %s\n", f.Records, f.RelPath)
		total += f.Records
	}
	fmt.Printf("%5d  total (%d files)\n", total, len(merged))
	return nil
}
