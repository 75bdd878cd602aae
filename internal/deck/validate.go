// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/qa-deck/pkg/types"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// singleField rejects values that would split a record: the note type is
// written verbatim into a tab separated, line oriented file.
var singleField = validation.By(func(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "\t\r\n\"") {
		return errors.New("must not contain tabs, line breaks or double quotes")
	}
	return nil
})

var singleLine = validation.By(func(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "\r\n") {
		return errors.New("must be a single line")
	}
	return nil
})

// ValidateConfig checks a build configuration after defaults are applied.
func ValidateConfig(cfg types.BuildConfig) error {
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.SourceDir, validation.Required),
		validation.Field(&cfg.OutputPath, validation.Required),
		validation.Field(&cfg.Excludes, validation.Each(validation.Required, singleLine)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := ValidatePipeline(cfg.Pipeline); err != nil {
		return err
	}
	if cfg.StagingDir != "" && cfg.StagingDir == cfg.SourceDir {
		return fmt.Errorf("%w: staging_dir must differ from source_dir", ErrInvalidConfig)
	}
	return nil
}

// ValidatePipeline checks the literals the pipeline writes and matches.
func ValidatePipeline(cfg types.PipelineConfig) error {
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.NoteType, validation.Required, singleField),
		validation.Field(&cfg.SectionMarker, validation.Required, singleLine),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
