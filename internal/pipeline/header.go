// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"regexp"
	"strings"
)

// DeckHeader holds the Anki import directives written at the top of a deck.
const DeckHeader = "#separator:tab\n" +
	"#html:true\n" +
	"#notetype column:1\n" +
	"#deck column:2\n"

// ErrHeaderPresent is returned when the deck header is injected twice.
var ErrHeaderPresent = errors.New("deck header already present")

var (
	leadingBlankLines = regexp.MustCompile(`^\s*\n`)
	blankLines        = regexp.MustCompile(`(?m)^\s*\n+`)
)

// HasDeckHeader reports whether doc already starts with the deck header.
func HasDeckHeader(doc string) bool {
	return strings.HasPrefix(doc, "#separator:")
}

// AddDeckHeader prepends the deck header and one blank line, and removes the
// blank lines the body starts with. It must be applied exactly once per
// document; a second call returns ErrHeaderPresent.
func AddDeckHeader(doc string) (string, error) {
	return addDeckHeader(doc, false)
}

// addDeckHeader with compact set also removes every blank line in the body.
func addDeckHeader(doc string, compact bool) (string, error) {
	if HasDeckHeader(doc) {
		return doc, ErrHeaderPresent
	}
	body := leadingBlankLines.ReplaceAllLiteralString(doc, "")
	if compact {
		body = blankLines.ReplaceAllLiteralString(body, "")
	}
	return DeckHeader + "\n" + body, nil
}
