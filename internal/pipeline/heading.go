// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// HeadingMarker starts every record boundary line.
	HeadingMarker = "###### "

	// DefaultNoteType is written to column 1 of every record.
	DefaultNoteType = "learn.javascript.ru(простая)"

	// DeckSeparator joins deck levels, matching Anki's subdeck syntax.
	DeckSeparator = "::"

	fieldOpener = "\t\""
)

var (
	headingLine       = regexp.MustCompile(`(?m)^###### [^\n]+`)
	headingLineEnd    = regexp.MustCompile(`(?m)^(######[^\n]+)(?:\n|\z)`)
	headingPrefix     = regexp.MustCompile(`(?m)^######\s+`)
	doubleUnderscores = regexp.MustCompile(`__+`)
	singleUnderscores = regexp.MustCompile(`_+`)
)

// ReplaceUnderscoresInHeadings turns runs of two or more underscores in a
// heading line into "::" and any remaining underscores into one space.
func ReplaceUnderscoresInHeadings(doc string) string {
	return headingLine.ReplaceAllStringFunc(doc, func(line string) string {
		line = doubleUnderscores.ReplaceAllLiteralString(line, DeckSeparator)
		return singleUnderscores.ReplaceAllLiteralString(line, " ")
	})
}

// TruncateHeadings drops the last "::" of each heading line and everything
// after it. With merge stamps this removes the file name and leaves the
// directory path as the deck name.
func TruncateHeadings(doc string) string {
	return headingLine.ReplaceAllStringFunc(doc, func(line string) string {
		if i := strings.LastIndex(line, DeckSeparator); i >= 0 {
			return line[:i]
		}
		return line
	})
}

// OpenHeadingFields replaces the newline ending each heading line with a tab
// and an opening quote, so the following text starts the front field. A
// heading on the last line is opened with an empty field.
func OpenHeadingFields(doc string) string {
	return headingLineEnd.ReplaceAllString(doc, "${1}"+fieldOpener)
}

// CloseRecordFields appends a closing quote to the last non-blank line of
// every opened record, dropping the blank lines that follow it. A record is
// opened by a heading line carrying a field opener and ends at the next
// heading or at the end of the document. Text before the first heading is
// left alone.
func CloseRecordFields(doc string) string {
	lines := strings.Split(doc, "\n")
	out := make([]string, 0, len(lines))
	sawHeading := false
	open := false

	for _, line := range lines {
		if strings.HasPrefix(line, "######") {
			if open {
				n := lastNonBlank(out)
				out[n] = closeField(out[n])
				out = out[:n+1]
			}
			sawHeading = true
			open = strings.Contains(line, fieldOpener)
		}
		out = append(out, line)
	}

	if !sawHeading {
		return doc
	}
	if !open {
		return strings.Join(out, "\n")
	}
	n := lastNonBlank(out)
	out[n] = closeField(out[n])
	return strings.Join(out[:n+1], "\n") + "\n"
}

func lastNonBlank(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

func closeField(line string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace) + `"`
}

// RewriteHeadingTags replaces the heading marker with the note type tag and
// a tab. What is left of the heading becomes the deck column.
func RewriteHeadingTags(doc, noteType string) string {
	return headingPrefix.ReplaceAllLiteralString(doc, noteType+"\t")
}
