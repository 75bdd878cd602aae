// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "regexp"

// DefaultSectionMarker is the heading that ends an administrative block.
const DefaultSectionMarker = "## Вопросы и ответы"

var defaultSectionPattern = sectionPattern(DefaultSectionMarker)

// sectionPattern matches a horizontal rule line up to the nearest following
// marker. Dashes inside a line, such as a table separator row, do not start a
// section.
func sectionPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?ms)^---[ \t]*$.*?` + regexp.QuoteMeta(marker))
}

// RemoveSections deletes every region from a "---" rule line up to and
// including the first following section marker. A rule with no marker after
// it is left in place.
func RemoveSections(doc string) string {
	return defaultSectionPattern.ReplaceAllLiteralString(doc, "")
}

// SectionRemover returns RemoveSections bound to marker. An empty marker
// means the default.
func SectionRemover(marker string) func(string) string {
	if marker == "" || marker == DefaultSectionMarker {
		return RemoveSections
	}
	re := sectionPattern(marker)
	return func(doc string) string {
		return re.ReplaceAllLiteralString(doc, "")
	}
}
