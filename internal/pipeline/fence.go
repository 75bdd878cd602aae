// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"iter"
	"strings"
)

// fence describes one width of backtick span and the HTML markers it is
// rewritten to.
type fence struct {
	delim string
	open  string
	close string
}

var (
	tripleFence = fence{delim: "```", open: "<pre><code>", close: "</code></pre>"}
	singleFence = fence{delim: "`", open: "<code>", close: "</code>"}
)

// token is either a run of plain text or a single fence delimiter.
type token struct {
	text    string
	isFence bool
}

// tokens splits doc into text runs and fence delimiters, left to right.
func tokens(doc, delim string) iter.Seq[token] {
	return func(yield func(token) bool) {
		rest := doc
		for rest != "" {
			i := strings.Index(rest, delim)
			if i < 0 {
				yield(token{text: rest})
				return
			}
			if i > 0 && !yield(token{text: rest[:i]}) {
				return
			}
			if !yield(token{text: delim, isFence: true}) {
				return
			}
			rest = rest[i+len(delim):]
		}
	}
}

// replace runs the outside/inside automaton over doc. A span still open at
// the end of the document is closed so the output never carries an
// unterminated marker.
func (f fence) replace(doc string) string {
	var b strings.Builder
	b.Grow(len(doc))

	inside := false
	for tok := range tokens(doc, f.delim) {
		switch {
		case !tok.isFence:
			b.WriteString(tok.text)
		case inside:
			b.WriteString(f.close)
			inside = false
		default:
			b.WriteString(f.open)
			inside = true
		}
	}
	if inside {
		b.WriteString(f.close)
	}
	return b.String()
}

// ReplaceTripleBackticks rewrites ``` fences to <pre><code> blocks.
// It must run before ReplaceSingleBackticks, otherwise each ``` would be
// read as three inline spans.
func ReplaceTripleBackticks(doc string) string {
	return tripleFence.replace(doc)
}

// ReplaceSingleBackticks rewrites `inline` spans to <code> markers.
func ReplaceSingleBackticks(doc string) string {
	return singleFence.replace(doc)
}
