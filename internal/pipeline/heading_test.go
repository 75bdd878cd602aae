// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceUnderscoresInHeadings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "double then single", in: "###### Part_1__Arrays__q.md", want: "###### Part 1::Arrays::q.md"},
		{name: "long runs collapse", in: "###### a____b___c", want: "###### a::b::c"},
		{name: "existing separator kept", in: "###### foo__bar::baz", want: "###### foo::bar::baz"},
		{name: "no underscores is a no-op", in: "###### plain heading", want: "###### plain heading"},
		{name: "body lines untouched", in: "###### a_b\nsnake_case__name", want: "###### a b\nsnake_case__name"},
		{name: "lower heading levels untouched", in: "#### a__b", want: "#### a__b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceUnderscoresInHeadings(tt.in))
		})
	}
}

func TestTruncateHeadings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "last segment dropped", in: "###### Part 1::Arrays::q.md", want: "###### Part 1::Arrays"},
		{name: "single separator", in: "###### deck::file.md\nbody", want: "###### deck\nbody"},
		{name: "no separator", in: "###### file.md", want: "###### file.md"},
		{name: "body lines untouched", in: "a::b\n###### x", want: "a::b\n###### x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateHeadings(tt.in))
		})
	}
}

func TestUnderscoresThenTruncate(t *testing.T) {
	got := TruncateHeadings(ReplaceUnderscoresInHeadings("###### foo__bar::baz"))
	assert.Equal(t, "###### foo::bar", got)
}

func TestOpenHeadingFields(t *testing.T) {
	assert.Equal(t,
		"###### deck\t\"Question\n###### other\t\"Q2",
		OpenHeadingFields("###### deck\nQuestion\n###### other\nQ2"))
	assert.Equal(t, "###### last\t\"", OpenHeadingFields("###### last"))
	assert.Equal(t, "###### a\t\"Q\n###### last\t\"", OpenHeadingFields("###### a\nQ\n###### last"))
}

func TestCloseRecordFields(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "closes each record and the last one",
			in:   "###### a\t\"Q\"\t\"A\n\n###### b\t\"Q2\"\t\"A2  \n\n",
			want: "###### a\t\"Q\"\t\"A\"\n###### b\t\"Q2\"\t\"A2\"\n",
		},
		{
			name: "multi-line field closed on its last line",
			in:   "###### a\t\"Q\"\t\"<pre><code>\nx\n</code></pre>\n\n\n###### b\t\"Q\"\t\"A",
			want: "###### a\t\"Q\"\t\"<pre><code>\nx\n</code></pre>\"\n###### b\t\"Q\"\t\"A\"\n",
		},
		{
			name: "leading blank lines before first heading kept",
			in:   "\n\n###### a\t\"Q\"\t\"A\n",
			want: "\n\n###### a\t\"Q\"\t\"A\"\n",
		},
		{
			name: "text before first heading left open",
			in:   "intro\n\n###### a\t\"Q\"\t\"A",
			want: "intro\n\n###### a\t\"Q\"\t\"A\"\n",
		},
		{
			name: "heading without field opener not closed",
			in:   "###### a\t\"Q\"\t\"A\n###### bare",
			want: "###### a\t\"Q\"\t\"A\"\n###### bare",
		},
		{
			name: "empty field at end of document",
			in:   "###### a\t\"Q\"\t\"A\n###### last\t\"",
			want: "###### a\t\"Q\"\t\"A\"\n###### last\t\"\"\n",
		},
		{
			name: "no heading passes through",
			in:   "plain\n\n",
			want: "plain\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CloseRecordFields(tt.in))
		})
	}
}

func TestRewriteHeadingTags(t *testing.T) {
	assert.Equal(t,
		"learn.javascript.ru(простая)\tPart 1\t\"Q",
		RewriteHeadingTags("###### Part 1\t\"Q", DefaultNoteType))
	assert.Equal(t,
		"basic\tdeck\t\"Q\"\nbasic\tdeck2\t\"Q2",
		RewriteHeadingTags("###### deck\t\"Q\"\n######   deck2\t\"Q2", "basic"))
}
