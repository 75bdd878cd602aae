// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"regexp"
	"strings"
)

const (
	// QuestionPrefix opens a question line.
	QuestionPrefix = "**В:** "

	// AnswerMarker separates the question from its answer.
	AnswerMarker = "**О:**"
)

var (
	questionHeading     = regexp.MustCompile(`###### Вопрос \d+:\n`)
	newlineBeforeAnswer = regexp.MustCompile(`\n\*\*О:\*\*`)
	questionPrefix      = regexp.MustCompile(`(?m)^\*\*В:\*\* `)
	answerMarker        = regexp.MustCompile(`\*\*О:\*\*\s*`)
)

// JoinQuestionHeadings removes the newline after "###### Вопрос N:" lines.
func JoinQuestionHeadings(doc string) string {
	return questionHeading.ReplaceAllStringFunc(doc, strings.TrimSpace)
}

// JoinAnswers pulls every answer marker up onto the preceding line.
func JoinAnswers(doc string) string {
	return newlineBeforeAnswer.ReplaceAllLiteralString(doc, AnswerMarker)
}

// StripQuestionPrefixes removes "**В:** " at the start of lines.
func StripQuestionPrefixes(doc string) string {
	return questionPrefix.ReplaceAllLiteralString(doc, "")
}

// ReplaceAnswerMarkers turns "**О:**" and the whitespace after it into
// `"<TAB>"`, closing the front field and opening the back field.
func ReplaceAnswerMarkers(doc string) string {
	return answerMarker.ReplaceAllLiteralString(doc, "\"\t\"")
}
