package token

import (
	"strings"

	"jsweave/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line_comment"
	case TriviaBlockComment:
		return "block_comment"
	}
	return "unknown"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// HasNewline reports whether the trivia breaks the line. A block comment
// spanning lines counts as a line terminator for ASI.
func (tr Trivia) HasNewline() bool {
	switch tr.Kind {
	case TriviaNewline:
		return true
	case TriviaBlockComment:
		return strings.ContainsAny(tr.Text, "\n\u2028\u2029")
	default:
		return false
	}
}
