package token

import (
	"jsweave/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// Synth builds a token for generated code. It has no source span.
func Synth(k Kind, text string) Token {
	return Token{Kind: k, Span: source.Span{File: source.NoFile}, Text: text}
}

// Synthetic reports whether the token was generated rather than lexed.
func (t Token) Synthetic() bool { return t.Span.Synthetic() }

// NewlineBefore reports whether a line terminator precedes the token.
func (t Token) NewlineBefore() bool {
	for _, tr := range t.Leading {
		if tr.HasNewline() {
			return true
		}
	}
	return false
}

// SpaceBefore reports whether any trivia precedes the token.
func (t Token) SpaceBefore() bool { return len(t.Leading) > 0 }

// IsLiteral reports whether the token is a literal value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, TemplateLit, RegExpLit, KwNull, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsWord reports whether the token is an identifier or a reserved word,
// i.e. anything usable as a property name.
func (t Token) IsWord() bool { return t.Kind == Ident || t.Kind.IsKeyword() }

// Is reports whether the token is the identifier spelled word. Used for
// contextual keywords such as "from" and "as".
func (t Token) Is(word string) bool { return t.Kind == Ident && t.Text == word }

// EndsExpression reports whether an expression may end right after t.
// A following '/' is then division rather than a regular expression, and a
// line break after t may terminate the statement.
func (t Token) EndsExpression() bool {
	switch t.Kind {
	case Ident, NumberLit, StringLit, TemplateLit, RegExpLit,
		KwThis, KwSuper, KwNull, KwTrue, KwFalse,
		RParen, RBracket, RBrace:
		return true
	case Operator:
		return t.Text == "++" || t.Text == "--"
	default:
		return false
	}
}

// ContinuesExpression reports whether t, placed at the start of a line,
// continues the previous statement instead of starting a new one.
func (t Token) ContinuesExpression() bool {
	switch t.Kind {
	case Dot, QuestionDot, Comma, Colon, Question, Arrow, Assign, Star,
		LParen, LBracket, TemplateLit, KwIn, KwInstanceof,
		KwElse, KwCatch, KwFinally, RParen, RBracket, RBrace:
		return true
	case Operator:
		switch t.Text {
		case "++", "--", "!", "~":
			return false
		}
		return true
	case Ident:
		return t.Text == "of"
	default:
		return false
	}
}
