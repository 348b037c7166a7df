package token_test

import (
	"testing"

	"jsweave/internal/source"
	"jsweave/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	for _, word := range []string{"import", "export", "function", "default", "null"} {
		if _, ok := token.LookupKeyword(word); !ok {
			t.Errorf("%q must be a keyword", word)
		}
	}
	for _, word := range []string{"from", "as", "let", "async", "of", "Import"} {
		if _, ok := token.LookupKeyword(word); ok {
			t.Errorf("%q must not be a keyword", word)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := token.KwExport.String(); got != "export" {
		t.Errorf("expected export, got %q", got)
	}
	if got := token.LBrace.String(); got != "{" {
		t.Errorf("expected {, got %q", got)
	}
}

func TestNewlineBefore(t *testing.T) {
	tok := token.Token{Kind: token.Ident, Leading: []token.Trivia{
		{Kind: token.TriviaSpace, Text: " "},
		{Kind: token.TriviaBlockComment, Text: "/* a\nb */"},
	}}
	if !tok.NewlineBefore() {
		t.Error("multi-line block comment must count as newline")
	}
	tok.Leading = []token.Trivia{{Kind: token.TriviaBlockComment, Text: "/* a */"}}
	if tok.NewlineBefore() {
		t.Error("single-line block comment is not a newline")
	}
	if !tok.SpaceBefore() {
		t.Error("comment is still space")
	}
}

func TestContinuesExpression(t *testing.T) {
	tests := []struct {
		tok  token.Token
		want bool
	}{
		{token.Token{Kind: token.Dot, Text: "."}, true},
		{token.Token{Kind: token.Operator, Text: "+"}, true},
		{token.Token{Kind: token.Operator, Text: "++"}, false},
		{token.Token{Kind: token.Operator, Text: "!"}, false},
		{token.Token{Kind: token.KwElse, Text: "else"}, true},
		{token.Token{Kind: token.KwExport, Text: "export"}, false},
		{token.Token{Kind: token.Ident, Text: "foo"}, false},
	}
	for _, tt := range tests {
		if got := tt.tok.ContinuesExpression(); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.tok.Text, tt.want, got)
		}
	}
}

func TestSynth(t *testing.T) {
	tok := token.Synth(token.Ident, "System")
	if !tok.Synthetic() {
		t.Error("Synth token must be synthetic")
	}
	if tok.Span.File != source.NoFile {
		t.Errorf("unexpected file %d", tok.Span.File)
	}
}
