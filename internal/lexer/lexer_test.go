package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"jsweave/internal/diag"
	"jsweave/internal/lexer"
	"jsweave/internal/source"
	"jsweave/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	codes    []diag.Code
	messages []string
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string) {
	r.codes = append(r.codes, code)
	r.messages = append(r.messages, fmt.Sprintf("[%s] %s: %s", code.ID(), sev, msg))
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.js", []byte(input)))
	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter}), reporter
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected ...token.Kind) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := lx.All()
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.messages)
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	if len(reporter.messages) != 0 {
		t.Errorf("unexpected diagnostics: %v", reporter.messages)
	}
	return tokens
}

func TestModuleDeclarations(t *testing.T) {
	expectTokens(t, `import {a} from "./test1"; export var b = a + 5;`,
		token.KwImport, token.LBrace, token.Ident, token.RBrace, token.Ident, token.StringLit, token.Semicolon,
		token.KwExport, token.KwVar, token.Ident, token.Assign, token.Ident, token.Operator, token.NumberLit, token.Semicolon,
	)
}

func TestNumbers(t *testing.T) {
	for _, input := range []string{"0", "123", "1_000", "0x1F", "0o17", "0b1010", "1.5", ".5", "1e-3", "2E+10", "10n", "0xffn", "1."} {
		t.Run(input, func(t *testing.T) {
			toks := expectTokens(t, input, token.NumberLit)
			if toks[0].Text != input {
				t.Errorf("expected text %q, got %q", input, toks[0].Text)
			}
		})
	}
}

func TestBadNumbers(t *testing.T) {
	for _, input := range []string{"0x", "1e", "3in"} {
		lx, rep := makeTestLexer(input)
		tok := lx.Next()
		if tok.Kind != token.Invalid {
			t.Errorf("%q: expected Invalid, got %v", input, tok.Kind)
		}
		if len(rep.codes) != 1 || rep.codes[0] != diag.LexBadNumber {
			t.Errorf("%q: expected LexBadNumber, got %v", input, rep.messages)
		}
	}
}

func TestStrings(t *testing.T) {
	expectTokens(t, `'a\'b' "c\"d" "line\
continued"`, token.StringLit, token.StringLit, token.StringLit)

	lx, rep := makeTestLexer("'abc\nx")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Errorf("expected Invalid, got %v", tok.Kind)
	}
	if len(rep.codes) == 0 || rep.codes[0] != diag.LexUnterminatedString {
		t.Errorf("expected unterminated string, got %v", rep.messages)
	}
}

func TestTemplates(t *testing.T) {
	toks := expectTokens(t, "`a ${b + `c ${ {d: '}'}.d }`} e` + 1",
		token.TemplateLit, token.Operator, token.NumberLit)
	if !strings.HasSuffix(toks[0].Text, " e`") {
		t.Errorf("template must be lexed whole, got %q", toks[0].Text)
	}

	lx, rep := makeTestLexer("`abc ${x")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Errorf("expected Invalid, got %v", tok.Kind)
	}
	if len(rep.codes) == 0 || rep.codes[0] != diag.LexUnterminatedTemplate {
		t.Errorf("expected unterminated template, got %v", rep.messages)
	}
}

func TestRegExpVersusDivision(t *testing.T) {
	expectTokens(t, "a / b / c", token.Ident, token.Operator, token.Ident, token.Operator, token.Ident)
	expectTokens(t, "x = /ab[/]c/gi.test(y)",
		token.Ident, token.Assign, token.RegExpLit, token.Dot, token.Ident, token.LParen, token.Ident, token.RParen)
	expectTokens(t, "return /x/", token.KwReturn, token.RegExpLit)
	expectTokens(t, "(a) / 2", token.LParen, token.Ident, token.RParen, token.Operator, token.NumberLit)
}

func TestOperatorsLongestMatch(t *testing.T) {
	toks := expectTokens(t, "a >>>= b ?? c?.d ... === => a?.5:1",
		token.Ident, token.Operator, token.Ident, token.Operator, token.Ident, token.QuestionDot, token.Ident,
		token.Ellipsis, token.Operator, token.Arrow, token.Ident, token.Question, token.NumberLit, token.Colon, token.NumberLit)
	if toks[1].Text != ">>>=" || toks[8].Text != "===" {
		t.Errorf("unexpected operator texts %q %q", toks[1].Text, toks[8].Text)
	}
}

func TestIdentifiers(t *testing.T) {
	toks := expectTokens(t, `$el _x café \u0061b #priv from`,
		token.Ident, token.Ident, token.Ident, token.Ident, token.Ident, token.Ident)
	if toks[3].Text != `\u0061b` {
		t.Errorf("escape must stay verbatim, got %q", toks[3].Text)
	}
	if !toks[5].Is("from") {
		t.Error("contextual keyword must be an identifier")
	}
	expectTokens(t, "function default export", token.KwFunction, token.KwDefault, token.KwExport)
}

func TestTriviaAndNewlines(t *testing.T) {
	lx, rep := makeTestLexer("#!/usr/bin/env node\na // line\n/* multi\nline */ b /* x */ c")
	toks := lx.All()
	if len(rep.messages) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.messages)
	}
	if len(toks) != 4 {
		t.Fatalf("expected a b c EOF, got %v", tokensToString(toks))
	}
	if !toks[0].NewlineBefore() {
		t.Error("hashbang line must end with a newline before 'a'")
	}
	if !toks[1].NewlineBefore() {
		t.Error("'b' follows a line break")
	}
	if toks[2].NewlineBefore() || !toks[2].SpaceBefore() {
		t.Error("'c' follows a single-line comment only")
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, rep := makeTestLexer("a /* never closed")
	toks := lx.All()
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatal("lexer must reach EOF")
	}
	if len(rep.codes) != 1 || rep.codes[0] != diag.LexUnterminatedBlockComment {
		t.Errorf("expected unterminated comment, got %v", rep.messages)
	}
}

func TestUnknownChar(t *testing.T) {
	lx, rep := makeTestLexer("a → b")
	toks := lx.All()
	if toks[1].Kind != token.Invalid {
		t.Errorf("expected Invalid, got %v", toks[1].Kind)
	}
	if len(rep.codes) != 1 || rep.codes[0] != diag.LexUnknownChar {
		t.Errorf("expected LexUnknownChar, got %v", rep.messages)
	}
	if toks[2].Text != "b" {
		t.Errorf("lexing must resume after the bad char, got %q", toks[2].Text)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek: %q", p.Text)
	}
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("second peek: %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next: %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next: %q", n.Text)
	}
}

func TestSpansMatchText(t *testing.T) {
	input := "export function f() { return `x` }"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.js", []byte(input)))
	for _, tok := range lexer.New(file, lexer.Options{}).All() {
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("span %v covers %q, text is %q", tok.Span, got, tok.Text)
		}
	}
}
