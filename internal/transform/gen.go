package transform

import (
	"fmt"

	"jsweave/internal/ast"
	"jsweave/internal/lexer"
	"jsweave/internal/source"
	"jsweave/internal/token"
)

// gen собирает сгенерированный код из кусочков JS-текста и исходных
// токенов. Текст лексится тем же лексером, что и пользовательский код,
// но во «временный» файл без ID, так что все span получаются synthetic
// и в source map не попадают.
type gen struct {
	toks    []token.Token
	pending []token.Trivia // хвостовые пробелы предыдущего куска
}

// code добавляет кусок сгенерированного кода.
func (g *gen) code(format string, args ...any) *gen {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	for _, tok := range lexSynthetic(text) {
		if tok.Kind == token.EOF {
			g.pending = tok.Leading
			break
		}
		if g.pending != nil {
			tok.Leading = append(g.pending, tok.Leading...)
			g.pending = nil
		}
		g.toks = append(g.toks, tok)
	}
	return g
}

// splice вставляет исходные токены как есть (со своими span и trivia).
func (g *gen) splice(toks []token.Token) *gen {
	g.pending = nil
	g.toks = append(g.toks, toks...)
	return g
}

func (g *gen) tokens() []token.Token {
	return g.toks
}

func (g *gen) stmt() *ast.Raw {
	return &ast.Raw{Tokens: g.toks}
}

// stmt - короткая форма для statement целиком из текста.
func stmt(format string, args ...any) *ast.Raw {
	return new(gen).code(format, args...).stmt()
}

func toks(format string, args ...any) []token.Token {
	return new(gen).code(format, args...).tokens()
}

func lexSynthetic(text string) []token.Token {
	file := &source.File{ID: source.NoFile, Path: "<generated>", Content: []byte(text), Flags: source.FileVirtual}
	return lexer.New(file, lexer.Options{}).All()
}
