package parser

import (
	"fmt"

	"jsweave/internal/diag"
	"jsweave/internal/token"
)

// scanStatement продвигается до конца statement, начавшегося на токене
// start. Конец - это ';' на нулевой глубине скобок, EOF, либо перевод
// строки там, где сработала бы автоматическая вставка ';': предыдущий
// токен может завершать выражение, а следующий не продолжает его.
//
// Лишний разрыв безвреден: токены печатаются с исходными переводами
// строк, поэтому граница statement нужна только для распознавания
// import/export в начале.
func (p *Parser) scanStatement(start int, quiet bool) {
	open := make([]token.Token, 0, 8)
	for {
		tok := p.peek()
		if tok.Kind == token.EOF {
			if len(open) > 0 && !quiet {
				first := open[0]
				p.report(diag.SynUnclosedDelimiter, diag.SevError, first.Span,
					fmt.Sprintf("unclosed '%s'", first.Text))
			}
			return
		}
		if len(open) == 0 && p.pos > start {
			if p.toks[p.pos-1].Kind == token.Semicolon || p.statementBreak(tok) {
				return
			}
		}
		p.advance()

		switch tok.Kind {
		case token.LParen, token.LBrace, token.LBracket:
			open = append(open, tok)
		case token.RParen, token.RBrace, token.RBracket:
			if len(open) == 0 {
				if !quiet {
					p.report(diag.SynUnmatchedDelimiter, diag.SevError, tok.Span,
						fmt.Sprintf("unexpected '%s'", tok.Text))
				}
				continue
			}
			top := open[len(open)-1]
			open = open[:len(open)-1]
			if closerOf(top.Kind) != tok.Kind && !quiet {
				p.report(diag.SynUnmatchedDelimiter, diag.SevError, tok.Span,
					fmt.Sprintf("expected '%s' to close '%s', got '%s'", closerOf(top.Kind), top.Text, tok.Text))
			}
		case token.Semicolon:
			if len(open) == 0 {
				return
			}
		}
	}
}

// statementBreak - ASI на переводе строки.
func (p *Parser) statementBreak(next token.Token) bool {
	if !next.NewlineBefore() {
		return false
	}
	prev := p.toks[p.pos-1]
	return prev.EndsExpression() && !next.ContinuesExpression()
}

func closerOf(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBrace:
		return token.RBrace
	case token.LBracket:
		return token.RBracket
	}
	return token.Invalid
}

// consumeSemicolon завершает import/export. ';' можно опустить перед
// переводом строки, '}' или концом файла.
func (p *Parser) consumeSemicolon(what string) bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	next := p.peek()
	if next.Kind == token.EOF || next.Kind == token.RBrace || next.NewlineBefore() {
		return true
	}
	p.err(diag.SynExpectSemicolon, fmt.Sprintf("expected ';' after %s, got %s", what, describe(next)))
	return false
}
