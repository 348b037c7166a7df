package parser

import (
	"fmt"

	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/token"
)

// parseImport распознаёт формы:
//
//	import "mod";
//	import def from "mod";
//	import * as ns from "mod";
//	import {a, b as c, "d-e" as f} from "mod";
//	import def, {a} from "mod";
//	import def, * as ns from "mod";
//
// Хвост `with {...}` (import attributes) пропускается.
func (p *Parser) parseImport() ast.Stmt {
	start := p.pos
	p.advance() // import
	decl := &ast.ImportDecl{}

	if p.at(token.StringLit) {
		spec, ok := p.parseSpecifier()
		if !ok {
			return p.resync(start)
		}
		decl.From = spec
		return p.finishImport(decl, start)
	}

	if p.peek().IsIdent() {
		name, ok := p.parseBinding()
		if !ok {
			return p.resync(start)
		}
		decl.Default = name
		if p.at(token.Comma) {
			p.advance()
			if !p.at(token.Star) && !p.at(token.LBrace) {
				p.err(diag.SynUnexpectedToken,
					fmt.Sprintf("expected '*' or '{' after default import, got %s", describe(p.peek())))
				return p.resync(start)
			}
		}
	}

	switch {
	case p.at(token.Star):
		p.advance()
		if !p.expectWord("as", diag.SynUnexpectedToken) {
			return p.resync(start)
		}
		name, ok := p.parseBinding()
		if !ok {
			return p.resync(start)
		}
		decl.Namespace = name
	case p.at(token.LBrace):
		specs, ok := p.parseImportSpecs()
		if !ok {
			return p.resync(start)
		}
		decl.Named = specs
	case decl.Default == "":
		p.err(diag.SynUnexpectedToken,
			fmt.Sprintf("expected import binding or module specifier, got %s", describe(p.peek())))
		return p.resync(start)
	}

	if !p.expectWord("from", diag.SynExpectFrom) {
		return p.resync(start)
	}
	spec, ok := p.parseSpecifier()
	if !ok {
		return p.resync(start)
	}
	decl.From = spec
	return p.finishImport(decl, start)
}

func (p *Parser) finishImport(decl *ast.ImportDecl, start int) ast.Stmt {
	p.skipAttributes()
	if !p.consumeSemicolon("import declaration") {
		return p.resync(start)
	}
	decl.Tokens = p.toks[start:p.pos]
	return decl
}

// parseImportSpecs - `{ name [as local], ... }`, висячая запятая разрешена.
func (p *Parser) parseImportSpecs() ([]ast.ImportSpec, bool) {
	p.advance() // {
	specs := make([]ast.ImportSpec, 0, 4)
	for !p.at(token.RBrace) {
		tok := p.peek()
		if !tok.IsWord() && tok.Kind != token.StringLit {
			p.err(diag.SynExpectIdentifier, fmt.Sprintf("expected imported name, got %s", describe(tok)))
			return nil, false
		}
		imported := tok.Text
		if tok.Kind == token.StringLit {
			s, ok := unquote(tok.Text)
			if !ok {
				p.err(diag.SynUnexpectedToken, "malformed string in import specifier")
				return nil, false
			}
			imported = s
		}
		p.advance()

		local := imported
		if p.peek().Is("as") {
			p.advance()
			name, ok := p.parseBinding()
			if !ok {
				return nil, false
			}
			local = name
		} else if !tok.IsIdent() {
			// `import {default}` или `import {"x"}` без as - некуда связывать
			p.report(diag.SynExpectIdentifier, diag.SevError, tok.Span,
				fmt.Sprintf("'%s' must be renamed with 'as'", tok.Text))
			return nil, false
		}
		specs = append(specs, ast.ImportSpec{Imported: imported, Local: local, Tok: tok})

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close import list"); !ok {
		return nil, false
	}
	return specs, true
}

// parseBinding ожидает идентификатор, к которому привяжется импорт.
func (p *Parser) parseBinding() (string, bool) {
	tok := p.peek()
	if !tok.IsIdent() {
		p.err(diag.SynExpectIdentifier, fmt.Sprintf("expected identifier, got %s", describe(tok)))
		return "", false
	}
	p.advance()
	return tok.Text, true
}

func (p *Parser) parseSpecifier() (ast.Specifier, bool) {
	tok := p.peek()
	if tok.Kind != token.StringLit {
		p.err(diag.SynExpectModuleSpecifier, fmt.Sprintf("expected module specifier string, got %s", describe(tok)))
		return ast.Specifier{}, false
	}
	value, ok := unquote(tok.Text)
	if !ok {
		p.err(diag.SynExpectModuleSpecifier, "malformed module specifier")
		return ast.Specifier{}, false
	}
	p.advance()
	return ast.Specifier{Value: value, Tok: tok}, true
}

// skipAttributes пропускает `with { type: "json" }` (и старое `assert`)
// на той же строке.
func (p *Parser) skipAttributes() {
	tok := p.peek()
	if tok.NewlineBefore() || (tok.Kind != token.KwWith && !tok.Is("assert")) {
		return
	}
	if p.peekAt(1).Kind != token.LBrace {
		return
	}
	p.advance()
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
		if depth == 0 {
			return
		}
	}
}
