package parser

import (
	"fmt"

	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/token"
)

// parseExport распознаёт формы:
//
//	export var|let|const a = 1, b;
//	export function f() {}      export class C {}
//	export default function () {}
//	export default <expr>;
//	export {a, b as c};
//	export {a, b as c} from "mod";
//	export * from "mod";
//	export * as ns from "mod";
func (p *Parser) parseExport() ast.Stmt {
	start := p.pos
	p.advance() // export
	tok := p.peek()

	var decl *ast.ExportDecl
	switch {
	case tok.Kind == token.Star:
		decl = p.parseExportStar()
	case tok.Kind == token.LBrace:
		decl = p.parseExportList()
	case tok.Kind == token.KwDefault:
		p.advance()
		decl = p.parseExportDefault()
	case tok.Kind == token.KwVar || tok.Kind == token.KwConst || tok.Is("let"):
		decl = p.parseExportVariables()
	case p.atFunctionOrClass():
		declStart := p.pos
		p.scanStatement(declStart, false)
		toks := p.toks[declStart:p.pos]
		name := declarationName(toks)
		if name == "" {
			p.report(diag.SynExpectIdentifier, diag.SevError, toks[0].Span,
				"exported function or class declaration requires a name")
			return &ast.Raw{Tokens: p.toks[start:p.pos]}
		}
		decl = &ast.ExportDecl{Kind: ast.ExportDeclaration, Decl: &ast.Raw{Tokens: toks}, Names: []string{name}}
	default:
		p.err(diag.SynUnexpectedToken, fmt.Sprintf("unexpected %s after 'export'", describe(tok)))
		return p.resync(start)
	}

	if decl == nil {
		return p.resync(start)
	}
	decl.Tokens = p.toks[start:p.pos]
	return decl
}

func (p *Parser) parseExportStar() *ast.ExportDecl {
	p.advance() // *
	decl := &ast.ExportDecl{Kind: ast.ExportAll}
	if p.peek().Is("as") {
		p.advance()
		name, ok := p.parseExportName()
		if !ok {
			return nil
		}
		decl.Kind = ast.ExportAllAs
		decl.Namespace = name
	}
	if !p.expectWord("from", diag.SynExpectFrom) {
		return nil
	}
	spec, ok := p.parseSpecifier()
	if !ok {
		return nil
	}
	decl.From = &spec
	p.skipAttributes()
	if !p.consumeSemicolon("export declaration") {
		return nil
	}
	return decl
}

func (p *Parser) parseExportList() *ast.ExportDecl {
	p.advance() // {
	decl := &ast.ExportDecl{Kind: ast.ExportList, Specs: make([]ast.ExportSpec, 0, 4)}
	for !p.at(token.RBrace) {
		tok := p.peek()
		local, ok := p.parseExportName()
		if !ok {
			return nil
		}
		exported := local
		if p.peek().Is("as") {
			p.advance()
			if exported, ok = p.parseExportName(); !ok {
				return nil
			}
		}
		decl.Specs = append(decl.Specs, ast.ExportSpec{Local: local, Exported: exported, Tok: tok})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close export list"); !ok {
		return nil
	}

	if p.peek().Is("from") {
		p.advance()
		spec, ok := p.parseSpecifier()
		if !ok {
			return nil
		}
		decl.Kind = ast.ExportListFrom
		decl.From = &spec
		p.skipAttributes()
	} else {
		// локальный список: экспортировать можно только свои привязки
		for _, sp := range decl.Specs {
			if !sp.Tok.IsIdent() {
				p.report(diag.SynExpectIdentifier, diag.SevError, sp.Tok.Span,
					fmt.Sprintf("'%s' is not a local binding that can be exported", sp.Tok.Text))
				return nil
			}
		}
	}
	if !p.consumeSemicolon("export declaration") {
		return nil
	}
	return decl
}

// parseExportName - имя в export-списке: любое слово или строка.
func (p *Parser) parseExportName() (string, bool) {
	tok := p.peek()
	switch {
	case tok.IsWord():
		p.advance()
		return tok.Text, true
	case tok.Kind == token.StringLit:
		s, ok := unquote(tok.Text)
		if !ok {
			p.err(diag.SynUnexpectedToken, "malformed string in export specifier")
			return "", false
		}
		p.advance()
		return s, true
	}
	p.err(diag.SynExpectIdentifier, fmt.Sprintf("expected export name, got %s", describe(tok)))
	return "", false
}

func (p *Parser) parseExportDefault() *ast.ExportDecl {
	declStart := p.pos
	if p.atFunctionOrClass() {
		p.scanStatement(declStart, false)
		toks := p.toks[declStart:p.pos]
		decl := &ast.ExportDecl{Kind: ast.ExportDefaultDeclaration, Decl: &ast.Raw{Tokens: toks}}
		if name := declarationName(toks); name != "" {
			decl.Names = []string{name}
		}
		return decl
	}

	p.scanStatement(declStart, false)
	expr := p.toks[declStart:p.pos]
	if n := len(expr); n > 0 && expr[n-1].Kind == token.Semicolon {
		expr = expr[:n-1]
	}
	if len(expr) == 0 {
		p.err(diag.SynUnexpectedToken, "expected expression after 'export default'")
		return nil
	}
	return &ast.ExportDecl{Kind: ast.ExportDefaultExpression, Expr: expr}
}

func (p *Parser) parseExportVariables() *ast.ExportDecl {
	declStart := p.pos
	p.scanStatement(declStart, false)
	toks := p.toks[declStart:p.pos]
	names := p.declaredNames(toks)
	if len(names) == 0 {
		return nil
	}
	return &ast.ExportDecl{Kind: ast.ExportDeclaration, Decl: &ast.Raw{Tokens: toks}, Names: names}
}

// declaredNames вытаскивает имена из `var a = 1, b, c = f(x, y)`.
// Деструктуризация в экспортируемых объявлениях не поддерживается.
func (p *Parser) declaredNames(toks []token.Token) []string {
	var names []string
	depth := 0
	wantName := true
	for _, t := range toks[1:] {
		if depth == 0 && wantName {
			wantName = false
			switch {
			case t.IsIdent():
				names = append(names, t.Text)
				continue
			case t.Kind == token.LBrace || t.Kind == token.LBracket:
				p.report(diag.SynUnsupportedPattern, diag.SevError, t.Span,
					"destructuring patterns are not supported in exported declarations")
				return nil
			default:
				p.report(diag.SynExpectIdentifier, diag.SevError, t.Span,
					fmt.Sprintf("expected variable name, got %s", describe(t)))
				return nil
			}
		}
		switch t.Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		case token.Comma:
			if depth == 0 {
				wantName = true
			}
		}
	}
	if wantName {
		p.report(diag.SynExpectIdentifier, diag.SevError, p.diagSpan(), "expected variable name")
		return nil
	}
	return names
}

// atFunctionOrClass: function, class или async function без перевода
// строки между async и function.
func (p *Parser) atFunctionOrClass() bool {
	tok := p.peek()
	switch {
	case tok.Kind == token.KwFunction || tok.Kind == token.KwClass:
		return true
	case tok.Is("async"):
		next := p.peekAt(1)
		return next.Kind == token.KwFunction && !next.NewlineBefore()
	}
	return false
}

// declarationName - имя из `[async] function [*] name` или `class name`.
func declarationName(toks []token.Token) string {
	i := 0
	if i < len(toks) && toks[i].Is("async") {
		i++
	}
	if i >= len(toks) {
		return ""
	}
	switch toks[i].Kind {
	case token.KwFunction:
		i++
		if i < len(toks) && toks[i].Kind == token.Star {
			i++
		}
	case token.KwClass:
		i++
	default:
		return ""
	}
	if i < len(toks) && toks[i].IsIdent() {
		return toks[i].Text
	}
	return ""
}
