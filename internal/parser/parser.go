package parser

import (
	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/lexer"
	"jsweave/internal/source"
	"jsweave/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

// Parser - состояние парсера на один файл.
// Лексер отрабатывает целиком заранее: top-level разбору нужен
// произвольный lookahead (import( vs import x, async function).
type Parser struct {
	file     *source.File
	toks     []token.Token // всегда заканчивается EOF
	pos      int
	goal     ast.Goal
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
}

// ParseModule разбирает файл как ES-модуль.
func ParseModule(file *source.File, opts Options) *ast.Program {
	return parseFile(file, ast.GoalModule, opts)
}

// ParseScript разбирает файл как классический скрипт: import/export
// на верхнем уровне там - ошибка.
func ParseScript(file *source.File, opts Options) *ast.Program {
	return parseFile(file, ast.GoalScript, opts)
}

func parseFile(file *source.File, goal ast.Goal, opts Options) *ast.Program {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	p := &Parser{
		file:     file,
		toks:     lx.All(),
		goal:     goal,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	return &ast.Program{
		Path:  file.Path,
		Goal:  goal,
		Items: p.parseItems(),
	}
}

// parseItems - основной цикл верхнего уровня: пока не EOF - parseItem.
func (p *Parser) parseItems() []ast.Stmt {
	items := make([]ast.Stmt, 0, 16)
	for !p.at(token.EOF) {
		start := p.pos
		if st := p.parseItem(); st != nil {
			items = append(items, st)
		}
		if p.pos == start {
			// не должно случаться, но зацикливаться нельзя
			p.advance()
		}
	}
	return items
}

// parseItem выбирает распознаватель по первому токену statement.
func (p *Parser) parseItem() ast.Stmt {
	start := p.pos
	tok := p.peek()
	switch tok.Kind {
	case token.KwImport:
		// import(...) и import.meta - обычные выражения
		if next := p.peekAt(1); next.Kind == token.LParen || next.Kind == token.Dot {
			return p.rawStatement(start)
		}
		if p.goal == ast.GoalScript {
			p.report(diag.SynModuleItemInScript, diag.SevError, tok.Span,
				"import declarations may only appear at top level of a module")
			return p.rawStatement(start)
		}
		return p.parseImport()
	case token.KwExport:
		if p.goal == ast.GoalScript {
			p.report(diag.SynModuleItemInScript, diag.SevError, tok.Span,
				"export declarations may only appear at top level of a module")
			return p.rawStatement(start)
		}
		return p.parseExport()
	default:
		return p.rawStatement(start)
	}
}

func (p *Parser) rawStatement(start int) *ast.Raw {
	p.scanStatement(start, false)
	return &ast.Raw{Tokens: p.toks[start:p.pos]}
}

// resync дочитывает сломанный statement до конца и отдаёт его как Raw,
// чтобы остальной файл разбирался дальше.
func (p *Parser) resync(start int) *ast.Raw {
	p.scanStatement(start, true)
	return &ast.Raw{Tokens: p.toks[start:p.pos]}
}
