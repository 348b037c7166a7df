// Package printer turns a top-level tree back into JavaScript text.
//
// Токены печатаются с исходной раскладкой: перевод строки перед токеном
// сохраняется вместе с отступом строки, прочие trivia схлопываются в
// один пробел, комментарии не переносятся. Тела сгенерированных обёрток
// (ast.Block) получают дополнительный отступ.
package printer

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"jsweave/internal/ast"
	"jsweave/internal/source"
	"jsweave/internal/sourcemap"
	"jsweave/internal/token"
)

type Options struct {
	// SourceMap, если задан, получает маппинг для каждого исходного токена.
	SourceMap *sourcemap.Generator
	// Files нужен для перевода span в строку/колонку. Без него source map
	// не пишется.
	Files  *source.FileSet
	Indent string // по умолчанию два пробела
}

// Write prints prog. Пустая программа даёт пустую строку, иначе вывод
// заканчивается переводом строки.
func Write(prog *ast.Program, opts Options) string {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	w := &writer{opts: opts, lineStart: true}
	if prog == nil {
		return ""
	}
	for i, st := range prog.Items {
		if i > 0 {
			w.newline()
		}
		w.stmt(st)
	}
	if len(prog.Items) > 0 {
		w.newline()
	}
	return w.sb.String()
}

type writer struct {
	sb        strings.Builder
	opts      Options
	depth     int
	line      int // 0-based строка вывода
	col       int // колонка вывода в UTF-16
	lineStart bool
	extra     string // исходный отступ строки, дописывается после depth
	prev      token.Token
	hasPrev   bool
}

func (w *writer) stmt(st ast.Stmt) {
	w.hasPrev = false
	switch s := st.(type) {
	case *ast.Raw:
		w.tokens(s.Tokens)
	case *ast.ImportDecl:
		w.tokens(s.Tokens)
	case *ast.ExportDecl:
		w.tokens(s.Tokens)
	case *ast.Block:
		w.tokens(s.Head)
		w.depth++
		for _, inner := range s.Body {
			w.newline()
			w.stmt(inner)
		}
		w.depth--
		if len(s.Tail) > 0 {
			w.newline()
			w.hasPrev = false
			w.tokens(s.Tail)
		}
	}
}

func (w *writer) tokens(ts []token.Token) {
	for _, tok := range ts {
		if w.hasPrev {
			switch {
			case tok.NewlineBefore():
				w.newline()
				w.extra = lineIndent(tok.Leading)
			case tok.SpaceBefore() || needsSpace(w.prev, tok):
				w.write(" ")
			}
		}
		w.token(tok)
	}
}

func (w *writer) token(tok token.Token) {
	w.indent()
	if !tok.Synthetic() {
		w.mapToken(tok)
	}
	w.write(tok.Text)
	w.prev = tok
	w.hasPrev = true
}

func (w *writer) newline() {
	w.sb.WriteByte('\n')
	w.line++
	w.col = 0
	w.lineStart = true
	w.extra = ""
}

func (w *writer) indent() {
	if !w.lineStart {
		return
	}
	w.lineStart = false
	for range w.depth {
		w.write(w.opts.Indent)
	}
	w.write(w.extra)
}

// write дописывает текст и двигает позицию вывода. Многострочные
// токены (шаблоны) переносят строку.
func (w *writer) write(s string) {
	w.sb.WriteString(s)
	for _, r := range s {
		if r == '\n' {
			w.line++
			w.col = 0
			continue
		}
		w.col += utf16Len(r)
	}
}

func (w *writer) mapToken(tok token.Token) {
	gen, files := w.opts.SourceMap, w.opts.Files
	if gen == nil || files == nil {
		return
	}
	path, pos := files.Position(tok.Span)
	if pos.Line == 0 {
		return
	}
	lineText := files.Get(tok.Span.File).GetLine(pos.Line)
	prefix := lineText
	if n := int(pos.Col) - 1; n < len(lineText) {
		prefix = lineText[:n]
	}
	gen.AddMapping(sourcemap.Mapping{
		GenLine:  w.line,
		GenCol:   w.col,
		Source:   path,
		OrigLine: int(pos.Line) - 1,
		OrigCol:  utf16Width(prefix),
	})
}

// lineIndent - пробелы после последнего перевода строки в trivia.
func lineIndent(trivia []token.Trivia) string {
	last := -1
	for i, tr := range trivia {
		if tr.HasNewline() {
			last = i
		}
	}
	if last < 0 {
		return ""
	}
	var sb strings.Builder
	for _, tr := range trivia[last+1:] {
		if tr.Kind == token.TriviaSpace {
			sb.WriteString(tr.Text)
		}
	}
	return sb.String()
}

// needsSpace - токены, которые нельзя склеивать даже без исходного пробела:
// слово со словом, "+ +", "- -", "/ /".
func needsSpace(prev, next token.Token) bool {
	if prev.Text == "" || next.Text == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prev.Text)
	first, _ := utf8.DecodeRuneInString(next.Text)
	if isWordRune(last) && (isWordRune(first) || first == '\\') {
		return true
	}
	switch last {
	case '+', '-':
		return first == last
	case '/':
		return first == '/' || first == '*'
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '$' || r == '_' || r == '#' ||
		'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' ||
		r >= utf8.RuneSelf
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func utf16Width(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Len(r)
	}
	return n
}
