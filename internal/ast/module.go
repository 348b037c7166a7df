package ast

import (
	"jsweave/internal/source"
	"jsweave/internal/token"
)

// Specifier - строка модуля в import/export ... from "x".
type Specifier struct {
	Value string // без кавычек, escape-последовательности раскрыты
	Tok   token.Token
}

func (s Specifier) Span() source.Span { return s.Tok.Span }

// ImportSpec - одна привязка из фигурных скобок: {imported as local}.
type ImportSpec struct {
	Imported string
	Local    string
	Tok      token.Token // токен imported-имени, для диагностик
}

// ImportDecl covers every static import form:
//
//	import "mod";
//	import def from "mod";
//	import * as ns from "mod";
//	import {a, b as c} from "mod";
//	import def, {a} from "mod";
//	import def, * as ns from "mod";
type ImportDecl struct {
	Default   string
	Namespace string
	Named     []ImportSpec
	From      Specifier
	Tokens    []token.Token // исходный statement целиком
}

func (s *ImportDecl) Span() source.Span { return tokensSpan(s.Tokens) }
func (*ImportDecl) stmtNode()           {}

// SideEffectOnly reports the bare `import "mod"` form.
func (s *ImportDecl) SideEffectOnly() bool {
	return s.Default == "" && s.Namespace == "" && s.Named == nil
}

type ExportKind uint8

const (
	// export var|let|const|function|class ...
	ExportDeclaration ExportKind = iota
	// export default function|class ...
	ExportDefaultDeclaration
	// export default <expr>;
	ExportDefaultExpression
	// export {a, b as c};
	ExportList
	// export {a, b as c} from "mod";
	ExportListFrom
	// export * from "mod";
	ExportAll
	// export * as ns from "mod";
	ExportAllAs
)

func (k ExportKind) String() string {
	switch k {
	case ExportDeclaration:
		return "declaration"
	case ExportDefaultDeclaration:
		return "default declaration"
	case ExportDefaultExpression:
		return "default expression"
	case ExportList:
		return "list"
	case ExportListFrom:
		return "list from"
	case ExportAll:
		return "star"
	case ExportAllAs:
		return "star as"
	}
	return "unknown"
}

// ExportSpec - {local as exported}. Для re-export local - имя в чужом модуле.
type ExportSpec struct {
	Local    string
	Exported string
	Tok      token.Token
}

type ExportDecl struct {
	Kind ExportKind
	// Decl - объявление без `export` / `export default`.
	// Заполнено для ExportDeclaration и ExportDefaultDeclaration.
	Decl *Raw
	// Names - имена, которые связывает Decl. Для default-объявления без
	// имени пусто.
	Names []string
	// Expr - выражение export default без завершающей ';'.
	Expr      []token.Token
	Specs     []ExportSpec
	Namespace string // export * as ns
	From      *Specifier
	Tokens    []token.Token
}

func (s *ExportDecl) Span() source.Span { return tokensSpan(s.Tokens) }
func (*ExportDecl) stmtNode()           {}

// ExportedNames returns the names this declaration adds to the module's
// export set. `export *` contributes nothing statically.
func (s *ExportDecl) ExportedNames() []string {
	switch s.Kind {
	case ExportDeclaration:
		return s.Names
	case ExportDefaultDeclaration, ExportDefaultExpression:
		return []string{"default"}
	case ExportList, ExportListFrom:
		out := make([]string, 0, len(s.Specs))
		for _, sp := range s.Specs {
			out = append(out, sp.Exported)
		}
		return out
	case ExportAllAs:
		return []string{s.Namespace}
	}
	return nil
}

// ModuleRequests lists module specifiers in source order, duplicates included.
func ModuleRequests(prog *Program) []Specifier {
	if prog == nil {
		return nil
	}
	var out []Specifier
	for _, it := range prog.Items {
		switch st := it.(type) {
		case *ImportDecl:
			out = append(out, st.From)
		case *ExportDecl:
			if st.From != nil {
				out = append(out, *st.From)
			}
		}
	}
	return out
}

// Exports собирает статически известный набор экспортов модуля.
// Второе значение - true, если есть `export *` и набор неполон.
func Exports(prog *Program) (names []string, open bool) {
	if prog == nil {
		return nil, false
	}
	for _, it := range prog.Items {
		ex, ok := it.(*ExportDecl)
		if !ok {
			continue
		}
		if ex.Kind == ExportAll {
			open = true
			continue
		}
		names = append(names, ex.ExportedNames()...)
	}
	return names, open
}
