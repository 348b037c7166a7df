package ast

import (
	"jsweave/internal/source"
	"jsweave/internal/token"
)

// Goal - цель разбора: скрипт или модуль.
type Goal uint8

const (
	GoalScript Goal = iota
	GoalModule
)

func (g Goal) String() string {
	if g == GoalModule {
		return "module"
	}
	return "script"
}

// Stmt - top-level statement. Внутрь функций и блоков мы не заглядываем:
// всё, что не import/export, хранится как поток токенов.
type Stmt interface {
	Span() source.Span
	stmtNode()
}

// Program - корень дерева одного code unit.
type Program struct {
	Path  string
	Goal  Goal
	Items []Stmt
}

// Raw - statement, который печатается как есть.
type Raw struct {
	Tokens []token.Token
}

func (s *Raw) Span() source.Span { return tokensSpan(s.Tokens) }
func (*Raw) stmtNode()           {}

// Block - сгенерированная обёртка: Head, затем тело с отступом, затем Tail.
// Используется для System.register(...), IIFE, define(...).
type Block struct {
	Head []token.Token
	Body []Stmt
	Tail []token.Token
}

func (s *Block) Span() source.Span {
	sp := source.Span{File: source.NoFile}
	for _, st := range s.Body {
		if inner := st.Span(); !inner.Synthetic() {
			if sp.Synthetic() {
				sp = inner
				continue
			}
			sp = sp.Cover(inner)
		}
	}
	return sp
}
func (*Block) stmtNode() {}

func tokensSpan(toks []token.Token) source.Span {
	sp := source.Span{File: source.NoFile}
	for _, t := range toks {
		if t.Synthetic() {
			continue
		}
		if sp.Synthetic() {
			sp = t.Span
			continue
		}
		sp = sp.Cover(t.Span)
	}
	return sp
}
