package loader

import (
	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/source"
)

type Kind uint8

const (
	KindScript Kind = iota
	KindModule
)

func (k Kind) String() string {
	if k == KindModule {
		return "module"
	}
	return "script"
}

// CodeUnit - один загруженный файл на пути fetch → parse → transform → evaluate.
type CodeUnit struct {
	Name    string // нормализованное имя модуля; для скрипта - имя как есть
	Address string // имя, под которым файл получен через Hooks.Fetch
	Kind    Kind
	Source  string
	File    *source.File

	Tree        *ast.Program // после парсинга
	Transformed *ast.Program // после трансформации; его и забирают хуки

	// Deps - нормализованные имена зависимостей без повторов, в порядке
	// первого упоминания.
	Deps []string

	requests []request
	exports  []string
	open     bool // есть export *

	diags   *diag.Sink // свои диагностики; в общий sink попадают в детерминированном порядке
	flushed int
	err     error

	transformed bool
	evaluated   bool
}

// request - один спецификатор из import/export ... from.
type request struct {
	spec ast.Specifier
	dep  string
}

func newUnit(name string, kind Kind) *CodeUnit {
	return &CodeUnit{Name: name, Kind: kind, diags: diag.NewSink()}
}

// Err returns the unit's load failure, if any.
func (u *CodeUnit) Err() error { return u.err }

func (u *CodeUnit) addRequest(spec ast.Specifier, dep string) {
	u.requests = append(u.requests, request{spec: spec, dep: dep})
	for _, d := range u.Deps {
		if d == dep {
			return
		}
	}
	u.Deps = append(u.Deps, dep)
}

// flush переносит ещё не отданные диагностики юнита в общий sink.
func (u *CodeUnit) flush(into *diag.Sink) {
	items := u.diags.Errors()
	for _, d := range items[u.flushed:] {
		into.ReportDiagnostic(d)
	}
	u.flushed = len(items)
}
