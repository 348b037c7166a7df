package project

import (
	"errors"
	"fmt"
	"strings"

	"jsweave/internal/ast"
	"jsweave/internal/loader"
	"jsweave/internal/transform"
)

var (
	// ErrFileNotFound matches *FileNotFoundError.
	ErrFileNotFound = errors.New("file not found")
)

type FileNotFoundError struct {
	Name string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: '%s'", e.Name)
}

func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// interceptHooks отдаёт движку исходники из памяти и вместо исполнения
// складывает трансформированные statement'ы в буфер.
type interceptHooks struct {
	// только чтение: Fetch и Locate зовутся параллельно
	files   map[string]string
	modules map[string]string // нормализованное имя модуля → имя юнита
	items   []ast.Stmt
}

var _ loader.Hooks = (*interceptHooks)(nil)

func newInterceptHooks(units []SourceUnit, referrer string) *interceptHooks {
	h := &interceptHooks{
		files:   make(map[string]string, len(units)),
		modules: make(map[string]string, len(units)),
	}
	for _, u := range units {
		h.files[u.Name] = u.Content
		if name := moduleName(u.Name, referrer); name != "" {
			if _, taken := h.modules[name]; !taken {
				h.modules[name] = u.Name
			}
		}
	}
	return h
}

// moduleRef - ненормализованное имя модуля юнита и referrer, против
// которого его нормализует лоадер.
func moduleRef(unit, referrer string) (name, ref string) {
	name = strings.TrimSuffix(unit, ".js")
	ref = referrer
	if ref == "" {
		ref = name
	}
	return name, ref
}

// moduleName - имя, под которым юнит грузится как модуль.
func moduleName(unit, referrer string) string {
	return transform.Normalize(moduleRef(unit, referrer))
}

func (h *interceptHooks) Fetch(name string) (string, error) {
	src, ok := h.files[name]
	if !ok {
		return "", &FileNotFoundError{Name: name}
	}
	return src, nil
}

// Locate: юнит, чьё имя нормализуется в normalized; иначе "a/b" → "a/b.js",
// если такой юнит зарегистрирован.
func (h *interceptHooks) Locate(normalized string) string {
	if name, ok := h.modules[normalized]; ok {
		return name
	}
	if _, ok := h.files[normalized+".js"]; ok {
		return normalized + ".js"
	}
	return normalized
}

func (h *interceptHooks) EvaluateCodeUnit(unit *loader.CodeUnit) error {
	if unit.Transformed == nil {
		return nil
	}
	h.items = append(h.items, unit.Transformed.Items...)
	return nil
}

// appendStmt добавляет statement от оркестратора (eager-вызов модуля).
func (h *interceptHooks) appendStmt(st ast.Stmt) {
	h.items = append(h.items, st)
}
