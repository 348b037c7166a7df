package transform

import (
	"jsweave/internal/ast"
)

// ModuleEvaluationStatement - System.get по имени модуля, склеенному с
// пустой строкой: заставляет зарегистрированный модуль исполниться сразу
// при загрузке бандла.
func ModuleEvaluationStatement(name string) ast.Stmt {
	return stmt("System.get(%s + '');", quote(name))
}

// EvaluationStatement - то же для произвольного режима. false, если
// режиму такой statement не нужен (см. Mode.Eager).
func (m Mode) EvaluationStatement(name string) (ast.Stmt, bool) {
	if !m.Eager() {
		return nil, false
	}
	switch m {
	case ModeCommonJS:
		return stmt("require(%s);", quote(name)), true
	case ModeAMD:
		return stmt("require([%s]);", quote(name)), true
	}
	return ModuleEvaluationStatement(name), true
}
