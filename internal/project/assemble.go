package project

import (
	"slices"

	"jsweave/internal/ast"
)

// assemble склеивает накопленные statement'ы в одну программу без
// собственного источника.
func assemble(items []ast.Stmt) *ast.Program {
	return &ast.Program{Goal: ast.GoalScript, Items: slices.Clone(items)}
}
