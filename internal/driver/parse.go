package driver

import (
	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/parser"
	"jsweave/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Program *ast.Program
	Sink    *diag.Sink
}

// Parse разбирает один файл как модуль или, при script, как скрипт.
func Parse(filePath string, script bool) (*ParseResult, error) {
	in, err := loadOne(filePath)
	if err != nil {
		return nil, err
	}
	parse := parser.ParseModule
	if script {
		parse = parser.ParseScript
	}
	prog := parse(in.file, parser.Options{Reporter: in.reporter})
	return &ParseResult{FileSet: in.fs, File: in.file, Program: prog, Sink: in.sink}, nil
}
