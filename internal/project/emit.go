package project

import (
	"jsweave/internal/ast"
	"jsweave/internal/printer"
	"jsweave/internal/source"
	"jsweave/internal/sourcemap"
)

// DefaultOutputName - значение "file" в source map, если Config.OutputName пуст.
const DefaultOutputName = "out.js"

// emit печатает программу; при Config.SourceMap дополнительно строит
// карту, куда кладёт исходники всех юнитов в порядке регистрации.
func emit(prog *ast.Program, files *source.FileSet, cfg Config, units []SourceUnit) (js string, sourceMap *string) {
	if !cfg.SourceMap {
		return printer.Write(prog, printer.Options{}), nil
	}
	name := cfg.OutputName
	if name == "" {
		name = DefaultOutputName
	}
	gen := sourcemap.New(name)
	for _, u := range units {
		content := u.Content
		gen.AddSource(u.Name, &content)
	}
	js = printer.Write(prog, printer.Options{SourceMap: gen, Files: files})
	text := gen.String()
	return js, &text
}
