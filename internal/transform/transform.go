package transform

import (
	"fmt"
	"slices"

	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/source"
)

type Options struct {
	Mode     Mode
	Reporter diag.Reporter
}

// Dep - то, что известно о модуле-зависимости на момент трансформации.
type Dep struct {
	Name    string   // имя, под которым зависимость регистрируется/требуется
	Exports []string // статический набор экспортов
	Open    bool     // есть export * - набор неполон
	Known   bool     // Exports заполнен, можно проверять импорты
}

// Module - вход трансформации одного модуля.
type Module struct {
	Name string
	Tree *ast.Program
	// Deps: спецификатор из исходника → зависимость. Отсутствующий
	// спецификатор используется как имя без проверок.
	Deps map[string]Dep
}

type Transformer struct {
	opts Options
}

func New(opts Options) *Transformer {
	if opts.Mode == "" {
		opts.Mode = ModeRegister
	}
	return &Transformer{opts: opts}
}

func (t *Transformer) Mode() Mode { return t.opts.Mode }

// Script - скрипты не трансформируются.
func (t *Transformer) Script(prog *ast.Program) *ast.Program {
	return &ast.Program{Path: prog.Path, Goal: ast.GoalScript, Items: slices.Clone(prog.Items)}
}

// Module lowers import/export into the configured module format. Ошибки
// уходят в Reporter; результат при ошибках не пригоден для вывода.
func (t *Transformer) Module(m Module) *ast.Program {
	out := &ast.Program{Path: m.Tree.Path, Goal: ast.GoalModule}
	if !t.opts.Mode.Lowers() {
		out.Items = slices.Clone(m.Tree.Items)
		return out
	}

	an := t.analyze(m)
	switch t.opts.Mode {
	case ModeRegister:
		out.Items = []ast.Stmt{lowerRegister(m.Name, an)}
	case ModeInline:
		out.Items = []ast.Stmt{lowerInline(m.Name, an)}
	case ModeAMD:
		out.Items = []ast.Stmt{lowerAMD(m.Name, an)}
	case ModeInstantiate:
		out.Items = []ast.Stmt{lowerInstantiate(m.Name, an)}
	case ModeCommonJS:
		out.Items = lowerCommonJS(an)
	}
	out.Goal = ast.GoalScript
	return out
}

// importBinding - одна локальная привязка из import.
type importBinding struct {
	local    string
	imported string // "" - namespace
}

type importEntry struct {
	dep      string
	bindings []importBinding
}

// exportEntry - экспортируемое имя и откуда брать значение.
type exportEntry struct {
	name  string
	local string // локальная привязка; пусто для re-export
	dep   string // re-export: имя зависимости
	from  string // re-export: имя в зависимости; "" - весь namespace
}

// piece - statement тела модуля и экспорты, которые он инициализирует.
type piece struct {
	stmt    ast.Stmt
	exports []exportEntry
}

type analysis struct {
	deps    []string // уникальные зависимости в порядке первого упоминания
	imports []importEntry
	body    []piece
	exports []exportEntry // все экспорты модуля в порядке объявления
	listed  []exportEntry // из export {...} без from: значения в конце тела
}

func (an *analysis) addDep(name string) {
	if !slices.Contains(an.deps, name) {
		an.deps = append(an.deps, name)
	}
}

func (an *analysis) depIndex(name string) int {
	return slices.Index(an.deps, name)
}

func (t *Transformer) analyze(m Module) *analysis {
	an := &analysis{}
	seen := make(map[string]source.Span)

	addExport := func(e exportEntry, sp source.Span) bool {
		if _, dup := seen[e.name]; dup {
			t.report(diag.TrnDuplicateExport, sp, fmt.Sprintf("duplicate export '%s'", e.name))
			return false
		}
		seen[e.name] = sp
		an.exports = append(an.exports, e)
		return true
	}

	for _, it := range m.Tree.Items {
		switch st := it.(type) {
		case *ast.ImportDecl:
			dep := t.resolve(m, st.From.Value)
			an.addDep(dep.Name)
			entry := importEntry{dep: dep.Name}
			if st.Default != "" {
				t.checkExported(dep, "default", st.From.Span())
				entry.bindings = append(entry.bindings, importBinding{local: st.Default, imported: "default"})
			}
			if st.Namespace != "" {
				entry.bindings = append(entry.bindings, importBinding{local: st.Namespace})
			}
			for _, spec := range st.Named {
				t.checkExported(dep, spec.Imported, spec.Tok.Span)
				entry.bindings = append(entry.bindings, importBinding{local: spec.Local, imported: spec.Imported})
			}
			an.imports = append(an.imports, entry)

		case *ast.ExportDecl:
			p := piece{}
			switch st.Kind {
			case ast.ExportDeclaration:
				p.stmt = st.Decl
				for _, name := range st.Names {
					p.exports = append(p.exports, exportEntry{name: name, local: name})
				}
			case ast.ExportDefaultDeclaration:
				if len(st.Names) == 1 {
					p.stmt = st.Decl
					p.exports = []exportEntry{{name: "default", local: st.Names[0]}}
				} else {
					p.stmt = new(gen).code("var %s = ", defaultLocal).splice(st.Decl.Tokens).code(";").stmt()
					p.exports = []exportEntry{{name: "default", local: defaultLocal}}
				}
			case ast.ExportDefaultExpression:
				p.stmt = new(gen).code("var %s = ", defaultLocal).splice(st.Expr).code(";").stmt()
				p.exports = []exportEntry{{name: "default", local: defaultLocal}}
			case ast.ExportList:
				for _, spec := range st.Specs {
					e := exportEntry{name: spec.Exported, local: spec.Local}
					if addExport(e, spec.Tok.Span) {
						an.listed = append(an.listed, e)
					}
				}
				continue
			case ast.ExportListFrom:
				dep := t.resolve(m, st.From.Value)
				an.addDep(dep.Name)
				for _, spec := range st.Specs {
					t.checkExported(dep, spec.Local, spec.Tok.Span)
					addExport(exportEntry{name: spec.Exported, dep: dep.Name, from: spec.Local}, spec.Tok.Span)
				}
				continue
			case ast.ExportAllAs:
				dep := t.resolve(m, st.From.Value)
				an.addDep(dep.Name)
				addExport(exportEntry{name: st.Namespace, dep: dep.Name}, st.Span())
				continue
			case ast.ExportAll:
				dep := t.resolve(m, st.From.Value)
				an.addDep(dep.Name)
				t.report(diag.TrnUnsupportedExport, st.Span(),
					fmt.Sprintf("'export * from \"%s\"' is not supported; list the names explicitly", st.From.Value))
				continue
			}
			for _, e := range p.exports {
				addExport(e, st.Span())
			}
			an.body = append(an.body, p)

		default:
			an.body = append(an.body, piece{stmt: it})
		}
	}
	return an
}

func (t *Transformer) resolve(m Module, spec string) Dep {
	if dep, ok := m.Deps[spec]; ok {
		if dep.Name == "" {
			dep.Name = spec
		}
		return dep
	}
	return Dep{Name: spec}
}

func (t *Transformer) checkExported(dep Dep, name string, sp source.Span) {
	if !dep.Known || dep.Open || slices.Contains(dep.Exports, name) {
		return
	}
	t.report(diag.TrnNotExported, sp, fmt.Sprintf("'%s' is not exported by '%s'", name, dep.Name))
}

func (t *Transformer) report(code diag.Code, sp source.Span, msg string) {
	if t.opts.Reporter != nil {
		t.opts.Reporter.Report(code, diag.SevError, sp, msg)
	}
}
