package loader

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/parser"
	"jsweave/internal/source"
	"jsweave/internal/transform"
)

// Hooks - точки, через которые движок получает исходники и отдаёт
// результат. Сам движок ничего не исполняет.
type Hooks interface {
	// Fetch returns the source for an exact unit name.
	Fetch(name string) (string, error)
	// Locate maps a normalized module name to the name passed to Fetch.
	Locate(name string) string
	// EvaluateCodeUnit is called once per unit, dependencies first, after
	// the unit has been transformed.
	EvaluateCodeUnit(unit *CodeUnit) error
}

type Options struct {
	Modules transform.Mode
	// Jobs ограничивает параллельный fetch+parse зависимостей;
	// <= 0 - runtime.GOMAXPROCS(0).
	Jobs   int
	Sink   *diag.Sink
	Files  *source.FileSet
	Logger *log.Logger
}

type LoadOptions struct {
	ReferrerName string
}

// Loader держит кэш модулей одной компиляции: каждый модуль читается,
// разбирается и исполняется не больше одного раза.
type Loader struct {
	hooks  Hooks
	opts   Options
	sem    *semaphore.Weighted
	logger *log.Logger

	mu    sync.Mutex
	units map[string]*CodeUnit
}

func New(hooks Hooks, opts Options) *Loader {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.Modules == "" {
		opts.Modules = transform.ModeRegister
	}
	if opts.Sink == nil {
		opts.Sink = diag.NewSink()
	}
	if opts.Files == nil {
		opts.Files = source.NewFileSet()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		hooks:  hooks,
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.Jobs)),
		logger: logger,
		units:  make(map[string]*CodeUnit),
	}
}

func (l *Loader) Sink() *diag.Sink { return l.opts.Sink }

func (l *Loader) Files() *source.FileSet { return l.opts.Files }

// Module returns a cached module unit by normalized name.
func (l *Loader) Module(name string) (*CodeUnit, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.units[name]
	return u, ok
}

// LoadModule loads the module and its transitive dependencies, then
// evaluates every not yet evaluated unit of the graph in depth-first
// post-order of import declarations.
//
// Зависимости читаются и разбираются параллельно, но диагностики,
// трансформация и вызовы EvaluateCodeUnit идут строго последовательно и
// в одном и том же порядке, так что результат от запуска к запуску не
// меняется.
func (l *Loader) LoadModule(ctx context.Context, name string, opts LoadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name = transform.Normalize(name, opts.ReferrerName)

	g, gctx := errgroup.WithContext(ctx)
	root := l.ensure(gctx, g, name, nil)
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	order := l.postOrder(root)

	for _, u := range order {
		u.flush(l.opts.Sink)
		if u.err != nil {
			return u.err
		}
	}
	for _, u := range order {
		if err := l.transformModule(u); err != nil {
			return err
		}
	}
	for _, u := range order {
		if u.evaluated {
			continue
		}
		u.evaluated = true
		l.logger.Debug("evaluate", "module", u.Name, "address", u.Address)
		if err := l.hooks.EvaluateCodeUnit(u); err != nil {
			return fmt.Errorf("evaluate %s: %w", u.Name, err)
		}
	}
	return nil
}

// LoadScript loads one script unit by exact name. Скрипты не кэшируются
// и зависимостей не имеют.
func (l *Loader) LoadScript(ctx context.Context, name string, opts LoadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u := newUnit(name, KindScript)
	u.Address = name
	src, err := l.hooks.Fetch(name)
	if err != nil {
		u.diags.ReportDiagnostic(diag.NewError(diag.LoadFileNotFound, nil,
			fmt.Sprintf("cannot load script '%s': %v", name, err)))
		u.flush(l.opts.Sink)
		return unitError(u, err)
	}
	l.parse(u, src)
	u.flush(l.opts.Sink)
	if u.err != nil {
		return u.err
	}
	u.Transformed = transform.New(transform.Options{Mode: l.opts.Modules}).Script(u.Tree)
	u.transformed, u.evaluated = true, true
	l.logger.Debug("evaluate", "script", name, "referrer", opts.ReferrerName)
	if err := l.hooks.EvaluateCodeUnit(u); err != nil {
		return fmt.Errorf("evaluate %s: %w", name, err)
	}
	return nil
}

// ensure возвращает юнит из кэша или заводит новый и запускает его
// загрузку в группе. at - место import, откуда модуль запрошен.
func (l *Loader) ensure(ctx context.Context, g *errgroup.Group, name string, at *diag.Location) *CodeUnit {
	l.mu.Lock()
	if u, ok := l.units[name]; ok {
		l.mu.Unlock()
		return u
	}
	u := newUnit(name, KindModule)
	l.units[name] = u
	l.mu.Unlock()

	g.Go(func() error {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		l.fetchModule(u, at)
		l.sem.Release(1)
		if u.err != nil {
			// провал юнита - не повод отменять соседей: какая ошибка
			// «первая», решает детерминированный обход
			return nil
		}
		for _, r := range u.requests {
			l.ensure(ctx, g, r.dep, l.locate(r.spec.Span()))
		}
		return nil
	})
	return u
}

func (l *Loader) fetchModule(u *CodeUnit, at *diag.Location) {
	u.Address = l.hooks.Locate(u.Name)
	src, err := l.hooks.Fetch(u.Address)
	if err != nil {
		u.diags.ReportDiagnostic(diag.NewError(diag.LoadFileNotFound, at,
			fmt.Sprintf("cannot load module '%s': %v", u.Name, err)))
		u.err = unitError(u, err)
		return
	}
	l.parse(u, src)
	if u.err != nil {
		return
	}
	for _, spec := range ast.ModuleRequests(u.Tree) {
		u.addRequest(spec, transform.Normalize(spec.Value, u.Name))
	}
	u.exports, u.open = ast.Exports(u.Tree)
	l.logger.Debug("parsed", "module", u.Name, "address", u.Address, "deps", strings.Join(u.Deps, ","))
}

func (l *Loader) parse(u *CodeUnit, src string) {
	u.Source = src
	u.File = l.opts.Files.Get(l.opts.Files.AddVirtual(u.Address, []byte(src)))
	rep := &diag.CountingReporter{Next: diag.SinkReporter{Sink: u.diags, Files: l.opts.Files}}
	popts := parser.Options{Reporter: rep}
	if u.Kind == KindModule {
		u.Tree = parser.ParseModule(u.File, popts)
	} else {
		u.Tree = parser.ParseScript(u.File, popts)
	}
	if rep.Errors > 0 {
		u.err = unitError(u, nil)
	}
}

func (l *Loader) transformModule(u *CodeUnit) error {
	if u.transformed {
		return nil
	}
	u.transformed = true
	deps := make(map[string]transform.Dep, len(u.requests))
	for _, r := range u.requests {
		dep := transform.Dep{Name: r.dep}
		if du, ok := l.Module(r.dep); ok && du.Tree != nil {
			dep.Exports, dep.Open, dep.Known = du.exports, du.open, true
		}
		deps[r.spec.Value] = dep
	}
	rep := &diag.CountingReporter{Next: diag.SinkReporter{Sink: u.diags, Files: l.opts.Files}}
	tr := transform.New(transform.Options{Mode: l.opts.Modules, Reporter: rep})
	u.Transformed = tr.Module(transform.Module{Name: u.Name, Tree: u.Tree, Deps: deps})
	u.flush(l.opts.Sink)
	if rep.Errors > 0 {
		u.err = unitError(u, nil)
		return u.err
	}
	return nil
}

// postOrder - обход в глубину от root по import в порядке объявления.
// Уже исполненные юниты пропускаются; ребро в модуль, который ещё на
// стеке, - цикл: предупреждаем и не идём дальше.
func (l *Loader) postOrder(root *CodeUnit) []*CodeUnit {
	var (
		order   []*CodeUnit
		visited = make(map[*CodeUnit]bool)
		onStack = make(map[*CodeUnit]bool)
	)
	var visit func(u *CodeUnit)
	visit = func(u *CodeUnit) {
		visited[u] = true
		onStack[u] = true
		for _, r := range u.requests {
			dep, ok := l.Module(r.dep)
			if !ok || dep.evaluated {
				continue
			}
			if onStack[dep] {
				u.diags.ReportDiagnostic(diag.New(diag.SevWarning, diag.LoadCycle, l.locate(r.spec.Span()),
					fmt.Sprintf("circular import: '%s' imports '%s', which is still loading", u.Name, dep.Name)))
				continue
			}
			if !visited[dep] {
				visit(dep)
			}
		}
		onStack[u] = false
		order = append(order, u)
	}
	if !root.evaluated {
		visit(root)
	}
	return order
}

func (l *Loader) locate(sp source.Span) *diag.Location {
	if sp.Synthetic() {
		return nil
	}
	path, pos := l.opts.Files.Position(sp)
	return &diag.Location{Path: path, Line: pos.Line, Col: pos.Col}
}
