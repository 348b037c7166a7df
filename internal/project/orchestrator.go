package project

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/loader"
	"jsweave/internal/observ"
	"jsweave/internal/source"
	"jsweave/internal/transform"
)

type state uint8

const (
	stateIdle state = iota
	stateLoadingUnit
	stateAssembling
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateLoadingUnit:
		return "loading"
	case stateAssembling:
		return "assembling"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// orchestrator проводит юниты через движок строго по одному и в порядке
// регистрации. Живёт ровно одну компиляцию.
type orchestrator struct {
	cfg    Config
	units  []SourceUnit
	hooks  *interceptHooks
	loader *loader.Loader
	sink   *diag.Sink
	files  *source.FileSet
	logger *log.Logger
	timer  *observ.Timer

	loadDone func(note string)
	state    state
	next     int // индекс юнита в stateLoadingUnit
	failed   string
	err      error
	program  *ast.Program
}

func newOrchestrator(cfg Config, units []SourceUnit, logger *log.Logger, timer *observ.Timer) *orchestrator {
	o := &orchestrator{
		cfg:    cfg,
		units:  units,
		hooks:  newInterceptHooks(units, cfg.ReferrerName),
		sink:   diag.NewSink(),
		files:  source.NewFileSet(),
		logger: logger,
		timer:  timer,
	}
	o.loader = loader.New(o.hooks, loader.Options{
		Modules: cfg.Modules,
		Jobs:    cfg.Jobs,
		Sink:    o.sink,
		Files:   o.files,
		Logger:  logger,
	})
	return o
}

// run крутит step до Done или Failed.
func (o *orchestrator) run(ctx context.Context) (*ast.Program, error) {
	for o.state != stateDone && o.state != stateFailed {
		o.step(ctx)
	}
	if o.state == stateFailed {
		return nil, o.err
	}
	return o.program, nil
}

func (o *orchestrator) step(ctx context.Context) {
	switch o.state {
	case stateIdle:
		o.next = 0
		o.loadDone = o.timer.Phase("load")
		o.state = stateLoadingUnit
	case stateLoadingUnit:
		if o.next >= len(o.units) {
			o.loadDone(fmt.Sprintf("%d units", len(o.units)))
			o.state = stateAssembling
			return
		}
		u := o.units[o.next]
		if err := ctx.Err(); err != nil {
			o.fail(u.Name, err)
			return
		}
		if err := o.loadUnit(ctx, u); err != nil {
			o.fail(u.Name, err)
			return
		}
		o.next++
	case stateAssembling:
		done := o.timer.Phase("assemble")
		o.program = assemble(o.hooks.items)
		done(fmt.Sprintf("%d statements", len(o.program.Items)))
		o.state = stateDone
	}
}

func (o *orchestrator) fail(unit string, err error) {
	o.logger.Debug("compile failed", "unit", unit, "err", err)
	o.failed, o.err = unit, err
	o.loadDone("failed at " + unit)
	o.state = stateFailed
}

func (o *orchestrator) loadUnit(ctx context.Context, u SourceUnit) error {
	kind := u.Kind
	if o.cfg.Script {
		kind = KindScript
	}
	if kind == KindScript {
		o.logger.Debug("load script", "unit", u.Name, "index", o.next)
		return o.loader.LoadScript(ctx, u.Name, loader.LoadOptions{ReferrerName: o.cfg.ReferrerName})
	}

	// LoadModule нормализует сам: повторная нормализация "../a" уводит
	// имя на уровень выше
	raw, referrer := moduleRef(u.Name, o.cfg.ReferrerName)
	normalized := transform.Normalize(raw, referrer)
	o.logger.Debug("load module", "unit", u.Name, "module", normalized, "index", o.next)
	if err := o.loader.LoadModule(ctx, raw, loader.LoadOptions{ReferrerName: referrer}); err != nil {
		return err
	}
	if st, ok := o.cfg.Modules.EvaluationStatement(normalized); ok {
		o.hooks.appendStmt(st)
	}
	return nil
}
