// Package project собирает набор in-memory фрагментов JavaScript в один
// файл: регистрирует юниты, по одному прогоняет их через loader,
// перехватывая исполнение, склеивает результат и печатает его.
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"jsweave/internal/diag"
	"jsweave/internal/observ"
	"jsweave/internal/source"
	"jsweave/internal/transform"
)

// Config - настройки компиляции. Project держит свою копию.
type Config struct {
	Modules      transform.Mode
	SourceMap    bool
	Script       bool   // грузить все юниты как скрипты
	ReferrerName string // пусто: имя самого юнита
	OutputName   string // "file" в source map
	Jobs         int    // параллелизм загрузки зависимостей; <= 0 - GOMAXPROCS
}

func DefaultConfig() Config {
	return Config{Modules: transform.ModeRegister, OutputName: DefaultOutputName}
}

type Result struct {
	JS        string
	Errors    []diag.Diagnostic
	SourceMap *string // nil, если карта не запрошена
	// Files - тексты загруженных юнитов, для контекста в диагностиках.
	Files *source.FileSet
}

var (
	// ErrCompileInProgress is returned when Compile overlaps with another
	// Compile on the same Project.
	ErrCompileInProgress = errors.New("compile already in progress")
)

// CompileError - первая ошибка компиляции и снимок диагностик на момент
// остановки. Остальные юниты после неё не загружаются.
type CompileError struct {
	Unit        string
	Diagnostics []diag.Diagnostic
	Files       *source.FileSet
	Err         error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Unit, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

type Option func(*Project)

func WithLogger(logger *log.Logger) Option {
	return func(p *Project) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTimer записывает фазы load, assemble и emit каждой компиляции.
func WithTimer(timer *observ.Timer) Option {
	return func(p *Project) {
		p.timer = timer
	}
}

type Project struct {
	cfg    Config
	logger *log.Logger
	timer  *observ.Timer
	reg    registrar
	busy   atomic.Bool
}

func New(cfg Config, opts ...Option) *Project {
	if cfg.Modules == "" {
		cfg.Modules = transform.ModeRegister
	}
	p := &Project{cfg: cfg, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Project) Config() Config { return p.cfg }

// AddFile registers a module unit. Пустое name - сгенерировать имя
// "{n}_anonymous.js".
func (p *Project) AddFile(content, name string) error {
	_, err := p.add(content, name, KindModule)
	return err
}

// AddScript registers a unit that is always loaded as a script.
func (p *Project) AddScript(content, name string) error {
	_, err := p.add(content, name, KindScript)
	return err
}

func (p *Project) add(content, name string, kind Kind) (string, error) {
	name, err := p.reg.add(content, name, kind)
	if err != nil {
		return "", err
	}
	p.logger.Debug("registered", "unit", name, "kind", kind)
	return name, nil
}

// Units returns the registered units in registration order.
func (p *Project) Units() []SourceUnit { return p.reg.snapshot() }

func (p *Project) Len() int { return p.reg.len() }

// Compile загружает юниты в порядке регистрации и печатает общий результат.
// Каждый вызов начинает с чистого кэша модулей и пустого sink; набор
// юнитов не меняется, так что повторный вызов даёт тот же вывод.
func (p *Project) Compile(ctx context.Context) (*Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrCompileInProgress
	}
	defer p.busy.Store(false)

	units := p.reg.snapshot()
	o := newOrchestrator(p.cfg, units, p.logger, p.timer)
	prog, err := o.run(ctx)
	if err != nil {
		return nil, &CompileError{Unit: o.failed, Diagnostics: o.sink.Errors(), Files: o.files, Err: err}
	}

	done := p.timer.Phase("emit")
	js, sourceMap := emit(prog, o.files, p.cfg, units)
	done("")

	p.logger.Debug("compiled", "units", len(units), "bytes", len(js), "diagnostics", o.sink.Len())
	return &Result{JS: js, Errors: o.sink.Errors(), SourceMap: sourceMap, Files: o.files}, nil
}
