// Package convert переводит каталог ES-модулей в каталог AMD-модулей
// (формат requirejs) файл за файлом, сохраняя относительные пути.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"jsweave/internal/diag"
	"jsweave/internal/parser"
	"jsweave/internal/printer"
	"jsweave/internal/source"
	"jsweave/internal/sourcemap"
	"jsweave/internal/transform"
)

// DefaultInclude - какие файлы входного каталога конвертируются.
const DefaultInclude = "**/*.js"

type Options struct {
	Modules   transform.Mode // по умолчанию amd
	Include   []string       // doublestar, относительно in; по умолчанию DefaultInclude
	Exclude   []string
	SourceMap bool // писать рядом "<file>.map"
	Jobs      int  // <= 0 - runtime.GOMAXPROCS(0)
	Logger    *log.Logger
	// Progress зовётся после каждого файла; вызовы сериализованы.
	Progress func(done, total int, path string)
}

// FileResult - итог одного файла. Err != nil - файл не записан.
type FileResult struct {
	Path        string // относительный путь, через "/"
	Output      string // абсолютный путь результата
	Diagnostics []diag.Diagnostic
	Err         error
}

type Report struct {
	Converted int
	Failed    int
	Files     []FileResult // в порядке путей
}

var (
	// ErrConvertFailed is returned (wrapped) by Report.Err when at least one file failed.
	ErrConvertFailed = errors.New("some files failed to convert")
	// ErrNotDirectory indicates that the input path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// Err - nil, если все файлы сконвертированы.
func (r *Report) Err() error {
	if r == nil || r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", ErrConvertFailed, r.Failed, len(r.Files))
}

// Run converts every matching file under in into out. Файлы независимы:
// ошибка одного не мешает остальным и попадает в Report; error
// возвращается только для проблем с самим обходом или отмены ctx.
func Run(ctx context.Context, in, out string, opts Options) (*Report, error) {
	if opts.Modules == "" {
		opts.Modules = transform.ModeAMD
	}
	if len(opts.Include) == 0 {
		opts.Include = []string{DefaultInclude}
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	info, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", in, ErrNotDirectory)
	}

	files, err := listFiles(in, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	report := &Report{Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		logger.Info("nothing to convert", "dir", in)
		return report, nil
	}

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(files)))
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := convertFile(in, out, rel, opts)
			report.Files[i] = res
			if res.Err != nil {
				logger.Error("convert failed", "file", rel, "err", res.Err)
			} else {
				logger.Debug("converted", "file", rel, "out", res.Output)
			}
			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(files), rel)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range report.Files {
		if res.Err != nil {
			report.Failed++
		} else {
			report.Converted++
		}
	}
	logger.Info("convert finished", "converted", report.Converted, "failed", report.Failed)
	return report, nil
}

// listFiles возвращает отсортированные относительные пути ("/"-разделители).
func listFiles(root string, include, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchAny(include, rel) && !matchAny(exclude, rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

func convertFile(in, out, rel string, opts Options) FileResult {
	res := FileResult{Path: rel, Output: filepath.Join(out, filepath.FromSlash(rel))}

	content, err := os.ReadFile(filepath.Join(in, filepath.FromSlash(rel)))
	if err != nil {
		res.Err = err
		return res
	}

	files := source.NewFileSet()
	file := files.Get(files.AddVirtual(rel, content))
	sink := diag.NewSink()
	rep := &diag.CountingReporter{Next: diag.SinkReporter{Sink: sink, Files: files}}

	tree := parser.ParseModule(file, parser.Options{Reporter: rep})
	if rep.Errors == 0 {
		tr := transform.New(transform.Options{Mode: opts.Modules, Reporter: rep})
		tree = tr.Module(transform.Module{Name: strings.TrimSuffix(rel, ".js"), Tree: tree})
	}
	res.Diagnostics = sink.Errors()
	if rep.Errors > 0 {
		first, _ := sink.First()
		res.Err = first
		return res
	}

	popts := printer.Options{}
	var gen *sourcemap.Generator
	if opts.SourceMap {
		gen = sourcemap.New(filepath.Base(res.Output))
		text := string(content)
		gen.AddSource(rel, &text)
		popts = printer.Options{SourceMap: gen, Files: files}
	}
	js := printer.Write(tree, popts)
	if gen != nil {
		js += "//# sourceMappingURL=" + filepath.Base(res.Output) + ".map\n"
	}

	if err := os.MkdirAll(filepath.Dir(res.Output), 0o755); err != nil {
		res.Err = err
		return res
	}
	if err := os.WriteFile(res.Output, []byte(js), 0o644); err != nil {
		res.Err = err
		return res
	}
	if gen != nil {
		if err := os.WriteFile(res.Output+".map", []byte(gen.String()), 0o644); err != nil {
			res.Err = err
		}
	}
	return res
}
