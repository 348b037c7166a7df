package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"jsweave/internal/ast"
	"jsweave/internal/diag"
	"jsweave/internal/parser"
	"jsweave/internal/source"
	"jsweave/internal/transform"
)

// CheckOptions configures CheckDir.
type CheckOptions struct {
	Jobs   int
	Script bool           // разбирать файлы как скрипты
	Mode   transform.Mode // пусто - register
}

// CheckResult содержит результат проверки одного файла
type CheckResult struct {
	Path        string // путь относительно директории, через '/'
	FileID      source.FileID
	Program     *ast.Program
	Diagnostics []diag.Diagnostic
	HadError    bool
}

// listJSFiles возвращает отсортированный список всех *.js файлов в директории
func listJSFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".js") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir разбирает и трансформирует все *.js файлы в директории
// параллельно, без разрешения зависимостей. Каждый файл получает свой sink.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	files, err := listJSFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(fileSet, dir, path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func checkFile(fileSet *source.FileSet, dir, path string, opts CheckOptions) CheckResult {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	res := CheckResult{Path: rel}

	// #nosec G304 -- path comes from walking the checked directory
	content, err := os.ReadFile(path)
	if err != nil {
		loc := &diag.Location{Path: rel}
		res.Diagnostics = []diag.Diagnostic{diag.NewError(diag.LoadFailed, loc, "failed to load file: "+err.Error())}
		res.HadError = true
		return res
	}
	res.FileID = fileSet.AddVirtual(rel, content)
	file := fileSet.Get(res.FileID)

	sink := diag.NewSink()
	reporter := diag.SinkReporter{Sink: sink, Files: fileSet}
	popts := parser.Options{Reporter: reporter}
	if opts.Script {
		res.Program = parser.ParseScript(file, popts)
	} else {
		res.Program = parser.ParseModule(file, popts)
		if !sink.HadError() {
			tr := transform.New(transform.Options{Mode: opts.Mode, Reporter: reporter})
			tr.Module(transform.Module{Name: strings.TrimSuffix(rel, ".js"), Tree: res.Program})
		}
	}

	res.Diagnostics = sink.Errors()
	res.HadError = sink.HadError()
	return res
}
