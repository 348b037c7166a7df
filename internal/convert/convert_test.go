package convert_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"jsweave/internal/convert"
	"jsweave/internal/sourcemap"
	"jsweave/internal/transform"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestRun_MirrorsTree(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "out")
	writeTree(t, in, map[string]string{
		"test1.js":       "export var a = 1;\n",
		"lib/test2.js":   "import {a} from '../test1';\nexport var b = a + 5;\n",
		"lib/readme.txt": "not javascript",
	})
	report, err := convert.Run(context.Background(), in, out, convert.Options{Jobs: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Converted != 2 || report.Failed != 0 || report.Err() != nil {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Files[0].Path != "lib/test2.js" || report.Files[1].Path != "test1.js" {
		t.Fatalf("files not sorted: %+v", report.Files)
	}

	got := readFile(t, filepath.Join(out, "lib", "test2.js"))
	for _, want := range []string{`define(["../test1"], function($__0) {`, "var a = $__0.a;", "var b = a + 5;"} {
		if !strings.Contains(got, want) {
			t.Errorf("lib/test2.js lacks %q:\n%s", want, got)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "lib", "readme.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("non-js file should not be copied: %v", err)
	}
}

func TestRun_OneBrokenFileDoesNotStopOthers(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeTree(t, in, map[string]string{
		"a.js": "export var a = 1;\n",
		"b.js": "export var b = (1;\n",
		"c.js": "export * from './a';\n",
		"d.js": "var plain = 1;\n",
	})
	report, err := convert.Run(context.Background(), in, out, convert.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Converted != 2 || report.Failed != 2 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if !errors.Is(report.Err(), convert.ErrConvertFailed) {
		t.Fatalf("Err() = %v", report.Err())
	}
	for _, f := range report.Files {
		_, statErr := os.Stat(f.Output)
		switch f.Path {
		case "a.js", "d.js":
			if f.Err != nil || statErr != nil {
				t.Errorf("%s should be written: %v / %v", f.Path, f.Err, statErr)
			}
		case "b.js", "c.js":
			if f.Err == nil || len(f.Diagnostics) == 0 || statErr == nil {
				t.Errorf("%s should fail without output: %+v", f.Path, f)
			}
			if !strings.HasPrefix(f.Err.Error(), f.Path+":") {
				t.Errorf("%s: error should be located: %v", f.Path, f.Err)
			}
		}
	}
}

func TestRun_IncludeExclude(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeTree(t, in, map[string]string{
		"src/a.js":        "var a;\n",
		"src/vendor/v.js": "var v;\n",
		"test/t.js":       "var t;\n",
	})
	report, err := convert.Run(context.Background(), in, out, convert.Options{
		Include: []string{"src/**/*.js"},
		Exclude: []string{"**/vendor/**"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Files) != 1 || report.Files[0].Path != "src/a.js" {
		t.Fatalf("unexpected files: %+v", report.Files)
	}
}

func TestRun_ModeAndSourceMap(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeTree(t, in, map[string]string{"m.js": "export var m = 1;\n"})
	_, err := convert.Run(context.Background(), in, out, convert.Options{
		Modules:   transform.ModeCommonJS,
		SourceMap: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	js := readFile(t, filepath.Join(out, "m.js"))
	if !strings.Contains(js, "module.exports") || !strings.HasSuffix(js, "//# sourceMappingURL=m.js.map\n") {
		t.Fatalf("unexpected output:\n%s", js)
	}
	m, mappings, err := sourcemap.Decode([]byte(readFile(t, filepath.Join(out, "m.js.map"))))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.File != "m.js" || len(m.Sources) != 1 || m.Sources[0] != "m.js" || len(mappings) == 0 {
		t.Fatalf("unexpected map: %+v", m)
	}
}

func TestRun_Progress(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeTree(t, in, map[string]string{"a.js": "var a;\n", "b.js": "var b;\n", "c.js": "var c;\n"})
	var (
		mu    sync.Mutex
		calls []int
	)
	_, err := convert.Run(context.Background(), in, out, convert.Options{
		Jobs: 3,
		Progress: func(done, total int, path string) {
			mu.Lock()
			defer mu.Unlock()
			if total != 3 {
				t.Errorf("total = %d", total)
			}
			calls = append(calls, done)
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(calls) != 3 || calls[2] != 3 {
		t.Fatalf("progress calls = %v", calls)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.js")
	writeTree(t, dir, map[string]string{"f.js": "var f;\n"})
	if _, err := convert.Run(context.Background(), file, t.TempDir(), convert.Options{}); !errors.Is(err, convert.ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}
	if _, err := convert.Run(context.Background(), filepath.Join(dir, "missing"), t.TempDir(), convert.Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := convert.Run(ctx, dir, t.TempDir(), convert.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_Empty(t *testing.T) {
	report, err := convert.Run(context.Background(), t.TempDir(), t.TempDir(), convert.Options{})
	if err != nil || len(report.Files) != 0 || report.Err() != nil {
		t.Fatalf("empty dir: %+v, %v", report, err)
	}
}
