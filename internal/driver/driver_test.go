package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"jsweave/internal/diag"
	"jsweave/internal/token"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestTokenize(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.js": "var x = 1; // c\n"})
	res, err := Tokenize(filepath.Join(dir, "a.js"))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(res.Tokens); n == 0 || res.Tokens[n-1].Kind != token.EOF {
		t.Fatalf("tokens must end with EOF: %v", res.Tokens)
	}
	if res.Sink.HadError() {
		t.Errorf("unexpected diagnostics: %v", res.Sink.Errors())
	}
}

func TestTokenize_Missing(t *testing.T) {
	if _, err := Tokenize(filepath.Join(t.TempDir(), "nope.js")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestParse(t *testing.T) {
	dir := writeTree(t, map[string]string{"m.js": "import {a} from './b';\nexport var c = a;\n"})

	res, err := Parse(filepath.Join(dir, "m.js"), false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Sink.HadError() || len(res.Program.Items) != 2 {
		t.Fatalf("module parse: items=%d diags=%v", len(res.Program.Items), res.Sink.Errors())
	}

	res, err = Parse(filepath.Join(dir, "m.js"), true)
	if err != nil {
		t.Fatal(err)
	}
	first, ok := res.Sink.First()
	if !ok || first.Code != diag.SynModuleItemInScript {
		t.Fatalf("script parse must reject import, got %v", res.Sink.Errors())
	}
}

func TestCheckDir(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.js":     "export var a = 1;\n",
		"lib/b.js": "export var b = (1;\n",
		"lib/c.js": "export * from './a';\n",
		"notes.md": "not js\n",
	})

	_, results, err := CheckDir(context.Background(), dir, CheckOptions{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []struct {
		path     string
		hadError bool
		code     diag.Code
	}{
		{"a.js", false, 0},
		{"lib/b.js", true, diag.SynUnclosedDelimiter},
		{"lib/c.js", true, diag.TrnUnsupportedExport},
	}
	for i, w := range want {
		r := results[i]
		if r.Path != w.path || r.HadError != w.hadError {
			t.Errorf("result %d = {%s %v}, want {%s %v}", i, r.Path, r.HadError, w.path, w.hadError)
			continue
		}
		if w.hadError && r.Diagnostics[0].Code != w.code {
			t.Errorf("%s: code %s, want %s", r.Path, r.Diagnostics[0].Code.ID(), w.code.ID())
		}
		if w.hadError && r.Diagnostics[0].Location.Path != w.path {
			t.Errorf("%s: location path %q", r.Path, r.Diagnostics[0].Location.Path)
		}
	}
}

func TestCheckDir_Script(t *testing.T) {
	dir := writeTree(t, map[string]string{"s.js": "export var a = 1;\n"})
	_, results, err := CheckDir(context.Background(), dir, CheckOptions{Script: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !results[0].HadError {
		t.Fatalf("script check must fail on export: %+v", results)
	}
}

func TestCheckDir_Cancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.js": "var a;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := CheckDir(ctx, dir, CheckOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCheckDir_Empty(t *testing.T) {
	_, results, err := CheckDir(context.Background(), t.TempDir(), CheckOptions{})
	if err != nil || len(results) != 0 {
		t.Fatalf("results=%v err=%v", results, err)
	}
}
