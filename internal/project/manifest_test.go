package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"jsweave/internal/project"
	"jsweave/internal/transform"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src/test1.js"), test1)
	writeFile(t, filepath.Join(dir, "src/test2.js"), test2)
	writeFile(t, filepath.Join(dir, "boot.js"), "var boot = 1;\n")
	writeFile(t, filepath.Join(dir, project.ManifestName), `
[compile]
modules = "register"
source_map = true
output = "bundle.js"

[[file]]
glob = "src/**/*.js"

[[file]]
path = "boot.js"
name = "boot"
script = true
`)
	m, err := project.LoadManifest(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	cfg := m.Config()
	if cfg.Modules != transform.ModeRegister || !cfg.SourceMap || cfg.OutputName != "bundle.js" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	p := project.New(cfg)
	if err := m.AddTo(p); err != nil {
		t.Fatalf("AddTo: %v", err)
	}
	var names []string
	for _, u := range p.Units() {
		names = append(names, u.Name)
	}
	if want := []string{"src/test1.js", "src/test2.js", "boot"}; !slices.Equal(names, want) {
		t.Fatalf("units = %q, want %q", names, want)
	}
	if p.Units()[2].Kind != project.KindScript {
		t.Fatal("boot should be a script")
	}
	res := compile(t, p)
	assertOrder(t, res.JS, `System.register("src/test1"`, `System.register("src/test2"`, "var boot = 1;")
}

func TestLoadManifest_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, project.ManifestName), "[[file]]\npath = \"a.js\"\n")
	m, err := project.LoadManifest(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	cfg := m.Config()
	if cfg.Modules != transform.ModeRegister || cfg.OutputName != project.DefaultOutputName || cfg.SourceMap {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if m.Dir != dir {
		t.Fatalf("Dir = %q, want %q", m.Dir, dir)
	}
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		is      error
		msg     string
	}{
		{name: "no files", content: "[compile]\nmodules = \"amd\"\n", is: project.ErrNoFiles},
		{name: "path and glob", content: "[[file]]\npath = \"a.js\"\nglob = \"*.js\"\n", is: project.ErrFileEntryInvalid},
		{name: "empty entry", content: "[[file]]\nscript = true\n", is: project.ErrFileEntryInvalid},
		{name: "unknown key", content: "[compile]\nmode = \"amd\"\n[[file]]\npath = \"a.js\"\n", msg: "unknown key"},
		{name: "bad mode", content: "[compile]\nmodules = \"umd\"\n[[file]]\npath = \"a.js\"\n", msg: "unknown module mode"},
		{name: "named glob", content: "[[file]]\nglob = \"*.js\"\nname = \"x\"\n", msg: "name cannot be set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), project.ManifestName)
			writeFile(t, path, tt.content)
			_, err := project.LoadManifest(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("expected %v, got %v", tt.is, err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("expected %q in %v", tt.msg, err)
			}
		})
	}
}

func TestManifest_AddToRejectsEscapes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "outside.js"), "var x;")
	sub := filepath.Join(dir, "proj")
	writeFile(t, filepath.Join(sub, project.ManifestName), "[[file]]\npath = \"../outside.js\"\n")
	m, err := project.LoadManifest(filepath.Join(sub, project.ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if err := m.AddTo(project.New(m.Config())); err == nil || !strings.Contains(err.Error(), "escapes") {
		t.Fatalf("expected escape error, got %v", err)
	}
}

func TestFindManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, project.ManifestName), "[[file]]\npath = \"a.js\"\n")
	deep := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := project.FindManifest(deep)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(dir, project.ManifestName) {
		t.Fatalf("path = %q", path)
	}
}

func TestLoadManifest_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src/test1.js"), test1)
	writeFile(t, filepath.Join(dir, "src/test2.js"), test2)
	writeFile(t, filepath.Join(dir, project.ManifestNameYAML), `
compile:
  modules: amd
  source_map: true
file:
  - glob: "src/*.js"
`)
	m, err := project.LoadManifest(filepath.Join(dir, project.ManifestNameYAML))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	cfg := m.Config()
	if cfg.Modules != transform.ModeAMD || !cfg.SourceMap || cfg.OutputName != project.DefaultOutputName {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	p := project.New(cfg)
	if err := m.AddTo(p); err != nil {
		t.Fatalf("AddTo: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 units, got %d", p.Len())
	}
}

func TestLoadManifest_YAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		is      error
		msg     string
	}{
		{name: "empty", content: "", is: project.ErrNoFiles},
		{name: "unknown field", content: "compile:\n  mode: amd\nfile:\n  - path: a.js\n", msg: "failed to parse YAML"},
		{name: "bad mode", content: "compile:\n  modules: umd\nfile:\n  - path: a.js\n", is: transform.ErrUnknownMode},
		{name: "path and glob", content: "file:\n  - path: a.js\n    glob: \"*.js\"\n", is: project.ErrFileEntryInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "jsweave.yml")
			writeFile(t, path, tt.content)
			_, err := project.LoadManifest(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("expected %v, got %v", tt.is, err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("expected %q in %v", tt.msg, err)
			}
		})
	}
}

func TestFindManifest_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, project.ManifestNameYAML), "file:\n  - path: a.js\n")
	path, ok, err := project.FindManifest(dir)
	if err != nil || !ok || filepath.Base(path) != project.ManifestNameYAML {
		t.Fatalf("FindManifest: path=%q ok=%v err=%v", path, ok, err)
	}

	// toml рядом с yaml выигрывает.
	writeFile(t, filepath.Join(dir, project.ManifestName), "[[file]]\npath = \"a.js\"\n")
	path, _, _ = project.FindManifest(dir)
	if filepath.Base(path) != project.ManifestName {
		t.Fatalf("expected toml to win, got %q", path)
	}
}
