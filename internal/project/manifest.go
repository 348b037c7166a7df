package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"jsweave/internal/transform"
)

// Имена файла проекта, которые ищет FindManifest; toml проверяется первым.
const (
	ManifestName     = "jsweave.toml"
	ManifestNameYAML = "jsweave.yaml"
)

// Manifest - разобранный jsweave.toml (или jsweave.yaml с теми же ключами).
type Manifest struct {
	Path    string // абсолютный путь к самому файлу
	Dir     string // каталог манифеста; пути [[file]] считаются от него
	Compile CompileSection
	Files   []FileEntry
}

// CompileSection - секция [compile].
type CompileSection struct {
	Modules   transform.Mode `toml:"modules"`
	SourceMap bool           `toml:"source_map"`
	Script    bool           `toml:"script"`
	Referrer  string         `toml:"referrer"`
	Output    string         `toml:"output"`
	Jobs      int            `toml:"jobs"`
}

// yamlCompile - [compile] в YAML; режим читается строкой и проверяется ParseMode.
type yamlCompile struct {
	Modules   string `yaml:"modules"`
	SourceMap bool   `yaml:"source_map"`
	Script    bool   `yaml:"script"`
	Referrer  string `yaml:"referrer"`
	Output    string `yaml:"output"`
	Jobs      int    `yaml:"jobs"`
}

// FileEntry - один [[file]]. Ровно одно из Path и Glob.
type FileEntry struct {
	Path   string `toml:"path" yaml:"path"`
	Glob   string `toml:"glob" yaml:"glob"` // doublestar, например "src/**/*.js"
	Name   string `toml:"name" yaml:"name"` // только для path; по умолчанию сам path
	Script bool   `toml:"script" yaml:"script"`
}

var (
	// ErrNoFiles indicates that the manifest has no [[file]] entries.
	ErrNoFiles = errors.New("no [[file]] entries")
	// ErrFileEntryInvalid indicates a [[file]] entry with neither or both of path and glob.
	ErrFileEntryInvalid = errors.New("[[file]] needs exactly one of path and glob")
)

type manifestFile struct {
	Compile CompileSection `toml:"compile"`
	Files   []FileEntry    `toml:"file"`
}

type yamlManifestFile struct {
	Compile yamlCompile `yaml:"compile"`
	Files   []FileEntry `yaml:"file"`
}

// LoadManifest parses a jsweave.toml; files ending in .yaml/.yml are read as YAML.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	var cfg manifestFile
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".yaml", ".yml":
		err = decodeYAML(abs, &cfg)
	default:
		err = decodeTOML(abs, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFiles)
	}
	for i, f := range cfg.Files {
		hasPath, hasGlob := strings.TrimSpace(f.Path) != "", strings.TrimSpace(f.Glob) != ""
		if hasPath == hasGlob {
			return nil, fmt.Errorf("%s: file #%d: %w", path, i+1, ErrFileEntryInvalid)
		}
		if hasGlob && f.Name != "" {
			return nil, fmt.Errorf("%s: file #%d: name cannot be set for a glob", path, i+1)
		}
		if hasGlob && !doublestar.ValidatePattern(f.Glob) {
			return nil, fmt.Errorf("%s: file #%d: invalid glob %q", path, i+1, f.Glob)
		}
	}
	return &Manifest{
		Path:    abs,
		Dir:     filepath.Dir(abs),
		Compile: cfg.Compile,
		Files:   cfg.Files,
	}, nil
}

func decodeTOML(path string, cfg *manifestFile) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if !meta.IsDefined("compile", "modules") {
		cfg.Compile.Modules = transform.ModeRegister
	}
	return nil
}

func decodeYAML(path string, cfg *manifestFile) error {
	// #nosec G304 -- manifest path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var raw yamlManifestFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	mode := transform.ModeRegister
	if raw.Compile.Modules != "" {
		if mode, err = transform.ParseMode(raw.Compile.Modules); err != nil {
			return err
		}
	}
	cfg.Compile = CompileSection{
		Modules:   mode,
		SourceMap: raw.Compile.SourceMap,
		Script:    raw.Compile.Script,
		Referrer:  raw.Compile.Referrer,
		Output:    raw.Compile.Output,
		Jobs:      raw.Compile.Jobs,
	}
	cfg.Files = raw.Files
	return nil
}

// Config переводит [compile] в Config проекта.
func (m *Manifest) Config() Config {
	cfg := DefaultConfig()
	cfg.Modules = m.Compile.Modules
	cfg.SourceMap = m.Compile.SourceMap
	cfg.Script = m.Compile.Script
	cfg.ReferrerName = m.Compile.Referrer
	if m.Compile.Output != "" {
		cfg.OutputName = m.Compile.Output
	}
	cfg.Jobs = m.Compile.Jobs
	return cfg
}

// AddTo читает файлы манифеста и регистрирует их в p в порядке [[file]];
// совпадения одного glob идут в лексикографическом порядке.
func (m *Manifest) AddTo(p *Project) error {
	for _, f := range m.Files {
		if f.Glob != "" {
			fsys := os.DirFS(m.Dir)
			matches, err := doublestar.Glob(fsys, filepath.ToSlash(f.Glob))
			if err != nil {
				return fmt.Errorf("%s: glob %q: %w", m.Path, f.Glob, err)
			}
			slices.Sort(matches)
			for _, rel := range matches {
				if info, err := fs.Stat(fsys, rel); err != nil || info.IsDir() {
					continue
				}
				if err := m.addOne(p, rel, rel, f.Script); err != nil {
					return err
				}
			}
			continue
		}
		name := f.Name
		if name == "" {
			name = filepath.ToSlash(filepath.Clean(f.Path))
		}
		if err := m.addOne(p, f.Path, name, f.Script); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manifest) addOne(p *Project, rel, name string, script bool) error {
	full := filepath.Join(m.Dir, filepath.FromSlash(rel))
	if !pathWithin(m.Dir, full) {
		return fmt.Errorf("%s: %q escapes the project directory", m.Path, rel)
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("%s: %w", m.Path, err)
	}
	if script {
		err = p.AddScript(string(content), name)
	} else {
		err = p.AddFile(string(content), name)
	}
	if err != nil {
		return fmt.Errorf("%s: %s: %w", m.Path, rel, err)
	}
	return nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
