// Package sourcemap builds Source Map v3 documents.
//
// Позиции в Mapping 0-based; колонки считаются в UTF-16 code units, как
// того ждут браузеры.
package sourcemap

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
	"sync"
)

// Mapping связывает позицию в сгенерированном файле с позицией в исходнике.
type Mapping struct {
	GenLine  int
	GenCol   int
	Source   string
	OrigLine int
	OrigCol  int
}

// Map - JSON-документ source map v3.
type Map struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

type Generator struct {
	mu       sync.Mutex
	file     string
	root     string
	sources  []string
	index    map[string]int
	contents []*string
	mappings []Mapping
}

// New создаёт генератор для выходного файла file.
func New(file string) *Generator {
	return &Generator{file: file, index: make(map[string]int)}
}

func (g *Generator) SetSourceRoot(root string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.root = root
}

// AddSource регистрирует исходник (с содержимым, если оно не nil) и
// возвращает его индекс. Повторный вызов обновляет содержимое.
func (g *Generator) AddSource(name string, content *string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.sourceIndex(name)
	if content != nil {
		c := *content
		g.contents[i] = &c
	}
	return i
}

func (g *Generator) sourceIndex(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.sources)
	g.index[name] = i
	g.sources = append(g.sources, name)
	g.contents = append(g.contents, nil)
	return i
}

// AddMapping records one mapping; the source is registered on first use.
func (g *Generator) AddMapping(m Mapping) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sourceIndex(m.Source)
	g.mappings = append(g.mappings, m)
}

func (g *Generator) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.mappings)
}

func (g *Generator) Sources() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.sources)
}

// Map собирает документ. Маппинги сортируются по позиции в выходе.
func (g *Generator) Map() *Map {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := &Map{
		Version:    3,
		File:       g.file,
		SourceRoot: g.root,
		Sources:    slices.Clone(g.sources),
		Names:      []string{},
		Mappings:   g.encode(),
	}
	if out.Sources == nil {
		out.Sources = []string{}
	}
	for _, c := range g.contents {
		if c != nil {
			out.SourcesContent = slices.Clone(g.contents)
			break
		}
	}
	return out
}

func (g *Generator) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Map())
}

// String returns the JSON document.
func (g *Generator) String() string {
	b, err := g.MarshalJSON()
	if err != nil {
		// только строки и числа; ошибке взяться неоткуда
		panic(err)
	}
	return string(b)
}

func (g *Generator) encode() string {
	ms := slices.Clone(g.mappings)
	slices.SortStableFunc(ms, func(a, b Mapping) int {
		if c := cmp.Compare(a.GenLine, b.GenLine); c != 0 {
			return c
		}
		return cmp.Compare(a.GenCol, b.GenCol)
	})

	var sb strings.Builder
	var prevSource, prevOrigLine, prevOrigCol int
	line, prevGenCol := 0, 0
	first := true
	for _, m := range ms {
		for line < m.GenLine {
			sb.WriteByte(';')
			line++
			prevGenCol = 0
			first = true
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false

		src := g.index[m.Source]
		encodeVLQ(&sb, m.GenCol-prevGenCol)
		encodeVLQ(&sb, src-prevSource)
		encodeVLQ(&sb, m.OrigLine-prevOrigLine)
		encodeVLQ(&sb, m.OrigCol-prevOrigCol)
		prevGenCol, prevSource, prevOrigLine, prevOrigCol = m.GenCol, src, m.OrigLine, m.OrigCol
	}
	return sb.String()
}
