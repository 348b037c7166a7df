package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"jsweave/internal/ast"
	"jsweave/internal/source"
)

// ItemOutput - краткое описание top-level statement.
type ItemOutput struct {
	Kind      string   `json:"kind"`
	Line      uint32   `json:"line,omitempty"`
	From      string   `json:"from,omitempty"`
	Bindings  []string `json:"bindings,omitempty"`
	Exported  []string `json:"exported,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
}

type ProgramOutput struct {
	Path     string       `json:"path"`
	Goal     string       `json:"goal"`
	Requests []string     `json:"requests"`
	Exports  []string     `json:"exports"`
	Open     bool         `json:"open_exports,omitempty"`
	Items    []ItemOutput `json:"items"`
}

// BuildProgramOutput сводит программу к import/export-структуре; тела
// остальных statement'ов не печатаются.
func BuildProgramOutput(prog *ast.Program, fs *source.FileSet) ProgramOutput {
	out := ProgramOutput{
		Path:     prog.Path,
		Goal:     prog.Goal.String(),
		Requests: []string{},
		Exports:  []string{},
		Items:    make([]ItemOutput, 0, len(prog.Items)),
	}
	for _, r := range ast.ModuleRequests(prog) {
		out.Requests = append(out.Requests, r.Value)
	}
	names, open := ast.Exports(prog)
	out.Exports = append(out.Exports, names...)
	out.Open = open

	for _, it := range prog.Items {
		item := describeItem(it)
		if sp := it.Span(); fs != nil && !sp.Synthetic() {
			start, _ := fs.Resolve(sp)
			item.Line = start.Line
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func describeItem(it ast.Stmt) ItemOutput {
	switch st := it.(type) {
	case *ast.ImportDecl:
		item := ItemOutput{Kind: "import", From: st.From.Value, Namespace: st.Namespace}
		if st.Default != "" {
			item.Bindings = append(item.Bindings, "default as "+st.Default)
		}
		for _, sp := range st.Named {
			item.Bindings = append(item.Bindings, sp.Imported+" as "+sp.Local)
		}
		return item
	case *ast.ExportDecl:
		item := ItemOutput{Kind: "export " + st.Kind.String(), Exported: st.ExportedNames()}
		if st.From != nil {
			item.From = st.From.Value
		}
		if st.Kind == ast.ExportAllAs {
			item.Namespace = st.Namespace
		}
		return item
	case *ast.Block:
		return ItemOutput{Kind: "block"}
	}
	return ItemOutput{Kind: "statement"}
}

// FormatProgramPretty печатает сводку программы построчно.
func FormatProgramPretty(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	out := BuildProgramOutput(prog, fs)
	if _, err := fmt.Fprintf(w, "%s (%s)\n", out.Path, out.Goal); err != nil {
		return err
	}
	fmt.Fprintf(w, "requests: %s\n", strings.Join(out.Requests, ", "))
	exports := strings.Join(out.Exports, ", ")
	if out.Open {
		exports += " (+ export *)"
	}
	fmt.Fprintf(w, "exports: %s\n", exports)
	for _, it := range out.Items {
		fmt.Fprintf(w, "%4d: %s", it.Line, it.Kind)
		if it.From != "" {
			fmt.Fprintf(w, " from %q", it.From)
		}
		if it.Namespace != "" {
			fmt.Fprintf(w, " ns=%s", it.Namespace)
		}
		if len(it.Bindings) > 0 {
			fmt.Fprintf(w, " {%s}", strings.Join(it.Bindings, ", "))
		}
		if len(it.Exported) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(it.Exported, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatProgramJSON выводит ту же сводку в JSON.
func FormatProgramJSON(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildProgramOutput(prog, fs))
}
