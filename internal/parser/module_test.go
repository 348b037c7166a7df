package parser

// Тесты для import/export деклараций.
//
// Покрытие:
//   - все формы import, включая default + namespace и строковые имена
//   - все формы export, имена объявлений, default без имени
//   - ModuleRequests / Exports поверх результата
//   - ошибки: нет from, нет строки, деструктуризация, мусор после export

import (
	"slices"
	"testing"

	"jsweave/internal/ast"
	"jsweave/internal/diag"
)

func parseSingle(t *testing.T, input string) (ast.Stmt, *diag.Sink) {
	t.Helper()
	prog, sink := parseString(t, input, ast.GoalModule)
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (diags: %s)", len(prog.Items), diagnosticsSummary(sink))
	}
	return prog.Items[0], sink
}

func TestParseImport_Forms(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		from      string
		def       string
		namespace string
		named     []ast.ImportSpec
	}{
		{name: "side effect", input: `import "./x";`, from: "./x"},
		{name: "default", input: `import a from "./x"`, from: "./x", def: "a"},
		{name: "namespace", input: `import * as ns from './x';`, from: "./x", namespace: "ns"},
		{
			name: "named", input: `import {a, b as c,} from "./x";`, from: "./x",
			named: []ast.ImportSpec{{Imported: "a", Local: "a"}, {Imported: "b", Local: "c"}},
		},
		{
			name: "default and named", input: `import d, {default as e} from "lib"`, from: "lib", def: "d",
			named: []ast.ImportSpec{{Imported: "default", Local: "e"}},
		},
		{name: "default and namespace", input: `import d, * as ns from "lib";`, from: "lib", def: "d", namespace: "ns"},
		{
			name: "string name", input: `import {"a-b" as ab} from "./x";`, from: "./x",
			named: []ast.ImportSpec{{Imported: "a-b", Local: "ab"}},
		},
		{name: "from as binding", input: `import from from "./from";`, from: "./from", def: "from"},
		{name: "attributes", input: `import cfg from "./c.json" with { type: "json" };`, from: "./c.json", def: "cfg"},
		{name: "empty braces", input: `import {} from "./x";`, from: "./x", named: []ast.ImportSpec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, sink := parseSingle(t, tt.input)
			if sink.HadError() {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(sink))
			}
			imp, ok := st.(*ast.ImportDecl)
			if !ok {
				t.Fatalf("expected *ast.ImportDecl, got %T", st)
			}
			if imp.From.Value != tt.from {
				t.Errorf("from = %q, want %q", imp.From.Value, tt.from)
			}
			if imp.Default != tt.def {
				t.Errorf("default = %q, want %q", imp.Default, tt.def)
			}
			if imp.Namespace != tt.namespace {
				t.Errorf("namespace = %q, want %q", imp.Namespace, tt.namespace)
			}
			if len(imp.Named) != len(tt.named) {
				t.Fatalf("named = %+v, want %+v", imp.Named, tt.named)
			}
			for i, want := range tt.named {
				got := imp.Named[i]
				if got.Imported != want.Imported || got.Local != want.Local {
					t.Errorf("named[%d] = %s as %s, want %s as %s", i, got.Imported, got.Local, want.Imported, want.Local)
				}
			}
			if len(imp.Tokens) == 0 || imp.Tokens[0].Text != "import" {
				t.Errorf("Tokens should start with 'import'")
			}
		})
	}
}

func TestParseImport_SideEffectOnly(t *testing.T) {
	st, _ := parseSingle(t, `import "./x";`)
	if !st.(*ast.ImportDecl).SideEffectOnly() {
		t.Fatal("bare import should be side-effect only")
	}
	st, _ = parseSingle(t, `import {} from "./x";`)
	if st.(*ast.ImportDecl).SideEffectOnly() {
		t.Fatal("empty braces still form a named import")
	}
}

func TestParseImport_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"missing from", `import a "./x";`, diag.SynExpectFrom},
		{"missing specifier", `import a from b;`, diag.SynExpectModuleSpecifier},
		{"namespace without as", `import * from "./x";`, diag.SynUnexpectedToken},
		{"keyword binding", `import {default} from "./x";`, diag.SynExpectIdentifier},
		{"unclosed list", `import {a from "./x";`, diag.SynUnclosedDelimiter},
		{"missing semicolon", `import a from "./x" foo`, diag.SynExpectSemicolon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, sink := parseString(t, tt.input, ast.GoalModule)
			first, ok := sink.First()
			if !ok || first.Code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code.ID(), diagnosticsSummary(sink))
			}
			if len(prog.Items) == 0 {
				t.Fatal("broken import should still be kept as a raw statement")
			}
			if _, ok := prog.Items[0].(*ast.Raw); !ok {
				t.Fatalf("expected *ast.Raw after error, got %T", prog.Items[0])
			}
		})
	}
}

func TestParseExport_Forms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ast.ExportKind
		names    []string
		exported []string
		from     string
	}{
		{name: "var", input: "export var a = 1, b = f(1, 2), c;", kind: ast.ExportDeclaration,
			names: []string{"a", "b", "c"}, exported: []string{"a", "b", "c"}},
		{name: "let", input: "export let x = {k: [1, 2]}", kind: ast.ExportDeclaration,
			names: []string{"x"}, exported: []string{"x"}},
		{name: "const", input: "export const y = 2;", kind: ast.ExportDeclaration,
			names: []string{"y"}, exported: []string{"y"}},
		{name: "function", input: "export function f(a, b) { return a + b; }", kind: ast.ExportDeclaration,
			names: []string{"f"}, exported: []string{"f"}},
		{name: "async generator", input: "export async function* gen() {}", kind: ast.ExportDeclaration,
			names: []string{"gen"}, exported: []string{"gen"}},
		{name: "class", input: "export class C extends B {}", kind: ast.ExportDeclaration,
			names: []string{"C"}, exported: []string{"C"}},
		{name: "default named function", input: "export default function main() {}", kind: ast.ExportDefaultDeclaration,
			names: []string{"main"}, exported: []string{"default"}},
		{name: "default anonymous class", input: "export default class {}", kind: ast.ExportDefaultDeclaration,
			exported: []string{"default"}},
		{name: "default expression", input: "export default a + 1;", kind: ast.ExportDefaultExpression,
			exported: []string{"default"}},
		{name: "list", input: "export {a, b as c};", kind: ast.ExportList, exported: []string{"a", "c"}},
		{name: "list from", input: `export {default, x as "y-z"} from "./m";`, kind: ast.ExportListFrom,
			exported: []string{"default", "y-z"}, from: "./m"},
		{name: "star", input: `export * from "./m";`, kind: ast.ExportAll, from: "./m"},
		{name: "star as", input: `export * as ns from "./m"`, kind: ast.ExportAllAs, exported: []string{"ns"}, from: "./m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, sink := parseSingle(t, tt.input)
			if sink.HadError() {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(sink))
			}
			ex, ok := st.(*ast.ExportDecl)
			if !ok {
				t.Fatalf("expected *ast.ExportDecl, got %T", st)
			}
			if ex.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", ex.Kind, tt.kind)
			}
			if !slices.Equal(ex.Names, tt.names) {
				t.Errorf("names = %q, want %q", ex.Names, tt.names)
			}
			if got := ex.ExportedNames(); !slices.Equal(got, tt.exported) {
				t.Errorf("exported = %q, want %q", got, tt.exported)
			}
			if tt.from != "" && (ex.From == nil || ex.From.Value != tt.from) {
				t.Errorf("from = %+v, want %q", ex.From, tt.from)
			}
		})
	}
}

func TestParseExport_DefaultExpressionDropsSemicolon(t *testing.T) {
	st, _ := parseSingle(t, "export default {a: 1};")
	ex := st.(*ast.ExportDecl)
	if last := ex.Expr[len(ex.Expr)-1]; last.Text != "}" {
		t.Fatalf("expression should end at '}', got %q", last.Text)
	}
	if first := ex.Tokens[0]; first.Text != "export" {
		t.Fatalf("Tokens should keep 'export', got %q", first.Text)
	}
}

func TestParseExport_DeclarationTokens(t *testing.T) {
	st, _ := parseSingle(t, "export var b = a + 5;")
	ex := st.(*ast.ExportDecl)
	if ex.Decl == nil || ex.Decl.Tokens[0].Text != "var" {
		t.Fatalf("Decl should start at 'var'")
	}
	if n := len(ex.Decl.Tokens); ex.Decl.Tokens[n-1].Text != ";" {
		t.Fatalf("Decl should keep the semicolon")
	}
}

func TestParseExport_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"object pattern", "export const {a, b} = obj;", diag.SynUnsupportedPattern},
		{"array pattern", "export let [x] = arr;", diag.SynUnsupportedPattern},
		{"anonymous function", "export function () {}", diag.SynExpectIdentifier},
		{"garbage", "export 42;", diag.SynUnexpectedToken},
		{"star without from", `export * "./m";`, diag.SynExpectFrom},
		{"local string", `export {"a"};`, diag.SynExpectIdentifier},
		{"empty default", "export default;", diag.SynUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sink := parseString(t, tt.input, ast.GoalModule)
			first, ok := sink.First()
			if !ok || first.Code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code.ID(), diagnosticsSummary(sink))
			}
		})
	}
}

func TestModuleRequestsAndExports(t *testing.T) {
	src := `import {a} from "./test1";
import "./side";
export * from "./all";
export {x} from "./re";
export var b = a + 5;
export default b;
`
	prog, sink := parseString(t, src, ast.GoalModule)
	if sink.HadError() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(sink))
	}
	var reqs []string
	for _, r := range ast.ModuleRequests(prog) {
		reqs = append(reqs, r.Value)
	}
	if want := []string{"./test1", "./side", "./all", "./re"}; !slices.Equal(reqs, want) {
		t.Fatalf("requests = %q, want %q", reqs, want)
	}
	names, open := ast.Exports(prog)
	if want := []string{"x", "b", "default"}; !slices.Equal(names, want) {
		t.Fatalf("exports = %q, want %q", names, want)
	}
	if !open {
		t.Fatal("export * should make the export set open")
	}
}

func TestExportThenStatementOnNextLine(t *testing.T) {
	prog, sink := parseString(t, "export function f() {}\nexport const x = 1\nf()\n", ast.GoalModule)
	if sink.HadError() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(sink))
	}
	if len(prog.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(prog.Items))
	}
	if _, ok := prog.Items[2].(*ast.Raw); !ok {
		t.Fatalf("third item should be raw, got %T", prog.Items[2])
	}
}
