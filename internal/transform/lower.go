package transform

import (
	"fmt"
	"strings"

	"jsweave/internal/ast"
	"jsweave/internal/token"
)

// depRef - выражение, дающее объект модуля-зависимости в данном формате.
type depRef func(dep string) string

func registerRef(dep string) string { return fmt.Sprintf("System.get(%s)", quote(dep)) }
func requireRef(dep string) string  { return fmt.Sprintf("require(%s)", quote(dep)) }

func prologue(name string) []ast.Stmt {
	return []ast.Stmt{
		stmt(useStrict),
		stmt("var %s = %s;", moduleNameVar, quote(name)),
	}
}

// importStmts поднимает импорты в начало тела: var local = <dep>.name;
// sideEffect строит statement для голого `import "x"`, nil - пропустить.
func importStmts(an *analysis, ref depRef, sideEffect func(dep string) ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(an.imports))
	for _, imp := range an.imports {
		if len(imp.bindings) == 0 {
			if sideEffect != nil {
				out = append(out, sideEffect(imp.dep))
			}
			continue
		}
		for _, b := range imp.bindings {
			out = append(out, stmt("var %s = %s;", b.local, bindingValue(ref(imp.dep), b)))
		}
	}
	return out
}

func bindingValue(obj string, b importBinding) string {
	if b.imported == "" {
		return obj
	}
	return member(obj, b.imported)
}

func bodyStmts(an *analysis) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(an.body))
	for _, p := range an.body {
		out = append(out, p.stmt)
	}
	return out
}

func exportValue(e exportEntry, ref depRef) string {
	if e.dep == "" {
		return e.local
	}
	if e.from == "" {
		return ref(e.dep)
	}
	return member(ref(e.dep), e.from)
}

// returnExports - `return {get x() { return x; }};`. Геттеры сохраняют
// живую привязку: значение читается в момент обращения.
func returnExports(exports []exportEntry, ref depRef) ast.Stmt {
	if len(exports) == 0 {
		return stmt("return {};")
	}
	var sb strings.Builder
	sb.WriteString("return {")
	for i, e := range exports {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "\n  get %s() {\n    return %s;\n  }", propertyKey(e.name), exportValue(e, ref))
	}
	sb.WriteString("\n};")
	return stmt("%s", sb.String())
}

func lowerRegister(name string, an *analysis) ast.Stmt {
	body := prologue(name)
	body = append(body, importStmts(an, registerRef, func(dep string) ast.Stmt {
		return stmt("%s;", registerRef(dep))
	})...)
	body = append(body, bodyStmts(an)...)
	body = append(body, returnExports(an.exports, registerRef))
	return &ast.Block{
		Head: toks("System.register(%s, [], function() {", quote(name)),
		Body: body,
		Tail: toks("});"),
	}
}

func lowerInline(name string, an *analysis) ast.Stmt {
	body := prologue(name)
	body = append(body, importStmts(an, mangle, nil)...)
	body = append(body, bodyStmts(an)...)
	body = append(body, returnExports(an.exports, mangle))
	return &ast.Block{
		Head: toks("var %s = (function() {", mangle(name)),
		Body: body,
		Tail: toks("})();"),
	}
}

func lowerAMD(name string, an *analysis) ast.Stmt {
	ref := func(dep string) string { return fmt.Sprintf("$__%d", an.depIndex(dep)) }
	deps := make([]string, len(an.deps))
	params := make([]string, len(an.deps))
	for i, d := range an.deps {
		deps[i] = quote(d)
		params[i] = ref(d)
	}
	body := prologue(name)
	body = append(body, importStmts(an, ref, nil)...)
	body = append(body, bodyStmts(an)...)
	body = append(body, returnExports(an.exports, ref))
	return &ast.Block{
		Head: toks("define([%s], function(%s) {", strings.Join(deps, ", "), strings.Join(params, ", ")),
		Body: body,
		Tail: toks("});"),
	}
}

// lowerCommonJS не оборачивает модуль: экспорты объявляются геттерами на
// module.exports в самом начале, чтобы циклический require видел их.
func lowerCommonJS(an *analysis) []ast.Stmt {
	out := []ast.Stmt{stmt(useStrict)}
	if len(an.exports) > 0 {
		var sb strings.Builder
		sb.WriteString(`Object.defineProperty(module.exports, "__esModule", {value: true});`)
		sb.WriteString("\nObject.defineProperties(module.exports, {")
		for i, e := range an.exports {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "\n  %s: {\n    get: function() {\n      return %s;\n    },\n    enumerable: true\n  }",
				propertyKey(e.name), exportValue(e, requireRef))
		}
		sb.WriteString("\n});")
		out = append(out, splitStatements(toks("%s", sb.String()))...)
	}
	out = append(out, importStmts(an, requireRef, func(dep string) ast.Stmt {
		return stmt("%s;", requireRef(dep))
	})...)
	return append(out, bodyStmts(an)...)
}

// lowerInstantiate - формат System.register с setters/execute: привязки
// импортов объявлены снаружи и заполняются setter'ами, тело модуля
// исполняется в execute, экспорты публикуются через $__export.
func lowerInstantiate(name string, an *analysis) ast.Stmt {
	deps := make([]string, len(an.deps))
	for i, d := range an.deps {
		deps[i] = quote(d)
	}

	body := prologue(name)
	var locals []string
	for _, imp := range an.imports {
		for _, b := range imp.bindings {
			locals = append(locals, b.local)
		}
	}
	if len(locals) > 0 {
		body = append(body, stmt("var %s;", strings.Join(locals, ", ")))
	}

	exec := make([]ast.Stmt, 0, len(an.body)+len(an.listed))
	for _, p := range an.body {
		exec = append(exec, p.stmt)
		for _, e := range p.exports {
			exec = append(exec, exportCall(e.name, e.local))
		}
	}
	for _, e := range an.listed {
		exec = append(exec, exportCall(e.name, e.local))
	}

	inner := []ast.Stmt{
		stmt("setters: %s,", setters(an)),
		&ast.Block{Head: toks("execute: function() {"), Body: exec, Tail: toks("}")},
	}
	body = append(body, &ast.Block{Head: toks("return {"), Body: inner, Tail: toks("};")})

	return &ast.Block{
		Head: toks("System.register(%s, [%s], function(%s) {", quote(name), strings.Join(deps, ", "), exportFn),
		Body: body,
		Tail: toks("});"),
	}
}

func exportCall(name, value string) ast.Stmt {
	return stmt("%s(%s, %s);", exportFn, quote(name), value)
}

// setters - по функции на зависимость, в порядке списка зависимостей.
func setters(an *analysis) string {
	if len(an.deps) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i, dep := range an.deps {
		if i > 0 {
			sb.WriteString(", ")
		}
		var lines []string
		for _, imp := range an.imports {
			if imp.dep != dep {
				continue
			}
			for _, b := range imp.bindings {
				lines = append(lines, fmt.Sprintf("%s = %s;", b.local, bindingValue(setterParam, b)))
			}
		}
		for _, e := range an.exports {
			if e.dep != dep {
				continue
			}
			value := setterParam
			if e.from != "" {
				value = member(setterParam, e.from)
			}
			lines = append(lines, fmt.Sprintf("%s(%s, %s);", exportFn, quote(e.name), value))
		}
		if len(lines) == 0 {
			fmt.Fprintf(&sb, "function(%s) {}", setterParam)
			continue
		}
		fmt.Fprintf(&sb, "function(%s) {\n  %s\n}", setterParam, strings.Join(lines, "\n  "))
	}
	sb.WriteString("]")
	return sb.String()
}

// splitStatements режет сгенерированный поток по ';' верхнего уровня.
func splitStatements(ts []token.Token) []ast.Stmt {
	var out []ast.Stmt
	depth, start := 0, 0
	for i, tok := range ts {
		switch tok.Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		case token.Semicolon:
			if depth == 0 {
				out = append(out, &ast.Raw{Tokens: ts[start : i+1]})
				start = i + 1
			}
		}
	}
	if start < len(ts) {
		out = append(out, &ast.Raw{Tokens: ts[start:]})
	}
	return out
}
