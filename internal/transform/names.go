package transform

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

const (
	defaultLocal  = "$__default"
	exportFn      = "$__export"
	setterParam   = "$__m"
	moduleNameVar = "__moduleName"
	useStrict     = `"use strict";`
)

// quote - строковый литерал JS. JSON-строка всегда валидный JS.
func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// строка Go всегда маршалится; сюда не попадаем
		panic(err)
	}
	return string(b)
}

// isIdentifierName: можно ли писать имя как obj.name и {name: ...}.
// Зарезервированные слова допустимы в позиции свойства.
func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '$' || r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '\u200c' || r == '\u200d'):
		default:
			return false
		}
	}
	return true
}

// member - obj.name или obj["name"].
func member(obj, name string) string {
	if isIdentifierName(name) {
		return obj + "." + name
	}
	return fmt.Sprintf("%s[%s]", obj, quote(name))
}

// propertyKey - ключ объектного литерала.
func propertyKey(name string) string {
	if isIdentifierName(name) {
		return name
	}
	return quote(name)
}

// mangle превращает имя модуля в идентификатор: $__lib_47_util__.
func mangle(name string) string {
	var sb strings.Builder
	sb.WriteString("$__")
	for _, r := range name {
		if r == '$' || r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
			continue
		}
		fmt.Fprintf(&sb, "_%d_", r)
	}
	sb.WriteString("__")
	return sb.String()
}
