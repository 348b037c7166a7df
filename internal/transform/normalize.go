package transform

import (
	"path"
	"strings"
)

// Normalize resolves a module name against the referrer's name.
// Относительные имена (./, ../) считаются от каталога referrer; суффикс
// .js отбрасывается, ведущие "/" и "./" тоже. Голые имена ("lodash")
// только чистятся.
func Normalize(name, referrer string) string {
	name = strings.TrimSuffix(name, ".js")
	if isRelative(name) {
		dir := path.Dir(strings.TrimSuffix(referrer, ".js"))
		name = path.Join(dir, name)
	} else if name != "" {
		name = path.Clean(name)
	}
	name = strings.TrimLeft(name, "/")
	for strings.HasPrefix(name, "./") {
		name = name[2:]
	}
	if name == "." {
		return ""
	}
	return name
}

func isRelative(name string) bool {
	return name == "." || name == ".." ||
		strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../")
}
