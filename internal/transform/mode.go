package transform

import (
	"errors"
	"fmt"
	"strings"
)

// Mode - во что превращаются модули.
type Mode string

const (
	// ModeRegister: System.register("name", [], function() {...}) + System.get.
	ModeRegister Mode = "register"
	// ModeInline: var $__name__ = (function() {...})();
	ModeInline Mode = "inline"
	// ModeInstantiate: System.register с setters/execute.
	ModeInstantiate Mode = "instantiate"
	ModeCommonJS    Mode = "commonjs"
	// ModeAMD: define([...], function(...) {...}), формат requirejs.
	ModeAMD Mode = "amd"
	// ModeParse: без понижения, import/export печатаются как есть.
	ModeParse Mode = "parse"
)

var ErrUnknownMode = errors.New("unknown module mode")

// Modes lists every supported mode, default first.
func Modes() []Mode {
	return []Mode{ModeRegister, ModeInline, ModeInstantiate, ModeCommonJS, ModeAMD, ModeParse}
}

// ParseMode принимает имя режима без учёта регистра; "requirejs" - синоним amd.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "requirejs" {
		return ModeAMD, nil
	}
	for _, m := range Modes() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string { return string(m) }

// UnmarshalText позволяет читать режим прямо из toml.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Lowers reports whether import/export are rewritten in this mode.
func (m Mode) Lowers() bool { return m != ModeParse }

// Eager reports whether a loaded module must be followed by an explicit
// evaluation statement in the bundle. inline и instantiate исполняются
// сами.
func (m Mode) Eager() bool {
	return m != ModeInline && m != ModeInstantiate
}
