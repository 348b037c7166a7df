package diag

import (
	"fmt"
)

// Location is a resolved, human-readable source position.
type Location struct {
	Path string `json:"path" msgpack:"path"`
	Line uint32 `json:"line" msgpack:"line"`
	Col  uint32 `json:"col" msgpack:"col"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Col)
}

// Diagnostic is one reported finding. Message already carries the
// "{location}: " prefix when Location is set.
type Diagnostic struct {
	Severity Severity  `json:"severity" msgpack:"severity"`
	Code     Code      `json:"code" msgpack:"code"`
	Message  string    `json:"message" msgpack:"message"`
	Location *Location `json:"location,omitempty" msgpack:"location,omitempty"`
}

func New(sev Severity, code Code, loc *Location, msg string) Diagnostic {
	if loc != nil {
		msg = fmt.Sprintf("%s: %s", loc, msg)
	}
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Location: loc,
	}
}

func NewError(code Code, loc *Location, msg string) Diagnostic {
	return New(SevError, code, loc, msg)
}

func (d Diagnostic) Error() string {
	return d.Message
}
