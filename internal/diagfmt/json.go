package diagfmt

import (
	"encoding/json"
	"io"

	"jsweave/internal/diag"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File string `json:"file" msgpack:"file"`
	Line uint32 `json:"line" msgpack:"line"`
	Col  uint32 `json:"col" msgpack:"col"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity" msgpack:"severity"`
	Code     string        `json:"code" msgpack:"code"`
	Title    string        `json:"title" msgpack:"title"`
	Message  string        `json:"message" msgpack:"message"`
	Location *LocationJSON `json:"location,omitempty" msgpack:"location,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
	HadError    bool             `json:"had_error" msgpack:"had_error"`
}

// BuildDiagnosticsOutput формирует структуру вывода без сериализации.
// Message идёт без префикса местоположения: оно есть в Location.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, opts JSONOpts) DiagnosticsOutput {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, n)}
	for i, d := range diags {
		if d.Severity.Fails() {
			out.HadError = true
		}
		if i >= n {
			continue
		}
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  bareMessage(d),
		}
		if d.Location != nil {
			dj.Location = &LocationJSON{
				File: formatPath(d.Location.Path, opts.PathMode, opts.BaseDir),
				Line: d.Location.Line,
				Col:  d.Location.Col,
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, diags []diag.Diagnostic, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, opts))
}
