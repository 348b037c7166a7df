package diag

import "jsweave/internal/source"

// Reporter - минимальный контракт получения диагностик от фаз.
// Фазы сообщают span, а перевод в Location делает адаптер.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string)
}

// SinkReporter адаптирует Sink для лексера/парсера/трансформера.
type SinkReporter struct {
	Sink  *Sink
	Files *source.FileSet
}

func (r SinkReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if r.Sink == nil {
		return
	}
	r.Sink.ReportDiagnostic(New(sev, code, r.locate(primary), msg))
}

func (r SinkReporter) locate(sp source.Span) *Location {
	if r.Files == nil || sp.Synthetic() {
		return nil
	}
	path, pos := r.Files.Position(sp)
	return &Location{Path: path, Line: pos.Line, Col: pos.Col}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string) {}

// CountingReporter forwards to Next and counts errors; phases use it to
// decide whether their own output is usable.
type CountingReporter struct {
	Next   Reporter
	Errors int
}

func (r *CountingReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if sev >= SevError {
		r.Errors++
	}
	if r.Next != nil {
		r.Next.Report(code, sev, primary, msg)
	}
}
