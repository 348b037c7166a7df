package diag

import (
	"slices"
	"sync"
)

// Sink - append-only накопитель диагностик в порядке поступления.
// Безопасен для конкурентных Report: лоадер парсит зависимости параллельно.
type Sink struct {
	mu       sync.Mutex
	items    []Diagnostic
	hadError bool
}

func NewSink() *Sink {
	return &Sink{items: make([]Diagnostic, 0, 8)}
}

// Report records an error formatted as "{loc}: {msg}", or the bare msg
// when loc is nil.
func (s *Sink) Report(loc *Location, msg string) {
	s.ReportDiagnostic(NewError(UnknownCode, loc, msg))
}

// ReportDiagnostic appends a prepared diagnostic.
func (s *Sink) ReportDiagnostic(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, d)
	if d.Severity.Fails() {
		s.hadError = true
	}
}

// Errors returns a snapshot in arrival order.
func (s *Sink) Errors() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return []Diagnostic{}
	}
	return slices.Clone(s.items)
}

// HadDiagnostics reports whether anything was recorded since the last
// Clear, warnings included.
func (s *Sink) HadDiagnostics() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) > 0
}

// HadError reports whether a diagnostic of failing severity was recorded.
func (s *Sink) HadError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hadError
}

func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear empties the sink and resets HadError, for reuse across
// independent compile attempts.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items[:0]
	s.hadError = false
}

// First returns the first error-severity diagnostic, if any.
func (s *Sink) First() (Diagnostic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.items {
		if d.Severity.Fails() {
			return d, true
		}
	}
	return Diagnostic{}, false
}
