// Package diag defines the diagnostic model shared by every pipeline phase.
//
// Phases (lexer, parser, transformer, loader) report through the Reporter
// interface using source spans. SinkReporter resolves spans to a Location
// and appends to a Sink, the ordered, append-only collection returned to
// callers of a compile.
//
// A Diagnostic message is stored already formatted: "{location}: {message}"
// when a location is known, the bare message otherwise.
//
// Package diag does not perform any rendering or IO; see internal/diagfmt.
package diag
