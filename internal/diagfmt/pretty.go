package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jsweave/internal/diag"
	"jsweave/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке поступления:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  2 | export var x = (1;
//	    |                ^
//
// Контекст строк берётся из fs; без fs печатаются только заголовки.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range diags {
		sev := p.severity(d.Severity).Sprint(d.Severity.String())
		code := p.code.Sprint(d.Code.ID())
		msg := bareMessage(d)
		if d.Location == nil {
			fmt.Fprintf(w, "%s %s: %s\n", sev, code, msg)
			continue
		}
		loc := *d.Location
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(loc.Path, opts.PathMode, opts.BaseDir), loc.Line, loc.Col, sev, code, msg)
		if fs != nil {
			writeContext(w, fs, loc, opts.Context, p)
		}
	}
}

// bareMessage - сообщение без префикса "{location}: ".
func bareMessage(d diag.Diagnostic) string {
	if d.Location == nil {
		return d.Message
	}
	return strings.TrimPrefix(d.Message, d.Location.String()+": ")
}

func writeContext(w io.Writer, fs *source.FileSet, loc diag.Location, context int8, p palette) {
	id, ok := fs.GetLatest(loc.Path)
	if !ok {
		return
	}
	f := fs.Get(id)
	lines, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		return
	}
	last := lines + 1
	if n := len(f.Content); n > 0 && f.Content[n-1] == '\n' {
		last--
	}
	if loc.Line == 0 || loc.Line > last {
		return
	}
	ctx := uint32(max(context, 0))
	from := loc.Line - min(ctx, loc.Line-1)
	to := min(loc.Line+ctx, last)
	gutter := len(fmt.Sprint(to))

	for line := from; line <= to; line++ {
		text := f.GetLine(line)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, line), expandTabs(text))
		if line != loc.Line {
			continue
		}
		prefix := text
		if n := int(loc.Col) - 1; n >= 0 && n < len(text) {
			prefix = text[:n]
		}
		pad := runewidth.StringWidth(expandTabs(prefix))
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), p.caret.Sprint("^"))
	}
}

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}
