package diagfmt

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"jsweave/internal/diag"
)

// Msgpack пишет ту же структуру, что и JSON, в msgpack: для инструментов,
// которые читают результат компиляции из пайпа.
func Msgpack(w io.Writer, diags []diag.Diagnostic, opts JSONOpts) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(BuildDiagnosticsOutput(diags, opts))
}

// DecodeMsgpack читает вывод Msgpack обратно.
func DecodeMsgpack(r io.Reader) (DiagnosticsOutput, error) {
	var out DiagnosticsOutput
	err := msgpack.NewDecoder(r).Decode(&out)
	return out, err
}
