package sourcemap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decode parses a v3 document and expands its mappings.
func Decode(data []byte) (*Map, []Mapping, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("decode source map: %w", err)
	}
	if m.Version != 3 {
		return nil, nil, fmt.Errorf("decode source map: unsupported version %d", m.Version)
	}
	ms, err := decodeMappings(m.Mappings, m.Sources)
	if err != nil {
		return nil, nil, err
	}
	return &m, ms, nil
}

func decodeMappings(s string, sources []string) ([]Mapping, error) {
	var (
		out                    []Mapping
		src, origLine, origCol int
		fields                 [5]int
	)
	for lineNo, line := range strings.Split(s, ";") {
		genCol := 0
		if line == "" {
			continue
		}
		for _, seg := range strings.Split(line, ",") {
			n := 0
			for rest := seg; rest != ""; n++ {
				if n == len(fields) {
					return nil, fmt.Errorf("%w: too many fields in %q", ErrBadVLQ, seg)
				}
				v, tail, err := decodeVLQ(rest)
				if err != nil {
					return nil, fmt.Errorf("%w: %q", err, seg)
				}
				fields[n], rest = v, tail
			}
			if n != 1 && n != 4 && n != 5 {
				return nil, fmt.Errorf("%w: %d fields in %q", ErrBadVLQ, n, seg)
			}
			genCol += fields[0]
			if n == 1 {
				continue
			}
			src += fields[1]
			origLine += fields[2]
			origCol += fields[3]
			if src < 0 || src >= len(sources) {
				return nil, fmt.Errorf("%w: source index %d out of range", ErrBadVLQ, src)
			}
			out = append(out, Mapping{
				GenLine:  lineNo,
				GenCol:   genCol,
				Source:   sources[src],
				OrigLine: origLine,
				OrigCol:  origCol,
			})
		}
	}
	return out, nil
}
