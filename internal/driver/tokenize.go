package driver

import (
	"jsweave/internal/diag"
	"jsweave/internal/lexer"
	"jsweave/internal/source"
	"jsweave/internal/token"
)

// loaded - один файл с диска в собственном FileSet и sink.
type loaded struct {
	fs       *source.FileSet
	file     *source.File
	sink     *diag.Sink
	reporter diag.Reporter
}

func loadOne(path string) (*loaded, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	sink := diag.NewSink()
	return &loaded{
		fs:       fs,
		file:     fs.Get(id),
		sink:     sink,
		reporter: diag.SinkReporter{Sink: sink, Files: fs},
	}, nil
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // последний всегда EOF
	Sink    *diag.Sink
}

// Tokenize лексит файл целиком; лексические ошибки идут в Sink.
func Tokenize(path string) (*TokenizeResult, error) {
	in, err := loadOne(path)
	if err != nil {
		return nil, err
	}
	lx := lexer.New(in.file, lexer.Options{Reporter: in.reporter})
	var tokens []token.Token
	for tok := lx.Next(); ; tok = lx.Next() {
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return &TokenizeResult{FileSet: in.fs, File: in.file, Tokens: tokens, Sink: in.sink}, nil
}
