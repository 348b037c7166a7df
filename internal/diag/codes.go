package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - для сообщений без классификации
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexUnterminatedRegExp       Code = 1006

	// Парсерные
	SynInfo                  Code = 2000
	SynUnexpectedToken       Code = 2001
	SynUnclosedDelimiter     Code = 2002
	SynUnmatchedDelimiter    Code = 2003
	SynExpectSemicolon       Code = 2004
	SynExpectIdentifier      Code = 2102
	SynExpectModuleSpecifier Code = 2103
	SynExpectFrom            Code = 2104
	SynModuleItemInScript    Code = 2105
	SynUnsupportedPattern    Code = 2106

	// Трансформация модулей
	TrnInfo              Code = 3000
	TrnUnsupportedExport Code = 3001
	TrnNotExported       Code = 3002
	TrnDuplicateExport   Code = 3003

	// Загрузка
	LoadInfo         Code = 4000
	LoadFileNotFound Code = 4001
	LoadFailed       Code = 4002
	LoadCycle        Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Invalid numeric literal",
	LexUnterminatedTemplate:     "Unterminated template literal",
	LexUnterminatedRegExp:       "Unterminated regular expression",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynUnmatchedDelimiter:       "Unmatched closing delimiter",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectModuleSpecifier:    "Expected module specifier",
	SynExpectFrom:               "Expected 'from'",
	SynModuleItemInScript:       "Import or export in script",
	SynUnsupportedPattern:       "Unsupported binding pattern",
	TrnInfo:                     "Transform information",
	TrnUnsupportedExport:        "Unsupported export form",
	TrnNotExported:              "Binding is not exported",
	TrnDuplicateExport:          "Duplicate export",
	LoadInfo:                    "Load information",
	LoadFileNotFound:            "File not found",
	LoadFailed:                  "Load failed",
	LoadCycle:                   "Circular import",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TRN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LDR%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
