package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token (including contextual keywords).
	Ident

	KwBreak      // break
	KwCase       // case
	KwCatch      // catch
	KwClass      // class
	KwConst      // const
	KwContinue   // continue
	KwDebugger   // debugger
	KwDefault    // default
	KwDelete     // delete
	KwDo         // do
	KwElse       // else
	KwExport     // export
	KwExtends    // extends
	KwFinally    // finally
	KwFor        // for
	KwFunction   // function
	KwIf         // if
	KwImport     // import
	KwIn         // in
	KwInstanceof // instanceof
	KwNew        // new
	KwReturn     // return
	KwSuper      // super
	KwSwitch     // switch
	KwThis       // this
	KwThrow      // throw
	KwTry        // try
	KwTypeof     // typeof
	KwVar        // var
	KwVoid       // void
	KwWhile      // while
	KwWith       // with
	KwYield      // yield
	KwNull       // null
	KwTrue       // true
	KwFalse      // false

	// NumberLit represents a numeric literal (including bigint suffix).
	NumberLit
	// StringLit represents a single- or double-quoted string.
	StringLit
	// TemplateLit represents a whole template literal, substitutions included.
	TemplateLit
	// RegExpLit represents a regular expression literal with flags.
	RegExpLit

	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
	Semicolon   // ;
	Comma       // ,
	Dot         // .
	Ellipsis    // ...
	Colon       // :
	Question    // ?
	QuestionDot // ?.
	Arrow       // =>
	Assign      // =
	Star        // *
	// Operator covers every other punctuator; Text holds the spelling.
	Operator
)

var kindNames = map[Kind]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	NumberLit:   "NumberLit",
	StringLit:   "StringLit",
	TemplateLit: "TemplateLit",
	RegExpLit:   "RegExpLit",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	Ellipsis:    "...",
	Colon:       ":",
	Question:    "?",
	QuestionDot: "?.",
	Arrow:       "=>",
	Assign:      "=",
	Star:        "*",
	Operator:    "Operator",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k.IsKeyword() {
		return keywordSpelling[k]
	}
	return "Unknown"
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwBreak && k <= KwFalse
}
