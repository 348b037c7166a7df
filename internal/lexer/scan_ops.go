package lexer

import (
	"jsweave/internal/diag"
	"jsweave/internal/token"
)

// Жадность: сначала длинные операторы, затем короткие.
var operators = [][]string{
	{">>>="},
	{"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??="},
	{"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>"},
}

var punctKinds = map[string]token.Kind{
	"...": token.Ellipsis,
	"=>":  token.Arrow,
	"?.":  token.QuestionDot,
	"(":   token.LParen,
	")":   token.RParen,
	"{":   token.LBrace,
	"}":   token.RBrace,
	"[":   token.LBracket,
	"]":   token.RBracket,
	";":   token.Semicolon,
	",":   token.Comma,
	".":   token.Dot,
	":":   token.Colon,
	"?":   token.Question,
	"=":   token.Assign,
	"*":   token.Star,
}

const singleOps = "(){}[];,.:?=*+-/%<>&|^!~@"

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, group := range operators {
		for _, op := range group {
			// a?.5:b - это тернарный оператор, а не ?.
			if op == "?." && isDec(lx.cursor.PeekAt(2)) {
				continue
			}
			if lx.cursor.EatString(op) {
				return lx.emitOp(op, start)
			}
		}
	}

	ch := lx.cursor.Peek()
	for i := 0; i < len(singleOps); i++ {
		if singleOps[i] == ch {
			lx.cursor.Bump()
			return lx.emitOp(string(ch), start)
		}
	}

	// неизвестный символ
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) emitOp(op string, start Mark) token.Token {
	kind, ok := punctKinds[op]
	if !ok {
		kind = token.Operator
	}
	return lx.emit(kind, start)
}
