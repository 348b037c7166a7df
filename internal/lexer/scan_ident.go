package lexer

import (
	"jsweave/internal/diag"
	"jsweave/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор (включая #private и \uXXXX escapes)
// и проверяет через LookupKeyword. Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	private := lx.cursor.Eat('#')

	first := true
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\\' {
			if !lx.scanIdentEscape() {
				break
			}
			first = false
			continue
		}
		if b < utf8RuneSelf {
			if (first && !isIdentStartByte(b)) || (!first && !isIdentContinueByte(b)) {
				break
			}
			lx.cursor.Bump()
			first = false
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 || (first && !isIdentStartRune(r)) || (!first && !isIdentContinueRune(r)) {
			break
		}
		lx.bumpRune()
		first = false
	}

	if first {
		// ни одного символа идентификатора: '#' или '\' без продолжения, либо чужой unicode
		if !private {
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	tok := lx.emit(token.Ident, start)
	if private {
		return tok
	}
	// Проверка на ключевое слово (регистрозависимо)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// \uXXXX или \u{X...}
func (lx *Lexer) scanIdentEscape() bool {
	if lx.cursor.PeekAt(1) != 'u' {
		return false
	}
	lx.cursor.Off += 2
	if lx.cursor.Eat('{') {
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.cursor.Eat('}')
	}
	for range 4 {
		if !isHex(lx.cursor.Peek()) {
			return false
		}
		lx.cursor.Bump()
	}
	return true
}
