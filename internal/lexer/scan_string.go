package lexer

import (
	"jsweave/internal/diag"
	"jsweave/internal/token"
)

// '...' и "..." с escape-последовательностями; перевод строки допустим только после '\'.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == quote {
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		}
		if b == '\\' {
			// грубая обработка escape: съесть '\' и следующий символ (в т.ч. \r\n)
			lx.cursor.Bump()
			if lx.cursor.Eat('\r') {
				lx.cursor.Eat('\n')
				continue
			}
			lx.bumpRune()
			continue
		}
		if b == '\n' || b == '\r' {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// Шаблон целиком - один токен: `a ${b} c`. Подстановки могут содержать
// строки, вложенные шаблоны и фигурные скобки.
func (lx *Lexer) scanTemplate() token.Token {
	start := lx.cursor.Mark()
	if !lx.skipTemplate() {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnterminatedTemplate, sp, "unterminated template literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	return lx.emit(token.TemplateLit, start)
}

func (lx *Lexer) skipTemplate() bool {
	lx.cursor.Bump() // '`'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\\':
			lx.cursor.Bump()
			lx.bumpRune()
		case '`':
			lx.cursor.Bump()
			return true
		case '$':
			lx.cursor.Bump()
			if lx.cursor.Eat('{') && !lx.skipSubstitution() {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// skipSubstitution пропускает ${ ... } до парной '}'.
func (lx *Lexer) skipSubstitution() bool {
	depth := 1
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return true
			}
		case '\'', '"':
			if tok := lx.scanString(b); tok.Kind == token.Invalid {
				return false
			}
		case '`':
			if !lx.skipTemplate() {
				return false
			}
		case '/':
			if lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*' {
				lx.scanCommentIntoHold()
				lx.hold = lx.hold[:len(lx.hold)-1]
				continue
			}
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// /body/flags; классы [...] могут содержать '/'.
func (lx *Lexer) scanRegExp() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	inClass := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == '\r' {
			break
		}
		lx.cursor.Bump()
		switch {
		case b == '\\':
			lx.bumpRune()
		case b == '[':
			inClass = true
		case b == ']':
			inClass = false
		case b == '/' && !inClass:
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			return lx.emit(token.RegExpLit, start)
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedRegExp, sp, "unterminated regular expression")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
