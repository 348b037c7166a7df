package lexer

import (
	"jsweave/internal/diag"
	"jsweave/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - пробелы, табы, \v, \f, NBSP, BOM коалесцируются в один TriviaSpace
// - последовательные '\n' (и '\r') коалесцируются в один TriviaNewline
// - //... до \n -> TriviaLineComment, #! в начале файла тоже
// - /* ... */ -> TriviaBlockComment (без вложенности, как в JS)
func (lx *Lexer) collectLeadingTrivia() {
	if lx.cursor.Off == 0 && lx.cursor.Peek() == '#' && lx.cursor.PeekAt(1) == '!' {
		start := lx.cursor.Mark()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
	}

	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if n := lx.spaceWidth(); n > 0 {
			for n > 0 {
				lx.cursor.Off += n
				n = lx.spaceWidth()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if n := lx.newlineWidth(); n > 0 {
			for n > 0 {
				lx.cursor.Off += n
				n = lx.newlineWidth()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}

		// нет больше trivia
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

// //... и /*...*/
func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	switch lx.cursor.PeekAt(1) {
	case '/':
		lx.cursor.Off += 2
		for !lx.cursor.EOF() && lx.newlineWidth() == 0 {
			lx.cursor.Bump()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true

	case '*':
		lx.cursor.Off += 2
		closed := false
		for !lx.cursor.EOF() {
			if lx.cursor.EatString("*/") {
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true

	default:
		// это не комментарий - пусть сканируется как оператор или regexp
		return false
	}
}
