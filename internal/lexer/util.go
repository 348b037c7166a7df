package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = 0x80

// ===== Работа с рунами поверх Cursor =====

func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// spaceWidth возвращает длину пробельного символа в текущей позиции (0 - не пробел).
func (lx *Lexer) spaceWidth() uint32 {
	switch lx.cursor.Peek() {
	case ' ', '\t', '\v', '\f':
		return 1
	}
	r, sz := lx.peekRune()
	if sz > 1 && (r == 0xA0 || r == 0xFEFF || unicode.Is(unicode.Zs, r)) {
		return uint32(sz)
	}
	return 0
}

// newlineWidth возвращает длину терминатора строки (0 - не терминатор).
func (lx *Lexer) newlineWidth() uint32 {
	switch lx.cursor.Peek() {
	case '\n', '\r':
		return 1
	}
	r, sz := lx.peekRune()
	if r == 0x2028 || r == 0x2029 {
		return uint32(sz)
	}
	return 0
}

// ===== Классификаторы =====

func isIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}
func isIdentStartRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}
func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) ||
		r == 0x200C || r == 0x200D
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}
