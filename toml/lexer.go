package toml

import (
	"strings"
	"unicode/utf8"
)

type lexer struct {
	input []byte
	pos   int
	line  int
}

func newLexer(input []byte) *lexer {
	return &lexer{input: input, line: 1}
}

func (l *lexer) next() token {
	l.skipBlank()
	if l.pos >= len(l.input) {
		return l.emit(tokenEOF, "")
	}

	ch := l.peek()
	switch ch {
	case '\n':
		l.advance()
		tok := l.emit(tokenNewline, "\n")
		tok.line--
		return tok
	case '#':
		// Comments run to end of line and are dropped
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		return l.next()
	case '=':
		l.advance()
		return l.emit(tokenEqual, "=")
	case '.':
		l.advance()
		return l.emit(tokenDot, ".")
	case ',':
		l.advance()
		return l.emit(tokenComma, ",")
	case '[':
		l.advance()
		return l.emit(tokenLBracket, "[")
	case ']':
		l.advance()
		return l.emit(tokenRBracket, "]")
	case '"':
		return l.readString()
	}

	if isBareChar(ch) || ch == '+' {
		return l.readBare()
	}

	l.advance()
	return l.emit(tokenError, "unexpected character "+string(ch))
}

func (l *lexer) emit(typ tokenType, lit string) token {
	return token{typ: typ, literal: lit, line: l.line}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *lexer) skipBlank() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) readString() token {
	l.advance() // opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		if l.peek() == '\n' {
			return l.emit(tokenError, "newline in basic string")
		}
		ch := l.advance()
		switch ch {
		case '"':
			return l.emit(tokenString, b.String())
		case '\\':
			esc := l.advance()
			switch esc {
			case '"', '\\':
				b.WriteRune(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			default:
				return l.emit(tokenError, "invalid escape \\"+string(esc))
			}
		default:
			b.WriteRune(ch)
		}
	}
	return l.emit(tokenError, "unterminated string")
}

// readBare consumes a bare key, boolean or number and classifies it
func (l *lexer) readBare() token {
	start := l.pos
	first := l.peek()
	numeric := isDigit(first) || first == '+' || first == '-'
	for l.pos < len(l.input) {
		ch := l.peek()
		if isBareChar(ch) || ch == '+' || (ch == '.' && numeric) {
			l.advance()
			continue
		}
		break
	}
	lit := string(l.input[start:l.pos])

	if lit == "true" || lit == "false" {
		return l.emit(tokenBool, lit)
	}
	if numeric && isNumber(lit) {
		if strings.ContainsAny(lit, ".eE") {
			return l.emit(tokenFloat, lit)
		}
		return l.emit(tokenInteger, lit)
	}
	if strings.ContainsAny(lit, "+.") {
		return l.emit(tokenError, "invalid bare value "+lit)
	}
	return l.emit(tokenIdent, lit)
}

func isNumber(lit string) bool {
	s := strings.TrimLeft(lit, "+-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) && r != '.' && r != 'e' && r != 'E' && r != '_' && r != '+' && r != '-' {
			return false
		}
	}
	return isDigit(rune(s[0]))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isBareChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r) || r == '_' || r == '-'
}
