package syntax

import (
	"unicode"
	"unicode/utf8"
)

// Lexer turns source text into tokens. Literal tokens keep their raw source
// text, quotes and escapes included.
type Lexer struct {
	input  string
	offset int // offset of the next rune
	start  int // offset of ch
	line   int
	col    int
	ch     rune
}

func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.read()
	return l
}

func (l *Lexer) read() {
	l.start = l.offset
	if l.offset >= len(l.input) {
		l.ch = 0
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	l.ch = r
	l.offset += w
	l.col++
}

func (l *Lexer) peek() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *Lexer) atEnd() bool {
	return l.start >= len(l.input)
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()
	pos := Position{Line: l.line, Column: l.col}

	if l.atEnd() {
		return Token{Type: EOF, Pos: pos}
	}

	switch ch := l.ch; {
	case isIdentStart(ch):
		return l.readIdent(pos)
	case isDigit(ch) || (ch == '.' && isDigit(l.peek())):
		return l.readNumber(pos)
	case ch == '"':
		return l.readString(pos, l.start, false)
	case ch == '@' && l.peek() == '"':
		start := l.start
		l.read()
		return l.readString(pos, start, true)
	case ch == '$' && (l.peek() == '"' || l.peek() == '@'):
		start := l.start
		l.read()
		verbatim := false
		if l.ch == '@' {
			verbatim = true
			l.read()
		}
		return l.readString(pos, start, verbatim)
	case ch == '\'':
		return l.readChar(pos)
	}

	return l.readOperator(pos)
}

func (l *Lexer) readOperator(pos Position) Token {
	single := func(t TokenType) Token {
		tok := Token{Type: t, Literal: string(l.ch), Pos: pos}
		l.read()
		return tok
	}
	// pair emits a two-character token when the next rune matches
	pair := func(next rune, t TokenType, lit string, fallback TokenType) Token {
		if l.peek() == next {
			l.read()
			l.read()
			return Token{Type: t, Literal: lit, Pos: pos}
		}
		return single(fallback)
	}

	switch l.ch {
	case '(':
		return single(LPAREN)
	case ')':
		return single(RPAREN)
	case '{':
		return single(LBRACE)
	case '}':
		return single(RBRACE)
	case '[':
		return single(LBRACKET)
	case ']':
		return single(RBRACKET)
	case ',':
		return single(COMMA)
	case ';':
		return single(SEMICOLON)
	case ':':
		return single(COLON)
	case '.':
		return single(DOT)
	case '?':
		return single(QUESTION)
	case '^':
		return single(CARET)
	case '%':
		return single(PERCENT)
	case '+':
		if l.peek() == '+' {
			return pair('+', PLUSPLUS, "++", PLUS)
		}
		return pair('=', PLUSEQ, "+=", PLUS)
	case '-':
		if l.peek() == '-' {
			return pair('-', MINUSMINUS, "--", MINUS)
		}
		return pair('=', MINUSEQ, "-=", MINUS)
	case '*':
		return pair('=', STAREQ, "*=", STAR)
	case '/':
		return pair('=', SLASHEQ, "/=", SLASH)
	case '!':
		return pair('=', BANGEQ, "!=", BANG)
	case '<':
		return pair('=', LTEQ, "<=", LT)
	case '>':
		return pair('=', GTEQ, ">=", GT)
	case '&':
		return pair('&', ANDAND, "&&", AMP)
	case '|':
		return pair('|', OROR, "||", PIPE)
	case '=':
		if l.peek() == '>' {
			return pair('>', ARROW, "=>", ASSIGN)
		}
		return pair('=', EQEQ, "==", ASSIGN)
	}

	return single(ILLEGAL)
}

func (l *Lexer) readIdent(pos Position) Token {
	start := l.start
	for isIdentPart(l.ch) && !l.atEnd() {
		l.read()
	}
	lit := l.input[start:l.start]
	return Token{Type: lookupIdent(lit), Literal: lit, Pos: pos}
}

func (l *Lexer) readNumber(pos Position) Token {
	start := l.start
	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.read()
		l.read()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.read()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.read()
		}
		if l.ch == '.' && isDigit(l.peek()) {
			l.read()
			for isDigit(l.ch) || l.ch == '_' {
				l.read()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.read()
			if l.ch == '+' || l.ch == '-' {
				l.read()
			}
			for isDigit(l.ch) {
				l.read()
			}
		}
	}
	// type suffixes: 1L, 2.5f, 10m, 3UL
	for isNumberSuffix(l.ch) {
		l.read()
	}
	return Token{Type: NUMBER, Literal: l.input[start:l.start], Pos: pos}
}

// readString consumes a string literal whose opening quote is l.ch.
// start is the offset of the first prefix character (@ or $) or the quote.
func (l *Lexer) readString(pos Position, start int, verbatim bool) Token {
	l.read() // opening quote
	for {
		if l.atEnd() {
			return Token{Type: ILLEGAL, Literal: l.input[start:l.start], Pos: pos}
		}
		if !verbatim && l.ch == '\n' {
			return Token{Type: ILLEGAL, Literal: l.input[start:l.start], Pos: pos}
		}
		if !verbatim && l.ch == '\\' {
			l.read()
			l.read()
			continue
		}
		if l.ch == '"' {
			if verbatim && l.peek() == '"' {
				l.read()
				l.read()
				continue
			}
			l.read()
			break
		}
		l.read()
	}
	return Token{Type: STRING, Literal: l.input[start:l.start], Pos: pos}
}

func (l *Lexer) readChar(pos Position) Token {
	start := l.start
	l.read() // opening quote
	for l.ch != '\'' {
		if l.atEnd() || l.ch == '\n' {
			return Token{Type: ILLEGAL, Literal: l.input[start:l.start], Pos: pos}
		}
		if l.ch == '\\' {
			l.read()
		}
		l.read()
	}
	l.read()
	return Token{Type: CHAR, Literal: l.input[start:l.start], Pos: pos}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch {
		case unicode.IsSpace(l.ch):
			l.read()
		case l.ch == '/' && l.peek() == '/':
			for !l.atEnd() && l.ch != '\n' {
				l.read()
			}
		case l.ch == '/' && l.peek() == '*':
			l.read()
			l.read()
			for !l.atEnd() && !(l.ch == '*' && l.peek() == '/') {
				l.read()
			}
			if !l.atEnd() {
				l.read()
				l.read()
			}
		case l.ch == '#':
			// preprocessor directives (#region, #nullable) carry no declarations
			for !l.atEnd() && l.ch != '\n' {
				l.read()
			}
		default:
			return
		}
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isNumberSuffix(ch rune) bool {
	switch ch {
	case 'f', 'F', 'd', 'D', 'm', 'M', 'l', 'L', 'u', 'U':
		return true
	}
	return false
}
