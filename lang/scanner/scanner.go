// Package scanner tokenizes clox source text into a sequence of
// lang/token.Token values.
package scanner

import (
	"strings"

	"github.com/roguh/clox/lang/token"
)

// Scanner produces tokens from a single source buffer. It is a
// byte-oriented, single-pass lexer: there is no file-position abstraction,
// only a running (line, column) pair that resets on every newline, mirroring
// the source material's own cursor-based design.
type Scanner struct {
	src []byte

	start   int
	current int

	line, column           int
	startLine, startColumn int

	// semicolonsAreWhitespace is latched on by the ';;;' soft-separator
	// sequence and never turned back off.
	semicolonsAreWhitespace bool
}

// New returns a Scanner ready to tokenize src.
func New(src []byte) *Scanner {
	s := &Scanner{src: src, line: 1, column: 0}
	s.startLine, s.startColumn = s.line, s.column
	return s
}

func (s *Scanner) isAtEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) peekNextNext() byte {
	if s.current+2 >= len(s.src) {
		return 0
	}
	return s.src[s.current+2]
}

func (s *Scanner) advance() byte {
	if s.isAtEnd() {
		return 0
	}
	c := s.src[s.current]
	s.current++
	s.column++
	if c == '\n' {
		s.line++
		s.column = 0
	}
	return c
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) makeToken(kind token.Kind) token.Token {
	return token.Token{
		Kind:        kind,
		Lexeme:      string(s.src[s.start:s.current]),
		Line:        s.line,
		Column:      s.column,
		StartLine:   s.startLine,
		StartColumn: s.startColumn,
	}
}

func (s *Scanner) errorToken(msg string) token.Token {
	return token.Token{
		Kind:        token.ERROR,
		Lexeme:      msg,
		Line:        s.line,
		Column:      s.column,
		StartLine:   s.startLine,
		StartColumn: s.startColumn,
	}
}

func isDigit(c byte, hex bool) bool {
	if hex && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
		return true
	}
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// Scan returns the next token. Once it returns a token of kind token.EOF,
// every subsequent call keeps returning EOF.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespace(false)
	s.startLine, s.startColumn = s.line, s.column
	s.start = s.current
	if s.isAtEnd() {
		return s.makeToken(token.EOF)
	}

	c := s.advance()
	if isAlpha(c) {
		return s.identifier()
	}
	if c == '0' && (s.peek() == 'x' || s.peek() == 'X') {
		return s.hexnumber()
	}
	if (c == '.' && isDigit(s.peek(), false)) || isDigit(c, false) {
		return s.number()
	}

	switch c {
	case ':':
		return s.makeToken(token.COLON)
	case '(':
		return s.makeToken(token.LEFT_PAREN)
	case ')':
		return s.makeToken(token.RIGHT_PAREN)
	case '{':
		return s.makeToken(token.LEFT_BRACE)
	case '}':
		return s.makeToken(token.RIGHT_BRACE)
	case '[':
		return s.makeToken(token.LEFT_SQUARE)
	case ']':
		return s.makeToken(token.RIGHT_SQUARE)
	case ',':
		return s.makeToken(token.COMMA)
	case '.':
		return s.makeToken(token.DOT)
	case '-':
		if s.match('=') {
			return s.makeToken(token.MINUS_EQUAL)
		}
		return s.makeToken(token.MINUS)
	case '+':
		if s.match('=') {
			return s.makeToken(token.PLUS_EQUAL)
		}
		return s.makeToken(token.PLUS)
	case ';':
		tok := s.makeToken(token.SEMICOLON)
		s.skipWhitespace(false)
		if s.peek() == ';' && s.peekNext() == ';' && s.peekNextNext() == ';' {
			s.skipWhitespace(true)
		}
		return tok
	case '#':
		return s.makeToken(token.SIZE)
	case '&':
		if s.match('=') {
			return s.makeToken(token.BITAND_EQUAL)
		}
		return s.makeToken(token.BITAND)
	case '|':
		if s.match('=') {
			return s.makeToken(token.BITOR_EQUAL)
		}
		return s.makeToken(token.BITOR)
	case '^':
		if s.match('=') {
			return s.makeToken(token.BITXOR_EQUAL)
		}
		return s.makeToken(token.BITXOR)
	case '~':
		return s.makeToken(token.BITNEG)
	case '/':
		if s.match('=') {
			return s.makeToken(token.SLASH_EQUAL)
		}
		return s.makeToken(token.SLASH)
	case '%':
		if s.match('=') {
			return s.makeToken(token.REMAINDER_EQUAL)
		}
		return s.makeToken(token.REMAINDER)
	case '!':
		if s.match('=') {
			return s.makeToken(token.BANG_EQUAL)
		}
		return s.makeToken(token.BANG)
	case '*':
		if s.match('*') {
			if s.match('=') {
				return s.makeToken(token.STAR_STAR_EQUAL)
			}
			return s.makeToken(token.STAR_STAR)
		}
		if s.match('=') {
			return s.makeToken(token.STAR_EQUAL)
		}
		return s.makeToken(token.STAR)
	case '=':
		if s.match('=') {
			return s.makeToken(token.EQUAL_EQUAL)
		}
		return s.makeToken(token.EQUAL)
	case '>':
		if s.match('=') {
			return s.makeToken(token.GREAT_EQUAL)
		}
		if s.match('>') {
			if s.match('=') {
				return s.makeToken(token.GREAT_GREAT_EQUAL)
			}
			return s.makeToken(token.GREAT_GREAT)
		}
		return s.makeToken(token.GREAT)
	case '<':
		if s.match('=') {
			return s.makeToken(token.LESS_EQUAL)
		}
		if s.match('<') {
			if s.match('=') {
				return s.makeToken(token.LESS_LESS_EQUAL)
			}
			return s.makeToken(token.LESS_LESS)
		}
		return s.makeToken(token.LESS)
	case '"':
		return s.string('"')
	case '\'':
		return s.string('\'')
	}
	return s.errorToken("Unexpected character")
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek(), false) {
		s.advance()
	}
	lexeme := string(s.src[s.start:s.current])
	return s.makeToken(token.Lookup(lexeme))
}

func (s *Scanner) hexnumber() token.Token {
	s.advance() // consume 'x'/'X'
	for isDigit(s.peek(), true) {
		s.advance()
	}
	return s.makeToken(token.HEXINT)
}

// number scans a JSON-RFC8259-shaped number: int [frac] [exp]. hasFrac
// tracks whether a fractional/exponent part was seen, distinguishing
// TOKEN_NUMBER (float) from TOKEN_INTEGER.
func (s *Scanner) number() token.Token {
	hasFrac := s.src[s.start] == '.'
	for isDigit(s.peek(), false) {
		s.advance()
	}
	if s.peek() == 'e' || s.peek() == 'E' || s.peek() == '.' {
		hasFrac = true
		s.advance()
		for isDigit(s.peek(), false) ||
			((s.peek() == 'e' || s.peek() == 'E') && (s.peekNext() == '-' || s.peekNext() == '+' || isDigit(s.peekNext(), false))) ||
			((s.peek() == '-' || s.peek() == '+') && isDigit(s.peekNext(), false)) {
			s.advance()
		}
	}
	if hasFrac {
		return s.makeToken(token.NUMBER)
	}
	return s.makeToken(token.INTEGER)
}

// string scans a quoted string literal. A backslash blindly escapes the
// very next byte with no interpretation: the literal bytes remain in the
// lexeme and the compiler copies them verbatim between the quotes.
func (s *Scanner) string(quote byte) token.Token {
	for s.peek() != quote && !s.isAtEnd() {
		if s.peek() == '\\' {
			s.advance()
		}
		s.advance()
	}
	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.advance() // closing quote
	return s.makeToken(token.STRING)
}

func (s *Scanner) skipWhitespace(semicolonsAreWhitespace bool) {
	semicolonsAreWhitespace = semicolonsAreWhitespace || s.semicolonsAreWhitespace
	for {
		switch s.peek() {
		case '\n', ' ', '\t', '\r':
			s.advance()
		case ';':
			if semicolonsAreWhitespace {
				s.semicolonsAreWhitespace = true
				s.advance()
				continue
			}
			return
		case '#':
			if s.peekNext() == '!' {
				for s.peek() != '\n' && !s.isAtEnd() {
					s.advance()
				}
			} else {
				return
			}
		case '/':
			if s.peekNext() == '*' {
				for !((s.peek() == '*' && s.peekNext() == '/') || s.isAtEnd()) {
					s.advance()
				}
				if !s.isAtEnd() {
					s.advance()
					s.advance()
				}
			} else if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.isAtEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// ScanAll tokenizes the entire source, stopping after (and including) the
// first EOF token.
func ScanAll(src []byte) []token.Token {
	s := New(src)
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

// FormatToken renders a token the way the '-x'/'--lex' CLI mode prints it:
// the bare lexeme for keywords, numbers and ERROR tokens, "EOF" for the end
// token, and the lexeme wrapped in single quotes otherwise (a STRING
// token's lexeme keeps its own double quotes inside them). No line or
// column is included.
func FormatToken(tok token.Token) string {
	var b strings.Builder
	switch tok.Kind {
	case token.EOF:
		b.WriteString("EOF")
	case token.TRUE, token.FALSE, token.NIL, token.NAN, token.INF,
		token.AND, token.CLASS, token.ELSE, token.FOR, token.FUN, token.IF,
		token.OR, token.PRINT, token.RETURN, token.SUPER, token.THIS,
		token.VAR, token.WHILE,
		token.NUMBER, token.INTEGER, token.HEXINT, token.ERROR:
		b.WriteString(tok.Lexeme)
	default:
		b.WriteByte('\'')
		b.WriteString(tok.Lexeme)
		b.WriteByte('\'')
	}
	return b.String()
}
