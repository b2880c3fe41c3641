package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguh/clox/lang/scanner"
	"github.com/roguh/clox/lang/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"parens", "(){}[]:,.#", []token.Kind{
			token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
			token.LEFT_SQUARE, token.RIGHT_SQUARE, token.COLON, token.COMMA, token.DOT,
			token.SIZE, token.EOF,
		}},
		{"arithmetic", "+ - * / % **", []token.Kind{
			token.PLUS, token.MINUS, token.STAR, token.SLASH, token.REMAINDER, token.STAR_STAR, token.EOF,
		}},
		{"compound assign", "+= -= *= **= /= %= &= |= ^= <<= >>=", []token.Kind{
			token.PLUS_EQUAL, token.MINUS_EQUAL, token.STAR_EQUAL, token.STAR_STAR_EQUAL,
			token.SLASH_EQUAL, token.REMAINDER_EQUAL, token.BITAND_EQUAL, token.BITOR_EQUAL,
			token.BITXOR_EQUAL, token.LESS_LESS_EQUAL, token.GREAT_GREAT_EQUAL, token.EOF,
		}},
		{"comparisons", "== != < <= > >= << >>", []token.Kind{
			token.EQUAL_EQUAL, token.BANG_EQUAL, token.LESS, token.LESS_EQUAL,
			token.GREAT, token.GREAT_EQUAL, token.LESS_LESS, token.GREAT_GREAT, token.EOF,
		}},
		{"bitwise", "& | ^ ~", []token.Kind{
			token.BITAND, token.BITOR, token.BITXOR, token.BITNEG, token.EOF,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks := scanner.ScanAll([]byte(tc.src))
			assert.Equal(t, tc.want, kinds(toks))
		})
	}
}

func TestScanNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"123", token.INTEGER},
		{"1.5", token.NUMBER},
		{"1e10", token.NUMBER},
		{"1.5e-10", token.NUMBER},
		{"0x1F", token.HEXINT},
		{"0xff", token.HEXINT},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			toks := scanner.ScanAll([]byte(tc.src))
			require.Len(t, toks, 2) // literal + EOF
			assert.Equal(t, tc.kind, toks[0].Kind)
			assert.Equal(t, tc.src, toks[0].Lexeme)
		})
	}
}

func TestScanStrings(t *testing.T) {
	toks := scanner.ScanAll([]byte(`"hello" 'world'`))
	require.Len(t, toks, 3)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, `"hello"`, toks[0].Lexeme)
	assert.Equal(t, token.STRING, toks[1].Kind)
	assert.Equal(t, `'world'`, toks[1].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanner.ScanAll([]byte(`"unterminated`))
	require.Len(t, toks, 2)
	assert.Equal(t, token.ERROR, toks[0].Kind)
	assert.Equal(t, "Unterminated string.", toks[0].Lexeme)
}

func TestScanStringNoEscapeInterpretation(t *testing.T) {
	// Backslash blindly escapes the next byte; no interpretation occurs, so
	// the lexeme retains the literal backslash.
	toks := scanner.ScanAll([]byte(`"a\"b"`))
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, `"a\"b"`, toks[0].Lexeme)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks := scanner.ScanAll([]byte("var x = foo and bar or nil true false NaN nan inf Infinity"))
	want := []token.Kind{
		token.VAR, token.IDENTIFIER, token.EQUAL, token.IDENTIFIER, token.AND,
		token.IDENTIFIER, token.OR, token.NIL, token.TRUE, token.FALSE,
		token.NAN, token.NAN, token.INF, token.INF, token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestScanTripleSemicolonEnablesSemicolonWhitespace(t *testing.T) {
	toks := scanner.ScanAll([]byte("var a = 1;;;; var b = 2;"))
	// after the ';;;' marker, subsequent ';' are swallowed as whitespace,
	// so only one SEMICOLON appears before it and none around "var b = 2".
	var semis int
	for _, tk := range toks {
		if tk.Kind == token.SEMICOLON {
			semis++
		}
	}
	assert.Equal(t, 1, semis)
}

func TestScanLineAndColumnTracking(t *testing.T) {
	toks := scanner.ScanAll([]byte("a\nbb"))
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].StartLine)
	assert.Equal(t, 2, toks[1].StartLine)
}

func TestScanComments(t *testing.T) {
	toks := scanner.ScanAll([]byte("1 // line comment\n2 /* block */ 3"))
	want := []token.Kind{token.INTEGER, token.INTEGER, token.INTEGER, token.EOF}
	assert.Equal(t, want, kinds(toks))
}

func TestScanShebang(t *testing.T) {
	toks := scanner.ScanAll([]byte("#!/usr/bin/env clox\nprint 1;"))
	want := []token.Kind{token.PRINT, token.INTEGER, token.SEMICOLON, token.EOF}
	assert.Equal(t, want, kinds(toks))
}

func TestFormatToken(t *testing.T) {
	toks := scanner.ScanAll([]byte(`var x = "s";`))
	assert.Equal(t, "var", scanner.FormatToken(toks[0]))
	assert.Equal(t, "'x'", scanner.FormatToken(toks[1]))
	assert.Equal(t, `'"s"'`, scanner.FormatToken(toks[3]))
}
