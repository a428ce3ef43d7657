package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `let five = 5;
const ten = 10.5;

let add = function(x, y) {
  return x + y;
};

let frozen = {# a: 1, b: "two" #};
let sealed = {| a: 1 |};
let farr = [# 1, 2 #];
let sarr = [| 3 |];
// This is a comment
let next = null;`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{LET, "let", 1},
		{IDENT, "five", 1},
		{ASSIGN, "=", 1},
		{NUMBER, "5", 1},
		{SEMICOLON, ";", 1},
		{CONST, "const", 2},
		{IDENT, "ten", 2},
		{ASSIGN, "=", 2},
		{NUMBER, "10.5", 2},
		{SEMICOLON, ";", 2},
		{LET, "let", 4},
		{IDENT, "add", 4},
		{ASSIGN, "=", 4},
		{FUNCTION, "function", 4},
		{LPAREN, "(", 4},
		{IDENT, "x", 4},
		{COMMA, ",", 4},
		{IDENT, "y", 4},
		{RPAREN, ")", 4},
		{LBRACE, "{", 4},
		{RETURN, "return", 5},
		{IDENT, "x", 5},
		{PLUS, "+", 5},
		{IDENT, "y", 5},
		{SEMICOLON, ";", 5},
		{RBRACE, "}", 6},
		{SEMICOLON, ";", 6},
		{LET, "let", 8},
		{IDENT, "frozen", 8},
		{ASSIGN, "=", 8},
		{LBRACE_HASH, "{#", 8},
		{IDENT, "a", 8},
		{COLON, ":", 8},
		{NUMBER, "1", 8},
		{COMMA, ",", 8},
		{IDENT, "b", 8},
		{COLON, ":", 8},
		{STRING, "two", 8},
		{HASH_RBRACE, "#}", 8},
		{SEMICOLON, ";", 8},
		{LET, "let", 9},
		{IDENT, "sealed", 9},
		{ASSIGN, "=", 9},
		{LBRACE_PIPE, "{|", 9},
		{IDENT, "a", 9},
		{COLON, ":", 9},
		{NUMBER, "1", 9},
		{PIPE_RBRACE, "|}", 9},
		{SEMICOLON, ";", 9},
		{LET, "let", 10},
		{IDENT, "farr", 10},
		{ASSIGN, "=", 10},
		{LBRACKET_HASH, "[#", 10},
		{NUMBER, "1", 10},
		{COMMA, ",", 10},
		{NUMBER, "2", 10},
		{HASH_RBRACKET, "#]", 10},
		{SEMICOLON, ";", 10},
		{LET, "let", 11},
		{IDENT, "sarr", 11},
		{ASSIGN, "=", 11},
		{LBRACKET_PIPE, "[|", 11},
		{NUMBER, "3", 11},
		{PIPE_RBRACKET, "|]", 11},
		{SEMICOLON, ";", 11},
		// Comment on line 12 is skipped
		{LET, "let", 13},
		{IDENT, "next", 13},
		{ASSIGN, "=", 13},
		{NULL, "null", 13},
		{SEMICOLON, ";", 13},
		{EOF, "", 13},
	}

	l := NewLexer(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal: %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}

		if tok.Line != tt.expectedLine {
			t.Errorf("tests[%d] (%q) - line wrong. expected=%d, got=%d",
				i, tok.Literal, tt.expectedLine, tok.Line)
		}
	}
}

func TestParameterListSigils(t *testing.T) {
	input := `function f(# a, b #) {}
const g = (| x |) => x;`

	expected := []TokenType{
		FUNCTION, IDENT, LPAREN_HASH, IDENT, COMMA, IDENT, HASH_RPAREN, LBRACE, RBRACE,
		CONST, IDENT, ASSIGN, LPAREN_PIPE, IDENT, PIPE_RPAREN, ARROW, IDENT, SEMICOLON,
		EOF,
	}

	l := NewLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tokens[%d] - expected=%q, got=%q (literal: %q)", i, want, tok.Type, tok.Literal)
		}
	}
}

// A `|` that is part of `||` must never fuse with an adjacent bracket, and a
// bare `|` stays a bitwise operator.
func TestPipeDisambiguation(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{`a || b`, []TokenType{IDENT, LOGICAL_OR, IDENT, EOF}},
		{`a | b`, []TokenType{IDENT, BITWISE_OR, IDENT, EOF}},
		{`(||x)`, []TokenType{LPAREN, LOGICAL_OR, IDENT, RPAREN, EOF}},
		{`[||x]`, []TokenType{LBRACKET, LOGICAL_OR, IDENT, RBRACKET, EOF}},
		{`{||x}`, []TokenType{LBRACE, LOGICAL_OR, IDENT, RBRACE, EOF}},
		{`{|x|}`, []TokenType{LBRACE_PIPE, IDENT, PIPE_RBRACE, EOF}},
		{`[|x|]`, []TokenType{LBRACKET_PIPE, IDENT, PIPE_RBRACKET, EOF}},
		{`(|x|)`, []TokenType{LPAREN_PIPE, IDENT, PIPE_RPAREN, EOF}},
	}

	for _, tt := range tests {
		l := NewLexer(tt.input)
		for i, want := range tt.expected {
			tok := l.NextToken()
			if tok.Type != want {
				t.Errorf("%q tokens[%d] - expected=%q, got=%q", tt.input, i, want, tok.Type)
				break
			}
		}
	}
}

// A stray `#` outside a sigil digraph is not a token of the language.
func TestStrayHashIsIllegal(t *testing.T) {
	l := NewLexer(`a # b`)
	l.NextToken() // a
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for stray '#', got %q (literal: %q)", tok.Type, tok.Literal)
	}
}

func TestRegexDetection(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		// Regex position: after operators, '(', ',', 'return', '='.
		{`let re = /ab+c/gi;`, []TokenType{LET, IDENT, ASSIGN, REGEX, SEMICOLON, EOF}},
		{`f(/x/, 1)`, []TokenType{IDENT, LPAREN, REGEX, COMMA, NUMBER, RPAREN, EOF}},
		// Division position: after an identifier or number.
		{`a / b`, []TokenType{IDENT, SLASH, IDENT, EOF}},
		{`10 / 2`, []TokenType{NUMBER, SLASH, NUMBER, EOF}},
		// '/' inside a character class does not terminate the regex.
		{`x = /[/]/;`, []TokenType{IDENT, ASSIGN, REGEX, SEMICOLON, EOF}},
	}

	for _, tt := range tests {
		l := NewLexer(tt.input)
		for i, want := range tt.expected {
			tok := l.NextToken()
			if tok.Type != want {
				t.Errorf("%q tokens[%d] - expected=%q, got=%q (literal: %q)", tt.input, i, want, tok.Type, tok.Literal)
				break
			}
		}
	}
}

func TestSigilCloserEndsRegexContext(t *testing.T) {
	// After `#}` a slash is division, not a regex opener.
	input := `let a = {# x: 1 #} / 2;`
	expected := []TokenType{LET, IDENT, ASSIGN, LBRACE_HASH, IDENT, COLON, NUMBER, HASH_RBRACE, SLASH, NUMBER, SEMICOLON, EOF}

	l := NewLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tokens[%d] - expected=%q, got=%q", i, want, tok.Type)
		}
	}
}

func TestMatchingCloser(t *testing.T) {
	tests := []struct {
		opener TokenType
		closer TokenType
	}{
		{LBRACE_HASH, HASH_RBRACE},
		{LBRACE_PIPE, PIPE_RBRACE},
		{LBRACKET_HASH, HASH_RBRACKET},
		{LBRACKET_PIPE, PIPE_RBRACKET},
		{LPAREN_HASH, HASH_RPAREN},
		{LPAREN_PIPE, PIPE_RPAREN},
	}

	for _, tt := range tests {
		if !IsSigilOpener(tt.opener) {
			t.Errorf("IsSigilOpener(%q) = false, want true", tt.opener)
		}
		if got := MatchingCloser(tt.opener); got != tt.closer {
			t.Errorf("MatchingCloser(%q) = %q, want %q", tt.opener, got, tt.closer)
		}
	}
}
