package lexer

import (
	"strings"
)

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The actual text of the token (lexeme)
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Unknown token/character
	EOF     TokenType = "EOF"     // End Of File

	// Identifiers + Literals
	IDENT     TokenType = "IDENT"  // functionName, variableName
	NUMBER    TokenType = "NUMBER" // 123, 45.67
	STRING    TokenType = "STRING" // "hello world"
	REGEX     TokenType = "REGEX"  // /ab+c/gi
	NULL      TokenType = "NULL"
	UNDEFINED TokenType = "UNDEFINED"

	// Operators
	ASSIGN    TokenType = "="
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	BANG      TokenType = "!"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	REMAINDER TokenType = "%"
	LT        TokenType = "<"
	GT        TokenType = ">"
	EQ        TokenType = "=="
	NOT_EQ    TokenType = "!="
	LE        TokenType = "<="
	GE        TokenType = ">="
	DOT       TokenType = "."
	SPREAD    TokenType = "..."

	// Compound Assignment
	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="

	// Logical Operators
	LOGICAL_AND TokenType = "&&"
	LOGICAL_OR  TokenType = "||"
	COALESCE    TokenType = "??"

	// Strict Equality
	STRICT_EQ     TokenType = "==="
	STRICT_NOT_EQ TokenType = "!=="

	// Bitwise (only | is recognized; the rest are outside the subset)
	BITWISE_OR TokenType = "|"

	// Ternary
	QUESTION TokenType = "?"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	ARROW     TokenType = "=>"

	// Lock sigil delimiters. Each family must balance strictly: a freeze
	// opener closes only with the freeze closer of the same bracket shape.
	LBRACE_HASH   TokenType = "{#" // freeze object opener
	HASH_RBRACE   TokenType = "#}" // freeze object closer
	LBRACE_PIPE   TokenType = "{|" // seal object opener
	PIPE_RBRACE   TokenType = "|}" // seal object closer
	LBRACKET_HASH TokenType = "[#" // freeze array opener
	HASH_RBRACKET TokenType = "#]" // freeze array closer
	LBRACKET_PIPE TokenType = "[|" // seal array opener
	PIPE_RBRACKET TokenType = "|]" // seal array closer
	LPAREN_HASH   TokenType = "(#" // freeze parameter-list opener
	HASH_RPAREN   TokenType = "#)" // freeze parameter-list closer
	LPAREN_PIPE   TokenType = "(|" // seal parameter-list opener
	PIPE_RPAREN   TokenType = "|)" // seal parameter-list closer

	// Keywords
	FUNCTION TokenType = "FUNCTION"
	LET      TokenType = "LET"
	CONST    TokenType = "CONST"
	VAR      TokenType = "VAR"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	RETURN   TokenType = "RETURN"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	OF       TokenType = "OF"
	NEW      TokenType = "NEW"
	THROW    TokenType = "THROW"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	IN       TokenType = "IN"
)

var keywords = map[string]TokenType{
	"function":  FUNCTION,
	"let":       LET,
	"const":     CONST,
	"var":       VAR,
	"true":      TRUE,
	"false":     FALSE,
	"if":        IF,
	"else":      ELSE,
	"return":    RETURN,
	"null":      NULL,
	"undefined": UNDEFINED,
	"while":     WHILE,
	"for":       FOR,
	"of":        OF,
	"new":       NEW,
	"throw":     THROW,
	"break":     BREAK,
	"continue":  CONTINUE,
	"in":        IN,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsSigilOpener reports whether t opens a lock-sigil delimiter pair.
func IsSigilOpener(t TokenType) bool {
	switch t {
	case LBRACE_HASH, LBRACE_PIPE, LBRACKET_HASH, LBRACKET_PIPE, LPAREN_HASH, LPAREN_PIPE:
		return true
	}
	return false
}

// MatchingCloser returns the closer that balances the given sigil opener.
func MatchingCloser(opener TokenType) TokenType {
	switch opener {
	case LBRACE_HASH:
		return HASH_RBRACE
	case LBRACE_PIPE:
		return PIPE_RBRACE
	case LBRACKET_HASH:
		return HASH_RBRACKET
	case LBRACKET_PIPE:
		return PIPE_RBRACKET
	case LPAREN_HASH:
		return HASH_RPAREN
	case LPAREN_PIPE:
		return PIPE_RPAREN
	}
	return ILLEGAL
}

// Lexer holds the state of the scanner.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char's byte offset)
	readPosition int  // current reading position in input (byte offset after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line number
	column       int  // current 1-based column number
	prevType     TokenType
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 1, prevType: EOF}
	l.readChar()
	return l
}

// readChar gives us the next character and advances our position in the input
// string, updating the line and column count.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar looks ahead in the input without consuming the character.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekCharAt(offset int) byte {
	pos := l.readPosition + offset
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

// skipWhitespace consumes whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips a single-line comment.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipMultilineComment skips until '*/'. Returns false on unterminated input.
func (l *Lexer) skipMultilineComment() bool {
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		if l.ch == 0 {
			return false
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // consume '*'
			l.readChar() // consume '/'
			return true
		}
		l.readChar()
	}
}

// regexAllowed reports whether a '/' at the current position can start a
// regex literal, based on the previously emitted token. After an operand
// (identifier, literal, closing bracket) a '/' is division.
func (l *Lexer) regexAllowed() bool {
	switch l.prevType {
	case IDENT, NUMBER, STRING, REGEX, NULL, UNDEFINED, TRUE, FALSE,
		RPAREN, RBRACKET, RBRACE,
		HASH_RBRACE, PIPE_RBRACE, HASH_RBRACKET, PIPE_RBRACKET:
		return false
	}
	return true
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	l.prevType = tok.Type
	return tok
}

func (l *Lexer) nextToken() Token {
	var tok Token

	l.skipWhitespace()

	startLine := l.line
	startCol := l.column
	startPos := l.position

	mk := func(t TokenType, width int) Token {
		for i := 0; i < width; i++ {
			l.readChar()
		}
		return Token{Type: t, Literal: l.input[startPos:l.position], Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			if l.peekCharAt(1) == '=' {
				tok = mk(STRICT_EQ, 3)
			} else {
				tok = mk(EQ, 2)
			}
		} else if l.peekChar() == '>' {
			tok = mk(ARROW, 2)
		} else {
			tok = mk(ASSIGN, 1)
		}
	case '!':
		if l.peekChar() == '=' {
			if l.peekCharAt(1) == '=' {
				tok = mk(STRICT_NOT_EQ, 3)
			} else {
				tok = mk(NOT_EQ, 2)
			}
		} else {
			tok = mk(BANG, 1)
		}
	case '+':
		if l.peekChar() == '=' {
			tok = mk(PLUS_ASSIGN, 2)
		} else {
			tok = mk(PLUS, 1)
		}
	case '-':
		if l.peekChar() == '=' {
			tok = mk(MINUS_ASSIGN, 2)
		} else {
			tok = mk(MINUS, 1)
		}
	case '*':
		if l.peekChar() == '=' {
			tok = mk(ASTERISK_ASSIGN, 2)
		} else {
			tok = mk(ASTERISK, 1)
		}
	case '%':
		tok = mk(REMAINDER, 1)
	case '/':
		if l.peekChar() == '/' {
			l.skipComment()
			return l.nextToken()
		} else if l.peekChar() == '*' {
			if !l.skipMultilineComment() {
				return Token{Type: ILLEGAL, Literal: "Unterminated multiline comment", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
			}
			return l.nextToken()
		} else if l.regexAllowed() {
			literal, ok := l.readRegex()
			if !ok {
				return Token{Type: ILLEGAL, Literal: "Unterminated regular expression literal", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
			}
			return Token{Type: REGEX, Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
		} else if l.peekChar() == '=' {
			tok = mk(SLASH_ASSIGN, 2)
		} else {
			tok = mk(SLASH, 1)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = mk(LOGICAL_AND, 2)
		} else {
			tok = mk(ILLEGAL, 1)
		}
	case '|':
		switch l.peekChar() {
		case '|':
			tok = mk(LOGICAL_OR, 2)
		case '}':
			tok = mk(PIPE_RBRACE, 2)
		case ']':
			tok = mk(PIPE_RBRACKET, 2)
		case ')':
			tok = mk(PIPE_RPAREN, 2)
		default:
			tok = mk(BITWISE_OR, 1)
		}
	case '#':
		switch l.peekChar() {
		case '}':
			tok = mk(HASH_RBRACE, 2)
		case ']':
			tok = mk(HASH_RBRACKET, 2)
		case ')':
			tok = mk(HASH_RPAREN, 2)
		default:
			tok = mk(ILLEGAL, 1)
		}
	case '?':
		if l.peekChar() == '?' {
			tok = mk(COALESCE, 2)
		} else {
			tok = mk(QUESTION, 1)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = mk(LE, 2)
		} else {
			tok = mk(LT, 1)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = mk(GE, 2)
		} else {
			tok = mk(GT, 1)
		}
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(1) == '.' {
			tok = mk(SPREAD, 3)
		} else {
			tok = mk(DOT, 1)
		}
	case ';':
		tok = mk(SEMICOLON, 1)
	case ':':
		tok = mk(COLON, 1)
	case ',':
		tok = mk(COMMA, 1)
	case '(':
		switch l.peekChar() {
		case '#':
			tok = mk(LPAREN_HASH, 2)
		case '|':
			// '(||' is a grouped logical-or expression, not a sigil.
			if l.peekCharAt(1) == '|' {
				tok = mk(LPAREN, 1)
			} else {
				tok = mk(LPAREN_PIPE, 2)
			}
		default:
			tok = mk(LPAREN, 1)
		}
	case ')':
		tok = mk(RPAREN, 1)
	case '{':
		switch l.peekChar() {
		case '#':
			tok = mk(LBRACE_HASH, 2)
		case '|':
			if l.peekCharAt(1) == '|' {
				tok = mk(LBRACE, 1)
			} else {
				tok = mk(LBRACE_PIPE, 2)
			}
		default:
			tok = mk(LBRACE, 1)
		}
	case '}':
		tok = mk(RBRACE, 1)
	case '[':
		switch l.peekChar() {
		case '#':
			tok = mk(LBRACKET_HASH, 2)
		case '|':
			if l.peekCharAt(1) == '|' {
				tok = mk(LBRACKET, 1)
			} else {
				tok = mk(LBRACKET_PIPE, 2)
			}
		default:
			tok = mk(LBRACKET, 1)
		}
	case ']':
		tok = mk(RBRACKET, 1)
	case '"', '\'':
		literal, ok := l.readString(l.ch)
		if !ok {
			return Token{Type: ILLEGAL, Literal: "Unterminated string literal", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
		}
		return Token{Type: STRING, Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	case 0:
		tok = Token{Type: EOF, Literal: "", Line: startLine, Column: startCol, StartPos: startPos, EndPos: startPos}
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			tokType := LookupIdent(literal)
			return Token{Type: tokType, Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
		} else if isDigit(l.ch) {
			literal := l.readNumber()
			return Token{Type: NUMBER, Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
		}
		tok = mk(ILLEGAL, 1)
	}

	return tok
}

// readIdentifier reads an identifier (letters, digits, '_', '$').
func (l *Lexer) readIdentifier() string {
	startPos := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readNumber reads an integer or decimal number.
func (l *Lexer) readNumber() string {
	startPos := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[startPos:l.position]
}

// readString reads a string literal delimited by quote, processing escapes.
// Returns the decoded string contents and whether the string terminated.
func (l *Lexer) readString(quote byte) (string, bool) {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		switch l.ch {
		case quote:
			l.readChar() // consume closing quote
			return sb.String(), true
		case 0, '\n':
			return "", false
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			case '"':
				sb.WriteByte('"')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(l.ch)
			}
			l.readChar()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readRegex reads a regex literal starting at '/', including flags.
// Returns the full literal text ("/pat/flags") and whether it terminated.
func (l *Lexer) readRegex() (string, bool) {
	startPos := l.position
	l.readChar() // consume opening '/'
	inClass := false
	for {
		switch l.ch {
		case 0, '\n':
			return "", false
		case '\\':
			l.readChar()
			if l.ch == 0 || l.ch == '\n' {
				return "", false
			}
			l.readChar()
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				l.readChar() // consume closing '/'
				for isLetter(l.ch) {
					l.readChar() // flags
				}
				return l.input[startPos:l.position], true
			}
		}
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
