package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"lockjs/pkg/errors"
	"lockjs/pkg/lexer"
	"lockjs/pkg/lock"
	"lockjs/pkg/source"
)

// Parser takes a lexer and builds an AST. Structural errors (including
// mismatched lock sigils) accumulate; parsing continues so one pass surfaces
// as many independent errors as possible.
type Parser struct {
	l      *lexer.Lexer
	source *source.SourceFile
	errors []errors.SourceError

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// Precedence levels.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // =, +=, -=, *=, /=
	TERNARY     // ?:
	COALESCE    // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	EQUALS      // ==, !=, ===, !==
	LESSGREATER // >, <, >=, <=, in
	SUM         // + or -
	PRODUCT     // * or / or %
	PREFIX      // -x or !x
	CALL        // fn(x)
	INDEX       // arr[i]
	MEMBER      // obj.prop
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:          ASSIGNMENT,
	lexer.PLUS_ASSIGN:     ASSIGNMENT,
	lexer.MINUS_ASSIGN:    ASSIGNMENT,
	lexer.ASTERISK_ASSIGN: ASSIGNMENT,
	lexer.SLASH_ASSIGN:    ASSIGNMENT,
	lexer.QUESTION:        TERNARY,
	lexer.COALESCE:        COALESCE,
	lexer.LOGICAL_OR:      LOGICAL_OR,
	lexer.LOGICAL_AND:     LOGICAL_AND,
	lexer.BITWISE_OR:      BITWISE_OR,
	lexer.EQ:              EQUALS,
	lexer.NOT_EQ:          EQUALS,
	lexer.STRICT_EQ:       EQUALS,
	lexer.STRICT_NOT_EQ:   EQUALS,
	lexer.LT:              LESSGREATER,
	lexer.GT:              LESSGREATER,
	lexer.LE:              LESSGREATER,
	lexer.GE:              LESSGREATER,
	lexer.IN:              LESSGREATER,
	lexer.PLUS:            SUM,
	lexer.MINUS:           SUM,
	lexer.SLASH:           PRODUCT,
	lexer.ASTERISK:        PRODUCT,
	lexer.REMAINDER:       PRODUCT,
	lexer.LPAREN:          CALL,
	lexer.LBRACKET:        INDEX,
	lexer.DOT:             MEMBER,
}

// NewParser creates a parser for the given lexer.
func NewParser(l *lexer.Lexer, src *source.SourceFile) *Parser {
	p := &Parser{l: l, source: src}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{}
	p.registerPrefix(lexer.IDENT, p.parseIdentifierOrArrow)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.REGEX, p.parseRegexLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NULL, p.parseNullLiteral)
	p.registerPrefix(lexer.UNDEFINED, p.parseUndefinedLiteral)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrArrowExpression)
	p.registerPrefix(lexer.LPAREN_HASH, p.parseSigiledArrowFunction)
	p.registerPrefix(lexer.LPAREN_PIPE, p.parseSigiledArrowFunction)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(lexer.LBRACE_HASH, p.parseLockedObjectLiteral)
	p.registerPrefix(lexer.LBRACE_PIPE, p.parseLockedObjectLiteral)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACKET_HASH, p.parseLockedArrayLiteral)
	p.registerPrefix(lexer.LBRACKET_PIPE, p.parseLockedArrayLiteral)

	p.infixParseFns = map[lexer.TokenType]infixParseFn{}
	for _, tt := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.SLASH, lexer.ASTERISK, lexer.REMAINDER,
		lexer.EQ, lexer.NOT_EQ, lexer.STRICT_EQ, lexer.STRICT_NOT_EQ,
		lexer.LT, lexer.GT, lexer.LE, lexer.GE, lexer.IN,
		lexer.LOGICAL_AND, lexer.LOGICAL_OR, lexer.COALESCE, lexer.BITWISE_OR,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	for _, tt := range []lexer.TokenType{
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN,
		lexer.ASTERISK_ASSIGN, lexer.SLASH_ASSIGN,
	} {
		p.registerInfix(tt, p.parseAssignmentExpression)
	}
	p.registerInfix(lexer.QUESTION, p.parseTernaryExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)

	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is a convenience helper: lex and parse a source file in one call.
func Parse(src *source.SourceFile) (*Program, []errors.SourceError) {
	p := NewParser(lexer.NewLexer(src.Content), src)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tt] = fn
}

func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tt] = fn
}

// Errors returns the accumulated syntax errors.
func (p *Parser) Errors() []errors.SourceError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.peekToken, fmt.Sprintf("expected %s, got %s", t, p.peekToken.Type))
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) tokenPosition(tok lexer.Token) errors.Position {
	return errors.Position{
		Line:     tok.Line,
		Column:   tok.Column,
		StartPos: tok.StartPos,
		EndPos:   tok.EndPos,
		Source:   p.source,
	}
}

func (p *Parser) addError(tok lexer.Token, msg string) {
	p.errors = append(p.errors, &errors.SyntaxError{
		Position: p.tokenPosition(tok),
		Msg:      msg,
	})
}

// --- Backtracking ---

type parserState struct {
	lex      lexer.Lexer
	cur      lexer.Token
	peek     lexer.Token
	errCount int
}

func (p *Parser) saveState() parserState {
	return parserState{lex: *p.l, cur: p.curToken, peek: p.peekToken, errCount: len(p.errors)}
}

func (p *Parser) restoreState(s parserState) {
	*p.l = s.lex
	p.curToken = s.cur
	p.peekToken = s.peek
	p.errors = p.errors[:s.errCount]
}

// --- Program / statements ---

// ParseProgram parses the whole input and returns the root node. Callers must
// check Errors(): when any structural error accumulated, the AST is partial
// and must not be lowered or emitted.
func (p *Parser) ParseProgram() *Program {
	program := &Program{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) parseStatement() Statement {
	switch p.curToken.Type {
	case lexer.LET, lexer.CONST, lexer.VAR:
		return p.parseDeclaration()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.BREAK:
		stmt := &BreakStatement{Token: p.curToken}
		p.consumeOptionalSemicolon()
		return stmt
	case lexer.CONTINUE:
		stmt := &ContinueStatement{Token: p.curToken}
		p.consumeOptionalSemicolon()
		return stmt
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMICOLON:
		return nil
	case lexer.ILLEGAL:
		p.addError(p.curToken, p.curToken.Literal)
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) consumeOptionalSemicolon() {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// parseDeclaration handles let/const/var of named bindings and of
// destructuring patterns (ordinary or lock-sigiled).
func (p *Parser) parseDeclaration() Statement {
	declTok := p.curToken

	switch p.peekToken.Type {
	case lexer.IDENT:
		p.nextToken()
		name := &Identifier{Token: p.curToken, Value: p.curToken.Literal}
		stmt := &DeclarationStatement{Token: declTok, Name: name}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			stmt.Value = p.parseExpression(LOWEST)
		} else if declTok.Type == lexer.CONST {
			p.addError(p.curToken, "missing initializer in const declaration")
		}
		p.consumeOptionalSemicolon()
		return stmt

	case lexer.LBRACE, lexer.LBRACE_HASH, lexer.LBRACE_PIPE:
		p.nextToken()
		pattern := p.parseObjectPattern()
		return p.finishDestructuringDeclaration(declTok, pattern)

	case lexer.LBRACKET, lexer.LBRACKET_HASH, lexer.LBRACKET_PIPE:
		p.nextToken()
		pattern := p.parseArrayPattern()
		return p.finishDestructuringDeclaration(declTok, pattern)

	default:
		p.addError(p.peekToken, fmt.Sprintf("expected identifier or destructuring pattern after %q, got %s", declTok.Literal, p.peekToken.Type))
		return nil
	}
}

func (p *Parser) finishDestructuringDeclaration(declTok lexer.Token, pattern Expression) Statement {
	if pattern == nil {
		return nil
	}
	stmt := &DestructuringDeclaration{Token: declTok, Pattern: pattern}
	if !p.expectPeek(lexer.ASSIGN) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.consumeOptionalSemicolon()
	return stmt
}

func (p *Parser) parseFunctionDeclaration() Statement {
	tok := p.curToken
	fn := p.parseFunctionCore(true)
	if fn == nil {
		return nil
	}
	return &FunctionDeclaration{Token: tok, Function: fn}
}

func (p *Parser) parseReturnStatement() Statement {
	stmt := &ReturnStatement{Token: p.curToken}
	if !p.peekTokenIs(lexer.SEMICOLON) && !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		stmt.ReturnValue = p.parseExpression(LOWEST)
	}
	p.consumeOptionalSemicolon()
	return stmt
}

func (p *Parser) parseThrowStatement() Statement {
	stmt := &ThrowStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.consumeOptionalSemicolon()
	return stmt
}

func (p *Parser) parseIfStatement() Statement {
	stmt := &IfStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else if p.expectPeek(lexer.LBRACE) {
			stmt.Alternative = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() Statement {
	stmt := &WhileStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() Statement {
	forTok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}

	var init Statement
	switch p.peekToken.Type {
	case lexer.SEMICOLON:
		p.nextToken()
	case lexer.LET, lexer.CONST, lexer.VAR:
		p.nextToken()
		declTok := p.curToken
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		name := &Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if p.peekTokenIs(lexer.OF) {
			p.nextToken() // consume 'of'
			p.nextToken()
			iterable := p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return nil
			}
			if !p.expectPeek(lexer.LBRACE) {
				return nil
			}
			return &ForOfStatement{Token: forTok, DeclTok: declTok, Name: name, Iterable: iterable, Body: p.parseBlockStatement()}
		}
		declStmt := &DeclarationStatement{Token: declTok, Name: name}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			declStmt.Value = p.parseExpression(LOWEST)
		}
		init = declStmt
		if !p.expectPeek(lexer.SEMICOLON) {
			return nil
		}
	default:
		p.nextToken()
		init = &ExpressionStatement{Token: p.curToken, Expression: p.parseExpression(LOWEST)}
		if !p.expectPeek(lexer.SEMICOLON) {
			return nil
		}
	}

	stmt := &ForStatement{Token: forTok, Init: init}
	if !p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		stmt.Update = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseBlockStatement() *BlockStatement {
	block := &BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	if p.curTokenIs(lexer.EOF) {
		p.addError(p.curToken, "unexpected end of input, expected '}'")
	}
	return block
}

func (p *Parser) parseExpressionStatement() Statement {
	stmt := &ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	p.consumeOptionalSemicolon()
	if stmt.Expression == nil {
		return nil
	}
	return stmt
}

// --- Expressions ---

func (p *Parser) parseExpression(precedence int) Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL {
		p.addError(tok, tok.Literal)
		return
	}
	if lexer.IsSigilOpener(tok.Type) || tok.Type == lexer.HASH_RBRACE || tok.Type == lexer.PIPE_RBRACE ||
		tok.Type == lexer.HASH_RBRACKET || tok.Type == lexer.PIPE_RBRACKET ||
		tok.Type == lexer.HASH_RPAREN || tok.Type == lexer.PIPE_RPAREN {
		p.addError(tok, fmt.Sprintf("lock sigil %q is not valid in this position", tok.Literal))
		return
	}
	p.addError(tok, fmt.Sprintf("unexpected token %s", tok.Type))
}

func (p *Parser) parseIdentifierOrArrow() Expression {
	ident := &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		arrowTok := p.curToken
		p.nextToken()
		param := &Parameter{Token: ident.Token, Name: ident}
		return p.parseArrowBody(arrowTok, []*Parameter{param}, nil, lock.ModeNone, ident.Token)
	}
	return ident
}

func (p *Parser) parseNumberLiteral() Expression {
	lit := &NumberLiteral{Token: p.curToken}
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(p.curToken, fmt.Sprintf("could not parse %q as number", p.curToken.Literal))
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() Expression {
	return &StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseRegexLiteral splits the lexed /pattern/flags text and validates the
// pattern by compiling it with an ECMAScript-compatible engine.
func (p *Parser) parseRegexLiteral() Expression {
	raw := p.curToken.Literal
	lastSlash := strings.LastIndexByte(raw, '/')
	pattern := raw[1:lastSlash]
	flags := raw[lastSlash+1:]

	var opts regexp2.RegexOptions = regexp2.ECMAScript
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'g', 'u', 'y':
			// No compile-time counterpart; validity only.
		default:
			p.addError(p.curToken, fmt.Sprintf("unknown regular expression flag %q", string(f)))
		}
	}
	if _, err := regexp2.Compile(pattern, opts); err != nil {
		p.addError(p.curToken, fmt.Sprintf("invalid regular expression: %s", err))
	}
	return &RegexLiteral{Token: p.curToken, Pattern: pattern, Flags: flags}
}

func (p *Parser) parseBooleanLiteral() Expression {
	return &BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNullLiteral() Expression {
	return &NullLiteral{Token: p.curToken}
}

func (p *Parser) parseUndefinedLiteral() Expression {
	return &UndefinedLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() Expression {
	expr := &PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left Expression) Expression {
	expr := &InfixExpression{Token: p.curToken, Left: left, Operator: p.curToken.Literal}
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseAssignmentExpression(left Expression) Expression {
	switch left.(type) {
	case *Identifier, *MemberExpression, *IndexExpression:
	default:
		p.addError(p.curToken, "invalid assignment target")
	}
	expr := &AssignmentExpression{Token: p.curToken, Operator: p.curToken.Literal, Target: left}
	p.nextToken()
	expr.Value = p.parseExpression(ASSIGNMENT - 1) // right-associative
	return expr
}

func (p *Parser) parseTernaryExpression(left Expression) Expression {
	expr := &TernaryExpression{Token: p.curToken, Condition: left}
	p.nextToken()
	expr.Consequence = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	expr.Alternative = p.parseExpression(LOWEST)
	return expr
}

func (p *Parser) parseCallExpression(fn Expression) Expression {
	expr := &CallExpression{Token: p.curToken, Function: fn}
	expr.Arguments = p.parseCallArguments()
	return expr
}

func (p *Parser) parseCallArguments() []Expression {
	args := []Expression{}
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(lexer.RPAREN) {
		return args
	}
	return args
}

func (p *Parser) parseNewExpression() Expression {
	expr := &NewExpression{Token: p.curToken}
	p.nextToken()
	expr.Constructor = p.parseExpression(CALL)
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		expr.Arguments = p.parseCallArguments()
	}
	return expr
}

func (p *Parser) parseMemberExpression(object Expression) Expression {
	expr := &MemberExpression{Token: p.curToken, Object: object}
	p.nextToken()
	// Keywords are legal property names after '.'.
	if !p.curTokenIs(lexer.IDENT) && lexer.LookupIdent(p.curToken.Literal) == lexer.IDENT {
		p.addError(p.curToken, fmt.Sprintf("expected property name after '.', got %s", p.curToken.Type))
		return nil
	}
	expr.Property = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return expr
}

func (p *Parser) parseIndexExpression(left Expression) Expression {
	expr := &IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return expr
}

// parseGroupedOrArrowExpression disambiguates `(expr)` from `(params) => …`
// by attempting a parameter list first and backtracking when no arrow
// follows.
func (p *Parser) parseGroupedOrArrowExpression() Expression {
	state := p.saveState()
	if arrow := p.tryParseArrowFunction(); arrow != nil {
		return arrow
	}
	p.restoreState(state)

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

// parseSigiledArrowFunction parses `(# … #) => …` / `(| … |) => …`. A lock
// sigil on a parenthesized list is only legal on an arrow's parameter list,
// so there is no grouped-expression fallback here.
func (p *Parser) parseSigiledArrowFunction() Expression {
	openTok := p.curToken
	params, rest, mode, ok := p.parseParameterList()
	if !ok {
		return nil
	}
	if !p.peekTokenIs(lexer.ARROW) {
		p.addError(openTok, fmt.Sprintf("lock sigil %q on a parenthesized list requires an arrow function", openTok.Literal))
		return nil
	}
	p.nextToken()
	arrowTok := p.curToken
	p.nextToken()
	return p.parseArrowBody(arrowTok, params, rest, mode, openTok)
}

func (p *Parser) tryParseArrowFunction() Expression {
	openTok := p.curToken
	params, rest, mode, ok := p.parseParameterList()
	if !ok || !p.peekTokenIs(lexer.ARROW) {
		return nil
	}
	p.nextToken()
	arrowTok := p.curToken
	p.nextToken()
	return p.parseArrowBody(arrowTok, params, rest, mode, openTok)
}

func (p *Parser) parseArrowBody(arrowTok lexer.Token, params []*Parameter, rest *Identifier, mode lock.Mode, paramTok lexer.Token) Expression {
	arrow := &ArrowFunctionLiteral{
		Token:      arrowTok,
		Parameters: params,
		RestParam:  rest,
		ParamMode:  mode,
		ParamTok:   paramTok,
	}
	if p.curTokenIs(lexer.LBRACE) {
		arrow.Body = p.parseBlockStatement()
	} else {
		arrow.Body = p.parseExpression(LOWEST)
	}
	return arrow
}

// --- Functions ---

func (p *Parser) parseFunctionLiteral() Expression {
	fn := p.parseFunctionCore(false)
	if fn == nil {
		return nil
	}
	return fn
}

func (p *Parser) parseFunctionCore(requireName bool) *FunctionLiteral {
	fn := &FunctionLiteral{Token: p.curToken}

	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		fn.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	} else if requireName {
		p.addError(p.peekToken, "expected function name")
		return nil
	}

	switch p.peekToken.Type {
	case lexer.LPAREN, lexer.LPAREN_HASH, lexer.LPAREN_PIPE:
		p.nextToken()
	default:
		p.addError(p.peekToken, fmt.Sprintf("expected parameter list, got %s", p.peekToken.Type))
		return nil
	}
	fn.ParamTok = p.curToken

	params, rest, mode, ok := p.parseParameterList()
	if !ok {
		return nil
	}
	fn.Parameters = params
	fn.RestParam = rest
	fn.ParamMode = mode

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func paramCloser(t lexer.TokenType) bool {
	return t == lexer.RPAREN || t == lexer.HASH_RPAREN || t == lexer.PIPE_RPAREN
}

// parseParameterList parses a parameter list starting at its opener token
// ('(', '(#', or '(|') and returns with curToken on the closer.
func (p *Parser) parseParameterList() ([]*Parameter, *Identifier, lock.Mode, bool) {
	openTok := p.curToken
	mode := lock.ModeNone
	switch openTok.Type {
	case lexer.LPAREN_HASH:
		mode = lock.ModeFreeze
	case lexer.LPAREN_PIPE:
		mode = lock.ModeSeal
	}
	expected := expectedCloser(openTok, lexer.RPAREN)

	params := []*Parameter{}
	var rest *Identifier

	for {
		if paramCloser(p.peekToken.Type) {
			p.nextToken()
			p.checkCloser(openTok, expected)
			return params, rest, mode, true
		}
		p.nextToken()

		if p.curTokenIs(lexer.SPREAD) {
			spreadTok := p.curToken
			if !p.expectPeek(lexer.IDENT) {
				return nil, nil, mode, false
			}
			rest = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
			if mode.Locked() {
				// Unresolved in the surface design: a rest parameter would
				// accept keys an exact-shape list must reject.
				p.addError(spreadTok, fmt.Sprintf("rest parameter is not allowed in a %s-locked parameter list", mode))
			}
			if paramCloser(p.peekToken.Type) {
				p.nextToken()
				p.checkCloser(openTok, expected)
				return params, rest, mode, true
			}
			p.addError(p.peekToken, "rest parameter must be the last parameter")
			return nil, nil, mode, false
		}

		param := p.parseParameter(mode)
		if param == nil {
			return nil, nil, mode, false
		}
		params = append(params, param)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if !paramCloser(p.peekToken.Type) {
			p.addError(p.peekToken, fmt.Sprintf("expected ',' or %q in parameter list, got %s", expected, p.peekToken.Type))
			return nil, nil, mode, false
		}
	}
}

func (p *Parser) parseParameter(listMode lock.Mode) *Parameter {
	param := &Parameter{Token: p.curToken}

	switch p.curToken.Type {
	case lexer.IDENT:
		param.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.LBRACE, lexer.LBRACE_HASH, lexer.LBRACE_PIPE:
		param.Pattern = p.parseObjectPattern()
		if param.Pattern == nil {
			return nil
		}
	case lexer.LBRACKET, lexer.LBRACKET_HASH, lexer.LBRACKET_PIPE:
		param.Pattern = p.parseArrayPattern()
		if param.Pattern == nil {
			return nil
		}
	default:
		p.addError(p.curToken, fmt.Sprintf("expected parameter name or destructuring pattern, got %s", p.curToken.Type))
		return nil
	}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(LOWEST)
		if param.Default == nil {
			return nil
		}
	}
	return param
}

// --- Object and array literals ---

func objectCloser(t lexer.TokenType) bool {
	return t == lexer.RBRACE || t == lexer.HASH_RBRACE || t == lexer.PIPE_RBRACE
}

func arrayCloser(t lexer.TokenType) bool {
	return t == lexer.RBRACKET || t == lexer.HASH_RBRACKET || t == lexer.PIPE_RBRACKET
}

// expectedCloser returns the closer that balances openTok: the same-family
// sigil closer for a sigil opener, otherwise plain.
func expectedCloser(openTok lexer.Token, plain lexer.TokenType) lexer.TokenType {
	if lexer.IsSigilOpener(openTok.Type) {
		return lexer.MatchingCloser(openTok.Type)
	}
	return plain
}

// checkCloser verifies that curToken closes the delimiter family opened by
// openTok. A wrong-family closer is a structural diagnostic; the token is
// still consumed so parsing continues and further errors surface.
func (p *Parser) checkCloser(openTok lexer.Token, expected lexer.TokenType) {
	if p.curToken.Type != expected {
		p.addError(p.curToken, fmt.Sprintf("mismatched lock delimiter: %q opened at %d:%d is closed with %q, expected %q",
			openTok.Literal, openTok.Line, openTok.Column, p.curToken.Literal, string(expected)))
	}
}

func (p *Parser) parseObjectLiteral() Expression {
	lit := &ObjectLiteral{Token: p.curToken}
	lit.Properties = p.parseObjectProperties(p.curToken, lexer.RBRACE)
	return lit
}

func (p *Parser) parseLockedObjectLiteral() Expression {
	lit := &LockedObjectLiteral{Token: p.curToken}
	lit.Mode = lock.ModeFreeze
	if p.curTokenIs(lexer.LBRACE_PIPE) {
		lit.Mode = lock.ModeSeal
	}
	lit.Properties = p.parseObjectProperties(p.curToken, lexer.MatchingCloser(p.curToken.Type))
	return lit
}

// parseObjectProperties parses `key: value` pairs until an object closer and
// returns with curToken on the closer.
func (p *Parser) parseObjectProperties(openTok lexer.Token, expected lexer.TokenType) []*ObjectProperty {
	props := []*ObjectProperty{}

	for {
		if objectCloser(p.peekToken.Type) {
			p.nextToken()
			p.checkCloser(openTok, expected)
			return props
		}
		p.nextToken()

		key := p.parsePropertyKey()
		if key == nil {
			return props
		}

		var value Expression
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			value = p.parseExpression(LOWEST)
		} else {
			// Shorthand property: `{a}` is `{a: a}`.
			ident, ok := key.(*Identifier)
			if !ok {
				p.addError(p.curToken, "expected ':' after property key")
				return props
			}
			value = &Identifier{Token: ident.Token, Value: ident.Value}
		}
		props = append(props, &ObjectProperty{Key: key, Value: value})

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if !objectCloser(p.peekToken.Type) {
			p.addError(p.peekToken, fmt.Sprintf("expected ',' or %q in object literal, got %s", string(expected), p.peekToken.Type))
			return props
		}
	}
}

func (p *Parser) parsePropertyKey() Expression {
	switch p.curToken.Type {
	case lexer.IDENT:
		return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.STRING:
		return &StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.NUMBER:
		return p.parseNumberLiteral()
	default:
		p.addError(p.curToken, fmt.Sprintf("expected property key, got %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseArrayLiteral() Expression {
	lit := &ArrayLiteral{Token: p.curToken}
	lit.Elements = p.parseArrayElements(p.curToken, lexer.RBRACKET)
	return lit
}

func (p *Parser) parseLockedArrayLiteral() Expression {
	lit := &LockedArrayLiteral{Token: p.curToken}
	lit.Mode = lock.ModeFreeze
	if p.curTokenIs(lexer.LBRACKET_PIPE) {
		lit.Mode = lock.ModeSeal
	}
	lit.Elements = p.parseArrayElements(p.curToken, lexer.MatchingCloser(p.curToken.Type))
	return lit
}

func (p *Parser) parseArrayElements(openTok lexer.Token, expected lexer.TokenType) []Expression {
	elems := []Expression{}

	for {
		if arrayCloser(p.peekToken.Type) {
			p.nextToken()
			p.checkCloser(openTok, expected)
			return elems
		}
		p.nextToken()

		el := p.parseExpression(LOWEST)
		if el == nil {
			return elems
		}
		elems = append(elems, el)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if !arrayCloser(p.peekToken.Type) {
			p.addError(p.peekToken, fmt.Sprintf("expected ',' or %q in array literal, got %s", string(expected), p.peekToken.Type))
			return elems
		}
	}
}

// --- Patterns ---

// parseObjectPattern parses an object destructuring pattern starting at its
// opener ('{', '{#', or '{|') and returns with curToken on the closer.
func (p *Parser) parseObjectPattern() Expression {
	openTok := p.curToken
	pattern := &ObjectPattern{Token: openTok}
	switch openTok.Type {
	case lexer.LBRACE_HASH:
		pattern.Mode = lock.ModeFreeze
	case lexer.LBRACE_PIPE:
		pattern.Mode = lock.ModeSeal
	}
	expected := expectedCloser(openTok, lexer.RBRACE)

	for {
		if objectCloser(p.peekToken.Type) {
			p.nextToken()
			p.checkCloser(openTok, expected)
			return pattern
		}
		p.nextToken()

		if p.curTokenIs(lexer.SPREAD) {
			spreadTok := p.curToken
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			pattern.Rest = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
			if pattern.Mode.Locked() {
				p.addError(spreadTok, fmt.Sprintf("rest element is not allowed in a %s-locked pattern", pattern.Mode))
			}
			if objectCloser(p.peekToken.Type) {
				p.nextToken()
				p.checkCloser(openTok, expected)
				return pattern
			}
			p.addError(p.peekToken, "rest element must be the last pattern entry")
			return nil
		}

		if !p.curTokenIs(lexer.IDENT) {
			p.addError(p.curToken, fmt.Sprintf("expected property name in pattern, got %s", p.curToken.Type))
			return nil
		}
		prop := &PatternProperty{Key: &Identifier{Token: p.curToken, Value: p.curToken.Literal}}

		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			prop.Target = p.parsePatternTarget()
			if prop.Target == nil {
				return nil
			}
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			prop.Default = p.parseExpression(LOWEST)
			if prop.Default == nil {
				return nil
			}
		}
		pattern.Properties = append(pattern.Properties, prop)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if !objectCloser(p.peekToken.Type) {
			p.addError(p.peekToken, fmt.Sprintf("expected ',' or %q in pattern, got %s", string(expected), p.peekToken.Type))
			return nil
		}
	}
}

// parseArrayPattern parses an array destructuring pattern starting at its
// opener ('[', '[#', or '[|') and returns with curToken on the closer.
func (p *Parser) parseArrayPattern() Expression {
	openTok := p.curToken
	pattern := &ArrayPattern{Token: openTok}
	switch openTok.Type {
	case lexer.LBRACKET_HASH:
		pattern.Mode = lock.ModeFreeze
	case lexer.LBRACKET_PIPE:
		pattern.Mode = lock.ModeSeal
	}
	expected := expectedCloser(openTok, lexer.RBRACKET)

	for {
		if arrayCloser(p.peekToken.Type) {
			p.nextToken()
			p.checkCloser(openTok, expected)
			return pattern
		}
		p.nextToken()

		// Elision hole: `[a, , b]`.
		if p.curTokenIs(lexer.COMMA) {
			pattern.Elements = append(pattern.Elements, nil)
			continue
		}

		if p.curTokenIs(lexer.SPREAD) {
			spreadTok := p.curToken
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			pattern.Rest = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
			if pattern.Mode.Locked() {
				p.addError(spreadTok, fmt.Sprintf("rest element is not allowed in a %s-locked pattern", pattern.Mode))
			}
			if arrayCloser(p.peekToken.Type) {
				p.nextToken()
				p.checkCloser(openTok, expected)
				return pattern
			}
			p.addError(p.peekToken, "rest element must be the last pattern entry")
			return nil
		}

		elem := &PatternElement{}
		elem.Target = p.parsePatternTarget()
		if elem.Target == nil {
			return nil
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			elem.Default = p.parseExpression(LOWEST)
			if elem.Default == nil {
				return nil
			}
		}
		pattern.Elements = append(pattern.Elements, elem)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if !arrayCloser(p.peekToken.Type) {
			p.addError(p.peekToken, fmt.Sprintf("expected ',' or %q in pattern, got %s", string(expected), p.peekToken.Type))
			return nil
		}
	}
}

// parsePatternTarget parses a binding target within a pattern: a plain name
// or a nested (possibly lock-sigiled) pattern.
func (p *Parser) parsePatternTarget() Expression {
	switch p.curToken.Type {
	case lexer.IDENT:
		return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.LBRACE, lexer.LBRACE_HASH, lexer.LBRACE_PIPE:
		return p.parseObjectPattern()
	case lexer.LBRACKET, lexer.LBRACKET_HASH, lexer.LBRACKET_PIPE:
		return p.parseArrayPattern()
	default:
		p.addError(p.curToken, fmt.Sprintf("expected binding name or nested pattern, got %s", p.curToken.Type))
		return nil
	}
}
