package parser

import (
	"bytes"
	"strings"

	"lockjs/pkg/lexer"
	"lockjs/pkg/lock"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string // Returns the literal value of the token associated with the node
	String() string       // Returns a string representation of the node (for debugging)
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

// --- Program Node ---

// Program is the root node of the AST.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// --- Statement Nodes ---

// DeclarationStatement represents a `let`, `const`, or `var` declaration of a
// single named binding.
// <let|const|var> <Name> = <Value>;
type DeclarationStatement struct {
	Token lexer.Token // The let/const/var token
	Name  *Identifier
	Value Expression // May be nil (declaration without initializer)
}

func (ds *DeclarationStatement) statementNode()       {}
func (ds *DeclarationStatement) TokenLiteral() string { return ds.Token.Literal }
func (ds *DeclarationStatement) IsConst() bool        { return ds.Token.Type == lexer.CONST }
func (ds *DeclarationStatement) String() string {
	var out bytes.Buffer
	out.WriteString(ds.TokenLiteral() + " ")
	out.WriteString(ds.Name.String())
	if ds.Value != nil {
		out.WriteString(" = ")
		out.WriteString(ds.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// DestructuringDeclaration represents a declaration whose target is an object
// or array pattern, ordinary or lock-sigiled.
// <let|const|var> <Pattern> = <Value>;
type DestructuringDeclaration struct {
	Token   lexer.Token // The let/const/var token
	Pattern Expression  // *ObjectPattern or *ArrayPattern
	Value   Expression
}

func (dd *DestructuringDeclaration) statementNode()       {}
func (dd *DestructuringDeclaration) TokenLiteral() string { return dd.Token.Literal }
func (dd *DestructuringDeclaration) IsConst() bool        { return dd.Token.Type == lexer.CONST }
func (dd *DestructuringDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString(dd.TokenLiteral() + " ")
	out.WriteString(dd.Pattern.String())
	out.WriteString(" = ")
	if dd.Value != nil {
		out.WriteString(dd.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// ReturnStatement represents a `return` statement.
type ReturnStatement struct {
	Token       lexer.Token // The 'return' token
	ReturnValue Expression  // May be nil
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer
	out.WriteString(rs.TokenLiteral())
	if rs.ReturnValue != nil {
		out.WriteString(" ")
		out.WriteString(rs.ReturnValue.String())
	}
	out.WriteString(";")
	return out.String()
}

// ThrowStatement represents a `throw` statement. The desugarer synthesizes
// these for the generated contract guards.
type ThrowStatement struct {
	Token lexer.Token // The 'throw' token
	Value Expression
}

func (ts *ThrowStatement) statementNode()       {}
func (ts *ThrowStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *ThrowStatement) String() string {
	return "throw " + ts.Value.String() + ";"
}

// ExpressionStatement represents a statement consisting of a single expression.
type ExpressionStatement struct {
	Token      lexer.Token // The first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}

// BlockStatement represents a brace-delimited statement list.
type BlockStatement struct {
	Token      lexer.Token // The '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement represents an `if`/`else` statement.
type IfStatement struct {
	Token       lexer.Token // The 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // *BlockStatement, *IfStatement (else-if), or nil
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}
	return out.String()
}

// WhileStatement represents a `while` loop.
type WhileStatement struct {
	Token     lexer.Token // The 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// ForStatement represents a classic three-clause `for` loop.
type ForStatement struct {
	Token     lexer.Token // The 'for' token
	Init      Statement   // May be nil
	Condition Expression  // May be nil
	Update    Expression  // May be nil
	Body      *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if fs.Init != nil {
		out.WriteString(strings.TrimSuffix(fs.Init.String(), ";"))
	}
	out.WriteString("; ")
	if fs.Condition != nil {
		out.WriteString(fs.Condition.String())
	}
	out.WriteString("; ")
	if fs.Update != nil {
		out.WriteString(fs.Update.String())
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}

// ForOfStatement represents a `for (<decl> <name> of <iterable>)` loop. The
// desugarer synthesizes these for the generated own-key scans.
type ForOfStatement struct {
	Token    lexer.Token // The 'for' token
	DeclTok  lexer.Token // The let/const token of the loop binding
	Name     *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fo *ForOfStatement) statementNode()       {}
func (fo *ForOfStatement) TokenLiteral() string { return fo.Token.Literal }
func (fo *ForOfStatement) String() string {
	return "for (" + fo.DeclTok.Literal + " " + fo.Name.String() + " of " + fo.Iterable.String() + ") " + fo.Body.String()
}

// BreakStatement represents a `break` statement.
type BreakStatement struct {
	Token lexer.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) String() string       { return "break;" }

// ContinueStatement represents a `continue` statement.
type ContinueStatement struct {
	Token lexer.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) String() string       { return "continue;" }

// FunctionDeclaration represents a statement-position `function f() {}`.
type FunctionDeclaration struct {
	Token    lexer.Token // The 'function' token
	Function *FunctionLiteral
}

func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDeclaration) String() string       { return fd.Function.String() }

// --- Expression Nodes ---

// Identifier represents an identifier in the source code.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// NumberLiteral represents a numeric literal.
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

// StringLiteral represents a string literal. Value holds the decoded text.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }

// RegexLiteral represents a regular expression literal.
type RegexLiteral struct {
	Token   lexer.Token
	Pattern string
	Flags   string
}

func (rl *RegexLiteral) expressionNode()      {}
func (rl *RegexLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RegexLiteral) String() string       { return "/" + rl.Pattern + "/" + rl.Flags }

// BooleanLiteral represents `true` or `false`.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

// NullLiteral represents `null`.
type NullLiteral struct {
	Token lexer.Token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) String() string       { return "null" }

// UndefinedLiteral represents `undefined`.
type UndefinedLiteral struct {
	Token lexer.Token
}

func (ul *UndefinedLiteral) expressionNode()      {}
func (ul *UndefinedLiteral) TokenLiteral() string { return ul.Token.Literal }
func (ul *UndefinedLiteral) String() string       { return "undefined" }

// PrefixExpression represents a prefix operator expression (e.g., !ok, -x).
type PrefixExpression struct {
	Token    lexer.Token // The operator token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression represents a binary operator expression.
type InfixExpression struct {
	Token    lexer.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// AssignmentExpression represents `target = value` and the compound forms.
type AssignmentExpression struct {
	Token    lexer.Token // The operator token
	Operator string
	Target   Expression
	Value    Expression
}

func (ae *AssignmentExpression) expressionNode()      {}
func (ae *AssignmentExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignmentExpression) String() string {
	return "(" + ae.Target.String() + " " + ae.Operator + " " + ae.Value.String() + ")"
}

// TernaryExpression represents `condition ? consequence : alternative`.
type TernaryExpression struct {
	Token       lexer.Token // The '?' token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (te *TernaryExpression) expressionNode()      {}
func (te *TernaryExpression) TokenLiteral() string { return te.Token.Literal }
func (te *TernaryExpression) String() string {
	return "(" + te.Condition.String() + " ? " + te.Consequence.String() + " : " + te.Alternative.String() + ")"
}

// CallExpression represents a function call.
type CallExpression struct {
	Token     lexer.Token // The '(' token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// NewExpression represents `new Ctor(args)`. The desugarer synthesizes these
// for the generated `new TypeError(...)` guard failures.
type NewExpression struct {
	Token       lexer.Token // The 'new' token
	Constructor Expression
	Arguments   []Expression
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NewExpression) String() string {
	var out bytes.Buffer
	args := []string{}
	for _, a := range ne.Arguments {
		args = append(args, a.String())
	}
	out.WriteString("new ")
	out.WriteString(ne.Constructor.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// MemberExpression represents property access (e.g., object.property).
type MemberExpression struct {
	Token    lexer.Token // The '.' token
	Object   Expression
	Property *Identifier
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpression) String() string {
	return me.Object.String() + "." + me.Property.String()
}

// IndexExpression represents indexed access (e.g., arr[i]).
type IndexExpression struct {
	Token lexer.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}

// --- Functions ---

// Parameter represents one entry in a function's parameter list: either a
// named parameter or a destructuring pattern.
type Parameter struct {
	Token   lexer.Token
	Name    *Identifier // nil when Pattern is set
	Pattern Expression  // *ObjectPattern or *ArrayPattern, nil for plain params
	Default Expression  // May be nil
}

func (p *Parameter) expressionNode()      {}
func (p *Parameter) TokenLiteral() string { return p.Token.Literal }
func (p *Parameter) String() string {
	var out bytes.Buffer
	if p.Pattern != nil {
		out.WriteString(p.Pattern.String())
	} else if p.Name != nil {
		out.WriteString(p.Name.String())
	}
	if p.Default != nil {
		out.WriteString(" = ")
		out.WriteString(p.Default.String())
	}
	return out.String()
}

func paramListString(params []*Parameter, rest *Identifier, mode lock.Mode) string {
	var out bytes.Buffer
	open, closer := "(", ")"
	switch mode {
	case lock.ModeFreeze:
		open, closer = "(# ", " #)"
	case lock.ModeSeal:
		open, closer = "(| ", " |)"
	}
	parts := []string{}
	for _, p := range params {
		parts = append(parts, p.String())
	}
	if rest != nil {
		parts = append(parts, "..."+rest.String())
	}
	out.WriteString(open)
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(closer)
	return out.String()
}

// FunctionLiteral represents a function expression or the function underlying
// a declaration. ParamMode records the lock sigil on the parameter list
// (lock.ModeNone for ordinary parentheses).
type FunctionLiteral struct {
	Token     lexer.Token // The 'function' token
	Name      *Identifier // May be nil (anonymous)
	Parameters []*Parameter
	RestParam *Identifier // May be nil; never set when ParamMode is locked
	ParamMode lock.Mode
	ParamTok  lexer.Token // The parameter-list opener, for diagnostics
	Body      *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("function")
	if fl.Name != nil {
		out.WriteString(" " + fl.Name.String())
	}
	out.WriteString(paramListString(fl.Parameters, fl.RestParam, fl.ParamMode))
	out.WriteString(" ")
	out.WriteString(fl.Body.String())
	return out.String()
}

// ArrowFunctionLiteral represents an arrow function. Body is either a
// *BlockStatement or an Expression.
type ArrowFunctionLiteral struct {
	Token      lexer.Token // The '=>' token
	Parameters []*Parameter
	RestParam  *Identifier
	ParamMode  lock.Mode
	ParamTok   lexer.Token
	Body       Node
}

func (af *ArrowFunctionLiteral) expressionNode()      {}
func (af *ArrowFunctionLiteral) TokenLiteral() string { return af.Token.Literal }
func (af *ArrowFunctionLiteral) String() string {
	var out bytes.Buffer
	out.WriteString(paramListString(af.Parameters, af.RestParam, af.ParamMode))
	out.WriteString(" => ")
	out.WriteString(af.Body.String())
	return out.String()
}

// --- Object and array literals ---

// ObjectProperty represents a single key-value pair within an object literal.
type ObjectProperty struct {
	Key   Expression // *Identifier, *StringLiteral, or *NumberLiteral
	Value Expression
}

func (op *ObjectProperty) String() string {
	return op.Key.String() + ": " + op.Value.String()
}

// ObjectLiteral represents an ordinary object literal expression.
type ObjectLiteral struct {
	Token      lexer.Token // The '{' token
	Properties []*ObjectProperty
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	props := []string{}
	for _, p := range ol.Properties {
		props = append(props, p.String())
	}
	return "{" + strings.Join(props, ", ") + "}"
}

// ArrayLiteral represents an ordinary array literal expression.
type ArrayLiteral struct {
	Token    lexer.Token // The '[' token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string {
	elems := []string{}
	for _, e := range al.Elements {
		elems = append(elems, e.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// LockedObjectLiteral represents a freeze- or seal-sigiled object literal,
// e.g. `{# a: 1 #}` or `{| a: 1 |}`.
type LockedObjectLiteral struct {
	Token      lexer.Token // The '{#' or '{|' token
	Mode       lock.Mode
	Properties []*ObjectProperty
}

func (ll *LockedObjectLiteral) expressionNode()      {}
func (ll *LockedObjectLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *LockedObjectLiteral) String() string {
	open, closer := "{# ", " #}"
	if ll.Mode == lock.ModeSeal {
		open, closer = "{| ", " |}"
	}
	props := []string{}
	for _, p := range ll.Properties {
		props = append(props, p.String())
	}
	return open + strings.Join(props, ", ") + closer
}

// LockedArrayLiteral represents a freeze- or seal-sigiled array literal,
// e.g. `[# 1, 2 #]` or `[| 1, 2 |]`.
type LockedArrayLiteral struct {
	Token    lexer.Token // The '[#' or '[|' token
	Mode     lock.Mode
	Elements []Expression
}

func (ll *LockedArrayLiteral) expressionNode()      {}
func (ll *LockedArrayLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *LockedArrayLiteral) String() string {
	open, closer := "[# ", " #]"
	if ll.Mode == lock.ModeSeal {
		open, closer = "[| ", " |]"
	}
	elems := []string{}
	for _, e := range ll.Elements {
		elems = append(elems, e.String())
	}
	return open + strings.Join(elems, ", ") + closer
}

// --- Patterns ---

// PatternProperty represents one entry of an object pattern.
// `key`, `key: target`, `key = default`, `key: target = default`.
type PatternProperty struct {
	Key     *Identifier
	Target  Expression // *Identifier rename or nested pattern; nil for shorthand
	Default Expression // May be nil
}

func (pp *PatternProperty) String() string {
	var out bytes.Buffer
	out.WriteString(pp.Key.String())
	if pp.Target != nil {
		out.WriteString(": ")
		out.WriteString(pp.Target.String())
	}
	if pp.Default != nil {
		out.WriteString(" = ")
		out.WriteString(pp.Default.String())
	}
	return out.String()
}

// ObjectPattern represents an object destructuring pattern, ordinary
// (Mode == lock.ModeNone) or lock-sigiled.
type ObjectPattern struct {
	Token      lexer.Token // The '{', '{#', or '{|' token
	Mode       lock.Mode
	Properties []*PatternProperty
	Rest       *Identifier // `...rest`; only legal when Mode is ModeNone
}

func (op *ObjectPattern) expressionNode()      {}
func (op *ObjectPattern) TokenLiteral() string { return op.Token.Literal }
func (op *ObjectPattern) String() string {
	open, closer := "{", "}"
	switch op.Mode {
	case lock.ModeFreeze:
		open, closer = "{# ", " #}"
	case lock.ModeSeal:
		open, closer = "{| ", " |}"
	}
	parts := []string{}
	for _, p := range op.Properties {
		parts = append(parts, p.String())
	}
	if op.Rest != nil {
		parts = append(parts, "..."+op.Rest.String())
	}
	return open + strings.Join(parts, ", ") + closer
}

// PatternElement represents one entry of an array pattern. A nil element in
// the enclosing slice is an elision hole.
type PatternElement struct {
	Target  Expression // *Identifier or nested pattern
	Default Expression // May be nil
}

func (pe *PatternElement) String() string {
	var out bytes.Buffer
	out.WriteString(pe.Target.String())
	if pe.Default != nil {
		out.WriteString(" = ")
		out.WriteString(pe.Default.String())
	}
	return out.String()
}

// ArrayPattern represents an array destructuring pattern, ordinary or
// lock-sigiled.
type ArrayPattern struct {
	Token    lexer.Token // The '[', '[#', or '[|' token
	Mode     lock.Mode
	Elements []*PatternElement // nil entries are elision holes
	Rest     *Identifier       // `...rest`; only legal when Mode is ModeNone
}

func (ap *ArrayPattern) expressionNode()      {}
func (ap *ArrayPattern) TokenLiteral() string { return ap.Token.Literal }
func (ap *ArrayPattern) String() string {
	open, closer := "[", "]"
	switch ap.Mode {
	case lock.ModeFreeze:
		open, closer = "[# ", " #]"
	case lock.ModeSeal:
		open, closer = "[| ", " |]"
	}
	parts := []string{}
	for _, e := range ap.Elements {
		if e == nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, e.String())
	}
	if ap.Rest != nil {
		parts = append(parts, "..."+ap.Rest.String())
	}
	return open + strings.Join(parts, ", ") + closer
}
