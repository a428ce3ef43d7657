package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Emitter prints an AST as JavaScript source. The desugared base AST prints
// to plain JavaScript; extended nodes (locked literals and patterns) print in
// their surface syntax, which keeps the emitter usable for debugging partial
// pipelines.
type Emitter struct {
	indentLevel int
	buffer      bytes.Buffer
}

// NewEmitter creates a new JavaScript emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit converts a program AST to JavaScript code.
func (e *Emitter) Emit(program *Program) string {
	e.buffer.Reset()
	e.indentLevel = 0

	for _, stmt := range program.Statements {
		e.emitStatement(stmt)
	}

	return e.buffer.String()
}

// Helper methods

func (e *Emitter) indent() {
	e.indentLevel++
}

func (e *Emitter) dedent() {
	if e.indentLevel > 0 {
		e.indentLevel--
	}
}

func (e *Emitter) writeIndent() {
	for i := 0; i < e.indentLevel; i++ {
		e.buffer.WriteString("  ")
	}
}

func (e *Emitter) writeLine(format string, args ...interface{}) {
	e.writeIndent()
	fmt.Fprintf(&e.buffer, format, args...)
	e.buffer.WriteString("\n")
}

func (e *Emitter) write(format string, args ...interface{}) {
	fmt.Fprintf(&e.buffer, format, args...)
}

// writeString appends raw text. Dynamic content (identifier names, quoted
// string values, pass-through surface syntax) must come through here so a
// '%' in it is never treated as a format verb.
func (e *Emitter) writeString(s string) {
	e.buffer.WriteString(s)
}

// AST emitter methods

func (e *Emitter) emitStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *DeclarationStatement:
		e.emitDeclarationStatement(s)
	case *DestructuringDeclaration:
		e.emitDestructuringDeclaration(s)
	case *FunctionDeclaration:
		e.writeIndent()
		e.emitFunctionLiteral(s.Function)
		e.write("\n")
	case *ReturnStatement:
		e.emitReturnStatement(s)
	case *ThrowStatement:
		e.emitThrowStatement(s)
	case *ExpressionStatement:
		e.emitExpressionStatement(s)
	case *BlockStatement:
		e.writeIndent()
		e.emitBlockStatement(s)
	case *IfStatement:
		e.writeIndent()
		e.emitIfStatement(s)
	case *WhileStatement:
		e.emitWhileStatement(s)
	case *ForStatement:
		e.emitForStatement(s)
	case *ForOfStatement:
		e.emitForOfStatement(s)
	case *BreakStatement:
		e.writeLine("break;")
	case *ContinueStatement:
		e.writeLine("continue;")
	default:
		e.writeLine("/* Unsupported statement type: %T */", s)
	}
}

func (e *Emitter) emitDeclarationStatement(stmt *DeclarationStatement) {
	e.writeIndent()
	e.write("%s %s", stmt.Token.Literal, stmt.Name.Value)
	if stmt.Value != nil {
		e.write(" = ")
		e.emitExpression(stmt.Value)
	}
	e.write(";\n")
}

func (e *Emitter) emitDestructuringDeclaration(stmt *DestructuringDeclaration) {
	e.writeIndent()
	e.write("%s ", stmt.Token.Literal)
	e.emitExpression(stmt.Pattern)
	e.write(" = ")
	e.emitExpression(stmt.Value)
	e.write(";\n")
}

func (e *Emitter) emitReturnStatement(stmt *ReturnStatement) {
	e.writeIndent()
	e.write("return")
	if stmt.ReturnValue != nil {
		e.write(" ")
		e.emitExpression(stmt.ReturnValue)
	}
	e.write(";\n")
}

func (e *Emitter) emitThrowStatement(stmt *ThrowStatement) {
	e.writeIndent()
	e.write("throw ")
	e.emitExpression(stmt.Value)
	e.write(";\n")
}

func (e *Emitter) emitExpressionStatement(stmt *ExpressionStatement) {
	e.writeIndent()
	// A leading `function` or `{` would be parsed as a declaration or block.
	switch stmt.Expression.(type) {
	case *FunctionLiteral, *ObjectLiteral:
		e.write("(")
		e.emitExpression(stmt.Expression)
		e.write(");\n")
	default:
		e.emitExpression(stmt.Expression)
		e.write(";\n")
	}
}

func (e *Emitter) emitIfStatement(stmt *IfStatement) {
	e.write("if (")
	e.emitExpression(stmt.Condition)
	e.write(") ")
	e.emitBlockStatement(stmt.Consequence)
	if stmt.Alternative != nil {
		e.dedentTrailingNewline()
		e.write(" else ")
		switch alt := stmt.Alternative.(type) {
		case *IfStatement:
			e.emitIfStatement(alt)
		case *BlockStatement:
			e.emitBlockStatement(alt)
		}
	}
}

// dedentTrailingNewline removes the newline a just-emitted block wrote so a
// trailing clause can continue on the same line.
func (e *Emitter) dedentTrailingNewline() {
	b := e.buffer.Bytes()
	if len(b) > 0 && b[len(b)-1] == '\n' {
		e.buffer.Truncate(len(b) - 1)
	}
}

func (e *Emitter) emitBlockStatement(stmt *BlockStatement) {
	e.write("{\n")
	e.indent()
	for _, s := range stmt.Statements {
		e.emitStatement(s)
	}
	e.dedent()
	e.writeIndent()
	e.write("}\n")
}

func (e *Emitter) emitWhileStatement(stmt *WhileStatement) {
	e.writeIndent()
	e.write("while (")
	e.emitExpression(stmt.Condition)
	e.write(") ")
	e.emitBlockStatement(stmt.Body)
}

func (e *Emitter) emitForStatement(stmt *ForStatement) {
	e.writeIndent()
	e.write("for (")
	if stmt.Init != nil {
		switch init := stmt.Init.(type) {
		case *DeclarationStatement:
			e.write("%s %s", init.Token.Literal, init.Name.Value)
			if init.Value != nil {
				e.write(" = ")
				e.emitExpression(init.Value)
			}
		case *ExpressionStatement:
			e.emitExpression(init.Expression)
		}
	}
	e.write("; ")
	if stmt.Condition != nil {
		e.emitExpression(stmt.Condition)
	}
	e.write("; ")
	if stmt.Update != nil {
		e.emitExpression(stmt.Update)
	}
	e.write(") ")
	e.emitBlockStatement(stmt.Body)
}

func (e *Emitter) emitForOfStatement(stmt *ForOfStatement) {
	e.writeIndent()
	e.write("for (%s %s of ", stmt.DeclTok.Literal, stmt.Name.Value)
	e.emitExpression(stmt.Iterable)
	e.write(") ")
	e.emitBlockStatement(stmt.Body)
}

func (e *Emitter) emitExpression(expr Expression) {
	switch exp := expr.(type) {
	case *Identifier:
		e.writeString(exp.Value)
	case *BooleanLiteral:
		e.write("%t", exp.Value)
	case *NumberLiteral:
		e.writeString(exp.TokenLiteral())
	case *StringLiteral:
		e.writeString(strconv.Quote(exp.Value))
	case *RegexLiteral:
		e.write("/%s/%s", exp.Pattern, exp.Flags)
	case *NullLiteral:
		e.write("null")
	case *UndefinedLiteral:
		e.write("undefined")
	case *FunctionLiteral:
		e.emitFunctionLiteral(exp)
	case *ArrowFunctionLiteral:
		e.emitArrowFunctionLiteral(exp)
	case *CallExpression:
		e.emitCallExpression(exp)
	case *NewExpression:
		e.emitNewExpression(exp)
	case *PrefixExpression:
		e.write("(%s", exp.Operator)
		e.emitExpression(exp.Right)
		e.write(")")
	case *InfixExpression:
		e.write("(")
		e.emitExpression(exp.Left)
		e.write(" %s ", exp.Operator)
		e.emitExpression(exp.Right)
		e.write(")")
	case *AssignmentExpression:
		e.emitExpression(exp.Target)
		e.write(" %s ", exp.Operator)
		e.emitExpression(exp.Value)
	case *TernaryExpression:
		e.write("(")
		e.emitExpression(exp.Condition)
		e.write(" ? ")
		e.emitExpression(exp.Consequence)
		e.write(" : ")
		e.emitExpression(exp.Alternative)
		e.write(")")
	case *ArrayLiteral:
		e.emitArrayLiteral(exp)
	case *IndexExpression:
		e.emitExpression(exp.Left)
		e.write("[")
		e.emitExpression(exp.Index)
		e.write("]")
	case *MemberExpression:
		e.emitExpression(exp.Object)
		e.write(".%s", exp.Property.Value)
	case *ObjectLiteral:
		e.emitObjectLiteral(exp)
	case *LockedObjectLiteral, *LockedArrayLiteral, *ObjectPattern, *ArrayPattern:
		// Extended nodes survive only in not-yet-desugared trees; print
		// their surface form.
		e.writeString(exp.String())
	default:
		e.write("/* Unsupported expression type: %T */", exp)
	}
}

func (e *Emitter) emitParameterList(params []*Parameter, rest *Identifier) {
	e.write("(")
	for i, p := range params {
		if p.Pattern != nil {
			e.emitExpression(p.Pattern)
		} else {
			e.writeString(p.Name.Value)
		}
		if p.Default != nil {
			e.write(" = ")
			e.emitExpression(p.Default)
		}
		if i < len(params)-1 || rest != nil {
			e.write(", ")
		}
	}
	if rest != nil {
		e.write("...%s", rest.Value)
	}
	e.write(")")
}

func (e *Emitter) emitFunctionLiteral(fn *FunctionLiteral) {
	e.write("function")
	if fn.Name != nil {
		e.write(" %s", fn.Name.Value)
	}
	e.emitParameterList(fn.Parameters, fn.RestParam)
	e.write(" ")
	e.emitBlockStatement(fn.Body)
	e.dedentTrailingNewline()
}

func (e *Emitter) emitArrowFunctionLiteral(fn *ArrowFunctionLiteral) {
	e.emitParameterList(fn.Parameters, fn.RestParam)
	e.write(" => ")
	switch body := fn.Body.(type) {
	case *BlockStatement:
		e.emitBlockStatement(body)
		e.dedentTrailingNewline()
	case Expression:
		e.emitExpression(body)
	}
}

func (e *Emitter) emitCallExpression(call *CallExpression) {
	e.emitExpression(call.Function)
	e.write("(")
	for i, arg := range call.Arguments {
		e.emitExpression(arg)
		if i < len(call.Arguments)-1 {
			e.write(", ")
		}
	}
	e.write(")")
}

func (e *Emitter) emitNewExpression(expr *NewExpression) {
	e.write("new ")
	e.emitExpression(expr.Constructor)
	e.write("(")
	for i, arg := range expr.Arguments {
		e.emitExpression(arg)
		if i < len(expr.Arguments)-1 {
			e.write(", ")
		}
	}
	e.write(")")
}

func (e *Emitter) emitArrayLiteral(arr *ArrayLiteral) {
	e.write("[")
	for i, elem := range arr.Elements {
		e.emitExpression(elem)
		if i < len(arr.Elements)-1 {
			e.write(", ")
		}
	}
	e.write("]")
}

func (e *Emitter) emitObjectLiteral(obj *ObjectLiteral) {
	e.write("{")
	if len(obj.Properties) > 0 {
		e.write(" ")
		for i, prop := range obj.Properties {
			if keyExpr, isIdent := prop.Key.(*Identifier); isIdent {
				e.writeString(keyExpr.Value)
			} else {
				e.emitExpression(prop.Key)
			}
			e.write(": ")
			e.emitExpression(prop.Value)
			if i < len(obj.Properties)-1 {
				e.write(", ")
			}
		}
		e.write(" ")
	}
	e.write("}")
}

// EmitProgram is a convenience wrapper producing strict-mode output.
func EmitProgram(program *Program) string {
	var sb strings.Builder
	sb.WriteString("\"use strict\";\n")
	sb.WriteString(NewEmitter().Emit(program))
	return sb.String()
}
