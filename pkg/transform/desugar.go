package transform

import (
	"fmt"
	"strconv"

	"lockjs/pkg/errors"
	"lockjs/pkg/lexer"
	"lockjs/pkg/lock"
	"lockjs/pkg/parser"
	"lockjs/pkg/source"
)

// strategy selects how a locked object pattern is validated. Parameter
// subtrees use the options-bag copy (seal a null-prototype shape object and
// Object.assign the argument into it); declaration subtrees use explicit
// membership checks plus an own-key scan.
type strategy uint8

const (
	strategyExplicit strategy = iota
	strategyBag
)

// Desugarer rewrites an extended AST into the base grammar. It accumulates
// structural errors instead of stopping at the first one; when any error is
// recorded no output program is produced.
type Desugarer struct {
	src   *source.SourceFile
	class *Classification
	temps *TempAllocator
	errs  []errors.SourceError
}

// Desugar lowers prog to the base grammar. Lock sigils become runtime calls
// (Object.freeze, Object.seal, Object.assign, Object.keys,
// Object.setPrototypeOf) and synthesized guard statements; everything else
// passes through structurally unchanged. On any structural error the returned
// program is nil.
func Desugar(prog *parser.Program, class *Classification, src *source.SourceFile) (*parser.Program, []errors.SourceError) {
	d := &Desugarer{src: src, class: class, temps: NewTempAllocator(prog)}

	out := &parser.Program{}
	for _, s := range prog.Statements {
		out.Statements = append(out.Statements, d.statement(s)...)
	}

	if len(d.errs) > 0 {
		return nil, d.errs
	}
	return out, nil
}

// Transform classifies and desugars prog in one step.
func Transform(prog *parser.Program, src *source.SourceFile) (*parser.Program, []errors.SourceError) {
	return Desugar(prog, Classify(prog), src)
}

func (d *Desugarer) errorf(tok lexer.Token, format string, args ...interface{}) {
	d.errs = append(d.errs, &errors.TransformError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   d.src,
		},
		Msg: fmt.Sprintf(format, args...),
	})
}

// --- Statements ---

// statement desugars one statement. Destructuring declarations over locked
// patterns expand into several statements, so the result is a slice.
func (d *Desugarer) statement(stmt parser.Statement) []parser.Statement {
	switch s := stmt.(type) {
	case *parser.DeclarationStatement:
		return []parser.Statement{&parser.DeclarationStatement{
			Token: s.Token,
			Name:  s.Name,
			Value: d.expr(s.Value),
		}}

	case *parser.DestructuringDeclaration:
		if !containsLocked(s.Pattern) {
			return []parser.Statement{&parser.DestructuringDeclaration{
				Token:   s.Token,
				Pattern: d.rewritePattern(s.Pattern),
				Value:   d.expr(s.Value),
			}}
		}
		return d.expandPattern(s.Pattern, d.expr(s.Value), strategyExplicit, s.Token, map[string]bool{})

	case *parser.FunctionDeclaration:
		return []parser.Statement{&parser.FunctionDeclaration{
			Token:    s.Token,
			Function: d.function(s.Function),
		}}

	case *parser.ReturnStatement:
		out := &parser.ReturnStatement{Token: s.Token}
		if s.ReturnValue != nil {
			out.ReturnValue = d.expr(s.ReturnValue)
		}
		return []parser.Statement{out}

	case *parser.ThrowStatement:
		return []parser.Statement{&parser.ThrowStatement{Token: s.Token, Value: d.expr(s.Value)}}

	case *parser.ExpressionStatement:
		return []parser.Statement{&parser.ExpressionStatement{Token: s.Token, Expression: d.expr(s.Expression)}}

	case *parser.BlockStatement:
		return []parser.Statement{d.block(s)}

	case *parser.IfStatement:
		out := &parser.IfStatement{
			Token:       s.Token,
			Condition:   d.expr(s.Condition),
			Consequence: d.block(s.Consequence),
		}
		if s.Alternative != nil {
			alt := d.statement(s.Alternative)
			out.Alternative = alt[0]
		}
		return []parser.Statement{out}

	case *parser.WhileStatement:
		return []parser.Statement{&parser.WhileStatement{
			Token:     s.Token,
			Condition: d.expr(s.Condition),
			Body:      d.block(s.Body),
		}}

	case *parser.ForStatement:
		out := &parser.ForStatement{Token: s.Token, Body: d.block(s.Body)}
		if s.Init != nil {
			out.Init = d.statement(s.Init)[0]
		}
		if s.Condition != nil {
			out.Condition = d.expr(s.Condition)
		}
		if s.Update != nil {
			out.Update = d.expr(s.Update)
		}
		return []parser.Statement{out}

	case *parser.ForOfStatement:
		return []parser.Statement{&parser.ForOfStatement{
			Token:    s.Token,
			DeclTok:  s.DeclTok,
			Name:     s.Name,
			Iterable: d.expr(s.Iterable),
			Body:     d.block(s.Body),
		}}

	default:
		// break, continue
		return []parser.Statement{stmt}
	}
}

func (d *Desugarer) block(b *parser.BlockStatement) *parser.BlockStatement {
	out := &parser.BlockStatement{Token: b.Token}
	for _, s := range b.Statements {
		out.Statements = append(out.Statements, d.statement(s)...)
	}
	return out
}

// --- Expressions ---

func (d *Desugarer) expr(expr parser.Expression) parser.Expression {
	switch e := expr.(type) {
	case *parser.LockedObjectLiteral:
		return d.lowerLockedObject(e)
	case *parser.LockedArrayLiteral:
		return d.lowerLockedArray(e)
	case *parser.FunctionLiteral:
		return d.function(e)
	case *parser.ArrowFunctionLiteral:
		return d.arrow(e)
	case *parser.PrefixExpression:
		return &parser.PrefixExpression{Token: e.Token, Operator: e.Operator, Right: d.expr(e.Right)}
	case *parser.InfixExpression:
		return &parser.InfixExpression{Token: e.Token, Left: d.expr(e.Left), Operator: e.Operator, Right: d.expr(e.Right)}
	case *parser.AssignmentExpression:
		return &parser.AssignmentExpression{Token: e.Token, Operator: e.Operator, Target: d.expr(e.Target), Value: d.expr(e.Value)}
	case *parser.TernaryExpression:
		return &parser.TernaryExpression{Token: e.Token, Condition: d.expr(e.Condition), Consequence: d.expr(e.Consequence), Alternative: d.expr(e.Alternative)}
	case *parser.CallExpression:
		out := &parser.CallExpression{Token: e.Token, Function: d.expr(e.Function)}
		for _, a := range e.Arguments {
			out.Arguments = append(out.Arguments, d.expr(a))
		}
		return out
	case *parser.NewExpression:
		out := &parser.NewExpression{Token: e.Token, Constructor: d.expr(e.Constructor)}
		for _, a := range e.Arguments {
			out.Arguments = append(out.Arguments, d.expr(a))
		}
		return out
	case *parser.MemberExpression:
		return &parser.MemberExpression{Token: e.Token, Object: d.expr(e.Object), Property: e.Property}
	case *parser.IndexExpression:
		return &parser.IndexExpression{Token: e.Token, Left: d.expr(e.Left), Index: d.expr(e.Index)}
	case *parser.ObjectLiteral:
		out := &parser.ObjectLiteral{Token: e.Token}
		for _, p := range e.Properties {
			out.Properties = append(out.Properties, &parser.ObjectProperty{Key: p.Key, Value: d.expr(p.Value)})
		}
		return out
	case *parser.ArrayLiteral:
		out := &parser.ArrayLiteral{Token: e.Token}
		for _, el := range e.Elements {
			out.Elements = append(out.Elements, d.expr(el))
		}
		return out
	default:
		// identifiers and simple literals
		return expr
	}
}

// --- Locked literal lowering ---

// lowerLockedObject rewrites `{# k: v #}` to
// `Object.freeze({ __proto__: null, k: v })` (seal for `{| |}`). Member
// values are lowered first, so nested locks apply innermost-first at runtime.
func (d *Desugarer) lowerLockedObject(n *parser.LockedObjectLiteral) parser.Expression {
	props := []*parser.ObjectProperty{protoNullProperty()}
	keys := map[string]bool{}
	for _, p := range n.Properties {
		if name, ok := propertyKeyName(p.Key); ok {
			if name == "__proto__" {
				d.errorf(n.Token, "property name '__proto__' is not allowed in a locked object literal")
				continue
			}
			if keys[name] {
				d.errorf(n.Token, "duplicate property %q in locked object literal", name)
				continue
			}
			keys[name] = true
		}
		props = append(props, &parser.ObjectProperty{Key: p.Key, Value: d.expr(p.Value)})
	}
	obj := &parser.ObjectLiteral{Token: braceToken(), Properties: props}
	return objectCall(n.Mode.Primitive(), obj)
}

// lowerLockedArray rewrites `[# a, b #]` to
// `Object.freeze(Object.setPrototypeOf([a, b], null))`. Arrays have no
// construction-time prototype syntax, so the prototype is severed inside the
// lock expression before the lock lands.
func (d *Desugarer) lowerLockedArray(n *parser.LockedArrayLiteral) parser.Expression {
	arr := &parser.ArrayLiteral{Token: bracketToken()}
	for _, el := range n.Elements {
		arr.Elements = append(arr.Elements, d.expr(el))
	}
	severed := objectCall("setPrototypeOf", arr, nullLit())
	return objectCall(n.Mode.Primitive(), severed)
}

// --- Functions ---

func (d *Desugarer) function(fn *parser.FunctionLiteral) *parser.FunctionLiteral {
	out := &parser.FunctionLiteral{Token: fn.Token, Name: fn.Name}
	body := d.block(fn.Body)

	if d.class.Role(fn) == RolePattern {
		rest, prelude := d.lowerLockedParams(fn.Parameters, fn.ParamMode)
		out.RestParam = rest
		out.Body = prependStatements(body, prelude)
		return out
	}

	params, rest, prelude := d.lowerPlainParams(fn.Parameters, fn.RestParam)
	out.Parameters = params
	out.RestParam = rest
	out.Body = prependStatements(body, prelude)
	return out
}

func (d *Desugarer) arrow(fn *parser.ArrowFunctionLiteral) *parser.ArrowFunctionLiteral {
	out := &parser.ArrowFunctionLiteral{Token: fn.Token}

	var body *parser.BlockStatement
	var exprBody parser.Expression
	switch b := fn.Body.(type) {
	case *parser.BlockStatement:
		body = d.block(b)
	case parser.Expression:
		exprBody = d.expr(b)
	}

	var prelude []parser.Statement
	if d.class.Role(fn) == RolePattern {
		rest, pre := d.lowerLockedParams(fn.Parameters, fn.ParamMode)
		out.RestParam = rest
		prelude = pre
	} else {
		params, rest, pre := d.lowerPlainParams(fn.Parameters, fn.RestParam)
		out.Parameters = params
		out.RestParam = rest
		prelude = pre
	}

	switch {
	case body != nil:
		out.Body = prependStatements(body, prelude)
	case len(prelude) > 0:
		// An expression body cannot carry prelude statements; convert to a
		// block returning the expression.
		blk := &parser.BlockStatement{Token: braceToken()}
		blk.Statements = append(blk.Statements, prelude...)
		blk.Statements = append(blk.Statements, &parser.ReturnStatement{
			Token:       lexer.Token{Type: lexer.RETURN, Literal: "return"},
			ReturnValue: exprBody,
		})
		out.Body = blk
	default:
		out.Body = exprBody
	}
	return out
}

// lowerLockedParams implements the locked parameter-list rule: the emitted
// function takes a single rest temporary, checks arity before any binding is
// created, then binds each declared parameter from an indexed read.
func (d *Desugarer) lowerLockedParams(params []*parser.Parameter, mode lock.Mode) (*parser.Identifier, []parser.Statement) {
	t1 := d.temps.Fresh()
	k := len(params)

	noun := "arguments"
	if k == 1 {
		noun = "argument"
	}
	guard := ifThrow(
		infix(member(t1, "length"), ">", numberLit(k)),
		concat(stringLit(fmt.Sprintf("expected at most %d %s, got ", k, noun)), member(t1, "length")),
	)
	prelude := []parser.Statement{guard}

	declTok := letToken()
	if mode == lock.ModeFreeze {
		declTok = constToken()
	}

	seen := map[string]bool{}
	for i, p := range params {
		var read parser.Expression = index(t1, i)
		if p.Default != nil {
			read = defaulted(index(t1, i), d.expr(p.Default), index(t1, i))
		}
		if p.Name != nil {
			d.declareName(&prelude, declTok, p.Name, read, seen)
			continue
		}
		prelude = append(prelude, d.expandPattern(p.Pattern, read, strategyBag, declTok, seen)...)
	}
	return t1, prelude
}

// lowerPlainParams keeps an ordinary parameter list as-is, except that a
// pattern parameter containing a lock sigil anywhere is replaced by a fresh
// temporary and expanded at the top of the body.
func (d *Desugarer) lowerPlainParams(params []*parser.Parameter, rest *parser.Identifier) ([]*parser.Parameter, *parser.Identifier, []parser.Statement) {
	var out []*parser.Parameter
	var prelude []parser.Statement

	for _, p := range params {
		np := &parser.Parameter{Token: p.Token, Name: p.Name}
		if p.Default != nil {
			np.Default = d.expr(p.Default)
		}
		if p.Pattern != nil {
			if containsLocked(p.Pattern) {
				tmp := d.temps.Fresh()
				np.Name = tmp
				prelude = append(prelude, d.expandPattern(p.Pattern, tmp, strategyBag, letToken(), map[string]bool{})...)
			} else {
				np.Pattern = d.rewritePattern(p.Pattern)
			}
		}
		out = append(out, np)
	}
	return out, rest, prelude
}

func (d *Desugarer) declareName(out *[]parser.Statement, declTok lexer.Token, name *parser.Identifier, value parser.Expression, seen map[string]bool) {
	if seen[name.Value] {
		d.errorf(name.Token, "duplicate binding name %q", name.Value)
		return
	}
	seen[name.Value] = true
	*out = append(*out, &parser.DeclarationStatement{Token: declTok, Name: name, Value: value})
}

// --- Pattern expansion ---

// expandPattern lowers one destructuring pattern into declaration and guard
// statements reading from srcExpr. ctx selects the validation strategy for
// locked object patterns; declTok is the binding keyword for ordinary and
// seal-mode bindings (freeze mode always binds const).
func (d *Desugarer) expandPattern(pat parser.Expression, srcExpr parser.Expression, ctx strategy, declTok lexer.Token, seen map[string]bool) []parser.Statement {
	switch p := pat.(type) {
	case *parser.ObjectPattern:
		if p.Mode.Locked() && ctx == strategyBag {
			return d.expandObjectBag(p, srcExpr, declTok, seen)
		}
		return d.expandObjectExplicit(p, srcExpr, ctx, declTok, seen)
	case *parser.ArrayPattern:
		return d.expandArray(p, srcExpr, ctx, declTok, seen)
	default:
		return nil
	}
}

// expandObjectBag implements the options-bag strategy: seal a null-prototype
// object holding every declared key, copy the argument into it with
// Object.assign (which throws on any key outside the sealed shape), then bind
// each name from the copy. The shape object is sealed even in freeze mode;
// freezing it would make the copy itself fail, so freeze strength is carried
// by the const bindings instead.
func (d *Desugarer) expandObjectBag(pat *parser.ObjectPattern, srcExpr parser.Expression, declTok lexer.Token, seen map[string]bool) []parser.Statement {
	var out []parser.Statement
	t1 := d.bindSource(&out, srcExpr)

	if pat.Rest != nil {
		d.errorf(pat.Token, "rest element is not allowed in a %s-locked pattern", pat.Mode)
	}

	shape := []*parser.ObjectProperty{protoNullProperty()}
	keys := map[string]bool{}
	for _, p := range pat.Properties {
		if keys[p.Key.Value] {
			d.errorf(p.Key.Token, "duplicate property %q in locked pattern", p.Key.Value)
			continue
		}
		keys[p.Key.Value] = true
		shape = append(shape, &parser.ObjectProperty{Key: identLit(p.Key.Value), Value: undefinedLit()})
	}

	t2 := d.temps.Fresh()
	out = append(out,
		constDecl(t2, objectCall("seal", &parser.ObjectLiteral{Token: braceToken(), Properties: shape})),
		exprStatement(objectCall("assign", t2, t1)),
	)

	bindTok := letToken()
	if pat.Mode == lock.ModeFreeze {
		bindTok = constToken()
	}
	for _, p := range pat.Properties {
		d.bindPatternProperty(&out, p, t2, strategyBag, bindTok, seen)
	}
	return out
}

// expandObjectExplicit implements the general-destructuring strategy:
// per-name membership checks against the source, then an own-key scan
// rejecting every key outside the declared set, then the binding reads.
// For an ordinary (unlocked) pattern no guards are emitted; only the binding
// reads, preserving the host language's destructuring semantics.
func (d *Desugarer) expandObjectExplicit(pat *parser.ObjectPattern, srcExpr parser.Expression, ctx strategy, declTok lexer.Token, seen map[string]bool) []parser.Statement {
	var out []parser.Statement
	t1 := d.bindSource(&out, srcExpr)

	keys := map[string]bool{}
	var declared []string
	for _, p := range pat.Properties {
		if keys[p.Key.Value] {
			if pat.Mode.Locked() {
				d.errorf(p.Key.Token, "duplicate property %q in locked pattern", p.Key.Value)
			}
			continue
		}
		keys[p.Key.Value] = true
		declared = append(declared, p.Key.Value)
	}

	if pat.Mode.Locked() {
		if pat.Rest != nil {
			d.errorf(pat.Token, "rest element is not allowed in a %s-locked pattern", pat.Mode)
		}
		for _, p := range pat.Properties {
			if p.Default != nil {
				continue
			}
			out = append(out, ifThrow(
				not(infix(stringLit(p.Key.Value), "in", t1)),
				stringLit(fmt.Sprintf("unknown property '%s'", p.Key.Value)),
			))
		}
		out = append(out, d.ownKeyScan(t1, declared))
	} else if pat.Rest != nil {
		d.errorf(pat.Token, "rest element cannot be expanded alongside a locked nested pattern")
	}

	bindTok := declTok
	if pat.Mode == lock.ModeFreeze {
		bindTok = constToken()
	}
	for _, p := range pat.Properties {
		d.bindPatternProperty(&out, p, t1, ctx, bindTok, seen)
	}
	return out
}

// ownKeyScan builds `for (const Tk of Object.keys(T1)) { if (...) throw }`
// rejecting every own key outside the declared set.
func (d *Desugarer) ownKeyScan(t1 *parser.Identifier, declared []string) parser.Statement {
	key := d.temps.Fresh()

	throw := throwTypeError(concat(concat(stringLit("unknown property '"), key), stringLit("'")))
	body := &parser.BlockStatement{Token: braceToken()}
	if len(declared) == 0 {
		body.Statements = []parser.Statement{throw}
	} else {
		cond := infix(key, "!==", stringLit(declared[0]))
		for _, k := range declared[1:] {
			cond = infix(cond, "&&", infix(key, "!==", stringLit(k)))
		}
		guard := &parser.IfStatement{
			Token:       ifToken(),
			Condition:   cond,
			Consequence: &parser.BlockStatement{Token: braceToken(), Statements: []parser.Statement{throw}},
		}
		body.Statements = []parser.Statement{guard}
	}

	return &parser.ForOfStatement{
		Token:    lexer.Token{Type: lexer.FOR, Literal: "for"},
		DeclTok:  constToken(),
		Name:     key,
		Iterable: objectCall("keys", t1),
		Body:     body,
	}
}

// bindPatternProperty emits the binding for one object-pattern entry, reading
// from holder (the bag copy or the source temporary).
func (d *Desugarer) bindPatternProperty(out *[]parser.Statement, p *parser.PatternProperty, holder *parser.Identifier, ctx strategy, declTok lexer.Token, seen map[string]bool) {
	var read parser.Expression = member(holder, p.Key.Value)
	if p.Default != nil {
		read = defaulted(member(holder, p.Key.Value), d.expr(p.Default), member(holder, p.Key.Value))
	}

	switch target := p.Target.(type) {
	case nil:
		d.declareName(out, declTok, p.Key, read, seen)
	case *parser.Identifier:
		d.declareName(out, declTok, target, read, seen)
	default:
		*out = append(*out, d.expandPattern(p.Target, read, ctx, declTok, seen)...)
	}
}

// expandArray lowers an array pattern: a length guard for locked modes, then
// indexed binding reads. Elisions occupy an index without binding anything.
func (d *Desugarer) expandArray(pat *parser.ArrayPattern, srcExpr parser.Expression, ctx strategy, declTok lexer.Token, seen map[string]bool) []parser.Statement {
	var out []parser.Statement
	t1 := d.bindSource(&out, srcExpr)
	k := len(pat.Elements)

	if pat.Mode.Locked() {
		if pat.Rest != nil {
			d.errorf(pat.Token, "rest element is not allowed in a %s-locked pattern", pat.Mode)
		}
		noun := "elements"
		if k == 1 {
			noun = "element"
		}
		out = append(out, ifThrow(
			infix(member(t1, "length"), ">", numberLit(k)),
			concat(stringLit(fmt.Sprintf("expected at most %d %s, got ", k, noun)), member(t1, "length")),
		))
	}

	bindTok := declTok
	if pat.Mode == lock.ModeFreeze {
		bindTok = constToken()
	}
	for i, el := range pat.Elements {
		if el == nil {
			continue
		}
		var read parser.Expression = index(t1, i)
		if el.Default != nil {
			read = defaulted(index(t1, i), d.expr(el.Default), index(t1, i))
		}
		switch target := el.Target.(type) {
		case *parser.Identifier:
			d.declareName(&out, bindTok, target, read, seen)
		default:
			out = append(out, d.expandPattern(el.Target, read, ctx, bindTok, seen)...)
		}
	}

	if pat.Rest != nil && !pat.Mode.Locked() {
		slice := &parser.CallExpression{
			Token:     lparenToken(),
			Function:  &parser.MemberExpression{Token: dotToken(), Object: t1, Property: identLit("slice")},
			Arguments: []parser.Expression{numberLit(k)},
		}
		d.declareName(&out, declTok, pat.Rest, slice, seen)
	}
	return out
}

// bindSource materializes srcExpr into a temporary so the expansion reads it
// exactly once. An identifier already minted by this pass is reused directly.
func (d *Desugarer) bindSource(out *[]parser.Statement, srcExpr parser.Expression) *parser.Identifier {
	if id, ok := srcExpr.(*parser.Identifier); ok && d.temps.IsTemp(id.Value) {
		return id
	}
	t1 := d.temps.Fresh()
	*out = append(*out, constDecl(t1, srcExpr))
	return t1
}

// rewritePattern returns a copy of an ordinary pattern with its default
// expressions desugared (a default may contain a locked literal).
func (d *Desugarer) rewritePattern(pat parser.Expression) parser.Expression {
	switch p := pat.(type) {
	case *parser.ObjectPattern:
		out := &parser.ObjectPattern{Token: p.Token, Mode: p.Mode, Rest: p.Rest}
		for _, prop := range p.Properties {
			np := &parser.PatternProperty{Key: prop.Key}
			if prop.Target != nil {
				np.Target = d.rewritePattern(prop.Target)
			}
			if prop.Default != nil {
				np.Default = d.expr(prop.Default)
			}
			out.Properties = append(out.Properties, np)
		}
		return out
	case *parser.ArrayPattern:
		out := &parser.ArrayPattern{Token: p.Token, Mode: p.Mode, Rest: p.Rest}
		for _, el := range p.Elements {
			if el == nil {
				out.Elements = append(out.Elements, nil)
				continue
			}
			ne := &parser.PatternElement{Target: d.rewritePattern(el.Target)}
			if el.Default != nil {
				ne.Default = d.expr(el.Default)
			}
			out.Elements = append(out.Elements, ne)
		}
		return out
	default:
		return pat
	}
}

// containsLocked reports whether a pattern carries a lock sigil anywhere,
// including nested sub-patterns.
func containsLocked(pat parser.Expression) bool {
	found := false
	walk(pat, func(n parser.Node) {
		switch node := n.(type) {
		case *parser.ObjectPattern:
			if node.Mode.Locked() {
				found = true
			}
		case *parser.ArrayPattern:
			if node.Mode.Locked() {
				found = true
			}
		}
	})
	return found
}

// propertyKeyName extracts the property name of a literal key when it has one.
func propertyKeyName(key parser.Expression) (string, bool) {
	switch k := key.(type) {
	case *parser.Identifier:
		return k.Value, true
	case *parser.StringLiteral:
		return k.Value, true
	default:
		return "", false
	}
}

// --- Synthesized node helpers ---

func letToken() lexer.Token   { return lexer.Token{Type: lexer.LET, Literal: "let"} }
func constToken() lexer.Token { return lexer.Token{Type: lexer.CONST, Literal: "const"} }
func ifToken() lexer.Token    { return lexer.Token{Type: lexer.IF, Literal: "if"} }
func braceToken() lexer.Token { return lexer.Token{Type: lexer.LBRACE, Literal: "{"} }
func bracketToken() lexer.Token {
	return lexer.Token{Type: lexer.LBRACKET, Literal: "["}
}
func lparenToken() lexer.Token { return lexer.Token{Type: lexer.LPAREN, Literal: "("} }
func dotToken() lexer.Token    { return lexer.Token{Type: lexer.DOT, Literal: "."} }

func identLit(name string) *parser.Identifier {
	return &parser.Identifier{Token: lexer.Token{Type: lexer.IDENT, Literal: name}, Value: name}
}

func stringLit(s string) *parser.StringLiteral {
	return &parser.StringLiteral{Token: lexer.Token{Type: lexer.STRING, Literal: s}, Value: s}
}

func numberLit(n int) *parser.NumberLiteral {
	lit := strconv.Itoa(n)
	return &parser.NumberLiteral{Token: lexer.Token{Type: lexer.NUMBER, Literal: lit}, Value: float64(n)}
}

func nullLit() *parser.NullLiteral {
	return &parser.NullLiteral{Token: lexer.Token{Type: lexer.NULL, Literal: "null"}}
}

func undefinedLit() *parser.UndefinedLiteral {
	return &parser.UndefinedLiteral{Token: lexer.Token{Type: lexer.UNDEFINED, Literal: "undefined"}}
}

func member(obj parser.Expression, name string) *parser.MemberExpression {
	return &parser.MemberExpression{Token: dotToken(), Object: obj, Property: identLit(name)}
}

func index(obj parser.Expression, i int) *parser.IndexExpression {
	return &parser.IndexExpression{Token: bracketToken(), Left: obj, Index: numberLit(i)}
}

func infix(left parser.Expression, op string, right parser.Expression) *parser.InfixExpression {
	return &parser.InfixExpression{Token: lexer.Token{Literal: op}, Left: left, Operator: op, Right: right}
}

func not(expr parser.Expression) *parser.PrefixExpression {
	return &parser.PrefixExpression{Token: lexer.Token{Type: lexer.BANG, Literal: "!"}, Operator: "!", Right: expr}
}

func concat(left, right parser.Expression) *parser.InfixExpression {
	return infix(left, "+", right)
}

// defaulted builds `read === undefined ? def : read2`, the host language's
// ordinary defaulting condition.
func defaulted(read, def, read2 parser.Expression) parser.Expression {
	return &parser.TernaryExpression{
		Token:       lexer.Token{Type: lexer.QUESTION, Literal: "?"},
		Condition:   infix(read, "===", undefinedLit()),
		Consequence: def,
		Alternative: read2,
	}
}

// objectCall builds `Object.<method>(args...)`.
func objectCall(method string, args ...parser.Expression) *parser.CallExpression {
	return &parser.CallExpression{
		Token:     lparenToken(),
		Function:  member(identLit("Object"), method),
		Arguments: args,
	}
}

// protoNullProperty is the construction-time prototype suppression entry.
func protoNullProperty() *parser.ObjectProperty {
	return &parser.ObjectProperty{Key: identLit("__proto__"), Value: nullLit()}
}

func constDecl(name *parser.Identifier, value parser.Expression) *parser.DeclarationStatement {
	return &parser.DeclarationStatement{Token: constToken(), Name: name, Value: value}
}

func exprStatement(expr parser.Expression) *parser.ExpressionStatement {
	return &parser.ExpressionStatement{Token: lexer.Token{}, Expression: expr}
}

func throwTypeError(msg parser.Expression) *parser.ThrowStatement {
	return &parser.ThrowStatement{
		Token: lexer.Token{Type: lexer.THROW, Literal: "throw"},
		Value: &parser.NewExpression{
			Token:       lexer.Token{Type: lexer.NEW, Literal: "new"},
			Constructor: identLit("TypeError"),
			Arguments:   []parser.Expression{msg},
		},
	}
}

func ifThrow(cond parser.Expression, msg parser.Expression) *parser.IfStatement {
	return &parser.IfStatement{
		Token:     ifToken(),
		Condition: cond,
		Consequence: &parser.BlockStatement{
			Token:      braceToken(),
			Statements: []parser.Statement{throwTypeError(msg)},
		},
	}
}

func prependStatements(body *parser.BlockStatement, prelude []parser.Statement) *parser.BlockStatement {
	if len(prelude) == 0 {
		return body
	}
	out := &parser.BlockStatement{Token: body.Token}
	out.Statements = append(out.Statements, prelude...)
	out.Statements = append(out.Statements, body.Statements...)
	return out
}
