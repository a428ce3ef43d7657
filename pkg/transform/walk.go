package transform

import "lockjs/pkg/parser"

// walk calls fn for node and every node reachable below it, parents before
// children. It covers the full extended grammar so the classifier and the
// temporary allocator see every identifier and every sigiled node.
func walk(node parser.Node, fn func(parser.Node)) {
	if node == nil {
		return
	}
	fn(node)

	switch n := node.(type) {
	case *parser.Program:
		for _, s := range n.Statements {
			walk(s, fn)
		}
	case *parser.DeclarationStatement:
		walk(n.Name, fn)
		walkExpr(n.Value, fn)
	case *parser.DestructuringDeclaration:
		walkExpr(n.Pattern, fn)
		walkExpr(n.Value, fn)
	case *parser.FunctionDeclaration:
		walk(n.Function, fn)
	case *parser.ReturnStatement:
		walkExpr(n.ReturnValue, fn)
	case *parser.ThrowStatement:
		walkExpr(n.Value, fn)
	case *parser.ExpressionStatement:
		walkExpr(n.Expression, fn)
	case *parser.BlockStatement:
		for _, s := range n.Statements {
			walk(s, fn)
		}
	case *parser.IfStatement:
		walkExpr(n.Condition, fn)
		walk(n.Consequence, fn)
		if n.Alternative != nil {
			walk(n.Alternative, fn)
		}
	case *parser.WhileStatement:
		walkExpr(n.Condition, fn)
		walk(n.Body, fn)
	case *parser.ForStatement:
		if n.Init != nil {
			walk(n.Init, fn)
		}
		walkExpr(n.Condition, fn)
		walkExpr(n.Update, fn)
		walk(n.Body, fn)
	case *parser.ForOfStatement:
		walk(n.Name, fn)
		walkExpr(n.Iterable, fn)
		walk(n.Body, fn)

	case *parser.PrefixExpression:
		walkExpr(n.Right, fn)
	case *parser.InfixExpression:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)
	case *parser.AssignmentExpression:
		walkExpr(n.Target, fn)
		walkExpr(n.Value, fn)
	case *parser.TernaryExpression:
		walkExpr(n.Condition, fn)
		walkExpr(n.Consequence, fn)
		walkExpr(n.Alternative, fn)
	case *parser.CallExpression:
		walkExpr(n.Function, fn)
		for _, a := range n.Arguments {
			walkExpr(a, fn)
		}
	case *parser.NewExpression:
		walkExpr(n.Constructor, fn)
		for _, a := range n.Arguments {
			walkExpr(a, fn)
		}
	case *parser.MemberExpression:
		walkExpr(n.Object, fn)
		walk(n.Property, fn)
	case *parser.IndexExpression:
		walkExpr(n.Left, fn)
		walkExpr(n.Index, fn)
	case *parser.FunctionLiteral:
		if n.Name != nil {
			walk(n.Name, fn)
		}
		walkParams(n.Parameters, n.RestParam, fn)
		walk(n.Body, fn)
	case *parser.ArrowFunctionLiteral:
		walkParams(n.Parameters, n.RestParam, fn)
		walk(n.Body, fn)
	case *parser.ObjectLiteral:
		for _, p := range n.Properties {
			walkExpr(p.Key, fn)
			walkExpr(p.Value, fn)
		}
	case *parser.ArrayLiteral:
		for _, el := range n.Elements {
			walkExpr(el, fn)
		}
	case *parser.LockedObjectLiteral:
		for _, p := range n.Properties {
			walkExpr(p.Key, fn)
			walkExpr(p.Value, fn)
		}
	case *parser.LockedArrayLiteral:
		for _, el := range n.Elements {
			walkExpr(el, fn)
		}
	case *parser.ObjectPattern:
		for _, p := range n.Properties {
			walk(p.Key, fn)
			walkExpr(p.Target, fn)
			walkExpr(p.Default, fn)
		}
		if n.Rest != nil {
			walk(n.Rest, fn)
		}
	case *parser.ArrayPattern:
		for _, el := range n.Elements {
			if el == nil {
				continue
			}
			walkExpr(el.Target, fn)
			walkExpr(el.Default, fn)
		}
		if n.Rest != nil {
			walk(n.Rest, fn)
		}
	}
}

func walkExpr(expr parser.Expression, fn func(parser.Node)) {
	if expr == nil {
		return
	}
	walk(expr, fn)
}

func walkParams(params []*parser.Parameter, rest *parser.Identifier, fn func(parser.Node)) {
	for _, p := range params {
		if p.Name != nil {
			walk(p.Name, fn)
		}
		walkExpr(p.Pattern, fn)
		walkExpr(p.Default, fn)
	}
	if rest != nil {
		walk(rest, fn)
	}
}
