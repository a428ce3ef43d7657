package transform

import (
	"lockjs/pkg/lock"
	"lockjs/pkg/parser"
)

// Role distinguishes how an extended node is used: a value literal to be
// locked, or a binding pattern to be validated against an incoming value.
type Role uint8

const (
	RoleNone Role = iota
	RoleLiteral
	RolePattern
)

func (r Role) String() string {
	switch r {
	case RoleLiteral:
		return "literal"
	case RolePattern:
		return "pattern"
	default:
		return "none"
	}
}

// Classification maps every extended node of a program to its role.
type Classification struct {
	roles map[parser.Node]Role
}

// Role returns the role assigned to node, or RoleNone for nodes that carry
// no sigil.
func (c *Classification) Role(node parser.Node) Role {
	return c.roles[node]
}

// Len returns the number of classified nodes.
func (c *Classification) Len() int {
	return len(c.roles)
}

// Classify walks the extended AST and assigns each sigiled node a role based
// purely on its syntactic position. Locked literals can only be produced by
// the parser in expression position, and patterns only in binding position,
// so classification is total and never fails.
func Classify(prog *parser.Program) *Classification {
	c := &Classification{roles: make(map[parser.Node]Role)}

	walk(prog, func(n parser.Node) {
		switch node := n.(type) {
		case *parser.LockedObjectLiteral, *parser.LockedArrayLiteral:
			c.roles[n] = RoleLiteral
		case *parser.ObjectPattern:
			if node.Mode != lock.ModeNone {
				c.roles[n] = RolePattern
			}
		case *parser.ArrayPattern:
			if node.Mode != lock.ModeNone {
				c.roles[n] = RolePattern
			}
		case *parser.FunctionLiteral:
			if node.ParamMode != lock.ModeNone {
				c.roles[n] = RolePattern
			}
		case *parser.ArrowFunctionLiteral:
			if node.ParamMode != lock.ModeNone {
				c.roles[n] = RolePattern
			}
		}
	})

	return c
}
