package transform

import (
	"fmt"

	"lockjs/pkg/lexer"
	"lockjs/pkg/parser"
)

// TempAllocator hands out hygienic temporary identifiers for one compilation
// unit. It is seeded with every identifier appearing anywhere in the unit, so
// a minted name can never collide with a user-written one, and a minted name
// is never handed out twice.
type TempAllocator struct {
	next  int
	taken map[string]struct{}
	mine  map[string]struct{}
}

// NewTempAllocator collects all identifiers in the program and returns an
// allocator scoped to it.
func NewTempAllocator(prog *parser.Program) *TempAllocator {
	a := &TempAllocator{
		taken: make(map[string]struct{}),
		mine:  make(map[string]struct{}),
	}
	walk(prog, func(n parser.Node) {
		if id, ok := n.(*parser.Identifier); ok {
			a.taken[id.Value] = struct{}{}
		}
	})
	return a
}

// Fresh mints a new temporary identifier.
func (a *TempAllocator) Fresh() *parser.Identifier {
	for {
		name := fmt.Sprintf("__lock_t%d", a.next)
		a.next++
		if _, clash := a.taken[name]; clash {
			continue
		}
		a.taken[name] = struct{}{}
		a.mine[name] = struct{}{}
		return &parser.Identifier{
			Token: lexer.Token{Type: lexer.IDENT, Literal: name},
			Value: name,
		}
	}
}

// IsTemp reports whether name was minted by this allocator.
func (a *TempAllocator) IsTemp(name string) bool {
	_, ok := a.mine[name]
	return ok
}
