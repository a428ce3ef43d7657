package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lockjs/pkg/parser"
	"lockjs/pkg/source"
)

func parse(t *testing.T, src string) *parser.Program {
	t.Helper()
	prog, errs := parser.Parse(source.NewEvalSource(src))
	require.Empty(t, errs, "parse errors")
	return prog
}

func TestClassifyLiteralsAndPatterns(t *testing.T) {
	prog := parse(t, `let a = {# x: 1 #};
let {| y |} = o;
function f(# z #) { return z; }`)

	class := Classify(prog)
	assert.Equal(t, 3, class.Len())

	decl := prog.Statements[0].(*parser.DeclarationStatement)
	assert.Equal(t, RoleLiteral, class.Role(decl.Value))

	destr := prog.Statements[1].(*parser.DestructuringDeclaration)
	assert.Equal(t, RolePattern, class.Role(destr.Pattern))

	fn := prog.Statements[2].(*parser.FunctionDeclaration)
	assert.Equal(t, RolePattern, class.Role(fn.Function))
}

func TestClassifyIgnoresPlainNodes(t *testing.T) {
	prog := parse(t, `let a = { x: 1 };
let {y} = o;
function f(z) { return z; }`)

	class := Classify(prog)
	assert.Equal(t, 0, class.Len())
}

func TestClassifyFindsNestedSigils(t *testing.T) {
	prog := parse(t, `function outer() {
  return () => {
    let inner = {| deep: [# 1 #] |};
    return inner;
  };
}`)

	class := Classify(prog)
	assert.Equal(t, 2, class.Len())
}

func TestTempAllocatorSkipsUserNames(t *testing.T) {
	prog := parse(t, `let __lock_t0 = 1;
let __lock_t2 = 2;`)

	temps := NewTempAllocator(prog)
	assert.Equal(t, "__lock_t1", temps.Fresh().Value)
	assert.Equal(t, "__lock_t3", temps.Fresh().Value)
	assert.Equal(t, "__lock_t4", temps.Fresh().Value)
}

func TestTempAllocatorTracksOwnNames(t *testing.T) {
	temps := NewTempAllocator(&parser.Program{})
	id := temps.Fresh()
	assert.True(t, temps.IsTemp(id.Value))
	assert.False(t, temps.IsTemp("user"))
	assert.False(t, temps.IsTemp("__lock_t99"))
}
