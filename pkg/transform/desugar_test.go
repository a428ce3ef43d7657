package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lockjs/pkg/parser"
	"lockjs/pkg/source"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	sf := source.NewEvalSource(src)
	prog, errs := parser.Parse(sf)
	require.Empty(t, errs, "parse errors")
	lowered, terrs := Transform(prog, sf)
	require.Empty(t, terrs, "transform errors")
	return parser.EmitProgram(lowered)
}

func compileErr(t *testing.T, src string) []string {
	t.Helper()
	sf := source.NewEvalSource(src)
	prog, errs := parser.Parse(sf)
	require.Empty(t, errs, "parse errors")
	lowered, terrs := Transform(prog, sf)
	require.Nil(t, lowered, "no program may be produced alongside diagnostics")
	require.NotEmpty(t, terrs)
	var msgs []string
	for _, e := range terrs {
		msgs = append(msgs, e.Message())
	}
	return msgs
}

func TestFreezeObjectLiteral(t *testing.T) {
	out := compile(t, `let a = {# x: 1, y: 2 #};`)
	assert.Contains(t, out, `let a = Object.freeze({ __proto__: null, x: 1, y: 2 });`)
}

func TestSealObjectLiteral(t *testing.T) {
	out := compile(t, `let a = {| x: 1 |};`)
	assert.Contains(t, out, `Object.seal({ __proto__: null, x: 1 })`)
	assert.NotContains(t, out, "Object.freeze")
}

func TestLockedArrayLiteral(t *testing.T) {
	out := compile(t, `const xs = [# 1, 2 #];`)
	assert.Contains(t, out, `Object.freeze(Object.setPrototypeOf([1, 2], null))`)

	out = compile(t, `const ys = [| 3 |];`)
	assert.Contains(t, out, `Object.seal(Object.setPrototypeOf([3], null))`)
}

func TestNestedLiteralsLockInnermostFirst(t *testing.T) {
	out := compile(t, `let a = {# a: {# b: {# c: {# d: {# e: 1 #} #} #} #} #};`)
	// One lock call per nesting level; inner calls sit inside outer ones and
	// therefore evaluate first.
	assert.Equal(t, 5, strings.Count(out, "Object.freeze("))
	assert.Equal(t, 5, strings.Count(out, "__proto__: null"))
}

func TestMixedModeNesting(t *testing.T) {
	out := compile(t, `let cfg = {| inner: {# a: 1 #} |};`)
	assert.Contains(t, out, "Object.seal(")
	assert.Contains(t, out, "Object.freeze(")
	// The frozen inner literal is an argument of the sealed outer one.
	assert.Less(t, strings.Index(out, "Object.seal("), strings.Index(out, "Object.freeze("))
}

func TestPlainLiteralsPassThrough(t *testing.T) {
	out := compile(t, `let a = { x: 1 };
let b = [1, 2];`)
	assert.NotContains(t, out, "Object.")
	assert.NotContains(t, out, "__proto__")
}

func TestLockedParameterList(t *testing.T) {
	out := compile(t, `function f(# a, b #) { return a + b; }`)

	assert.Contains(t, out, "function f(...__lock_t0)")
	assert.Contains(t, out, `"expected at most 2 arguments, got "`)
	assert.Contains(t, out, "const a = __lock_t0[0];")
	assert.Contains(t, out, "const b = __lock_t0[1];")

	// The arity guard runs before any binding exists.
	assert.Less(t, strings.Index(out, "expected at most"), strings.Index(out, "const a ="))
}

func TestSealParameterListBindsLet(t *testing.T) {
	out := compile(t, `function f(| a |) { return a; }`)
	assert.Contains(t, out, `"expected at most 1 argument, got "`)
	assert.Contains(t, out, "let a = __lock_t0[0];")
}

func TestLockedParameterDefault(t *testing.T) {
	out := compile(t, `function f(# a = 1 #) { return a; }`)
	assert.Contains(t, out, "const a = ((__lock_t0[0] === undefined) ? 1 : __lock_t0[0]);")
}

func TestZeroParameterLockedList(t *testing.T) {
	out := compile(t, `function f(# #) { return 0; }`)
	assert.Contains(t, out, `"expected at most 0 arguments, got "`)
}

func TestOptionsBagParameter(t *testing.T) {
	out := compile(t, `function connect({| host, port = 80 |}) { return host; }`)

	assert.Contains(t, out, "function connect(__lock_t0)")
	assert.Contains(t, out, "const __lock_t1 = Object.seal({ __proto__: null, host: undefined, port: undefined });")
	assert.Contains(t, out, "Object.assign(__lock_t1, __lock_t0);")
	assert.Contains(t, out, "let host = __lock_t1.host;")
	assert.Contains(t, out, "let port = ((__lock_t1.port === undefined) ? 80 : __lock_t1.port);")
}

// The shape copy is sealed even for a freeze-mode bag; Object.assign could
// not populate a frozen copy. Freeze strength shows up in the const bindings.
func TestFreezeBagSealsCopyBindsConst(t *testing.T) {
	out := compile(t, `function f({# a #}) { return a; }`)
	assert.Contains(t, out, "Object.seal({ __proto__: null, a: undefined })")
	assert.NotContains(t, out, "Object.freeze")
	assert.Contains(t, out, "const a = __lock_t1.a;")
}

func TestGeneralDestructuring(t *testing.T) {
	out := compile(t, `let {| a, b = 1 |} = src;`)

	assert.Contains(t, out, "const __lock_t0 = src;")
	assert.Contains(t, out, `"a" in __lock_t0`)
	assert.Contains(t, out, `throw new TypeError("unknown property 'a'");`)
	assert.Contains(t, out, "for (const __lock_t1 of Object.keys(__lock_t0))")
	assert.Contains(t, out, `__lock_t1 !== "a"`)
	assert.Contains(t, out, "let a = __lock_t0.a;")
	assert.Contains(t, out, "let b = ((__lock_t0.b === undefined) ? 1 : __lock_t0.b);")

	// A defaulted name carries no membership guard.
	assert.NotContains(t, out, `"b" in __lock_t0`)
}

func TestFreezeDestructuringBindsConst(t *testing.T) {
	out := compile(t, `let {# a #} = s;`)
	assert.Contains(t, out, "const a = __lock_t0.a;")
}

func TestEmptyLockedPatternRejectsEveryKey(t *testing.T) {
	out := compile(t, `let {# #} = o;`)
	assert.Contains(t, out, "for (const __lock_t1 of Object.keys(__lock_t0))")
	assert.Contains(t, out, "throw new TypeError")
	// No declared names, so the scan body throws unconditionally.
	assert.NotContains(t, out, "!==")
}

func TestLockedArrayPattern(t *testing.T) {
	out := compile(t, `let [| x, y |] = v;`)
	assert.Contains(t, out, `"expected at most 2 elements, got "`)
	assert.Contains(t, out, "let x = __lock_t0[0];")
	assert.Contains(t, out, "let y = __lock_t0[1];")
}

func TestArrayPatternElision(t *testing.T) {
	out := compile(t, `let [# a, , b #] = v;`)
	assert.Contains(t, out, "const a = __lock_t0[0];")
	assert.Contains(t, out, "const b = __lock_t0[2];")
	assert.NotContains(t, out, "__lock_t0[1]")
}

func TestPlainDestructuringPassesThrough(t *testing.T) {
	out := compile(t, `let {a, b} = o;
let [x, ...rest] = xs;`)
	assert.Contains(t, out, "let {a, b} = o;")
	assert.Contains(t, out, "...rest")
	assert.NotContains(t, out, "__lock_t")
}

func TestPlainPatternWithLockedNestedExpands(t *testing.T) {
	out := compile(t, `let [{# a #}, ...rest] = xs;`)
	// The outer plain pattern expands without guards so the nested locked
	// pattern can; rest becomes a slice off the source temporary.
	assert.Contains(t, out, "slice(1)")
	assert.Contains(t, out, "const a =")
	assert.NotContains(t, out, "expected at most")
}

func TestNestedPatternInLockedParams(t *testing.T) {
	out := compile(t, `function f(# {| a |}, b #) { return a + b; }`)
	// The nested bag sources from the indexed read of the rest temporary.
	assert.Contains(t, out, "...__lock_t0")
	assert.Contains(t, out, "const __lock_t1 = __lock_t0[0];")
	assert.Contains(t, out, "Object.assign(")
	assert.Contains(t, out, "const b = __lock_t0[1];")
}

func TestArrowExpressionBodyGainsBlock(t *testing.T) {
	out := compile(t, `const f = (# x #) => x + 1;`)
	assert.Contains(t, out, "...__lock_t0")
	assert.Contains(t, out, "return (x + 1);")
}

func TestArrowPlainParamsUntouched(t *testing.T) {
	out := compile(t, `const f = (x, y) => x + y;`)
	assert.Contains(t, out, "(x, y) => (x + y)")
	assert.NotContains(t, out, "__lock_t")
}

func TestTempHygiene(t *testing.T) {
	out := compile(t, `let __lock_t0 = 1;
let {# a #} = o;`)
	// The user owns __lock_t0; minted temporaries skip past it.
	assert.Contains(t, out, "let __lock_t0 = 1;")
	assert.Contains(t, out, "const __lock_t1 = o;")
	assert.Contains(t, out, "const a = __lock_t1.a;")
}

func TestTempsNotReusedAcrossSiblings(t *testing.T) {
	out := compile(t, `let {# a #} = o;
let {# b #} = p;`)
	assert.Contains(t, out, "const __lock_t0 = o;")
	assert.Contains(t, out, "const __lock_t2 = p;")
}

func TestUseStrictPrefix(t *testing.T) {
	out := compile(t, `let a = 1;`)
	assert.True(t, strings.HasPrefix(out, "\"use strict\";\n"))
}

func TestDuplicateBindingName(t *testing.T) {
	msgs := compileErr(t, `let {# a, b: a #} = o;`)
	assert.Contains(t, msgs[0], "duplicate binding name")
}

func TestDuplicatePatternKey(t *testing.T) {
	msgs := compileErr(t, `function f({| a, a: b |}) { return b; }`)
	assert.Contains(t, msgs[0], "duplicate property")
}

func TestProtoKeyRejectedInLockedLiteral(t *testing.T) {
	msgs := compileErr(t, `let a = {# __proto__: x #};`)
	assert.Contains(t, msgs[0], "__proto__")
}

func TestDuplicateKeyInLockedLiteral(t *testing.T) {
	msgs := compileErr(t, `let a = {# x: 1, x: 2 #};`)
	assert.Contains(t, msgs[0], "duplicate property")
}

func TestLockedLiteralInsideExpression(t *testing.T) {
	out := compile(t, `send(1 + 2, {# mode: "fast" #});`)
	assert.Contains(t, out, `Object.freeze({ __proto__: null, mode: "fast" })`)
}

func TestLockedLiteralInReturnPosition(t *testing.T) {
	out := compile(t, `function f() { return {| ok: true |}; }`)
	assert.Contains(t, out, "return Object.seal({ __proto__: null, ok: true });")
}
