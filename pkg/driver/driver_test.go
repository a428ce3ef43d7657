package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDriver() *Driver {
	return New(zerolog.Nop())
}

func TestCompileSource(t *testing.T) {
	res := testDriver().CompileSource("snippet", `let a = {# x: 1 #};`)

	require.Empty(t, res.Errors)
	assert.Equal(t, 1, res.Sigiled)
	assert.True(t, strings.HasPrefix(res.Output, "\"use strict\";\n"))
	assert.Contains(t, res.Output, "Object.freeze({ __proto__: null, x: 1 })")
	assert.NotNil(t, res.Lowered)
	assert.NoError(t, res.Err())
}

func TestCompileSourceKeepsPercentLiterals(t *testing.T) {
	res := testDriver().CompileSource("snippet", `let a = {# pct: "100%", rem: 7 % 2 #};`)

	require.Empty(t, res.Errors)
	assert.Contains(t, res.Output, `pct: "100%"`)
	assert.Contains(t, res.Output, "(7 % 2)")
	assert.NotContains(t, res.Output, "MISSING")
}

func TestCompileSourceParseError(t *testing.T) {
	res := testDriver().CompileSource("bad", `let a = {# x: 1 |};`)

	require.NotEmpty(t, res.Errors)
	assert.Empty(t, res.Output, "diagnostics must suppress output")
	assert.Nil(t, res.Lowered)
	assert.Error(t, res.Err())
	assert.Contains(t, res.Err().Error(), "mismatched lock delimiter")
}

func TestCompileSourceTransformError(t *testing.T) {
	res := testDriver().CompileSource("bad", `let {# a, b: a #} = o;`)

	require.NotEmpty(t, res.Errors)
	assert.Empty(t, res.Output)
	assert.NotNil(t, res.Program, "parsing succeeded; the extended AST is kept for inspection")
	assert.Contains(t, res.Err().Error(), "duplicate binding name")
}

func TestErrFoldsAllDiagnostics(t *testing.T) {
	res := testDriver().CompileSource("bad", `let a = {# x: 1 |};
let b = [| 2 #];`)

	require.GreaterOrEqual(t, len(res.Errors), 2)
	msg := res.Err().Error()
	assert.Contains(t, msg, "{#")
	assert.Contains(t, msg, "[|")
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.js")
	require.NoError(t, os.WriteFile(path, []byte(`const c = [| 1, 2 |];`), 0o644))

	res, err := testDriver().CompileFile(path)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	assert.Contains(t, res.Output, "Object.seal(Object.setPrototypeOf([1, 2], null))")
}

func TestCompileFileMissing(t *testing.T) {
	_, err := testDriver().CompileFile(filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}

func TestPlainProgramPassesThrough(t *testing.T) {
	res := testDriver().CompileSource("plain", `function add(a, b) { return a + b; }`)

	require.Empty(t, res.Errors)
	assert.Equal(t, 0, res.Sigiled)
	assert.NotContains(t, res.Output, "Object.")
	assert.NotContains(t, res.Output, "__lock_t")
}
