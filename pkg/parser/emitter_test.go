package parser

import (
	"strings"
	"testing"

	"lockjs/pkg/source"
)

func TestEmitStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`let x = 5;`, "let x = 5;\n"},
		{`const s = "hi";`, "const s = \"hi\";\n"},
		{`let y = 1 + 2;`, "let y = (1 + 2);\n"},
		{`foo(1, 2);`, "foo(1, 2);\n"},
		{`let f = (a) => a;`, "let f = (a) => a;\n"},
		{`throw new TypeError("bad");`, "throw new TypeError(\"bad\");\n"},
		{`let n = obj.field;`, "let n = obj.field;\n"},
		{`let m = arr[0];`, "let m = arr[0];\n"},
		{`let re = /ab+c/gi;`, "let re = /ab+c/gi;\n"},
		{
			`if (a) { b(); } else { c(); }`,
			"if (a) {\n  b();\n} else {\n  c();\n}\n",
		},
		{
			`while (x) { f(); }`,
			"while (x) {\n  f();\n}\n",
		},
		{
			`function f(x) { return x; }`,
			"function f(x) {\n  return x;\n}\n",
		},
		{
			`for (const k of xs) { f(k); }`,
			"for (const k of xs) {\n  f(k);\n}\n",
		},
	}

	for _, tt := range tests {
		prog, errs := Parse(source.NewEvalSource(tt.input))
		if len(errs) != 0 {
			t.Errorf("%q: parser had %d errors: %s", tt.input, len(errs), errs[0].Error())
			continue
		}
		got := NewEmitter().Emit(prog)
		if got != tt.expected {
			t.Errorf("%q:\nexpected %q\ngot      %q", tt.input, tt.expected, got)
		}
	}
}

// A '%' inside emitted text is literal output, never a format verb: string
// literal contents, the remainder operator, and pass-through pattern syntax
// all carry it through verbatim.
func TestEmitPercentText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`let a = "100%";`, "let a = \"100%\";\n"},
		{`let r = b % 2;`, "let r = (b % 2);\n"},
		{`let {a = b % 2} = o;`, "let {a = (b % 2)} = o;\n"},
		{`let s = "%s %d %!";`, "let s = \"%s %d %!\";\n"},
	}

	for _, tt := range tests {
		prog, errs := Parse(source.NewEvalSource(tt.input))
		if len(errs) != 0 {
			t.Errorf("%q: parser had %d errors: %s", tt.input, len(errs), errs[0].Error())
			continue
		}
		got := NewEmitter().Emit(prog)
		if got != tt.expected {
			t.Errorf("%q:\nexpected %q\ngot      %q", tt.input, tt.expected, got)
		}
		if strings.Contains(got, "MISSING") {
			t.Errorf("%q: format machinery leaked into output: %q", tt.input, got)
		}
	}
}

func TestEmitProgramPrependsUseStrict(t *testing.T) {
	prog, errs := Parse(source.NewEvalSource(`let a = 1;`))
	if len(errs) != 0 {
		t.Fatalf("parser had errors: %s", errs[0].Error())
	}
	out := EmitProgram(prog)
	if !strings.HasPrefix(out, "\"use strict\";\n") {
		t.Errorf("output does not start with the strict-mode directive: %q", out)
	}
}

// Emitted output for a desugared program must itself parse cleanly.
func TestEmitRoundTrip(t *testing.T) {
	input := `function add(a, b) {
  if (a > b) {
    return a + b;
  }
  return b;
}
let r = add(1, 2);`

	prog, errs := Parse(source.NewEvalSource(input))
	if len(errs) != 0 {
		t.Fatalf("parser had errors: %s", errs[0].Error())
	}
	first := NewEmitter().Emit(prog)

	prog2, errs2 := Parse(source.NewEvalSource(first))
	if len(errs2) != 0 {
		t.Fatalf("re-parse had errors: %s", errs2[0].Error())
	}
	second := NewEmitter().Emit(prog2)

	if first != second {
		t.Errorf("emit is not a fixed point:\nfirst  %q\nsecond %q", first, second)
	}
}
