package errors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestDisplayErrors(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	src := "let a = 1;\nlet b = {# x: 1 |};\n"
	errs := []SourceError{
		&SyntaxError{
			Position: Position{Line: 2, Column: 9},
			Msg:      "mismatched lock delimiter",
		},
	}

	var buf bytes.Buffer
	DisplayErrors(&buf, src, errs)
	out := buf.String()

	if !strings.Contains(out, "Syntax Error at 2:9: mismatched lock delimiter") {
		t.Errorf("missing header in output: %q", out)
	}
	if !strings.Contains(out, "let b = {# x: 1 |};") {
		t.Errorf("missing source line in output: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret marker in output: %q", out)
	}
}

func TestErrorKinds(t *testing.T) {
	syn := &SyntaxError{Position: Position{Line: 1, Column: 1}, Msg: "bad token"}
	if syn.Kind() != "Syntax" {
		t.Errorf("Kind() = %q, want Syntax", syn.Kind())
	}
	if !strings.Contains(syn.Error(), "bad token") {
		t.Errorf("Error() = %q", syn.Error())
	}

	tr := &TransformError{Position: Position{Line: 3, Column: 2}, Msg: "duplicate binding"}
	if tr.Kind() != "Transform" {
		t.Errorf("Kind() = %q, want Transform", tr.Kind())
	}
	if tr.Pos().Line != 3 {
		t.Errorf("Pos().Line = %d, want 3", tr.Pos().Line)
	}
}
