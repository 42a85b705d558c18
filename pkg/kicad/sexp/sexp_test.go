package sexp

import (
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	input := `(kicad_sch (version 20250114) (generator "eeschema"))`
	nodes, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 top-level node, got %d", len(nodes))
	}

	root := nodes[0]
	if root.Name() != "kicad_sch" {
		t.Errorf("Expected root name kicad_sch, got %q", root.Name())
	}

	version, found := root.Find("version")
	if !found {
		t.Fatal("version node not found")
	}
	v, err := version.Int(1)
	if err != nil || v != 20250114 {
		t.Errorf("Expected version 20250114, got %d (%v)", v, err)
	}

	gen, found := root.Find("generator")
	if !found || gen.Str(1) != "eeschema" {
		t.Errorf("Expected generator eeschema, got %q", gen.Str(1))
	}
}

func TestParseQuoting(t *testing.T) {
	// Doubled quotes and backslash escapes both appear in KiCad files
	input := `(property "Value" "10k ""precision""" (id 1)) (text "line1\nline2")`
	nodes, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}

	if got := nodes[0].Str(2); got != `10k "precision"` {
		t.Errorf("Doubled-quote escape wrong: %q", got)
	}
	if got := nodes[1].Str(1); got != "line1\nline2" {
		t.Errorf("Backslash escape wrong: %q", got)
	}
}

func TestParseComments(t *testing.T) {
	input := "# header comment\n(a (b 1) # trailing\n(b 2))"
	nodes, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	bs := nodes[0].FindAll("b")
	if len(bs) != 2 {
		t.Fatalf("Expected 2 b nodes, got %d", len(bs))
	}
	if bs[1].Str(1) != "2" {
		t.Errorf("Second b node value wrong: %q", bs[1].Str(1))
	}
}

func TestYesNo(t *testing.T) {
	nodes, err := Parse(strings.NewReader(`(symbol (in_bom yes) (on_board no) (dnp no))`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sym := nodes[0]
	if n, _ := sym.Find("in_bom"); !n.YesNo() {
		t.Error("in_bom should be yes")
	}
	if n, _ := sym.Find("on_board"); n.YesNo() {
		t.Error("on_board should be no")
	}
	if n, _ := sym.Find("dnp"); n.YesNo() {
		t.Error("dnp should be no")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(strings.NewReader(`(unclosed (list`)); err == nil {
		t.Error("Expected error for unclosed list")
	}
	if _, err := Parse(strings.NewReader(`)`)); err == nil {
		t.Error("Expected error for stray ')'")
	}
	if _, err := Parse(strings.NewReader(`("unterminated`)); err == nil {
		t.Error("Expected error for unterminated string")
	}
}
