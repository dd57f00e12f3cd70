package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/prgraph/pkg/connectivity"
)

func sampleResult() connectivity.Result {
	return connectivity.Result{
		Query:  "1",
		Level1: []string{"2"},
		Level2: map[string][]string{"2": {"1", "3"}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleResult(), Options{Title: "BTYP = A"})

	for _, want := range []string{
		"graph G {",
		`label="BTYP = A"`,
		`"1" [shape=box, style="rounded,filled,bold"`,
		`"2" [shape=box, style="rounded,filled", fillcolor="#bee3f8"]`,
		`"3" [shape=box, style="rounded,filled", fillcolor=white]`,
		`"1" -- "2";`,
		`"2" -- "3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	if strings.Contains(dot, "->") {
		t.Error("DOT should be undirected")
	}
	if n := strings.Count(dot, "--"); n != 2 {
		t.Errorf("edge count = %d, want 2 (1-2 must not repeat)", n)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(connectivity.Result{Query: "9", Level1: []string{}, Level2: map[string][]string{}}, Options{})

	if !strings.Contains(dot, "no connections found") {
		t.Errorf("empty result should carry a caption:\n%s", dot)
	}
	if strings.Contains(dot, "--") {
		t.Errorf("empty result should have no edges:\n%s", dot)
	}
}

func TestToDOTQuoting(t *testing.T) {
	res := connectivity.Result{
		Query:  "A\tB",
		Level1: []string{`say "hi"`, `C:\x`, "Müller"},
		Level2: map[string][]string{},
	}
	dot := ToDOT(res, Options{Title: `BTYP = "Z"`})

	for _, want := range []string{
		"\"A\tB\" [",
		`"say \"hi\"" [`,
		`"C:\\x" [`,
		`"Müller" [`,
		`label="BTYP = \"Z\""`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `\u00fc`) || strings.Contains(dot, `\t`) {
		t.Errorf("DOT must not use Go escapes:\n%s", dot)
	}

	empty := ToDOT(connectivity.Result{Query: "9", Level1: []string{}, Level2: map[string][]string{}}, Options{Title: "A"})
	if !strings.Contains(empty, `label="A\nno connections found"`) {
		t.Errorf("caption should be two label lines:\n%s", empty)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	res := connectivity.Result{
		Query:  "a",
		Level1: []string{"b", "c"},
		Level2: map[string][]string{"b": {"a", "d"}, "c": {"a", "d", "e"}},
	}
	first := ToDOT(res, Options{Layout: "neato"})
	for range 10 {
		if got := ToDOT(res, Options{Layout: "neato"}); got != first {
			t.Fatal("ToDOT output is not deterministic")
		}
	}
	if !strings.Contains(first, `layout="neato"`) {
		t.Error("layout attribute missing")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))

	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleResult(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}

	if _, err := RenderSVG(context.Background(), "graph {"); err == nil {
		t.Error("RenderSVG(invalid) should fail")
	}
}
