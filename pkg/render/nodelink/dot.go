package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/prgraph/pkg/connectivity"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Title is shown as the graph label, for example the selected category.
	Title string

	// Layout selects the Graphviz engine attribute (layout=...).
	// Empty means the default "dot" engine.
	Layout string
}

// Node styles by distance from the query.
const (
	queryStyle  = `shape=box, style="rounded,filled,bold", fillcolor="#2b6cb0", fontcolor=white`
	level1Style = `shape=box, style="rounded,filled", fillcolor="#bee3f8"`
	level2Style = `shape=box, style="rounded,filled", fillcolor=white`
)

// ToDOT converts a two-hop result to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes are emitted query first, then level 1 in order, then level 2
// identifiers in order of first appearance, so the output is deterministic.
func ToDOT(res connectivity.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if opts.Layout != "" {
		fmt.Fprintf(&buf, "  layout=%s;\n", quote(opts.Layout))
	}
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.2;\n")

	var lines []string
	if opts.Title != "" {
		lines = append(lines, escape(opts.Title))
	}
	if res.Empty() {
		lines = append(lines, "no connections found")
	}
	if len(lines) > 0 {
		fmt.Fprintf(&buf, "  labelloc=t;\n  label=\"%s\";\n", strings.Join(lines, `\n`))
	}
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %s [%s];\n", quote(res.Query), queryStyle)

	placed := map[string]bool{res.Query: true}
	for _, p := range res.Level1 {
		placed[p] = true
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(p), level1Style)
	}
	for _, p := range res.Level1 {
		for _, q := range res.Level2[p] {
			if placed[q] {
				continue
			}
			placed[q] = true
			fmt.Fprintf(&buf, "  %s [%s];\n", quote(q), level2Style)
		}
	}

	buf.WriteString("\n")
	for _, e := range res.Edges() {
		fmt.Fprintf(&buf, "  %s -- %s;\n", quote(e[0]), quote(e[1]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotEscaper escapes the only characters that are special inside a DOT
// double-quoted string.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escape(s string) string { return dotEscaper.Replace(s) }

// quote returns s as a DOT double-quoted ID.
func quote(s string) string { return `"` + escape(s) + `"` }

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
