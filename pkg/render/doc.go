// Package render turns resolution results into output for people and tools.
//
// # Overview
//
// Rendering is split by medium:
//
//   - [report]: plain text, go-pretty tables, CSV, Markdown and JSON for
//     connection lists, identifier lists and source rows
//   - [nodelink]: Graphviz DOT and SVG diagrams of a two-hop neighbourhood
//
// Renderers only consume plain values (string slices, the connectivity
// result and dataset records); they never load or filter data themselves.
//
// # Usage
//
//	res, _ := runner.Resolve(ctx, ds, opts)
//	_ = report.WriteConnections(os.Stdout, res, report.FormatText)
//
//	dot := nodelink.ToDOT(res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [report]: github.com/matzehuels/prgraph/pkg/render/report
// [nodelink]: github.com/matzehuels/prgraph/pkg/render/nodelink
package render
