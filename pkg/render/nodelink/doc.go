// Package nodelink renders a two-hop neighbourhood as a node-link diagram.
//
// # Overview
//
// The query identifier is drawn as a highlighted centre node, its level-1
// connections in a second style and level-2 identifiers in a third. Edges are
// undirected because pairing in the dataset is symmetric, so the diagram is a
// Graphviz "graph", not a "digraph". An edge appears once even when it is
// reachable from both of its ends.
//
// # Usage
//
//	dot := nodelink.ToDOT(res, nodelink.Options{Title: "BTYP = A"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// An empty result still renders: the diagram then contains the query node
// alone and a "no connections" caption.
package nodelink
