// Package connectivity resolves direct and two-hop connections between PR
// numbers in a [dataset.Dataset].
//
// # Adjacency
//
// Two identifiers are adjacent when some record pairs them in its two
// identifier columns, in either order. Adjacency is undirected, self-pairs
// are ignored and the empty identifier is never a node.
//
// # Levels
//
// Level 1 of a query is the set of identifiers adjacent to it. Level 2 maps
// every level-1 identifier to its own level-1 set, resolved against the same
// dataset. Which dataset that is (a category-filtered view or the full
// table) is the caller's choice: the resolver never filters on its own.
//
// # Scan or Index
//
// [Connected] and [TwoHop] scan the dataset on every call, which is the right
// trade-off for one-shot CLI queries. [NewIndex] builds an adjacency index
// once and answers the same queries from it; long-lived presenters (the HTTP
// server, the interactive browser) use the index. Both return identical,
// lexicographically sorted results.
//
// [dataset.Dataset]: github.com/matzehuels/prgraph/pkg/dataset.Dataset
package connectivity
