package connectivity

import (
	"maps"
	"slices"

	"github.com/matzehuels/prgraph/pkg/dataset"
)

// Index is a precomputed adjacency list over one dataset snapshot.
//
// An Index is immutable after [NewIndex] returns and safe for concurrent
// use. It answers the same queries as [Connected] and [TwoHop] on the
// dataset it was built from.
type Index struct {
	version string
	adj     map[string][]string
}

// NewIndex builds the adjacency index of ds in one pass.
func NewIndex(ds *dataset.Dataset) *Index {
	sets := make(map[string]map[string]struct{})
	link := func(a, b string) {
		s, ok := sets[a]
		if !ok {
			s = make(map[string]struct{})
			sets[a] = s
		}
		s[b] = struct{}{}
	}

	ix := &Index{adj: make(map[string][]string)}
	if ds == nil {
		return ix
	}
	ix.version = ds.Version()

	for i := range ds.Len() {
		r := ds.At(i)
		if r.A == "" || r.B == "" || r.A == r.B {
			continue
		}
		link(r.A, r.B)
		link(r.B, r.A)
	}
	for id, s := range sets {
		ix.adj[id] = slices.Sorted(maps.Keys(s))
	}
	return ix
}

// Version returns the version of the dataset the index was built from.
func (ix *Index) Version() string { return ix.version }

// Len returns the number of identifiers with at least one connection.
func (ix *Index) Len() int { return len(ix.adj) }

// Connected returns the level-1 connections of id.
// The returned slice is a copy and may be modified by the caller.
func (ix *Index) Connected(id string) []string {
	out := ix.adj[dataset.Normalize(id)]
	if out == nil {
		return []string{}
	}
	return slices.Clone(out)
}

// TwoHop resolves level 1 and level 2 of id from the index.
func (ix *Index) TwoHop(id string) Result {
	return expand(id, ix.Connected)
}
