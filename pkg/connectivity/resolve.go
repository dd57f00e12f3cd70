package connectivity

import (
	"maps"
	"slices"

	"github.com/matzehuels/prgraph/pkg/dataset"
)

// Result is the two-hop neighbourhood of a query identifier.
//
// Level1 and Level2 are never nil, so they encode as [] and {} in JSON.
type Result struct {
	Query  string              `json:"query"`
	Level1 []string            `json:"level1"`
	Level2 map[string][]string `json:"level2"`
}

// Empty reports whether the query has no level-1 connections.
func (r Result) Empty() bool { return len(r.Level1) == 0 }

// Edges returns the distinct undirected edges of the neighbourhood as
// ordered [from, to] pairs: query to each level-1 identifier, then each
// level-1 identifier to its level-2 identifiers. An edge that appears in both
// directions is reported once.
func (r Result) Edges() [][2]string {
	seen := make(map[[2]string]struct{})
	var out [][2]string
	add := func(from, to string) {
		key := [2]string{min(from, to), max(from, to)}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, [2]string{from, to})
	}
	for _, p := range r.Level1 {
		add(r.Query, p)
	}
	for _, p := range r.Level1 {
		for _, q := range r.Level2[p] {
			add(p, q)
		}
	}
	return out
}

// Connected returns every identifier paired with id in some record of ds.
//
// id is normalized before matching. The result excludes the empty identifier
// and id itself, contains no duplicates and is sorted lexicographically.
// An unknown id yields an empty, non-nil slice.
func Connected(ds *dataset.Dataset, id string) []string {
	id = dataset.Normalize(id)
	set := make(map[string]struct{})
	if id == "" || ds == nil {
		return []string{}
	}
	for i := range ds.Len() {
		r := ds.At(i)
		switch id {
		case r.A:
			set[r.B] = struct{}{}
		case r.B:
			set[r.A] = struct{}{}
		}
	}
	return finish(set, id)
}

// TwoHop resolves level 1 and level 2 of id against ds.
func TwoHop(ds *dataset.Dataset, id string) Result {
	return expand(id, func(p string) []string { return Connected(ds, p) })
}

// expand is the shared two-hop walk over any level-1 lookup.
func expand(id string, connected func(string) []string) Result {
	res := Result{
		Query:  dataset.Normalize(id),
		Level1: connected(id),
		Level2: make(map[string][]string),
	}
	for _, p := range res.Level1 {
		res.Level2[p] = connected(p)
	}
	return res
}

// finish drops the empty identifier and the query from set and sorts it.
func finish(set map[string]struct{}, id string) []string {
	delete(set, "")
	delete(set, id)
	out := slices.AppendSeq(make([]string, 0, len(set)), maps.Keys(set))
	slices.Sort(out)
	return out
}
