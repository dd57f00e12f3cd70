// Package pipeline glues dataset filtering and connectivity resolution
// together for every presenter.
//
// The CLI, the TUI and the HTTP server all answer the same three questions:
// which categories exist, which identifiers a category contains, and what the
// two-hop neighbourhood of an identifier is. Centralizing them here keeps
// scope handling, memoization and observability identical across entry
// points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	ds, err := runner.Load(ctx, gateway)
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Resolve(ctx, ds, pipeline.Options{
//	    Category: "A",
//	    Scope:    pipeline.ScopeCategory,
//	    ID:       "4711",
//	})
//
// Results are pure functions of the dataset version and the options, so the
// cache is never invalidated; a new dataset simply has a new version.
package pipeline

import (
	"github.com/matzehuels/prgraph/pkg/errors"
)

// Scope selects which dataset two-hop resolution runs against.
type Scope string

const (
	// ScopeCategory resolves both levels against the category-filtered view.
	ScopeCategory Scope = "category"

	// ScopeAll resolves both levels against the full dataset.
	ScopeAll Scope = "all"
)

// DefaultScope matches the behaviour of the original lookup tool.
const DefaultScope = ScopeCategory

// ValidScopes is the set of supported scopes.
var ValidScopes = map[Scope]bool{
	ScopeCategory: true,
	ScopeAll:      true,
}

// ParseScope converts a user-supplied scope name. An empty name yields
// DefaultScope.
func ParseScope(s string) (Scope, error) {
	if s == "" {
		return DefaultScope, nil
	}
	if !ValidScopes[Scope(s)] {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid scope %q: must be category or all", s)
	}
	return Scope(s), nil
}

// Options configures a resolution.
type Options struct {
	// Category restricts the dataset before resolution. Empty means the full
	// dataset is used regardless of Scope.
	Category string

	// Scope chooses between the filtered view and the full dataset.
	Scope Scope

	// ID is the starting identifier. It is normalized before lookup.
	ID string

	// Refresh bypasses cached results and overwrites them.
	Refresh bool
}

// ValidateAndSetDefaults fills in the default scope and rejects unknown ones.
func (o *Options) ValidateAndSetDefaults() error {
	scope, err := ParseScope(string(o.Scope))
	if err != nil {
		return err
	}
	o.Scope = scope
	return nil
}
