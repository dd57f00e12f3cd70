package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/prgraph/pkg/cache"
	"github.com/matzehuels/prgraph/pkg/connectivity"
	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/observability"
)

// Loader produces a dataset. source.Gateway satisfies it.
type Loader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Runner encapsulates filtering and resolution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner stores no results itself besides optional adjacency indexes;
// multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long results stay cached. Zero means cache.DefaultTTL.
	TTL time.Duration

	// Indexed makes the runner build and keep one adjacency index per
	// dataset version. Long-lived presenters enable it; one-shot CLI
	// commands leave it off and scan.
	Indexed bool

	mu      sync.Mutex
	indexes map[string]*connectivity.Index
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Load reads a dataset and reports the load to the pipeline hooks.
func (r *Runner) Load(ctx context.Context, l Loader) (*dataset.Dataset, error) {
	name := fmt.Sprint(l)
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)

	start := time.Now()
	ds, err := l.Load(ctx)
	hooks.OnLoadComplete(ctx, name, ds.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("loaded dataset",
		"source", name,
		"rows", ds.Len(),
		"version", ds.Version(),
		"duration", time.Since(start))
	return ds, nil
}

// Categories returns the selectable category values of ds.
func (r *Runner) Categories(ctx context.Context, ds *dataset.Dataset) []string {
	key := r.Keyer.CategoriesKey(ds.Version())
	out, _ := cached(ctx, r, "categories", key, false, ds.Categories)
	return out
}

// Identifiers returns the identifiers present in the view for category.
// An empty category lists identifiers of the whole dataset.
func (r *Runner) Identifiers(ctx context.Context, ds *dataset.Dataset, category string) []string {
	key := r.Keyer.IdentifiersKey(ds.Version(), category)
	out, _ := cached(ctx, r, "identifiers", key, false, func() []string {
		return r.View(ctx, ds, category).Identifiers()
	})
	return out
}

// View returns ds restricted to category, or ds itself when category is empty.
func (r *Runner) View(ctx context.Context, ds *dataset.Dataset, category string) *dataset.Dataset {
	if category == "" {
		return ds
	}
	view := ds.Filter(category)
	observability.Pipeline().OnFilter(ctx, category, ds.Len(), view.Len())
	r.Logger.Debug("filtered dataset", "category", category, "kept", view.Len(), "total", ds.Len())
	return view
}

// Resolve computes the two-hop neighbourhood of opts.ID.
//
// With ScopeCategory both levels are resolved against the filtered view, with
// ScopeAll both are resolved against the full dataset. The only error is an
// invalid scope; unknown identifiers yield an empty result.
func (r *Runner) Resolve(ctx context.Context, ds *dataset.Dataset, opts Options) (connectivity.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return connectivity.Result{}, err
	}

	id := dataset.Normalize(opts.ID)
	key := r.Keyer.ResolveKey(ds.Version(), cache.ResolveKeyOpts{
		Category: opts.Category,
		Scope:    string(opts.Scope),
		ID:       id,
	})

	res, hit := cached(ctx, r, "resolve", key, opts.Refresh, func() connectivity.Result {
		target := ds
		if opts.Scope == ScopeCategory {
			target = r.View(ctx, ds, opts.Category)
		}

		start := time.Now()
		var res connectivity.Result
		if r.Indexed {
			res = r.index(target).TwoHop(id)
		} else {
			res = connectivity.TwoHop(target, id)
		}
		observability.Pipeline().OnResolve(ctx, string(opts.Scope), len(res.Level1), countLevel2(res), time.Since(start))
		return res
	})

	r.Logger.Debug("resolved identifier",
		"id", id,
		"category", opts.Category,
		"scope", opts.Scope,
		"level1", len(res.Level1),
		"cached", hit)
	return res, nil
}

// Rows returns the records of the category view whose first or second
// identifier equals id.
func (r *Runner) Rows(ctx context.Context, ds *dataset.Dataset, category, id string) (byA, byB []dataset.Record) {
	return r.View(ctx, ds, category).Rows(id)
}

// Forget drops the adjacency indexes kept for a dataset version and every
// view derived from it.
func (r *Runner) Forget(ds *dataset.Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.indexes, ds.Version())
	for _, c := range ds.Categories() {
		delete(r.indexes, ds.Filter(c).Version())
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) index(ds *dataset.Dataset) *connectivity.Index {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.indexes[ds.Version()]; ok {
		return idx
	}
	if r.indexes == nil {
		r.indexes = make(map[string]*connectivity.Index)
	}
	idx := connectivity.NewIndex(ds)
	r.indexes[ds.Version()] = idx
	return idx
}

// cached returns the value stored under key, or computes and stores it.
// Cache failures are logged and otherwise ignored: results never depend on
// the cache.
func cached[T any](ctx context.Context, r *Runner, keyType, key string, refresh bool, compute func() T) (T, bool) {
	hooks := observability.Cache()

	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Debug("cache read failed", "key_type", keyType, "error", err)
		}
		if hit {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				hooks.OnCacheHit(ctx, keyType)
				return v, true
			}
		}
	}
	hooks.OnCacheMiss(ctx, keyType)

	v := compute()
	if data, err := json.Marshal(v); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Debug("cache write failed", "key_type", keyType, "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyType, len(data))
		}
	}
	return v, false
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultTTL
}

func countLevel2(res connectivity.Result) int {
	n := 0
	for _, ids := range res.Level2 {
		n += len(ids)
	}
	return n
}
