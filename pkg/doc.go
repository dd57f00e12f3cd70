// Package pkg provides the core libraries for prgraph, a browser for
// part relation exports.
//
// # Overview
//
// A relation export is a table in which every row links two part numbers
// (the M_NR and Z_MNR columns by default) under a relation category (BTYP).
// prgraph loads such a table from a file, a URL or a database, optionally
// narrows it to one category, and answers which identifiers are directly
// connected to a query identifier and which are connected to those.
//
// The pkg directory is organized into these areas:
//
//  1. [dataset] - Immutable tables, schema validation and value normalization
//  2. [source] - Gateways that read CSV, Excel, SQL and MongoDB sources
//  3. [connectivity] - One-hop and two-hop neighbourhood resolution
//  4. [pipeline] - Orchestration (load → filter → resolve) with caching
//  5. [render] - Reports and node-link diagrams of a resolution result
//  6. [cache], [session], [io] - Persistence for results, uploaded datasets
//     and snapshots
//
// # Architecture
//
// The typical data flow:
//
//	Excel / CSV / SQL / MongoDB
//	         ↓
//	    [source] package (read table, validate schema)
//	         ↓
//	    [dataset] package (normalize, filter by category)
//	         ↓
//	    [connectivity] package (level 1 and level 2 neighbours)
//	         ↓
//	    [render] package (text, table, JSON, DOT or SVG)
//
// # Quick Start
//
//	gw, _ := source.Open("relations.xlsx", source.Options{})
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	ds, _ := runner.Load(ctx, gw)
//
//	res, _ := runner.Resolve(ctx, ds, pipeline.Options{
//	    ID:       "4711",
//	    Category: "A",
//	})
//	_ = report.WriteConnections(os.Stdout, res, report.FormatText)
//
// The CLI (internal/cli) and the HTTP API (internal/server) are both thin
// layers over [pipeline.Runner], so both entry points behave the same.
//
// # Testing
//
//	go test ./pkg/...             # All library tests
//	go test ./pkg/connectivity/   # Specific package
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/dataset
// [source]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/source
// [connectivity]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/connectivity
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/pipeline#Runner
// [render]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/session
// [io]: https://pkg.go.dev/github.com/matzehuels/prgraph/pkg/io
package pkg
