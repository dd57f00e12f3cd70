// Package dataset holds the typed, immutable view of a PR relation table.
//
// # Overview
//
// A PR relation export is a sheet in which every row pairs two PR numbers
// (columns M_NR and Z_MNR by default) and carries a body-type classifier
// (column BTYP). This package turns the raw header and cells produced by a
// gateway into a [Dataset] of [Record] values with normalized category and
// identifier fields. Every other column is kept verbatim as payload.
//
// # Normalization
//
// Spreadsheet users prefix numbers with a quote mark to force text cells, and
// exports often pad values with spaces. [Normalize] removes both so that
// "'007" and " 007 " compare equal to "007". Missing cells normalize to the
// empty string, which never counts as an identifier.
//
// # Filtering
//
// [Dataset.Filter] restricts a dataset to one category and returns a new
// Dataset; the original is never mutated. [Dataset.Categories] lists the
// selectable category values and [Dataset.Identifiers] the PR numbers present
// in a (possibly filtered) dataset.
//
// # Schema
//
// [New] validates the header once: a missing category or identifier column
// fails with an [errors.SchemaError] before any filtering or resolution work
// happens, so downstream code never checks for columns again.
//
// [errors.SchemaError]: github.com/matzehuels/prgraph/pkg/errors.SchemaError
package dataset
