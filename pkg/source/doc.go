// Package source implements the dataset gateways.
//
// A [Gateway] produces one validated, immutable [dataset.Dataset]. Gateways
// exist for spreadsheet workbooks (xlsx, xlsm), delimited text (csv, tsv),
// JSON snapshots written by pkg/io, files published over http(s), SQL
// databases (sqlite and PostgreSQL via database/sql) and MongoDB collections.
//
// Every gateway reduces its input to a header and rows of raw cell text and
// hands them to [dataset.New], so header trimming and the required-column
// check behave identically for all of them.
//
// # Errors
//
// Failures to obtain or parse the input are reported as SOURCE_ERROR. A
// header lacking a required column is reported as *errors.SchemaError and is
// passed through unchanged. Only the [HTTP] gateway retries, and only for
// network errors, 5xx and 429 responses.
//
// # Usage
//
//	gw, err := source.Open("exports/relations.xlsx", source.Options{
//	    Sheet: source.DefaultSheet,
//	})
//	if err != nil {
//	    return err
//	}
//	ds, err := gw.Load(ctx)
package source
