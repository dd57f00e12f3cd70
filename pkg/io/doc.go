// Package io provides JSON import and export of dataset snapshots.
//
// # Overview
//
// A snapshot is a self-contained copy of a loaded dataset: the trimmed
// header, the schema that names the category and identifier columns, and
// every row exactly as read. Snapshots are used for:
//
//   - Exporting a workbook once and reloading it quickly afterwards
//   - Uploading datasets to the HTTP API without spreadsheet parsing
//   - Fixtures in tests
//
// # JSON Format
//
//	{
//	  "format": 1,
//	  "schema": {"category": "BTYP", "id_a": "M_NR", "id_b": "Z_MNR"},
//	  "columns": ["BTYP", "M_NR", "Z_MNR", "BEZ"],
//	  "rows": [
//	    ["A", "'4711", "4712", "Pumpe"],
//	    ["A", "4712", "4713", "Ventil"]
//	  ]
//	}
//
// The schema is optional; when omitted the BTYP / M_NR / Z_MNR defaults
// apply. Rows hold raw cell text; normalization happens again on import, so
// a round trip yields a dataset with the same version.
//
// # Usage
//
//	if err := io.WriteJSON(ds, w); err != nil {
//	    return err
//	}
//
//	ds, err := io.ReadJSON(r, dataset.Schema{})
package io
