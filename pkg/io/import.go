package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/prgraph/pkg/dataset"
)

// ReadJSON decodes a snapshot from r into a Dataset.
//
// If schema is the zero value, the schema stored in the snapshot is used,
// falling back to [dataset.DefaultSchema]. A non-zero schema overrides the
// stored one. The header is validated by [dataset.New], so a snapshot lacking
// a required column yields a *errors.SchemaError.
//
// ReadJSON returns an error if the JSON is malformed or was written by a
// newer format version. ReadJSON does not close r.
func ReadJSON(r io.Reader, schema dataset.Schema) (*dataset.Dataset, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Format > FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot format %d (max %d)", data.Format, FormatVersion)
	}

	if schema == (dataset.Schema{}) {
		schema = dataset.DefaultSchema()
		if data.Schema != nil {
			schema = *data.Schema
		}
	}
	return dataset.New(data.Columns, data.Rows, schema)
}

// ImportJSON reads a snapshot file at path.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string, schema dataset.Schema) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, schema)
}
