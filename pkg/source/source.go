package source

import (
	"context"
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
	pio "github.com/matzehuels/prgraph/pkg/io"
)

// DefaultSheet is the worksheet (and, for databases, the table or
// collection) the relation export is read from.
const DefaultSheet = "Zwang_Ausschluss_Quelle"

// ErrUnsupportedFormat is wrapped by errors for unknown file types.
var ErrUnsupportedFormat = stderrors.New("unsupported format")

// Gateway produces a validated dataset.
type Gateway interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Options configures how a source is read. Zero values select defaults.
type Options struct {
	// Schema names the required columns. Zero means dataset.DefaultSchema,
	// except for JSON snapshots, which carry their own.
	Schema dataset.Schema

	// Sheet is the worksheet of a workbook. For SQL sources without Query it
	// is the table to select from; for MongoDB the default collection.
	Sheet string

	// Comma overrides the field delimiter of delimited text.
	Comma rune

	// Query is the SQL statement producing the header and rows.
	Query string

	// Database and Collection locate a MongoDB collection.
	Database   string
	Collection string
}

func (o Options) schema() dataset.Schema {
	if o.Schema == (dataset.Schema{}) {
		return dataset.DefaultSchema()
	}
	return o.Schema
}

// Format identifies a file encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file name extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, ErrUnsupportedFormat,
			"file type %q: expected .xlsx, .xlsm, .csv, .tsv or .json", filepath.Ext(name))
	}
}

// Table is a header and rows of raw cell text, as read from a source.
type Table struct {
	Header []string
	Rows   [][]string
}

// Dataset validates the table against schema.
func (t Table) Dataset(schema dataset.Schema) (*dataset.Dataset, error) {
	return dataset.New(t.Header, t.Rows, schema)
}

// ParseFormat converts a format name such as "xlsx" or ".csv".
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if name == "xlsm" {
		return FormatXLSX, nil
	}
	return FormatOf("x." + name)
}

// Decode reads a dataset encoded as format from r.
// It backs both the file gateway and HTTP uploads.
func Decode(r io.Reader, format Format, opts Options) (*dataset.Dataset, error) {
	var (
		t   Table
		err error
	)
	switch format {
	case FormatXLSX:
		t, err = ReadXLSX(r, opts.Sheet)
	case FormatCSV:
		comma := opts.Comma
		if comma == 0 {
			comma = ','
		}
		t, err = ReadCSV(r, comma)
	case FormatTSV:
		comma := opts.Comma
		if comma == 0 {
			comma = '\t'
		}
		t, err = ReadCSV(r, comma)
	case FormatJSON:
		ds, err := pio.ReadJSON(r, opts.Schema)
		return ds, wrap(err, "read json snapshot")
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return t.Dataset(opts.schema())
}

// Open returns the gateway for a location.
//
// Locations of the form sqlite://path, postgres://... (or postgresql://) and
// mongodb://... (or mongodb+srv://) select the database gateways, http:// and
// https:// URLs are downloaded, and anything else is a file path.
func Open(location string, opts Options) (Gateway, error) {
	switch {
	case strings.HasPrefix(location, "sqlite://"):
		return NewSQL(DriverSQLite, strings.TrimPrefix(location, "sqlite://"), opts)
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return NewSQL(DriverPostgres, location, opts)
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		return NewMongo(location, opts)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTP(location, opts)
	default:
		return NewFile(location, opts)
	}
}

// wrap passes nil, schema errors and already-coded errors through unchanged
// and reports everything else as a source error.
func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var se *errors.SchemaError
	if stderrors.As(err, &se) || errors.GetCode(err) != "" {
		return err
	}
	return errors.Source(err, format, args...)
}
