package source

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
)

// database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// SQL reads a dataset from the result set of a query.
// The result columns form the header; every row becomes a record.
type SQL struct {
	Driver string
	DSN    string
	Query  string
	Opts   Options

	db *sql.DB // injected connection, not closed by Load
}

// NewSQL prepares a gateway that opens its own connection on each Load.
//
// Without opts.Query the gateway selects every column of the table named by
// opts.Sheet, or of DefaultSheet.
func NewSQL(driver, dsn string, opts Options) (*SQL, error) {
	if dsn == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s source needs a data source name", driver)
	}
	return &SQL{Driver: driver, DSN: dsn, Query: queryFor(opts), Opts: opts}, nil
}

// NewSQLFromDB wraps an existing connection. The caller keeps ownership.
func NewSQLFromDB(db *sql.DB, opts Options) *SQL {
	return &SQL{Query: queryFor(opts), Opts: opts, db: db}
}

func queryFor(opts Options) string {
	if opts.Query != "" {
		return opts.Query
	}
	table := opts.Sheet
	if table == "" {
		table = DefaultSheet
	}
	return "SELECT * FROM " + quoteIdent(table)
}

// quoteIdent quotes a table name for both sqlite and PostgreSQL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Load implements Gateway.
func (g *SQL) Load(ctx context.Context) (*dataset.Dataset, error) {
	db := g.db
	if db == nil {
		var err error
		db, err = sql.Open(g.Driver, g.DSN)
		if err != nil {
			return nil, errors.Source(err, "open %s database", g.Driver)
		}
		defer func() { _ = db.Close() }()
	}

	t, err := queryTable(ctx, db, g.Query)
	if err != nil {
		return nil, err
	}
	return t.Dataset(g.Opts.schema())
}

func (g *SQL) String() string {
	if g.db != nil {
		return "sql"
	}
	if g.Driver == DriverSQLite {
		return "sqlite://" + g.DSN
	}
	// Never log credentials embedded in a connection URL.
	return g.Driver + " database"
}

func queryTable(ctx context.Context, db *sql.DB, query string) (Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return Table{}, errors.Source(err, "query")
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return Table{}, errors.Source(err, "read result columns")
	}

	var body [][]string
	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return Table{}, errors.Source(err, "scan row %d", len(body)+1)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = dataset.Text(v)
		}
		body = append(body, row)
	}
	if err := rows.Err(); err != nil {
		return Table{}, errors.Source(err, "iterate rows")
	}
	return Table{Header: header, Rows: body}, nil
}
