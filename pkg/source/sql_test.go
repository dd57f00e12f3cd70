package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/prgraph/pkg/errors"
)

func TestSQLGatewayWithMock(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		query     string
		setupMock func(mock sqlmock.Sqlmock, query string)
		code      errors.Code
		rows      int
	}{
		{
			name:  "default table",
			query: `SELECT * FROM "Zwang_Ausschluss_Quelle"`,
			setupMock: func(mock sqlmock.Sqlmock, query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(
					sqlmock.NewRows([]string{"BTYP", "M_NR", "Z_MNR"}).
						AddRow("A", int64(4711), "'4712").
						AddRow("A", nil, 4713.0),
				)
			},
			rows: 2,
		},
		{
			name:  "custom query",
			opts:  Options{Query: "SELECT kind AS BTYP, a AS M_NR, b AS Z_MNR FROM rel"},
			query: "SELECT kind AS BTYP, a AS M_NR, b AS Z_MNR FROM rel",
			setupMock: func(mock sqlmock.Sqlmock, query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(
					sqlmock.NewRows([]string{"BTYP", "M_NR", "Z_MNR"}).AddRow("B", "1", "2"),
				)
			},
			rows: 1,
		},
		{
			name:  "query error",
			query: `SELECT * FROM "Zwang_Ausschluss_Quelle"`,
			setupMock: func(mock sqlmock.Sqlmock, query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(assert.AnError)
			},
			code: errors.ErrCodeSource,
		},
		{
			name:  "missing column",
			query: `SELECT * FROM "Zwang_Ausschluss_Quelle"`,
			setupMock: func(mock sqlmock.Sqlmock, query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(
					sqlmock.NewRows([]string{"BTYP", "M_NR"}).AddRow("A", "1"),
				)
			},
			code: errors.ErrCodeSchema,
		},
		{
			name:  "row error",
			query: `SELECT * FROM "Zwang_Ausschluss_Quelle"`,
			setupMock: func(mock sqlmock.Sqlmock, query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(
					sqlmock.NewRows([]string{"BTYP", "M_NR", "Z_MNR"}).
						AddRow("A", "1", "2").
						RowError(0, assert.AnError),
				)
			},
			code: errors.ErrCodeSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock, tt.query)

			ds, err := NewSQLFromDB(db, tt.opts).Load(context.Background())
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, ds.Len())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLGatewayValuesAreCoerced(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"BTYP", "M_NR", "Z_MNR"}).
			AddRow([]byte("A"), int64(4711), 4712.0).
			AddRow("A", nil, "9"),
	)

	ds, err := NewSQLFromDB(db, Options{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4711", ds.At(0).A)
	assert.Equal(t, "4712", ds.At(0).B)
	assert.Equal(t, "", ds.At(1).A)
}

func TestSQLiteGateway(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rel.db")
	db, err := sql.Open(DriverSQLite, path)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE "Zwang_Ausschluss_Quelle" (BTYP TEXT, M_NR TEXT, Z_MNR INTEGER, BEZ TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO "Zwang_Ausschluss_Quelle" VALUES
		('A', '''4711', 4712, 'Pumpe'),
		('A', '4712', 4713, NULL),
		('B', '5', 6, 'x')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	gw, err := Open("sqlite://"+path, Options{})
	require.NoError(t, err)
	ds, err := gw.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"A", "B"}, ds.Categories())
	assert.Equal(t, "4711", ds.At(0).A)
	assert.Equal(t, "'4711", ds.At(0).Values[1])
	assert.Equal(t, "", ds.At(1).Values[3])
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"plain"`, quoteIdent("plain"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}
