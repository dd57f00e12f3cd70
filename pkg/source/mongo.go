package source

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
)

// Mongo reads a dataset from every document of a collection.
//
// The header is the union of top-level field names in order of first
// appearance, excluding _id. Missing fields read as empty cells.
type Mongo struct {
	URI        string
	Database   string
	Collection string
	Opts       Options
}

// NewMongo prepares a MongoDB gateway. The collection defaults to
// opts.Sheet, then DefaultSheet.
func NewMongo(uri string, opts Options) (*Mongo, error) {
	if opts.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongodb source needs a database name")
	}
	coll := opts.Collection
	if coll == "" {
		coll = opts.Sheet
	}
	if coll == "" {
		coll = DefaultSheet
	}
	return &Mongo{URI: uri, Database: opts.Database, Collection: coll, Opts: opts}, nil
}

// Load implements Gateway.
func (g *Mongo) Load(ctx context.Context) (*dataset.Dataset, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(g.URI))
	if err != nil {
		return nil, errors.Source(err, "connect to mongodb")
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	cur, err := client.Database(g.Database).Collection(g.Collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Source(err, "find in %s.%s", g.Database, g.Collection)
	}
	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Source(err, "read %s.%s", g.Database, g.Collection)
	}
	return documentsTable(docs).Dataset(g.Opts.schema())
}

func (g *Mongo) String() string { return "mongodb " + g.Database + "." + g.Collection }

func documentsTable(docs []bson.D) Table {
	var header []string
	pos := make(map[string]int)
	for _, d := range docs {
		for _, e := range d {
			if e.Key == "_id" {
				continue
			}
			if _, ok := pos[e.Key]; !ok {
				pos[e.Key] = len(header)
				header = append(header, e.Key)
			}
		}
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		row := make([]string, len(header))
		for _, e := range d {
			if i, ok := pos[e.Key]; ok {
				row[i] = bsonText(e.Value)
			}
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}

func bsonText(v any) string {
	switch t := v.(type) {
	case primitive.DateTime:
		return dataset.Text(t.Time().UTC())
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Null, primitive.Undefined:
		return ""
	default:
		return dataset.Text(v)
	}
}
