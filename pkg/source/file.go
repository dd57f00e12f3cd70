package source

import (
	"context"
	"os"

	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
)

// File reads a dataset from a local file. The format follows the extension.
type File struct {
	Path   string
	Format Format
	Opts   Options
}

// NewFile validates path and resolves its format.
func NewFile(path string, opts Options) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX && opts.Sheet != "" {
		if err := errors.ValidateSheetName(opts.Sheet); err != nil {
			return nil, err
		}
	}
	return &File{Path: path, Format: format, Opts: opts}, nil
}

// Load implements Gateway.
func (g *File) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(g.Path)
	if err != nil {
		return nil, errors.Source(err, "open %s", g.Path)
	}
	defer f.Close()

	ds, err := Decode(f, g.Format, g.Opts)
	return ds, wrap(err, "read %s", g.Path)
}

func (g *File) String() string { return g.Path }
