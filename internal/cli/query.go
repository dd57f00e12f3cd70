package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/prgraph/pkg/connectivity"
	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
	"github.com/matzehuels/prgraph/pkg/pipeline"
	"github.com/matzehuels/prgraph/pkg/render/nodelink"
	"github.com/matzehuels/prgraph/pkg/render/report"
)

// Graph output formats accepted by connect in addition to the report formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// categoriesCommand lists the selectable categories.
func (c *CLI) categoriesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "categories [source]",
		Short: "List the categories of a dataset",
		Args:  sourceArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format, report.FormatText, report.FormatJSON)
			if err != nil {
				return err
			}
			location, _, err := c.splitSource(args, 0)
			if err != nil {
				return err
			}
			s, err := c.open(cmd.Context(), location)
			if err != nil {
				return err
			}
			defer s.close()

			return report.WriteList(c.Out, s.runner.Categories(cmd.Context(), s.ds), f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "output format: text, json")
	return cmd
}

// idsCommand lists the identifiers of a category.
func (c *CLI) idsCommand() *cobra.Command {
	var category, format string

	cmd := &cobra.Command{
		Use:   "ids [source]",
		Short: "List the PR numbers occurring in a category",
		Args:  sourceArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format, report.FormatText, report.FormatJSON)
			if err != nil {
				return err
			}
			location, _, err := c.splitSource(args, 0)
			if err != nil {
				return err
			}
			s, err := c.open(cmd.Context(), location)
			if err != nil {
				return err
			}
			defer s.close()

			category = dataset.Normalize(category)
			c.view(cmd.Context(), s.runner, s.ds, category)
			return report.WriteList(c.Out, s.runner.Identifiers(cmd.Context(), s.ds, category), f)
		},
	}

	c.addCategoryFlag(cmd, &category, false)
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "output format: text, json")
	return cmd
}

// connectOpts holds the command-line flags for the connect command.
type connectOpts struct {
	category string // category to filter by
	format   string // text, json, dot or svg
	output   string // output file, stdout when empty
	refresh  bool   // bypass cached results
}

// connectCommand resolves the two-hop neighbourhood of an identifier.
func (c *CLI) connectCommand() *cobra.Command {
	var opts connectOpts

	cmd := &cobra.Command{
		Use:   "connect [source] <pr>",
		Short: "Show the PR numbers connected to a PR number",
		Long: `Show the PR numbers connected to a PR number.

Level 1 lists every PR number paired with the query in some row; below each,
level 2 lists the PR numbers paired with that one. With --scope category
(the default) both levels only consider rows of --category; with --scope all
the whole dataset is searched.`,
		Args: sourceArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, rest, err := c.splitSource(args, 1)
			if err != nil {
				return err
			}
			if err := errors.ValidateIdentifier(rest[0]); err != nil {
				return err
			}
			return c.runConnect(cmd.Context(), location, rest[0], opts)
		},
	}

	c.addCategoryFlag(cmd, &opts.category, false)
	cmd.Flags().String("scope", string(pipeline.DefaultScope), "resolution scope: category, all")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(report.FormatText), "output format: text, json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute instead of using cached results")
	_ = cmd.RegisterFlagCompletionFunc("scope", cobra.FixedCompletions(
		[]string{string(pipeline.ScopeCategory), string(pipeline.ScopeAll)}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(report.FormatText), string(report.FormatJSON), formatDOT, formatSVG}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runConnect(ctx context.Context, location, id string, opts connectOpts) error {
	if opts.format != formatDOT && opts.format != formatSVG {
		if _, err := report.ParseFormat(opts.format, report.FormatText, report.FormatJSON); err != nil {
			return err
		}
	}
	scope, err := pipeline.ParseScope(c.cfg.Scope)
	if err != nil {
		return err
	}

	s, err := c.open(ctx, location)
	if err != nil {
		return err
	}
	defer s.close()

	category := dataset.Normalize(opts.category)
	if scope == pipeline.ScopeCategory {
		c.view(ctx, s.runner, s.ds, category)
	}

	res, err := s.runner.Resolve(ctx, s.ds, pipeline.Options{
		Category: category,
		Scope:    scope,
		ID:       id,
		Refresh:  opts.refresh,
	})
	if err != nil {
		return err
	}
	c.Logger.Debug("resolved", "query", res.Query, "level1", len(res.Level1), "scope", scope)

	var buf bytes.Buffer
	if err := writeResult(ctx, &buf, res, category, opts.format); err != nil {
		return err
	}
	return c.emit(buf.Bytes(), opts.output)
}

// writeResult renders res in format.
func writeResult(ctx context.Context, w io.Writer, res connectivity.Result, title, format string) error {
	switch format {
	case formatDOT, formatSVG:
		dot := nodelink.ToDOT(res, nodelink.Options{Title: title})
		if format == formatDOT {
			_, err := io.WriteString(w, dot)
			return err
		}
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		_, err = w.Write(svg)
		return err
	default:
		return report.WriteConnections(w, res, report.Format(format))
	}
}

// emit writes data to path, or to c.Out when path is empty.
func (c *CLI) emit(data []byte, path string) error {
	if path == "" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// rowsCommand shows the raw rows an identifier appears in.
func (c *CLI) rowsCommand() *cobra.Command {
	var category, format string

	cmd := &cobra.Command{
		Use:   "rows [source] <pr>",
		Short: "Show the rows a PR number appears in",
		Args:  sourceArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format,
				report.FormatTable, report.FormatMarkdown, report.FormatCSV, report.FormatJSON)
			if err != nil {
				return err
			}
			location, rest, err := c.splitSource(args, 1)
			if err != nil {
				return err
			}
			if err := errors.ValidateIdentifier(rest[0]); err != nil {
				return err
			}

			s, err := c.open(cmd.Context(), location)
			if err != nil {
				return err
			}
			defer s.close()

			category = dataset.Normalize(category)
			c.view(cmd.Context(), s.runner, s.ds, category)
			byA, byB := s.runner.Rows(cmd.Context(), s.ds, category, rest[0])
			return report.WriteRows(c.Out, report.RowsView{
				ID:      dataset.Normalize(rest[0]),
				Columns: s.ds.Columns(),
				ByA:     byA,
				ByB:     byB,
				Schema:  s.ds.Schema(),
			}, f)
		},
	}

	c.addCategoryFlag(cmd, &category, false)
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatTable), "output format: table, markdown, csv, json")
	return cmd
}
