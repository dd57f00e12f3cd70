package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
	"github.com/matzehuels/prgraph/pkg/pipeline"
	"github.com/matzehuels/prgraph/pkg/source"
)

// splitSource separates an optional leading source argument from the
// positional arguments a command expects. Without one, the configured
// source.path is used.
func (c *CLI) splitSource(args []string, positional int) (string, []string, error) {
	if len(args) > positional {
		return args[0], args[1:], nil
	}
	if c.cfg == nil || c.cfg.Source.Path == "" {
		return "", nil, errors.New(errors.ErrCodeInvalidInput,
			"no source given: pass a file or database location, or set source.path")
	}
	return c.cfg.Source.Path, args, nil
}

// sourceArgs accepts an optional source followed by exactly n arguments.
func sourceArgs(n int) cobra.PositionalArgs {
	return cobra.RangeArgs(n, n+1)
}

// loadDataset opens location and reads it through runner.
func (c *CLI) loadDataset(ctx context.Context, runner *pipeline.Runner, location string) (*dataset.Dataset, error) {
	gw, err := source.Open(location, c.cfg.SourceOptions())
	if err != nil {
		return nil, err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", gw))
	spinner.Start()

	ds, err := runner.Load(ctx, gw)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Failed to load %s", gw))
		return nil, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Loaded %d rows", ds.Len()))
	return ds, nil
}

// view narrows ds to category and reports the filter summary. An empty
// category leaves ds unchanged.
func (c *CLI) view(ctx context.Context, runner *pipeline.Runner, ds *dataset.Dataset, category string) *dataset.Dataset {
	if category == "" {
		return ds
	}
	if !slices.Contains(runner.Categories(ctx, ds), category) {
		printWarning("Category %q does not occur in the dataset", category)
	}
	v := runner.View(ctx, ds, category)
	printFilterSummary(category, v.Len())
	return v
}

// loaded bundles what a query command needs: a runner and a loaded dataset.
type loaded struct {
	runner *pipeline.Runner
	ds     *dataset.Dataset
}

// open builds a runner and loads the dataset at location.
// The caller must call close.
func (c *CLI) open(ctx context.Context, location string) (*loaded, error) {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := c.loadDataset(ctx, runner, location)
	if err != nil {
		runner.Close()
		return nil, err
	}
	return &loaded{runner: runner, ds: ds}, nil
}

func (s *loaded) close() {
	_ = s.runner.Close()
}

// completeCategories completes --category from the dataset named on the
// command line or in the configuration.
func (c *CLI) completeCategories(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	location := c.cfg.Source.Path
	if len(args) > 0 {
		location = args[0]
	}
	if location == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	gw, err := source.Open(location, c.cfg.SourceOptions())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ds, err := gw.Load(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return ds.Categories(), cobra.ShellCompDirectiveNoFileComp
}

// addCategoryFlag registers --category with completion.
func (c *CLI) addCategoryFlag(cmd *cobra.Command, target *string, required bool) {
	usage := "restrict to rows of this category"
	if required {
		usage += " (required)"
	}
	cmd.Flags().StringVarP(target, "category", "c", "", usage)
	if required {
		_ = cmd.MarkFlagRequired("category")
	}
	_ = cmd.RegisterFlagCompletionFunc("category", c.completeCategories)
}
