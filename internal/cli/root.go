package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/prgraph/pkg/buildinfo"
	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/source"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Configuration is loaded before any subcommand runs, so every command sees
// the merged result of defaults, config file, PRGRAPH_* environment and the
// flags given on the command line.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "prgraph shows how PR numbers are connected",
		Long: `prgraph reads a PR relation export (a workbook, CSV file, SQL table or
MongoDB collection), narrows it to one category and shows which PR numbers
are connected to a chosen one, directly and through one intermediate.

A source is a file path, an http(s) URL of a file, sqlite://path,
postgres://... or mongodb://...`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: prgraph.yaml in . or the user config dir)")
	pf.BoolP("verbose", "v", false, "enable verbose logging")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the result cache")
	pf.String("sheet", source.DefaultSheet, "worksheet (or SQL table) to read")
	pf.String("comma", "", "field delimiter for delimited text")
	pf.String("query", "", "SQL query producing the relation rows")
	pf.String("category-column", dataset.DefaultCategoryColumn, "column holding the category")
	pf.String("id-a-column", dataset.DefaultIDAColumn, "first identifier column")
	pf.String("id-b-column", dataset.DefaultIDBColumn, "second identifier column")

	root.AddCommand(c.categoriesCommand())
	root.AddCommand(c.idsCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
