package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
	pio "github.com/matzehuels/prgraph/pkg/io"
)

// exportCommand writes a dataset, optionally narrowed to one category, as a
// JSON snapshot that every other command accepts as a source.
func (c *CLI) exportCommand() *cobra.Command {
	var category, output string

	cmd := &cobra.Command{
		Use:   "export [source] -o snapshot.json",
		Short: "Write a dataset as a JSON snapshot",
		Args:  sourceArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidatePath(output); err != nil {
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

			ds := c.view(cmd.Context(), s.runner, s.ds, dataset.Normalize(category))
			if err := pio.ExportJSON(ds, output); err != nil {
				return err
			}
			printSuccess("Exported %d rows", ds.Len())
			printFile(output)
			printNextStep("Query it with", appName+" connect "+output+" <pr>")
			return nil
		},
	}

	c.addCategoryFlag(cmd, &category, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file to write (required)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
