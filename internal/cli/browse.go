package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/prgraph/pkg/errors"
	"github.com/matzehuels/prgraph/pkg/pipeline"
)

// browseCommand starts the interactive lookup.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [source]",
		Short: "Pick a category and PR number interactively",
		Args:  sourceArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return errors.New(errors.ErrCodeUnsupported, "browse needs a terminal")
			}
			location, _, err := c.splitSource(args, 0)
			if err != nil {
				return err
			}
			scope, err := pipeline.ParseScope(c.cfg.Scope)
			if err != nil {
				return err
			}
			s, err := c.open(cmd.Context(), location)
			if err != nil {
				return err
			}
			defer s.close()
			s.runner.Indexed = true

			p := tea.NewProgram(NewBrowseModel(cmd.Context(), s.runner, s.ds, scope),
				tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
