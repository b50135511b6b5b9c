package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/cli/formatter"
	"github.com/alexanderramin/st8/internal/importer"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the planning or the roster from a JSON file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "planning FILE",
			Short: "Replace the whole planning (undo history is cleared)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				doc, err := importer.LoadPlanningFile(args[0])
				if err != nil {
					return err
				}
				if err := app.Planning.ImportPlanning(cmd.Context(), doc); err != nil {
					return err
				}
				outf(cmd, "Imported planning for %s\n", formatter.Plural(len(doc), "year"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "roster FILE",
			Short: "Replace the roster and group settings",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				schema, err := importer.LoadRosterFile(args[0])
				if err != nil {
					return err
				}
				if err := app.Roster.ImportRoster(cmd.Context(), schema); err != nil {
					return err
				}
				agents := 0
				for _, list := range schema.Agents {
					agents += len(list)
				}
				outf(cmd, "Imported %s in %s\n", formatter.Plural(agents, "agent"), formatter.Plural(len(schema.Agents), "group"))
				return nil
			},
		},
	)

	return cmd
}
