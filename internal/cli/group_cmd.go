package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/cli/formatter"
)

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"groups"},
		Short:   "Manage groups, their colors and display order",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List groups in display order",
			RunE: func(cmd *cobra.Command, args []string) error {
				groups, err := app.Roster.Groups(cmd.Context())
				if err != nil {
					return err
				}
				if len(groups) == 0 {
					outln(cmd, "No groups.")
					return nil
				}
				outln(cmd, formatter.FormatGroupList(groups))
				return nil
			},
		},
		&cobra.Command{
			Use:   "add NAME",
			Short: "Create an empty group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Roster.AddGroup(cmd.Context(), args[0]); err != nil {
					return err
				}
				outf(cmd, "Created group %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename FROM TO",
			Short: "Rename a group, keeping its agents and color",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Roster.RenameGroup(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				outf(cmd, "Renamed group %s to %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm NAME",
			Aliases: []string{"remove"},
			Short:   "Delete an empty group",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Roster.DeleteGroup(cmd.Context(), args[0]); err != nil {
					return err
				}
				outf(cmd, "Removed group %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "color NAME #RRGGBB",
			Short: "Set a group's display color",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Roster.SetGroupColor(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				outf(cmd, "Group %s is now %s\n", args[0], formatter.Swatch(args[1]))
				return nil
			},
		},
		&cobra.Command{
			Use:       "move NAME up|down",
			Short:     "Move a group one step in the display order",
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{"up", "down"},
			RunE: func(cmd *cobra.Command, args []string) error {
				var delta int
				switch args[1] {
				case "up":
					delta = -1
				case "down":
					delta = 1
				default:
					return fmt.Errorf("direction must be up or down, got %q", args[1])
				}
				if err := app.Roster.MoveGroup(cmd.Context(), args[0], delta); err != nil {
					return err
				}
				outf(cmd, "Moved group %s %s\n", args[0], args[1])
				return nil
			},
		},
	)

	return cmd
}
