package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/cli/formatter"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/roster"
)

func newAgentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agent",
		Aliases: []string{"agents"},
		Short:   "Manage agents",
	}

	cmd.AddCommand(
		newAgentListCmd(app),
		newAgentShowCmd(app),
		newAgentAddCmd(app),
		newAgentEditCmd(app),
		newAgentRemoveCmd(app),
	)

	return cmd
}

func newAgentListCmd(app *App) *cobra.Command {
	var q queryFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List agents by group",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Roster.List(cmd.Context(), q.query(roster.ScopeAgents))
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				outln(cmd, "No agents found.")
				return nil
			}
			outln(cmd, formatter.FormatAgentList(entries))
			return nil
		},
	}
	q.register(cmd)
	return cmd
}

func newAgentShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show MATRICULE",
		Short: "Show one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, group, err := app.Roster.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			outln(cmd, formatter.FormatAgent(a, group))
			return nil
		},
	}
}

// agentFields are the editable agent attributes shared by add and edit.
type agentFields struct {
	id, name, group       string
	grade, birth, notes   string
	permis, caces, skills []string
}

func (f *agentFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Full name")
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Group")
	cmd.Flags().StringVar(&f.grade, "grade", "", "Grade (default "+domain.DefaultGrade+")")
	cmd.Flags().StringVar(&f.birth, "birth", "", "Birth date")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free notes")
	cmd.Flags().StringSliceVar(&f.permis, "permis", nil, "Driving licenses (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&f.caces, "caces", nil, "CACES certifications (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&f.skills, "skills", nil, "Skills (repeatable or comma-separated)")
}

// apply copies the flags the user actually set onto a.
func (f *agentFields) apply(cmd *cobra.Command, a *domain.Agent) {
	changed := cmd.Flags().Changed
	if changed("name") {
		a.Name = f.name
	}
	if changed("grade") {
		a.Grade = f.grade
	}
	if changed("birth") {
		a.Birth = f.birth
	}
	if changed("notes") {
		a.Notes = f.notes
	}
	if changed("permis") {
		a.Licenses = splitCSV(f.permis)
	}
	if changed("caces") {
		a.Certifications = splitCSV(f.caces)
	}
	if changed("skills") {
		a.Skills = splitCSV(f.skills)
	}
}

func newAgentAddCmd(app *App) *cobra.Command {
	var f agentFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, _, err := app.Roster.Get(ctx, f.id); err == nil {
				return fmt.Errorf("agent %q: %w", f.id, domain.ErrAgentExists)
			} else if !errors.Is(err, domain.ErrAgentNotFound) {
				return err
			}

			a := domain.Agent{ID: f.id}
			f.apply(cmd, &a)
			if err := app.Roster.SaveAgent(ctx, f.group, a, ""); err != nil {
				return err
			}
			outf(cmd, "Created agent %s [%s] in %s\n", a.Name, a.ID, f.group)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.id, "id", "", "Matricule")
	f.register(cmd)
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func newAgentEditCmd(app *App) *cobra.Command {
	var f agentFields

	cmd := &cobra.Command{
		Use:   "edit MATRICULE",
		Short: "Update an agent; --id renames the matricule and moves its planning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			previous := args[0]
			a, group, err := app.Roster.Get(ctx, previous)
			if err != nil {
				return err
			}
			f.apply(cmd, &a)
			if cmd.Flags().Changed("id") {
				a.ID = f.id
			}
			if cmd.Flags().Changed("group") {
				group = f.group
			}
			if err := app.Roster.SaveAgent(ctx, group, a, previous); err != nil {
				return err
			}
			outf(cmd, "Updated agent %s [%s]\n", a.Name, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.id, "id", "", "New matricule")
	f.register(cmd)

	return cmd
}

func newAgentRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm MATRICULE",
		Aliases: []string{"remove"},
		Short:   "Delete an agent; planning entries are kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Roster.DeleteAgent(cmd.Context(), args[0]); err != nil {
				return err
			}
			outf(cmd, "Removed agent %s\n", args[0])
			return nil
		},
	}
}
