package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/cli/formatter"
	"github.com/alexanderramin/st8/internal/domain"
)

// st8HuhTheme returns a custom huh theme using the existing Gruvbox palette.
func st8HuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(st8HuhTheme()).WithShowHelp(false)
}

// wizardSelectGroup creates a huh form to pick a group filter. The empty
// value stands for every group.
func wizardSelectGroup(ctx context.Context, app *App, result *string) *huh.Form {
	groups, err := app.Roster.Groups(ctx)
	if err != nil {
		return nil
	}

	options := make([]huh.Option[string], 0, len(groups)+1)
	options = append(options, huh.NewOption("Tous les groupes", ""))
	for _, g := range groups {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d)", g.Name, g.Agents), g.Name))
	}

	return newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which group?").
				Options(options...).
				Value(result),
		),
	)
}

// agentDraft holds the string-typed agent form values.
type agentDraft struct {
	ID       string
	Name     string
	Group    string
	Grade    string
	Birth    string
	Notes    string
	Skills   string
	Licenses []string
	Caces    []string
}

func draftFromAgent(a domain.Agent, group string) *agentDraft {
	return &agentDraft{
		ID:       a.ID,
		Name:     a.Name,
		Group:    group,
		Grade:    a.Grade,
		Birth:    a.Birth,
		Notes:    a.Notes,
		Skills:   strings.Join(a.Skills, ", "),
		Licenses: append([]string(nil), a.Licenses...),
		Caces:    append([]string(nil), a.Certifications...),
	}
}

func (d *agentDraft) agent() domain.Agent {
	return domain.Agent{
		ID:             d.ID,
		Name:           d.Name,
		Grade:          d.Grade,
		Birth:          d.Birth,
		Notes:          d.Notes,
		Licenses:       d.Licenses,
		Certifications: d.Caces,
		Skills:         domain.SplitList(d.Skills),
	}
}

// wizardAgentForm creates the agent create/edit form. Licenses and
// certifications are picked from the catalogs.
func wizardAgentForm(ctx context.Context, app *App, d *agentDraft) *huh.Form {
	groups, err := app.Roster.Groups(ctx)
	if err != nil || len(groups) == 0 {
		return nil
	}
	groupOptions := make([]huh.Option[string], 0, len(groups))
	for _, g := range groups {
		groupOptions = append(groupOptions, huh.NewOption(g.Name, g.Name))
	}
	if d.Group == "" {
		d.Group = groups[0].Name
	}
	if d.Grade == "" {
		d.Grade = domain.DefaultGrade
	}

	return newForm(
		huh.NewGroup(
			huh.NewInput().Title("Matricule").Value(&d.ID).Validate(requiredText("Matricule")),
			huh.NewInput().Title("Nom").Value(&d.Name).Validate(requiredText("Nom")),
			huh.NewSelect[string]().Title("Groupe").Options(groupOptions...).Value(&d.Group),
			huh.NewInput().Title("Grade").Value(&d.Grade),
			huh.NewInput().Title("Date de naissance").Placeholder("YYYY-MM-DD").Value(&d.Birth).Validate(validateOptionalDate),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().Title("Permis").Options(catalogOptions(domain.LicenseCatalog)...).Value(&d.Licenses),
			huh.NewMultiSelect[string]().Title("CACES").Options(catalogOptions(domain.CertificationCatalog)...).Value(&d.Caces).Height(10),
		),
		huh.NewGroup(
			huh.NewInput().Title("Compétences").Description("Séparées par des virgules").Value(&d.Skills),
			huh.NewText().Title("Notes").Value(&d.Notes),
		),
	)
}

func catalogOptions(entries []domain.CatalogEntry) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(entries))
	for _, e := range entries {
		label := e.Label
		if e.Group != "" && e.Group != e.Label {
			label = e.Group + " · " + e.Label
		}
		out = append(out, huh.NewOption(label, e.Value))
	}
	return out
}

func requiredText(title string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", title)
		}
		return nil
	}
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := calendar.ParseISO(s); err != nil {
		return errors.New("use YYYY-MM-DD format")
	}
	return nil
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	)
}
