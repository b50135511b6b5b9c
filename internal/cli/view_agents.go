package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/st8/internal/cli/formatter"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/roster"
)

type agentsLoadedMsg struct {
	entries []roster.Entry
	err     error
}

// agentsView lists the roster with the agents-scope search and opens the
// agent form.
type agentsView struct {
	state   *SharedState
	table   table.Model
	entries []roster.Entry
	err     error
}

func newAgentsView(state *SharedState) *agentsView {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Groupe", Width: 20},
			{Title: "Matricule", Width: 10},
			{Title: "Nom", Width: 24},
			{Title: "Grade", Width: 6},
			{Title: "Capacités", Width: 40},
		}),
		table.WithFocused(true),
	)

	// d and u belong to the view; keep paging on ctrl.
	t.KeyMap.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
	t.KeyMap.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	t.KeyMap.GotoTop = key.NewBinding(key.WithKeys("home"))
	t.KeyMap.GotoBottom = key.NewBinding(key.WithKeys("end"))

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(formatter.ColorHeader).Bold(true).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(formatter.ColorDim)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#282828")).Background(formatter.ColorYellow)
	t.SetStyles(styles)

	v := &agentsView{state: state, table: t}
	v.resize()
	return v
}

func (v *agentsView) Init() tea.Cmd {
	return v.load()
}

func (v *agentsView) load() tea.Cmd {
	app := v.state.App
	q := v.state.Query(roster.ScopeAgents)
	return func() tea.Msg {
		entries, err := app.Roster.List(context.Background(), q)
		return agentsLoadedMsg{entries: entries, err: err}
	}
}

func (v *agentsView) resize() {
	v.table.SetHeight(max(3, v.state.ContentHeight()-1))
}

func (v *agentsView) selected() (roster.Entry, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.entries) {
		return roster.Entry{}, false
	}
	return v.entries[i], true
}

func (v *agentsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case agentsLoadedMsg:
		v.entries, v.err = msg.entries, msg.err
		rows := make([]table.Row, len(v.entries))
		for i, e := range v.entries {
			rows[i] = table.Row{
				e.Group,
				e.Agent.ID,
				e.Agent.DisplayName(),
				e.Agent.Grade,
				formatter.BadgeList(domain.CapabilityBadges(e.Agent)),
			}
		}
		v.table.SetRows(rows)
		if v.table.Cursor() >= len(rows) {
			v.table.SetCursor(max(0, len(rows)-1))
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.WindowSizeMsg:
		v.resize()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if e, ok := v.selected(); ok {
				return v, showOutput(formatter.FormatAgent(e.Agent, e.Group))
			}
			return v, nil
		case "n":
			return v, v.openForm(&agentDraft{Group: v.state.Group}, "")
		case "e":
			if e, ok := v.selected(); ok {
				return v, v.openForm(draftFromAgent(e.Agent, e.Group), e.Agent.ID)
			}
			return v, nil
		case "d":
			if e, ok := v.selected(); ok {
				return v, v.confirmDelete(e.Agent)
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// openForm edits d; previousID is the matricule being edited, empty when
// creating.
func (v *agentsView) openForm(d *agentDraft, previousID string) tea.Cmd {
	app := v.state.App
	title := "Nouvel agent"
	if previousID != "" {
		title = "Modifier " + previousID
	}
	form := wizardAgentForm(context.Background(), app, d)
	if form == nil {
		return showOutput(formatter.Dim("Create a group first (st8 group add)."))
	}
	return startWizardCmd(v.state, title, form, func() tea.Cmd {
		ctx := context.Background()
		if previousID == "" {
			if _, _, err := app.Roster.Get(ctx, d.ID); err == nil {
				return showOutput(formatter.StyleRed.Render(fmt.Sprintf("Error: agent %q: %v", d.ID, domain.ErrAgentExists)))
			}
		}
		a := d.agent()
		if err := app.Roster.SaveAgent(ctx, d.Group, a, previousID); err != nil {
			return showOutput(formatter.StyleRed.Render("Error: " + err.Error()))
		}
		return showOutput(formatter.StyleGreen.Render(fmt.Sprintf("Saved %s [%s] in %s", a.Name, a.ID, d.Group)))
	})
}

func (v *agentsView) confirmDelete(a domain.Agent) tea.Cmd {
	app := v.state.App
	var ok bool
	form := wizardConfirm(fmt.Sprintf("Supprimer %s [%s] ?", a.DisplayName(), a.ID), &ok)
	return startWizardCmd(v.state, "Supprimer", form, func() tea.Cmd {
		if !ok {
			return showOutput(formatter.Dim("Cancelled."))
		}
		if err := app.Roster.DeleteAgent(context.Background(), a.ID); err != nil {
			return showOutput(formatter.StyleRed.Render("Error: " + err.Error()))
		}
		return showOutput(formatter.StyleGreen.Render("Removed " + a.ID))
	})
}

func (v *agentsView) View() string {
	if v.err != nil {
		return formatter.StyleRed.Render("Error: " + v.err.Error())
	}
	if len(v.entries) == 0 {
		return formatter.Dim("No agents found.")
	}
	return v.table.View() + "\n" + formatter.Dim(formatter.Plural(len(v.entries), "agent"))
}

func (v *agentsView) ID() ViewID    { return ViewAgents }
func (v *agentsView) Title() string { return "Agents" }
func (v *agentsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
}
