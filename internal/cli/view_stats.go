package cli

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/st8/internal/cli/formatter"
	"github.com/alexanderramin/st8/internal/service"
)

type statsLoadedMsg struct {
	stats *service.MonthStats
	err   error
}

type statsView struct {
	state *SharedState
	stats *service.MonthStats
	err   error
}

func newStatsView(state *SharedState) *statsView {
	return &statsView{state: state}
}

func (v *statsView) Init() tea.Cmd {
	return v.load()
}

func (v *statsView) load() tea.Cmd {
	app := v.state.App
	y, m, group := v.state.Year, v.state.Month, v.state.Group
	return func() tea.Msg {
		ms, err := app.Stats.Month(context.Background(), y, m, group)
		return statsLoadedMsg{stats: ms, err: err}
	}
}

func (v *statsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		v.stats, v.err = msg.stats, msg.err
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "[":
			v.state.ShiftMonth(-1)
			return v, v.load()
		case "]":
			v.state.ShiftMonth(1)
			return v, v.load()
		case "g":
			choice := v.state.Group
			form := wizardSelectGroup(context.Background(), v.state.App, &choice)
			return v, startWizardCmd(v.state, "Groupe", form, func() tea.Cmd {
				v.state.Group = choice
				return nil
			})
		}
	}
	return v, nil
}

func (v *statsView) View() string {
	switch {
	case v.err != nil:
		return formatter.StyleRed.Render("Error: " + v.err.Error())
	case v.stats == nil:
		return formatter.Dim("Loading...")
	}
	return formatter.FormatMonthStats(v.stats)
}

func (v *statsView) ID() ViewID    { return ViewStats }
func (v *statsView) Title() string { return "Statistiques" }
func (v *statsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "month")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
	}
}
