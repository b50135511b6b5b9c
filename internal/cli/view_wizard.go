package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/st8/internal/cli/formatter"
)

// formMaxWidth keeps agent and group forms readable on wide terminals.
const formMaxWidth = 72

// formView shows a huh.Form on the view stack. A completed form runs done
// and pops itself; esc or an aborted form pops with "Cancelled.".
type formView struct {
	state *SharedState
	form  *huh.Form
	title string
	done  func() tea.Cmd
}

func newFormView(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) *formView {
	v := &formView{state: state, form: form, title: title, done: done}
	v.resize()
	return v
}

func (v *formView) resize() {
	if v.state.Width > 0 {
		v.form = v.form.WithWidth(min(v.state.Width, formMaxWidth))
	}
	if v.state.Height > 0 {
		v.form = v.form.WithHeight(max(1, v.state.ContentHeight()-1))
	}
}

func (v *formView) Init() tea.Cmd {
	return v.form.Init()
}

func cancelForm() tea.Msg {
	return wizardCompleteOutput(formatter.Dim("Cancelled."))
}

func (v *formView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, cancelForm
		}
	case tea.WindowSizeMsg:
		v.resize()
	}

	model, cmd := v.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateAborted:
		return v, cancelForm
	case huh.StateCompleted:
		var next tea.Cmd
		if v.done != nil {
			next = v.done()
		}
		return v, func() tea.Msg {
			return wizardCompleteMsg{nextCmd: tea.Batch(cmd, next)}
		}
	}
	return v, cmd
}

func (v *formView) View() string {
	return formatter.StyleHeader.Render(v.title) + "\n" + v.form.View()
}

func (v *formView) ID() ViewID    { return ViewForm }
func (v *formView) Title() string { return v.title }
func (v *formView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab", "enter"), key.WithHelp("tab/enter", "next field")),
		key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "back")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// startWizardCmd pushes a form view. A nil form (nothing to choose from)
// runs done immediately.
func startWizardCmd(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) tea.Cmd {
	if form == nil {
		if done != nil {
			return done()
		}
		return nil
	}
	return pushView(newFormView(state, title, form, done))
}
