package cli

import tea "github.com/charmbracelet/bubbletea"

// Messages views send to appModel to change what is on screen.
type (
	// pushViewMsg opens view on top of the stack (agents, stats, a form).
	pushViewMsg struct{ view View }

	// cmdOutputMsg shows text over the active view until the next key.
	cmdOutputMsg struct{ output string }

	// refreshViewMsg reloads every view on the stack after the workspace
	// changed underneath them.
	refreshViewMsg struct{}

	// wizardCompleteMsg closes the form on top and then runs nextCmd.
	wizardCompleteMsg struct{ nextCmd tea.Cmd }
)

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func showOutput(s string) tea.Cmd {
	return func() tea.Msg { return cmdOutputMsg{output: s} }
}

func refreshViews() tea.Cmd {
	return func() tea.Msg { return refreshViewMsg{} }
}

// wizardCompleteOutput closes the form and shows s.
func wizardCompleteOutput(s string) wizardCompleteMsg {
	return wizardCompleteMsg{nextCmd: showOutput(s)}
}
