package cli

import (
	"time"

	"github.com/alexanderramin/st8/internal/roster"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Displayed month, 1-based.
	Year  int
	Month int

	// FortnightStart is the Monday of the displayed fortnight; zero shows
	// the whole month.
	FortnightStart time.Time

	// Roster filters.
	Group  string
	Search string

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(app *App) *SharedState {
	now := app.now()
	return &SharedState{App: app, Year: now.Year(), Month: int(now.Month())}
}

// Query returns the planning-scope roster query for the current filters.
func (s *SharedState) Query(scope roster.Scope) roster.Query {
	group := s.Group
	if group == "" {
		group = roster.AllGroups
	}
	return roster.Query{Group: group, Text: s.Search, Scope: scope}
}

// ShiftMonth moves the displayed month by delta.
func (s *SharedState) ShiftMonth(delta int) {
	t := time.Date(s.Year, time.Month(s.Month)+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	s.Year, s.Month = t.Year(), int(t.Month())
}

// ShiftFortnight moves the displayed fortnight by delta periods and keeps
// Year/Month on its first day.
func (s *SharedState) ShiftFortnight(delta int) {
	s.FortnightStart = s.FortnightStart.AddDate(0, 0, 14*delta)
	s.Year, s.Month = s.FortnightStart.Year(), int(s.FortnightStart.Month())
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - appHeaderLines - 2
	if h < 1 {
		return 1
	}
	return h
}
