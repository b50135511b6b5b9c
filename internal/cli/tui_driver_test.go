package cli

import (
	"testing"

	"github.com/alexanderramin/st8/internal/teatest"
)

// TestDriver wraps teatest.Driver with st8-specific inspection methods.
// It provides access to appModel internals (view stack, shared state,
// planning selection) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver from a test App.
// It constructs the appModel, sets terminal size, and drains Init()
// (which loads the planning grid synchronously via in-memory SQLite).
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── Grid geometry ────────────────────────────────────────────────────────────

// cellPoint returns the screen coordinates of an agent row and day column
// in the planning grid, assuming the view is not scrolled. Rows are counted
// in display order across groups.
func (d *TestDriver) cellPoint(row, col int) (x, y int) {
	v := d.planningView()
	line := v.lineOfRow(row)
	if line < 0 {
		d.T.Fatalf("row %d is not rendered", row)
	}
	return 24 + col*3, appHeaderLines + v.screenY(line)
}

// ── st8-specific inspection ──────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the last command output displayed in the content area.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

// planningView returns the root planning view.
func (d *TestDriver) planningView() *planningView {
	m := d.appModel()
	if len(m.viewStack) == 0 {
		d.T.Fatal("empty view stack")
	}
	v, ok := m.viewStack[0].(*planningView)
	if !ok {
		d.T.Fatalf("root view is %T", m.viewStack[0])
	}
	return v
}
