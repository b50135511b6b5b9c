package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/st8/internal/planning"
)

func TestTUI_PlanningLoadsOnStartup(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	assert.Equal(t, ViewPlanning, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())

	view := d.View()
	assert.NotContains(t, view, "Loading...")
	assert.Contains(t, view, "Janvier 2025")
	assert.Contains(t, view, "GOUREAU Jonathan")
	assert.Contains(t, view, "FOURCADE Hervé")
}

func TestTUI_QuitWithQ(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('q')

	assert.True(t, d.IsQuitting())
}

func TestTUI_QuitWithCtrlC(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressCtrlC()

	assert.True(t, d.IsQuitting())
}

func TestTUI_AgentsViewPushAndPop(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('a')
	assert.Equal(t, []ViewID{ViewPlanning, ViewAgents}, d.ViewStackIDs())
	assert.Contains(t, d.View(), "C002908")

	d.PressEsc()
	assert.Equal(t, []ViewID{ViewPlanning}, d.ViewStackIDs())
}

func TestTUI_AgentsViewShowsDetails(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('a')
	d.PressEnter()

	assert.Contains(t, d.LastOutput(), "C002908")
	assert.Equal(t, ViewAgents, d.ActiveViewID())
}

func TestTUI_StatsViewPush(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('s')
	assert.Equal(t, ViewStats, d.ActiveViewID())
	assert.NotContains(t, d.View(), "Loading...")

	d.PressEsc()
	assert.Equal(t, ViewPlanning, d.ActiveViewID())
}

func TestTUI_DragSelectsRectangleAndPicksCode(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	// Monday 6 to Friday 10 January for the first two agents.
	x1, y1 := d.cellPoint(0, 5)
	x2, y2 := d.cellPoint(1, 9)
	d.MousePress(x1, y1)
	assert.Equal(t, planning.Dragging, d.planningView().sel.Mode)

	d.MouseMotion(x2, y2)
	d.MouseRelease(x2, y2)

	v := d.planningView()
	require.Equal(t, planning.Editing, v.sel.Mode)
	assert.Len(t, v.sel.Selection, 10)
	assert.Contains(t, d.View(), "Effacer")

	d.PressKey('1')

	assert.Equal(t, planning.Idle, d.planningView().sel.Mode)
	assert.Equal(t, "P", cellCode(t, app, "C002908", "2025-01-06"))
	assert.Equal(t, "P", cellCode(t, app, "T028198", "2025-01-10"))
	assert.Contains(t, d.View(), "P: 10 cells changed")
}

func TestTUI_ClickOutsideGridCancelsPicker(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	x, y := d.cellPoint(0, 5)
	d.Click(x, y)
	require.Equal(t, planning.Editing, d.planningView().sel.Mode)

	// The title line holds no cell and sits outside the picker.
	d.MousePress(0, appHeaderLines)

	assert.Equal(t, planning.Idle, d.planningView().sel.Mode)
	assert.Empty(t, cellCode(t, app, "C002908", "2025-01-06"))
}

func TestTUI_KeyboardClearThenUndo(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "plan", "set", "C", "--agent", "C002908", "--from", "2025-01-01")
	require.NoError(t, err)

	d := NewTestDriver(t, app)

	// The cursor starts on the first agent and the first day.
	d.PressEnter()
	require.Equal(t, planning.Editing, d.planningView().sel.Mode)
	d.PressKey('x')

	assert.Empty(t, cellCode(t, app, "C002908", "2025-01-01"))
	assert.Contains(t, d.View(), "Effacé: 1 cells changed")

	d.PressKey('u')

	assert.Equal(t, "C", cellCode(t, app, "C002908", "2025-01-01"))
	assert.Contains(t, d.View(), "Annulé")
}

func TestTUI_UndoWithNothingToUndo(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('u')

	assert.Contains(t, d.View(), "Rien à annuler")
}

func TestTUI_KeyboardRangeSelection(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	// Move to Monday 6 January, then extend over the next day.
	for range 5 {
		d.PressRight()
	}
	d.PressKey('v')
	d.PressRight()
	d.PressKey('v')

	v := d.planningView()
	require.Equal(t, planning.Editing, v.sel.Mode)
	assert.Len(t, v.sel.Selection, 2)

	d.PressEnter()

	assert.Equal(t, "P", cellCode(t, app, "C002908", "2025-01-07"))
}

func TestTUI_MonthNavigation(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey(']')
	assert.Equal(t, 2, d.State().Month)
	assert.Contains(t, d.View(), "Février 2025")

	d.PressKey('[')
	d.PressKey('[')
	assert.Equal(t, 2024, d.State().Year)
	assert.Equal(t, 12, d.State().Month)

	d.PressKey('t')
	assert.Equal(t, 2025, d.State().Year)
	assert.Equal(t, 1, d.State().Month)
}

func TestTUI_FortnightToggle(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('f')
	require.False(t, d.State().FortnightStart.IsZero())
	assert.Len(t, d.planningView().grid.Columns, 14)
	assert.Contains(t, d.View(), "Quinzaine du 30/12/2024")

	d.PressKey('f')
	assert.True(t, d.State().FortnightStart.IsZero())
	assert.Len(t, d.planningView().grid.Columns, 31)
}

func TestTUI_SearchFiltersRows(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('/')
	// Keys go to the search input while it is focused.
	d.Type("goureau")
	assert.False(t, d.IsQuitting())
	d.PressEnter()

	assert.Equal(t, "goureau", d.State().Search)
	view := d.View()
	assert.Contains(t, view, "GOUREAU Jonathan")
	assert.NotContains(t, view, "FONTENEAU Fabrice")
}

func TestTUI_BulkPresent(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('p')

	assert.Equal(t, "P", cellCode(t, app, "T028198", "2025-01-02"))
	assert.Equal(t, "JF", cellCode(t, app, "T028198", "2025-01-01"))
	assert.Contains(t, d.View(), "Tous présents")
}

func TestTUI_GroupWizardCancel(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('g')
	assert.Equal(t, ViewForm, d.ActiveViewID())

	d.PressEsc()

	assert.Equal(t, ViewPlanning, d.ActiveViewID())
	assert.Contains(t, d.LastOutput(), "Cancelled.")
	assert.Empty(t, d.State().Group)
}

func TestTUI_LegendOutputDismissedByKey(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('l')
	require.NotEmpty(t, d.LastOutput())

	d.PressEsc()
	assert.Empty(t, d.LastOutput())
	assert.Equal(t, ViewPlanning, d.ActiveViewID())
}
