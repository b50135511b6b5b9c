package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/importer"
	"github.com/alexanderramin/st8/internal/planning"
	"github.com/alexanderramin/st8/internal/roster"
)

func TestPlanningApply_PersistsCells(t *testing.T) {
	store := setupStore(t, sampleWorkspace())
	obs := &recordingObserver{}
	svc := NewPlanningService(NewWorkspaceService(store), obs)
	ctx := context.Background()

	res, err := svc.Apply(ctx, []planning.CellRef{
		{AgentID: "C003285", Date: "2025-01-06"},
		{AgentID: "C003285", Date: "2025-01-04"}, // Saturday
	}, "C")

	require.NoError(t, err)
	assert.Equal(t, planning.Result{Changed: 1, Skipped: 1}, res)
	assert.True(t, svc.CanUndo())

	persisted := reloaded(t, store)
	code, ok := persisted.Planning.Get(2025, "C003285", "2025-01-06")
	assert.True(t, ok)
	assert.Equal(t, "C", code)

	ev := obs.last()
	assert.Equal(t, "apply-status", ev.Name)
	assert.Equal(t, 1, ev.Fields["changed"])
	assert.Equal(t, 1, ev.Fields["skipped"])
}

func TestPlanningUndo_PersistsRestore(t *testing.T) {
	store := setupStore(t, sampleWorkspace())
	svc := NewPlanningService(NewWorkspaceService(store))
	ctx := context.Background()

	_, err := svc.Apply(ctx, []planning.CellRef{
		{AgentID: "C002908", Date: "2025-01-03"},
		{AgentID: "C002908", Date: "2025-01-06"},
	}, "AM")
	require.NoError(t, err)

	undone, err := svc.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)

	persisted := reloaded(t, store)
	code, _ := persisted.Planning.Get(2025, "C002908", "2025-01-03")
	assert.Equal(t, "C", code)
	_, ok := persisted.Planning.Get(2025, "C002908", "2025-01-06")
	assert.False(t, ok)

	undone, err = svc.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, undone)
}

func TestPlanningApply_InvalidDate(t *testing.T) {
	svc := NewPlanningService(NewWorkspaceService(setupStore(t, sampleWorkspace())))
	_, err := svc.Apply(context.Background(), []planning.CellRef{{AgentID: "C002908", Date: "2025-13-01"}}, "P")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.False(t, svc.CanUndo())
}

func TestPlanningSetAllPresent_VisibleGroupOnly(t *testing.T) {
	store := setupStore(t, sampleWorkspace())
	svc := NewPlanningService(NewWorkspaceService(store))
	ctx := context.Background()

	res, err := svc.SetAllPresent(ctx, 2025, 1, roster.Query{Group: "ENCADRANTS"})
	require.NoError(t, err)
	// 22 working days plus New Year's Day.
	assert.Equal(t, 23, res.Changed)

	persisted := reloaded(t, store)
	assert.Len(t, persisted.Planning[2025]["C003285"], 23)
	code, _ := persisted.Planning.Get(2025, "C003285", "2025-01-01")
	assert.Equal(t, "JF", code)
	_, ok := persisted.Planning.Get(2025, "T028198", "2025-01-06")
	assert.False(t, ok, "other groups are untouched")

	_, err = svc.SetAllPresent(ctx, 2025, 13, roster.Query{})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestPlanningApplyHolidays_Undoable(t *testing.T) {
	svc := NewPlanningService(NewWorkspaceService(setupStore(t, sampleWorkspace())))
	ctx := context.Background()

	res, err := svc.ApplyHolidays(ctx, 2025, 5, roster.Query{Group: roster.AllGroups})
	require.NoError(t, err)
	// May 2025: 1st, 8th, 29th (Ascension); Whit Monday falls in June.
	assert.Equal(t, 3*3, res.Changed)

	undone, err := svc.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)
	assert.False(t, svc.CanUndo())
}

func TestPlanningMonth_BuildsGrid(t *testing.T) {
	svc := NewPlanningService(NewWorkspaceService(setupStore(t, sampleWorkspace())))
	ctx := context.Background()

	g, err := svc.Month(ctx, 2025, 1, roster.Query{Text: "gou"})
	require.NoError(t, err)
	assert.Equal(t, "Janvier 2025", g.Title)
	assert.Equal(t, []string{"T028198"}, g.AgentIDs())

	_, err = svc.Month(ctx, 2025, 0, roster.Query{})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	f, err := svc.Fortnight(ctx, calendar.Date(2024, 12, 30), roster.Query{})
	require.NoError(t, err)
	assert.Len(t, f.Columns, 14)
	assert.Equal(t, 3, f.RowCount())
}

func TestPlanningImport_ReplacesAndClearsUndo(t *testing.T) {
	store := setupStore(t, sampleWorkspace())
	workspace := NewWorkspaceService(store)
	svc := NewPlanningService(workspace)
	ctx := context.Background()

	_, err := svc.Apply(ctx, []planning.CellRef{{AgentID: "C002908", Date: "2025-02-03"}}, "F")
	require.NoError(t, err)

	var exported bytes.Buffer
	require.NoError(t, svc.ExportPlanning(ctx, &exported))
	doc, err := importer.ParsePlanning(exported.Bytes())
	require.NoError(t, err)

	require.NoError(t, svc.ImportPlanning(ctx, doc))
	assert.False(t, svc.CanUndo())

	ws, err := workspace.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, ws.Planning)
	assert.Equal(t, doc, reloaded(t, store).Planning)

	// Later edits land in the imported document.
	_, err = svc.Apply(ctx, []planning.CellRef{{AgentID: "C003285", Date: "2025-02-04"}}, "P")
	require.NoError(t, err)
	code, _ := ws.Planning.Get(2025, "C003285", "2025-02-04")
	assert.Equal(t, "P", code)
}

func TestPlanningApply_WriteFailureKeepsMemoryState(t *testing.T) {
	store := &memStore{ws: sampleWorkspace()}
	workspace := NewWorkspaceService(store)
	svc := NewPlanningService(workspace)
	ctx := context.Background()
	_, err := workspace.Current(ctx)
	require.NoError(t, err)

	store.saveErr = errors.New("quota exceeded")
	res, err := svc.Apply(ctx, []planning.CellRef{{AgentID: "C003285", Date: "2025-01-07"}}, "RG")

	require.Error(t, err)
	assert.Equal(t, 1, res.Changed)
	ws, _ := workspace.Current(ctx)
	code, ok := ws.Planning.Get(2025, "C003285", "2025-01-07")
	assert.True(t, ok)
	assert.Equal(t, "RG", code)
	assert.True(t, svc.CanUndo())
}

func TestPlanningEditor_ResetOnReload(t *testing.T) {
	workspace := NewWorkspaceService(setupStore(t, sampleWorkspace()))
	svc := NewPlanningService(workspace)
	ctx := context.Background()

	_, err := svc.Apply(ctx, []planning.CellRef{{AgentID: "C003285", Date: "2025-01-07"}}, "P")
	require.NoError(t, err)
	require.True(t, svc.CanUndo())

	_, err = workspace.Reload(ctx)
	require.NoError(t, err)
	_, err = svc.Month(ctx, 2025, 1, roster.Query{})
	require.NoError(t, err)

	assert.False(t, svc.CanUndo())
}

func TestPlanningExportMonthXLSX(t *testing.T) {
	svc := NewPlanningService(NewWorkspaceService(setupStore(t, sampleWorkspace())))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportMonthXLSX(context.Background(), &buf, 2025, 1, roster.Query{}))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Janvier 2025")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
