package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/importer"
	"github.com/alexanderramin/st8/internal/roster"
)

func setupRoster(t *testing.T) (RosterService, WorkspaceService, *recordingObserver) {
	t.Helper()
	obs := &recordingObserver{}
	workspace := NewWorkspaceService(setupStore(t, sampleWorkspace()))
	return NewRosterService(workspace, obs), workspace, obs
}

func TestRosterList_FiltersAndOrders(t *testing.T) {
	svc, _, _ := setupRoster(t)
	ctx := context.Background()

	all, err := svc.List(ctx, roster.Query{Group: roster.AllGroups})
	require.NoError(t, err)
	assert.Equal(t, []string{"C002908", "T028198", "C003285"}, roster.IDs(all))

	found, err := svc.List(ctx, roster.Query{Text: "permis ce", Scope: roster.ScopeAgents})
	require.NoError(t, err)
	assert.Equal(t, []string{"T028198"}, roster.IDs(found))

	none, err := svc.List(ctx, roster.Query{Text: "permis ce", Scope: roster.ScopePlanning})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRosterSaveAgent_CreateDefaultsGrade(t *testing.T) {
	svc, workspace, obs := setupRoster(t)
	ctx := context.Background()

	err := svc.SaveAgent(ctx, "ENCADRANTS", domain.Agent{ID: " C009999 ", Name: "MARTIN Paul"}, "")
	require.NoError(t, err)

	a, group, err := svc.Get(ctx, "C009999")
	require.NoError(t, err)
	assert.Equal(t, "ENCADRANTS", group)
	assert.Equal(t, domain.DefaultGrade, a.Grade)
	assert.Equal(t, "save-agent", obs.last().Name)
	assert.True(t, obs.last().Success)

	ws, err := workspace.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, ws.Agents.Len())
}

func TestRosterSaveAgent_RenameMovesPlanning(t *testing.T) {
	store := setupStore(t, sampleWorkspace())
	svc := NewRosterService(NewWorkspaceService(store))
	ctx := context.Background()

	err := svc.SaveAgent(ctx, "ENCADRANTS", domain.Agent{ID: "C777777", Name: "FONTENEAU Fabrice"}, "C002908")
	require.NoError(t, err)

	persisted := reloaded(t, store)
	_, _, found := persisted.Agents.Find("C002908")
	assert.False(t, found)
	_, group, found := persisted.Agents.Find("C777777")
	require.True(t, found)
	assert.Equal(t, "ENCADRANTS", group)
	code, ok := persisted.Planning.Get(2025, "C777777", "2025-01-03")
	assert.True(t, ok)
	assert.Equal(t, "C", code)
	_, ok = persisted.Planning.Get(2025, "C002908", "2025-01-03")
	assert.False(t, ok)
}

func TestRosterSaveAgent_RenameToTakenMatricule(t *testing.T) {
	svc, workspace, obs := setupRoster(t)
	ctx := context.Background()

	err := svc.SaveAgent(ctx, "ENCADRANTS", domain.Agent{ID: "T028198", Name: "X"}, "C002908")

	assert.ErrorIs(t, err, domain.ErrAgentExists)
	assert.False(t, obs.last().Success)
	ws, _ := workspace.Current(ctx)
	_, _, found := ws.Agents.Find("C002908")
	assert.True(t, found, "failed edits leave the roster untouched")
}

func TestRosterSaveAgent_Invalid(t *testing.T) {
	svc, _, _ := setupRoster(t)
	err := svc.SaveAgent(context.Background(), "ENCADRANTS", domain.Agent{ID: "C1"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidAgent)

	err = svc.SaveAgent(context.Background(), "NOPE", domain.Agent{ID: "C1", Name: "A"}, "")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestRosterDeleteAgent(t *testing.T) {
	svc, workspace, _ := setupRoster(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteAgent(ctx, "C002908"))
	assert.ErrorIs(t, svc.DeleteAgent(ctx, "C002908"), domain.ErrAgentNotFound)

	ws, _ := workspace.Current(ctx)
	_, ok := ws.Planning.Get(2025, "C002908", "2025-01-03")
	assert.True(t, ok, "planning entries outlive the agent record")
}

func TestRosterDeleteGroup_BlockedWhileNotEmpty(t *testing.T) {
	svc, _, _ := setupRoster(t)
	ctx := context.Background()

	err := svc.DeleteGroup(ctx, "ENCADRANTS")
	assert.ErrorIs(t, err, domain.ErrGroupNotEmpty)

	require.NoError(t, svc.DeleteAgent(ctx, "C003285"))
	require.NoError(t, svc.DeleteGroup(ctx, "ENCADRANTS"))

	groups, err := svc.Groups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "AGENTS VOIRIE ST 8", groups[0].Name)
	assert.Equal(t, 1, groups[0].Meta.Order)
}

func TestRosterAddAndRenameGroup(t *testing.T) {
	svc, workspace, _ := setupRoster(t)
	ctx := context.Background()

	require.NoError(t, svc.AddGroup(ctx, "EQUIPE NUIT"))
	assert.ErrorIs(t, svc.AddGroup(ctx, "EQUIPE NUIT"), domain.ErrGroupExists)
	assert.ErrorIs(t, svc.AddGroup(ctx, "  "), domain.ErrInvalidGroup)

	require.NoError(t, svc.SetGroupColor(ctx, "ENCADRANTS", "#ABCDEF"))
	require.NoError(t, svc.RenameGroup(ctx, "ENCADRANTS", "CHEFS"))

	ws, _ := workspace.Current(ctx)
	assert.NotContains(t, ws.Agents, "ENCADRANTS")
	assert.Len(t, ws.Agents["CHEFS"], 1)
	assert.Equal(t, "#abcdef", ws.GroupMeta["CHEFS"].Color)
	assert.NotContains(t, ws.GroupMeta, "ENCADRANTS")
	assert.ErrorIs(t, svc.RenameGroup(ctx, "CHEFS", "EQUIPE NUIT"), domain.ErrGroupExists)
}

func TestRosterSetGroupColor_Invalid(t *testing.T) {
	svc, _, _ := setupRoster(t)
	ctx := context.Background()
	assert.ErrorIs(t, svc.SetGroupColor(ctx, "ENCADRANTS", "red"), domain.ErrInvalidColor)
	assert.ErrorIs(t, svc.SetGroupColor(ctx, "NOPE", "#fff"), domain.ErrGroupNotFound)
}

func TestRosterMoveGroup(t *testing.T) {
	svc, _, _ := setupRoster(t)
	ctx := context.Background()
	require.NoError(t, svc.AddGroup(ctx, "MAGASIN ST 8"))

	names := func() []string {
		groups, err := svc.Groups(ctx)
		require.NoError(t, err)
		out := make([]string, len(groups))
		for i, g := range groups {
			out[i] = g.Name
		}
		return out
	}
	require.Equal(t, []string{"AGENTS VOIRIE ST 8", "ENCADRANTS", "MAGASIN ST 8"}, names())

	require.NoError(t, svc.MoveGroup(ctx, "MAGASIN ST 8", -1))
	assert.Equal(t, []string{"AGENTS VOIRIE ST 8", "MAGASIN ST 8", "ENCADRANTS"}, names())

	require.NoError(t, svc.MoveGroup(ctx, "ENCADRANTS", -10))
	assert.Equal(t, []string{"ENCADRANTS", "AGENTS VOIRIE ST 8", "MAGASIN ST 8"}, names())

	assert.ErrorIs(t, svc.MoveGroup(ctx, "NOPE", 1), domain.ErrGroupNotFound)
}

func TestRosterImportExport(t *testing.T) {
	svc, workspace, obs := setupRoster(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, svc.ExportRoster(ctx, &buf))
	schema, err := importer.ParseRoster(buf.Bytes())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAgent(ctx, "C002908"))
	require.NoError(t, svc.ImportRoster(ctx, schema))

	ws, _ := workspace.Current(ctx)
	assert.Equal(t, 3, ws.Agents.Len())
	assert.Equal(t, "import-roster", obs.last().Name)

	bad := &importer.RosterSchema{Agents: map[string][]importer.AgentImport{"A": {{Matricule: "", Name: ""}}}}
	err = svc.ImportRoster(ctx, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Equal(t, 3, ws.Agents.Len())
}
