package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/st8/internal/storage"
)

func TestWorkspaceCurrent_SeedsDefaultRoster(t *testing.T) {
	store := setupStore(t, nil)
	obs := &recordingObserver{}
	svc := NewWorkspaceService(store, obs)

	ws, err := svc.Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, ws.Agents.Len())
	assert.Len(t, ws.GroupMeta, 2)
	assert.Equal(t, []string{"load-workspace"}, obs.names())
	assert.Equal(t, true, obs.last().Fields["seeded"])

	persisted := reloaded(t, store)
	assert.Equal(t, ws.Agents, persisted.Agents)
}

func TestWorkspaceCurrent_CachesUntilReload(t *testing.T) {
	store := setupStore(t, sampleWorkspace())
	svc := NewWorkspaceService(store)
	ctx := context.Background()

	first, err := svc.Current(ctx)
	require.NoError(t, err)
	second, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	third, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, first.Agents, third.Agents)
}

func TestWorkspaceCurrent_UnreadableDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	obs := &recordingObserver{}
	svc := NewWorkspaceService(storage.NewJSONStore(path), obs)

	ws, err := svc.Current(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, ws.Agents.Len(), "an empty workspace is seeded")
	assert.Empty(t, ws.Planning)
	assert.True(t, obs.last().Success)
	assert.Equal(t, true, obs.last().Fields["degraded"])
}

func TestWorkspaceCurrent_KeepsEmptyGroups(t *testing.T) {
	ws := sampleWorkspace()
	ws.Agents["MAGASIN ST 8"] = nil
	ws.Normalize()
	store := setupStore(t, ws)

	got := reloaded(t, store)

	assert.Contains(t, got.Agents, "MAGASIN ST 8")
	assert.Equal(t, 3, got.Agents.Len())
}

func TestWorkspaceSave_ReportsFailure(t *testing.T) {
	store := &memStore{ws: sampleWorkspace()}
	obs := &recordingObserver{}
	svc := NewWorkspaceService(store, obs)
	ctx := context.Background()
	_, err := svc.Current(ctx)
	require.NoError(t, err)

	store.saveErr = errors.New("disk full")
	err = svc.Save(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	ev := obs.last()
	assert.Equal(t, "save-workspace", ev.Name)
	assert.False(t, ev.Success)
}

func TestWorkspaceSaveCells_FallsBackToWholeSave(t *testing.T) {
	store := &memStore{ws: sampleWorkspace()}
	svc := NewWorkspaceService(store)
	ctx := context.Background()
	ws, err := svc.Current(ctx)
	require.NoError(t, err)
	before := store.saves

	ws.Planning.Set(2025, "C003285", "2025-01-06", "F")
	require.NoError(t, svc.SaveCells(ctx, []storage.Cell{{Year: 2025, AgentID: "C003285", Date: "2025-01-06", Code: "F"}}))

	assert.Equal(t, before+1, store.saves)
	code, ok := store.ws.Planning.Get(2025, "C003285", "2025-01-06")
	assert.True(t, ok)
	assert.Equal(t, "F", code)
}
