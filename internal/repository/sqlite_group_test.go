package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepo_UpsertAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteGroupRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "ENCADRANTS", domain.GroupMeta{Color: "#9333ea", Order: 1}))
	require.NoError(t, repo.Upsert(ctx, "ENCADRANTS", domain.GroupMeta{Color: "#000000", Order: 2}))

	m, err := repo.Get(ctx, "ENCADRANTS")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupMeta{Color: "#000000", Order: 2}, m)
}

func TestGroupRepo_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteGroupRepo(db)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupRepo_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteGroupRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "A", domain.GroupMeta{Color: "#111111", Order: 2}))
	require.NoError(t, repo.Upsert(ctx, "B", domain.GroupMeta{Color: "#222222", Order: 1}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.GroupMeta{
		"A": {Color: "#111111", Order: 2},
		"B": {Color: "#222222", Order: 1},
	}, got)
}

func TestGroupRepo_RenameCascadesToAgents(t *testing.T) {
	db := testutil.NewTestDB(t)
	groups := NewSQLiteGroupRepo(db)
	agents := NewSQLiteAgentRepo(db)
	ctx := context.Background()

	require.NoError(t, groups.Upsert(ctx, "OLD", domain.GroupMeta{Order: 1}))
	require.NoError(t, agents.Upsert(ctx, "OLD", testutil.NewTestAgent("C1", "DUPONT Marc")))

	require.NoError(t, groups.Rename(ctx, "OLD", "NEW"))

	_, group, err := agents.GetByID(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "NEW", group)

	assert.ErrorIs(t, groups.Rename(ctx, "OLD", "X"), ErrNotFound)
}

func TestGroupRepo_DeleteBlockedByAgents(t *testing.T) {
	db := testutil.NewTestDB(t)
	groups := NewSQLiteGroupRepo(db)
	agents := NewSQLiteAgentRepo(db)
	ctx := context.Background()

	require.NoError(t, groups.Upsert(ctx, "A", domain.GroupMeta{Order: 1}))
	require.NoError(t, agents.Upsert(ctx, "A", testutil.NewTestAgent("C1", "x")))

	assert.Error(t, groups.Delete(ctx, "A"))

	require.NoError(t, agents.Delete(ctx, "C1"))
	require.NoError(t, groups.Delete(ctx, "A"))
	assert.ErrorIs(t, groups.Delete(ctx, "A"), ErrNotFound)
}
