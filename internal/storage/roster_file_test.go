package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steppingClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func rosterDoc(ids ...string) *RosterDocument {
	doc := NewRosterDocument()
	for _, id := range ids {
		doc.Agents = append(doc.Agents, RosterAgent{Agent: domain.Agent{ID: id, Name: "Agent " + id}, Group: "VOIRIE"})
	}
	return doc
}

func TestRosterFile_LoadMissing(t *testing.T) {
	f := NewRosterFile(filepath.Join(t.TempDir(), "agents.json"))
	doc, ok, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestRosterFile_SaveAndBackup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "agents.json")
	f := NewRosterFile(path, WithClock(steppingClock(time.Unix(1700000000, 0))))

	require.NoError(t, f.Save(ctx, rosterDoc("A1")))
	backups, err := f.Backups()
	require.NoError(t, err)
	assert.Empty(t, backups, "first save has nothing to back up")

	require.NoError(t, f.Save(ctx, rosterDoc("A1", "A2")))
	backups, err = f.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 1)

	previous, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Contains(t, string(previous), "A1")
	assert.NotContains(t, string(previous), "A2")

	doc, ok, err := f.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, doc.Agents, 2)
	assert.Equal(t, "VOIRIE", doc.Agents[0].Group)
}

func TestRosterFile_RotatesBackups(t *testing.T) {
	ctx := context.Background()
	f := NewRosterFile(filepath.Join(t.TempDir(), "agents.json"),
		WithMaxBackups(2), WithClock(steppingClock(time.Unix(1700000000, 0))))

	for i := 0; i < 5; i++ {
		require.NoError(t, f.Save(ctx, rosterDoc("A1")))
	}
	backups, err := f.Backups()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
	assert.Contains(t, backups[1], ".1700000004000.bak")
}

func TestRosterFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))

	_, _, err := NewRosterFile(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrUnreadable)
}
