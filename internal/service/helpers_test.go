package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/storage"
	"github.com/alexanderramin/st8/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

// memStore keeps the workspace in memory and can be told to fail writes.
type memStore struct {
	ws      *domain.Workspace
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) (*domain.Workspace, error) {
	if m.ws == nil {
		return domain.NewWorkspace(), nil
	}
	return m.ws.Clone(), nil
}

func (m *memStore) Save(_ context.Context, ws *domain.Workspace) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ws = ws.Clone()
	return nil
}

func (m *memStore) Close() error { return nil }

// sampleWorkspace has two teams and a few January 2025 entries.
func sampleWorkspace() *domain.Workspace {
	return testutil.NewTestWorkspace(
		testutil.WithAgents("AGENTS VOIRIE ST 8",
			testutil.NewTestAgent("C002908", "FONTENEAU Fabrice"),
			testutil.NewTestAgent("T028198", "GOUREAU Jonathan", testutil.WithLicenses("Permis CE")),
		),
		testutil.WithAgents("ENCADRANTS",
			testutil.NewTestAgent("C003285", "FOURCADE Hervé", testutil.WithGrade("TECH")),
		),
		testutil.WithEntry(2025, "C002908", "2025-01-02", "P"),
		testutil.WithEntry(2025, "C002908", "2025-01-03", "C"),
		testutil.WithEntry(2025, "T028198", "2025-01-02", "P"),
	)
}

// setupStore returns a SQLite store seeded with ws.
func setupStore(t *testing.T, ws *domain.Workspace) *storage.SQLiteStore {
	t.Helper()
	store := storage.NewSQLiteStore(testutil.NewTestDB(t))
	if ws != nil {
		require.NoError(t, store.Save(context.Background(), ws))
	}
	return store
}

// reloaded reads the persisted workspace through a fresh service.
func reloaded(t *testing.T, store storage.Store) *domain.Workspace {
	t.Helper()
	ws, err := NewWorkspaceService(store).Current(context.Background())
	require.NoError(t, err)
	return ws
}
