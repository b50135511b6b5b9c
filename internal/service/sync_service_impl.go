package service

import (
	"context"
	"time"

	"github.com/alexanderramin/st8/internal/apisync"
	"github.com/alexanderramin/st8/internal/storage"
)

type syncService struct {
	client    apisync.Client
	workspace WorkspaceService
	observer  UseCaseObserver
}

func NewSyncService(client apisync.Client, workspace WorkspaceService, observers ...UseCaseObserver) SyncService {
	return &syncService{
		client:    client,
		workspace: workspace,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Pull merges the shared roster into the workspace. Agents are upserted
// by matricule and their presences written into the planning; nothing is
// removed locally.
func (s *syncService) Pull(ctx context.Context) (res *SyncResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "sync-pull",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	var fetched *apisync.FetchResult
	if fetched, err = s.client.Fetch(ctx); err != nil {
		return nil, err
	}
	res = &SyncResult{Source: fetched.Source, RemoteErr: fetched.RemoteErr}
	fields["source"] = string(fetched.Source)
	if len(fetched.Doc.Agents) == 0 {
		return res, nil
	}

	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return nil, err
	}
	res.Agents, res.Cells = fetched.Doc.MergeInto(ws)
	fields["agents"] = res.Agents
	fields["cells"] = res.Cells
	if err = s.workspace.Save(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// Push publishes the local roster. It reports false when no server
// accepted it.
func (s *syncService) Push(ctx context.Context) (accepted bool, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "sync-push",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"accepted": accepted},
		})
	}()

	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return false, err
	}
	return s.client.Push(ctx, storage.RosterDocumentFrom(ws.Agents))
}
