package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/logger"
	"github.com/alexanderramin/st8/internal/storage"
)

type workspaceService struct {
	store    storage.Store
	observer UseCaseObserver

	mu sync.Mutex
	ws *domain.Workspace
}

func NewWorkspaceService(store storage.Store, observers ...UseCaseObserver) WorkspaceService {
	return &workspaceService{
		store:    store,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *workspaceService) Current(ctx context.Context) (*domain.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ws != nil {
		return s.ws, nil
	}
	return s.load(ctx)
}

func (s *workspaceService) Reload(ctx context.Context) (*domain.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load reads the store, reconciles group metadata and seeds the default
// roster on an empty installation. An unreadable document is logged and
// replaced by an empty one.
func (s *workspaceService) load(ctx context.Context) (ws *domain.Workspace, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "load-workspace",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	ws, err = s.store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrUnreadable):
		logger.Warn("workspace unreadable, starting empty", "error", err)
		fields["degraded"] = true
		ws, err = domain.NewWorkspace(), nil
	case err != nil:
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	if ws == nil {
		ws = domain.NewWorkspace()
	}

	dirty := ws.Normalize()
	if len(ws.Agents) == 0 {
		ws.Agents = domain.DefaultRoster()
		ws.Normalize()
		fields["seeded"] = true
		dirty = true
	}
	fields["agents"] = ws.Agents.Len()
	fields["groups"] = len(ws.Agents)

	s.ws = ws
	if dirty {
		if saveErr := s.store.Save(ctx, ws); saveErr != nil {
			logger.Warn("saving reconciled workspace failed", "error", saveErr)
		}
	}
	return ws, nil
}

func (s *workspaceService) Save(ctx context.Context) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "save-workspace",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ws == nil {
		return nil
	}
	domain.EnsureGroupMeta(s.ws.Agents, s.ws.GroupMeta)
	fields["agents"] = s.ws.Agents.Len()
	if err = s.store.Save(ctx, s.ws); err != nil {
		logger.Error("saving workspace failed", "error", err)
		return fmt.Errorf("saving workspace: %w", err)
	}
	return nil
}

// SaveCells persists individual planning cells when the store supports it
// and falls back to saving the whole document otherwise.
func (s *workspaceService) SaveCells(ctx context.Context, cells []storage.Cell) error {
	if len(cells) == 0 {
		return nil
	}
	cs, ok := s.store.(storage.CellStore)
	if !ok {
		return s.Save(ctx)
	}
	if err := cs.SaveCells(ctx, cells); err != nil {
		logger.Error("saving planning cells failed", "cells", len(cells), "error", err)
		return fmt.Errorf("saving planning cells: %w", err)
	}
	return nil
}
