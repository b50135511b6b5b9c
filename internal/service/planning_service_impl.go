package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/grid"
	"github.com/alexanderramin/st8/internal/importer"
	"github.com/alexanderramin/st8/internal/logger"
	"github.com/alexanderramin/st8/internal/planning"
	"github.com/alexanderramin/st8/internal/roster"
	"github.com/alexanderramin/st8/internal/storage"
)

type planningService struct {
	workspace WorkspaceService
	observer  UseCaseObserver

	mu     sync.Mutex
	ws     *domain.Workspace
	editor *planning.Editor
}

func NewPlanningService(workspace WorkspaceService, observers ...UseCaseObserver) PlanningService {
	return &planningService{
		workspace: workspace,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// session returns the current workspace and an editor bound to its
// planning document. A reloaded workspace gets a fresh editor, dropping
// the undo history.
func (s *planningService) session(ctx context.Context) (*domain.Workspace, *planning.Editor, error) {
	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return nil, nil, err
	}
	if s.editor == nil || s.ws != ws {
		s.ws = ws
		s.editor = planning.NewEditor(ws.Planning)
		ws.Planning = s.editor.Document()
	}
	return ws, s.editor, nil
}

func (s *planningService) Month(ctx context.Context, year, month int, q roster.Query) (*grid.Grid, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d: %w", month, domain.ErrInvalidDate)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, _, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	return grid.BuildMonth(year, month, gridInput(ws, q)), nil
}

func (s *planningService) Fortnight(ctx context.Context, start time.Time, q roster.Query) (*grid.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, _, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	return grid.BuildFortnight(start, gridInput(ws, q)), nil
}

func (s *planningService) Apply(ctx context.Context, cells []planning.CellRef, code string) (planning.Result, error) {
	return s.edit(ctx, "apply-status", map[string]any{"code": code, "cells": len(cells)},
		func(_ *domain.Workspace, ed *planning.Editor) (planning.Result, error) {
			return ed.Apply(cells, code)
		})
}

func (s *planningService) SetAllPresent(ctx context.Context, year, month int, q roster.Query) (planning.Result, error) {
	return s.edit(ctx, "set-all-present", map[string]any{"year": year, "month": month, "group": q.Group},
		func(ws *domain.Workspace, ed *planning.Editor) (planning.Result, error) {
			if month < 1 || month > 12 {
				return planning.Result{}, fmt.Errorf("month %d: %w", month, domain.ErrInvalidDate)
			}
			return ed.SetAllPresent(year, month, visibleIDs(ws, q)), nil
		})
}

func (s *planningService) ApplyHolidays(ctx context.Context, year, month int, q roster.Query) (planning.Result, error) {
	return s.edit(ctx, "apply-holidays", map[string]any{"year": year, "month": month, "group": q.Group},
		func(ws *domain.Workspace, ed *planning.Editor) (planning.Result, error) {
			if month < 1 || month > 12 {
				return planning.Result{}, fmt.Errorf("month %d: %w", month, domain.ErrInvalidDate)
			}
			return ed.ApplyHolidays(year, month, visibleIDs(ws, q)), nil
		})
}

// Undo reverts the latest edit of this session. It reports false when the
// history is empty.
func (s *planningService) Undo(ctx context.Context) (undone bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "undo",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	var ed *planning.Editor
	if _, ed, err = s.session(ctx); err != nil {
		return false, err
	}
	entry, ok := ed.Undo()
	if !ok {
		return false, nil
	}
	fields["cells"] = len(entry.Cells)
	return true, s.persist(ctx, ed, entry)
}

func (s *planningService) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor != nil && s.editor.CanUndo()
}

// ImportPlanning replaces the planning document and clears the undo
// history.
func (s *planningService) ImportPlanning(ctx context.Context, doc domain.PlanningDocument) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"years": len(doc)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-planning",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		ws *domain.Workspace
		ed *planning.Editor
	)
	if ws, ed, err = s.session(ctx); err != nil {
		return err
	}
	if doc == nil {
		doc = domain.PlanningDocument{}
	}
	ed.Replace(doc)
	ws.Planning = ed.Document()
	return s.workspace.Save(ctx)
}

func (s *planningService) ExportPlanning(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, _, err := s.session(ctx)
	if err != nil {
		return err
	}
	return importer.WritePlanning(w, ws.Planning)
}

func (s *planningService) ExportMonthXLSX(ctx context.Context, w io.Writer, year, month int, q roster.Query) error {
	g, err := s.Month(ctx, year, month, q)
	if err != nil {
		return err
	}
	return importer.WriteMonthXLSX(w, g)
}

func (s *planningService) edit(
	ctx context.Context,
	name string,
	fields map[string]any,
	fn func(ws *domain.Workspace, ed *planning.Editor) (planning.Result, error),
) (res planning.Result, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields["changed"] = res.Changed
		fields["skipped"] = res.Skipped
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		ws *domain.Workspace
		ed *planning.Editor
	)
	if ws, ed, err = s.session(ctx); err != nil {
		return planning.Result{}, err
	}
	if res, err = fn(ws, ed); err != nil || res.Changed == 0 {
		return res, err
	}
	entry, _ := ed.Peek()
	return res, s.persist(ctx, ed, entry)
}

// persist writes the cells of entry with their current values. A failed
// write is logged and returned; the in-memory edit stays applied.
func (s *planningService) persist(ctx context.Context, ed *planning.Editor, entry planning.UndoEntry) error {
	cells := make([]storage.Cell, 0, len(entry.Cells))
	for _, c := range entry.Cells {
		code, _ := ed.Document().Get(c.Year, c.AgentID, c.Date)
		cells = append(cells, storage.Cell{Year: c.Year, AgentID: c.AgentID, Date: c.Date, Code: code})
	}
	if err := s.workspace.SaveCells(ctx, cells); err != nil {
		logger.Warn("planning change kept in memory only", "cells", len(cells), "error", err)
		return err
	}
	return nil
}

func gridInput(ws *domain.Workspace, q roster.Query) grid.Input {
	return grid.Input{
		Entries:   roster.Filter(ws.Agents, ws.GroupMeta, q),
		Planning:  ws.Planning,
		GroupMeta: ws.GroupMeta,
	}
}

func visibleIDs(ws *domain.Workspace, q roster.Query) []string {
	return roster.IDs(roster.Filter(ws.Agents, ws.GroupMeta, q))
}
