package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/importer"
	"github.com/alexanderramin/st8/internal/roster"
)

type rosterService struct {
	workspace WorkspaceService
	observer  UseCaseObserver
}

func NewRosterService(workspace WorkspaceService, observers ...UseCaseObserver) RosterService {
	return &rosterService{
		workspace: workspace,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *rosterService) List(ctx context.Context, q roster.Query) ([]roster.Entry, error) {
	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return nil, err
	}
	return roster.Filter(ws.Agents, ws.GroupMeta, q), nil
}

func (s *rosterService) Get(ctx context.Context, id string) (domain.Agent, string, error) {
	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return domain.Agent{}, "", err
	}
	a, group, ok := ws.Agents.Find(id)
	if !ok {
		return domain.Agent{}, "", fmt.Errorf("agent %q: %w", id, domain.ErrAgentNotFound)
	}
	return a, group, nil
}

// SaveAgent creates or edits an agent. When previousID differs from the
// agent's matricule the planning entries follow the new matricule.
func (s *rosterService) SaveAgent(ctx context.Context, group string, a domain.Agent, previousID string) error {
	return s.mutate(ctx, "save-agent", map[string]any{"agent": a.ID, "group": group}, func(ws *domain.Workspace) error {
		return ws.RenameAgent(group, a, previousID)
	})
}

// DeleteAgent removes the agent record. Its planning entries are kept.
func (s *rosterService) DeleteAgent(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete-agent", map[string]any{"agent": id}, func(ws *domain.Workspace) error {
		return ws.Agents.Remove(id)
	})
}

func (s *rosterService) Groups(ctx context.Context) ([]GroupInfo, error) {
	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return nil, err
	}
	names := ws.Agents.Groups()
	domain.SortGroups(names, ws.GroupMeta)
	out := make([]GroupInfo, 0, len(names))
	for _, name := range names {
		out = append(out, GroupInfo{Name: name, Meta: ws.GroupMeta[name], Agents: len(ws.Agents[name])})
	}
	return out, nil
}

func (s *rosterService) AddGroup(ctx context.Context, name string) error {
	return s.mutate(ctx, "add-group", map[string]any{"group": name}, func(ws *domain.Workspace) error {
		return ws.Agents.AddGroup(name)
	})
}

func (s *rosterService) RenameGroup(ctx context.Context, from, to string) error {
	return s.mutate(ctx, "rename-group", map[string]any{"group": from, "to": to}, func(ws *domain.Workspace) error {
		if err := ws.Agents.RenameGroup(from, to); err != nil {
			return err
		}
		to = strings.TrimSpace(to)
		if meta, ok := ws.GroupMeta[from]; ok && from != to {
			ws.GroupMeta[to] = meta
			delete(ws.GroupMeta, from)
		}
		return nil
	})
}

func (s *rosterService) DeleteGroup(ctx context.Context, name string) error {
	return s.mutate(ctx, "delete-group", map[string]any{"group": name}, func(ws *domain.Workspace) error {
		if err := ws.Agents.RemoveGroup(name); err != nil {
			return err
		}
		delete(ws.GroupMeta, name)
		return nil
	})
}

func (s *rosterService) SetGroupColor(ctx context.Context, name, color string) error {
	return s.mutate(ctx, "recolor-group", map[string]any{"group": name, "color": color}, func(ws *domain.Workspace) error {
		if _, ok := ws.Agents[name]; !ok {
			return fmt.Errorf("group %q: %w", name, domain.ErrGroupNotFound)
		}
		if !domain.ValidHex(color) {
			return fmt.Errorf("%w: %q", domain.ErrInvalidColor, color)
		}
		meta := ws.GroupMeta[name]
		meta.Color = strings.ToLower(strings.TrimSpace(color))
		ws.GroupMeta[name] = meta
		return nil
	})
}

// MoveGroup shifts a group by delta positions in the display order,
// clamped to the ends of the list.
func (s *rosterService) MoveGroup(ctx context.Context, name string, delta int) error {
	return s.mutate(ctx, "move-group", map[string]any{"group": name, "delta": delta}, func(ws *domain.Workspace) error {
		names := ws.Agents.Groups()
		domain.SortGroups(names, ws.GroupMeta)
		from := -1
		for i, n := range names {
			if n == name {
				from = i
				break
			}
		}
		if from < 0 {
			return fmt.Errorf("group %q: %w", name, domain.ErrGroupNotFound)
		}
		to := min(max(from+delta, 0), len(names)-1)
		names = append(names[:from], names[from+1:]...)
		names = append(names[:to], append([]string{name}, names[to:]...)...)
		for i, n := range names {
			meta := ws.GroupMeta[n]
			meta.Order = i + 1
			ws.GroupMeta[n] = meta
		}
		return nil
	})
}

// ImportRoster replaces the roster and group metadata wholesale.
func (s *rosterService) ImportRoster(ctx context.Context, schema *importer.RosterSchema) error {
	if errs := importer.ValidateRoster(schema); len(errs) > 0 {
		return formatValidationErrors(errs)
	}
	r, meta := importer.Convert(schema)
	return s.mutate(ctx, "import-roster", map[string]any{"agents": r.Len(), "groups": len(r)}, func(ws *domain.Workspace) error {
		ws.Agents = r
		ws.GroupMeta = meta
		return nil
	})
}

func (s *rosterService) ExportRoster(ctx context.Context, w io.Writer) error {
	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return err
	}
	return importer.WriteRoster(w, ws.Agents, ws.GroupMeta)
}

// mutate applies fn to a scratch copy of the roster so a failed edit leaves
// the workspace untouched, then commits and saves. A failed save keeps the
// in-memory change.
func (s *rosterService) mutate(ctx context.Context, name string, fields map[string]any, fn func(ws *domain.Workspace) error) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	var ws *domain.Workspace
	ws, err = s.workspace.Current(ctx)
	if err != nil {
		return err
	}
	scratch := ws.Clone()
	// The planning map is shared with the planning editor.
	scratch.Planning = ws.Planning
	if err = fn(scratch); err != nil {
		return err
	}
	domain.EnsureGroupMeta(scratch.Agents, scratch.GroupMeta)
	ws.Agents = scratch.Agents
	ws.GroupMeta = scratch.GroupMeta
	return s.workspace.Save(ctx)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
