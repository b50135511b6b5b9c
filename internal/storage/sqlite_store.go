package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/st8/internal/db"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/repository"
)

// SQLiteStore maps the workspace onto the groups, agents and
// planning_entries tables.
type SQLiteStore struct {
	conn *sql.DB
	uow  db.UnitOfWork
}

// NewSQLiteStore wraps an open, migrated database.
func NewSQLiteStore(conn *sql.DB) *SQLiteStore {
	return &SQLiteStore{conn: conn, uow: db.NewSQLiteUnitOfWork(conn)}
}

// NewSQLiteStoreWithUoW is NewSQLiteStore with an explicit unit of work,
// used to inject failures in tests.
func NewSQLiteStoreWithUoW(conn *sql.DB, uow db.UnitOfWork) *SQLiteStore {
	return &SQLiteStore{conn: conn, uow: uow}
}

func (s *SQLiteStore) Load(ctx context.Context) (*domain.Workspace, error) {
	meta, err := repository.NewSQLiteGroupRepo(s.conn).List(ctx)
	if err != nil {
		return nil, err
	}
	roster, err := repository.NewSQLiteAgentRepo(s.conn).List(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := repository.NewSQLitePlanningRepo(s.conn).Load(ctx)
	if err != nil {
		return nil, err
	}
	for name := range meta {
		if _, ok := roster[name]; !ok {
			roster[name] = []domain.Agent{}
		}
	}
	return &domain.Workspace{Agents: roster, GroupMeta: meta, Planning: doc}, nil
}

// Save replaces every row in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, ws *domain.Workspace) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		groups := repository.NewSQLiteGroupRepo(tx)
		agents := repository.NewSQLiteAgentRepo(tx)
		planning := repository.NewSQLitePlanningRepo(tx)

		if err := planning.DeleteAll(ctx); err != nil {
			return err
		}
		if err := agents.DeleteAll(ctx); err != nil {
			return err
		}
		if err := groups.DeleteAll(ctx); err != nil {
			return err
		}

		for _, name := range ws.Agents.Groups() {
			if err := groups.Upsert(ctx, name, ws.GroupMeta[name]); err != nil {
				return err
			}
			for i := range ws.Agents[name] {
				if err := agents.Upsert(ctx, name, &ws.Agents[name][i]); err != nil {
					return fmt.Errorf("agent %q: %w", ws.Agents[name][i].ID, err)
				}
			}
		}
		for year, yp := range ws.Planning {
			for agentID, plan := range yp {
				for day, code := range plan {
					if err := planning.Set(ctx, year, agentID, day, code); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// SaveCells writes only the given cells in one transaction.
func (s *SQLiteStore) SaveCells(ctx context.Context, cells []Cell) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		planning := repository.NewSQLitePlanningRepo(tx)
		for _, c := range cells {
			if err := planning.Set(ctx, c.Year, c.AgentID, c.Date, c.Code); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.conn.Close() }

var (
	_ Store     = (*SQLiteStore)(nil)
	_ CellStore = (*SQLiteStore)(nil)
)
