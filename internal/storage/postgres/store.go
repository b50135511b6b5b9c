// Package postgres keeps the workspace document in a JSONB column so
// several workstations can share one planning.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/storage"
)

// DocumentID is the row holding the workspace.
const DocumentID = "default"

var ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")

var migrations = []string{
	`CREATE SCHEMA IF NOT EXISTS st8`,
	`CREATE TABLE IF NOT EXISTS st8.workspace (
		id          TEXT PRIMARY KEY,
		document    JSONB NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Store implements storage.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

// ValidateConnString checks that dsn parses as a URI or key=value DSN.
func ValidateConnString(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(dsn); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	return nil
}

// Open connects, pings and creates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") {
			return nil, fmt.Errorf("connecting to postgres: %w (hint: add sslmode=disable)", err)
		}
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("postgres migration %d: %w", i, err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (*domain.Workspace, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM st8.workspace WHERE id = $1`, DocumentID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewWorkspace(), nil
		}
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	ws := domain.NewWorkspace()
	if err := json.Unmarshal(raw, ws); err != nil {
		return domain.NewWorkspace(), fmt.Errorf("%w: workspace row: %v", storage.ErrUnreadable, err)
	}
	return ws, nil
}

func (s *Store) Save(ctx context.Context, ws *domain.Workspace) error {
	raw, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("encoding workspace: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO st8.workspace (id, document, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		DocumentID, string(raw))
	if err != nil {
		return fmt.Errorf("saving workspace: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
