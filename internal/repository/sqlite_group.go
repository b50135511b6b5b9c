package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/st8/internal/db"
	"github.com/alexanderramin/st8/internal/domain"
)

// SQLiteGroupRepo implements GroupRepo using a SQLite database.
type SQLiteGroupRepo struct {
	db db.DBTX
}

// NewSQLiteGroupRepo creates a new SQLiteGroupRepo.
func NewSQLiteGroupRepo(conn db.DBTX) *SQLiteGroupRepo {
	return &SQLiteGroupRepo{db: conn}
}

func (r *SQLiteGroupRepo) Upsert(ctx context.Context, name string, meta domain.GroupMeta) error {
	now := nowUTC()
	query := `INSERT INTO groups (name, color, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET color = excluded.color, sort_order = excluded.sort_order, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, name, meta.Color, meta.Order, now, now); err != nil {
		return fmt.Errorf("upserting group: %w", err)
	}
	return nil
}

func (r *SQLiteGroupRepo) Get(ctx context.Context, name string) (domain.GroupMeta, error) {
	var m domain.GroupMeta
	err := r.db.QueryRowContext(ctx, `SELECT color, sort_order FROM groups WHERE name = ?`, name).Scan(&m.Color, &m.Order)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.GroupMeta{}, fmt.Errorf("group %q: %w", name, ErrNotFound)
		}
		return domain.GroupMeta{}, fmt.Errorf("scanning group: %w", err)
	}
	return m, nil
}

func (r *SQLiteGroupRepo) List(ctx context.Context) (map[string]domain.GroupMeta, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, color, sort_order FROM groups ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	out := map[string]domain.GroupMeta{}
	for rows.Next() {
		var name string
		var m domain.GroupMeta
		if err := rows.Scan(&name, &m.Color, &m.Order); err != nil {
			return nil, fmt.Errorf("scanning group row: %w", err)
		}
		out[name] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}
	return out, nil
}

// Rename changes a group's key; agents follow through ON UPDATE CASCADE.
func (r *SQLiteGroupRepo) Rename(ctx context.Context, from, to string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE groups SET name = ?, updated_at = ? WHERE name = ?`, to, nowUTC(), from)
	if err != nil {
		return fmt.Errorf("renaming group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("group %q: %w", from, ErrNotFound)
	}
	return nil
}

func (r *SQLiteGroupRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	return nil
}

func (r *SQLiteGroupRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM groups`); err != nil {
		return fmt.Errorf("clearing groups: %w", err)
	}
	return nil
}
