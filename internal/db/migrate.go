package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS groups (
		name        TEXT PRIMARY KEY,
		color       TEXT NOT NULL DEFAULT '',
		sort_order  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS agents (
		matricule       TEXT PRIMARY KEY,
		group_name      TEXT NOT NULL REFERENCES groups(name) ON UPDATE CASCADE,
		name            TEXT NOT NULL,
		grade           TEXT NOT NULL DEFAULT 'AT',
		notes           TEXT NOT NULL DEFAULT '',
		licenses        TEXT NOT NULL DEFAULT '[]',
		certifications  TEXT NOT NULL DEFAULT '[]',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`ALTER TABLE agents ADD COLUMN birth TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE agents ADD COLUMN skills TEXT NOT NULL DEFAULT '[]'`,
	`CREATE TABLE IF NOT EXISTS planning_entries (
		year        INTEGER NOT NULL,
		matricule   TEXT NOT NULL,
		day         TEXT NOT NULL,
		code        TEXT NOT NULL CHECK(length(trim(code)) > 0),
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (year, matricule, day)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_agents_group ON agents(group_name)`,
	`CREATE INDEX IF NOT EXISTS idx_planning_day ON planning_entries(year, day)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillGroupOrder(db); err != nil {
		return fmt.Errorf("backfilling group order: %w", err)
	}
	return nil
}

// migrateBackfillGroupOrder numbers groups created before sort_order was
// maintained, keeping existing orders and appending the rest by name.
func migrateBackfillGroupOrder(db *sql.DB) error {
	ctx := context.Background()

	var maxOrder int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM groups`).Scan(&maxOrder); err != nil {
		return fmt.Errorf("reading max group order: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM groups WHERE sort_order <= 0 ORDER BY name`)
	if err != nil {
		return fmt.Errorf("listing unordered groups: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scanning group name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range names {
		maxOrder++
		if _, err := db.ExecContext(ctx, `UPDATE groups SET sort_order = ? WHERE name = ?`, maxOrder, name); err != nil {
			return fmt.Errorf("numbering group %q: %w", name, err)
		}
	}
	return nil
}
