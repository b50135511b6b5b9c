package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/st8/internal/db"
	"github.com/alexanderramin/st8/internal/domain"
)

// SQLitePlanningRepo implements PlanningRepo using a SQLite database.
// Unset cells have no row.
type SQLitePlanningRepo struct {
	db db.DBTX
}

// NewSQLitePlanningRepo creates a new SQLitePlanningRepo.
func NewSQLitePlanningRepo(conn db.DBTX) *SQLitePlanningRepo {
	return &SQLitePlanningRepo{db: conn}
}

// Set writes a cell; a blank code deletes it.
func (r *SQLitePlanningRepo) Set(ctx context.Context, year int, agentID, day, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM planning_entries WHERE year = ? AND matricule = ? AND day = ?`, year, agentID, day)
		if err != nil {
			return fmt.Errorf("clearing planning entry: %w", err)
		}
		return nil
	}
	query := `INSERT INTO planning_entries (year, matricule, day, code, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(year, matricule, day) DO UPDATE SET code = excluded.code, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, year, agentID, day, code, nowUTC()); err != nil {
		return fmt.Errorf("writing planning entry: %w", err)
	}
	return nil
}

func (r *SQLitePlanningRepo) Load(ctx context.Context) (domain.PlanningDocument, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT year, matricule, day, code FROM planning_entries`)
	if err != nil {
		return nil, fmt.Errorf("loading planning: %w", err)
	}
	defer rows.Close()

	doc := domain.PlanningDocument{}
	for rows.Next() {
		var year int
		var agentID, day, code string
		if err := rows.Scan(&year, &agentID, &day, &code); err != nil {
			return nil, fmt.Errorf("scanning planning row: %w", err)
		}
		doc.Set(year, agentID, day, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planning: %w", err)
	}
	return doc, nil
}

func (r *SQLitePlanningRepo) LoadYear(ctx context.Context, year int) (domain.YearPlan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT matricule, day, code FROM planning_entries WHERE year = ?`, year)
	if err != nil {
		return nil, fmt.Errorf("loading planning year: %w", err)
	}
	defer rows.Close()

	yp := domain.YearPlan{}
	for rows.Next() {
		var agentID, day, code string
		if err := rows.Scan(&agentID, &day, &code); err != nil {
			return nil, fmt.Errorf("scanning planning row: %w", err)
		}
		ap, ok := yp[agentID]
		if !ok {
			ap = domain.AgentPlan{}
			yp[agentID] = ap
		}
		ap[day] = code
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planning: %w", err)
	}
	return yp, nil
}

// RenameAgent moves every entry of from onto to, overwriting collisions.
func (r *SQLitePlanningRepo) RenameAgent(ctx context.Context, from, to string) error {
	if from == to {
		return nil
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM planning_entries WHERE matricule = ? AND (year, day) IN
			(SELECT year, day FROM planning_entries WHERE matricule = ?)`, to, from); err != nil {
		return fmt.Errorf("clearing rename target: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE planning_entries SET matricule = ?, updated_at = ? WHERE matricule = ?`, to, nowUTC(), from); err != nil {
		return fmt.Errorf("renaming planning entries: %w", err)
	}
	return nil
}

func (r *SQLitePlanningRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM planning_entries`); err != nil {
		return fmt.Errorf("clearing planning: %w", err)
	}
	return nil
}
