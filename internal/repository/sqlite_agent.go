package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/st8/internal/db"
	"github.com/alexanderramin/st8/internal/domain"
)

// SQLiteAgentRepo implements AgentRepo using a SQLite database.
type SQLiteAgentRepo struct {
	db db.DBTX
}

// NewSQLiteAgentRepo creates a new SQLiteAgentRepo.
func NewSQLiteAgentRepo(conn db.DBTX) *SQLiteAgentRepo {
	return &SQLiteAgentRepo{db: conn}
}

const agentColumns = `matricule, group_name, name, grade, birth, notes, licenses, certifications, skills`

// Upsert inserts or replaces the agent and assigns it to group. The group
// row must already exist.
func (r *SQLiteAgentRepo) Upsert(ctx context.Context, group string, a *domain.Agent) error {
	licenses, err := encodeList(a.Licenses)
	if err != nil {
		return err
	}
	certs, err := encodeList(a.Certifications)
	if err != nil {
		return err
	}
	skills, err := encodeList(a.Skills)
	if err != nil {
		return err
	}

	now := nowUTC()
	query := `INSERT INTO agents (` + agentColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(matricule) DO UPDATE SET
			group_name = excluded.group_name,
			name = excluded.name,
			grade = excluded.grade,
			birth = excluded.birth,
			notes = excluded.notes,
			licenses = excluded.licenses,
			certifications = excluded.certifications,
			skills = excluded.skills,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		a.ID,
		group,
		a.Name,
		a.Grade,
		a.Birth,
		a.Notes,
		licenses,
		certs,
		skills,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting agent: %w", err)
	}
	return nil
}

func (r *SQLiteAgentRepo) GetByID(ctx context.Context, id string) (*domain.Agent, string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE matricule = ?`, id)
	a, group, err := scanAgent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", fmt.Errorf("agent %q: %w", id, ErrNotFound)
		}
		return nil, "", err
	}
	return a, group, nil
}

// List returns every agent partitioned by group, in insertion order within
// each group. Empty groups are not included.
func (r *SQLiteAgentRepo) List(ctx context.Context) (domain.Roster, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY group_name, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	defer rows.Close()

	roster := domain.Roster{}
	for rows.Next() {
		a, group, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		roster[group] = append(roster[group], *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agents: %w", err)
	}
	return roster, nil
}

func (r *SQLiteAgentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE matricule = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting agent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("agent %q: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteAgentRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM agents`); err != nil {
		return fmt.Errorf("clearing agents: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAgent(s scanner) (*domain.Agent, string, error) {
	var a domain.Agent
	var group, licenses, certs, skills string
	err := s.Scan(&a.ID, &group, &a.Name, &a.Grade, &a.Birth, &a.Notes, &licenses, &certs, &skills)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("scanning agent: %w", err)
	}
	if a.Licenses, err = decodeList(licenses); err != nil {
		return nil, "", err
	}
	if a.Certifications, err = decodeList(certs); err != nil {
		return nil, "", err
	}
	if a.Skills, err = decodeList(skills); err != nil {
		return nil, "", err
	}
	return &a, group, nil
}
