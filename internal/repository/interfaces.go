package repository

import (
	"context"

	"github.com/alexanderramin/st8/internal/domain"
)

type GroupRepo interface {
	Upsert(ctx context.Context, name string, meta domain.GroupMeta) error
	Get(ctx context.Context, name string) (domain.GroupMeta, error)
	List(ctx context.Context) (map[string]domain.GroupMeta, error)
	Rename(ctx context.Context, from, to string) error
	Delete(ctx context.Context, name string) error
	DeleteAll(ctx context.Context) error
}

type AgentRepo interface {
	Upsert(ctx context.Context, group string, a *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, string, error)
	List(ctx context.Context) (domain.Roster, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type PlanningRepo interface {
	Set(ctx context.Context, year int, agentID, day, code string) error
	Load(ctx context.Context) (domain.PlanningDocument, error)
	LoadYear(ctx context.Context, year int) (domain.YearPlan, error)
	RenameAgent(ctx context.Context, from, to string) error
	DeleteAll(ctx context.Context) error
}
