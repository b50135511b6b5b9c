package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/st8/internal/apisync"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/grid"
	"github.com/alexanderramin/st8/internal/importer"
	"github.com/alexanderramin/st8/internal/planning"
	"github.com/alexanderramin/st8/internal/roster"
	"github.com/alexanderramin/st8/internal/stats"
	"github.com/alexanderramin/st8/internal/storage"
)

// WorkspaceService owns the in-memory workspace. The in-memory document is
// the source of truth for the session; persistence follows each mutation.
type WorkspaceService interface {
	Current(ctx context.Context) (*domain.Workspace, error)
	Reload(ctx context.Context) (*domain.Workspace, error)
	Save(ctx context.Context) error
	SaveCells(ctx context.Context, cells []storage.Cell) error
}

type RosterService interface {
	List(ctx context.Context, q roster.Query) ([]roster.Entry, error)
	Get(ctx context.Context, id string) (domain.Agent, string, error)
	SaveAgent(ctx context.Context, group string, a domain.Agent, previousID string) error
	DeleteAgent(ctx context.Context, id string) error
	Groups(ctx context.Context) ([]GroupInfo, error)
	AddGroup(ctx context.Context, name string) error
	RenameGroup(ctx context.Context, from, to string) error
	DeleteGroup(ctx context.Context, name string) error
	SetGroupColor(ctx context.Context, name, color string) error
	MoveGroup(ctx context.Context, name string, delta int) error
	ImportRoster(ctx context.Context, schema *importer.RosterSchema) error
	ExportRoster(ctx context.Context, w io.Writer) error
}

type PlanningService interface {
	Month(ctx context.Context, year, month int, q roster.Query) (*grid.Grid, error)
	Fortnight(ctx context.Context, start time.Time, q roster.Query) (*grid.Grid, error)
	Apply(ctx context.Context, cells []planning.CellRef, code string) (planning.Result, error)
	SetAllPresent(ctx context.Context, year, month int, q roster.Query) (planning.Result, error)
	ApplyHolidays(ctx context.Context, year, month int, q roster.Query) (planning.Result, error)
	Undo(ctx context.Context) (bool, error)
	CanUndo() bool
	ImportPlanning(ctx context.Context, doc domain.PlanningDocument) error
	ExportPlanning(ctx context.Context, w io.Writer) error
	ExportMonthXLSX(ctx context.Context, w io.Writer, year, month int, q roster.Query) error
}

type SyncService interface {
	Pull(ctx context.Context) (*SyncResult, error)
	Push(ctx context.Context) (bool, error)
}

type StatsService interface {
	Month(ctx context.Context, year, month int, group string) (*MonthStats, error)
	Periods(ctx context.Context, from, to time.Time, group string, period stats.Period) ([]stats.PeriodRate, error)
}

// SyncResult reports what a pull merged into the workspace.
type SyncResult struct {
	Source    apisync.Source
	Agents    int
	Cells     int
	RemoteErr error
}

// GroupInfo is a group with its display metadata and head count.
type GroupInfo struct {
	Name   string
	Meta   domain.GroupMeta
	Agents int
}

// MonthStats is the presence summary of one month for a group scope.
type MonthStats struct {
	Year      int
	Month     int
	Group     string
	Agents    int
	Rate      float64
	Color     string
	Series    []float64
	Breakdown []stats.CodeCount
}
