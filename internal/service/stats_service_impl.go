package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/roster"
	"github.com/alexanderramin/st8/internal/stats"
)

type statsService struct {
	workspace WorkspaceService
}

func NewStatsService(workspace WorkspaceService) StatsService {
	return &statsService{workspace: workspace}
}

// Month summarizes a month for group; an empty group or roster.AllGroups
// covers every agent.
func (s *statsService) Month(ctx context.Context, year, month int, group string) (*MonthStats, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d: %w", month, domain.ErrInvalidDate)
	}
	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkGroup(ws, group); err != nil {
		return nil, err
	}
	ids := stats.ScopeIDs(ws.Agents, group)
	rate := stats.PresenceRate(ws.Planning, ids, year, month)
	return &MonthStats{
		Year:      year,
		Month:     month,
		Group:     group,
		Agents:    len(ids),
		Rate:      rate,
		Color:     stats.RateColor(rate),
		Series:    stats.YearSeries(ws.Planning, ids, year),
		Breakdown: stats.Breakdown(stats.Counters(ws.Planning, ids, year, month)),
	}, nil
}

func (s *statsService) Periods(ctx context.Context, from, to time.Time, group string, period stats.Period) ([]stats.PeriodRate, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("range %s..%s: %w", from.Format(time.DateOnly), to.Format(time.DateOnly), domain.ErrInvalidDate)
	}
	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkGroup(ws, group); err != nil {
		return nil, err
	}
	ids := stats.ScopeIDs(ws.Agents, group)
	return stats.AggregateByPeriod(stats.DailyRates(ws.Planning, ids, from, to), period), nil
}

func checkGroup(ws *domain.Workspace, group string) error {
	if group == "" || group == roster.AllGroups {
		return nil
	}
	if _, ok := ws.Agents[group]; !ok {
		return fmt.Errorf("group %q: %w", group, domain.ErrGroupNotFound)
	}
	return nil
}
