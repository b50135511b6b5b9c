package service

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/alexanderramin/st8/internal/logger"
)

// UseCaseEvent describes one finished workspace mutation or sync call.
// Fields carry the operation's subject: agent, group, month, cells changed.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// attrs flattens an event into key/value pairs with Fields in key order.
func (e UseCaseEvent) attrs() []any {
	out := []any{
		"use_case", e.Name,
		"duration_ms", e.Duration.Milliseconds(),
		"success", e.Success,
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		out = append(out, k, e.Fields[k])
	}
	if e.Err != nil {
		out = append(out, "error", e.Err.Error())
	}
	return out
}

type slogUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes one slog text line per event to w
// (`st8 --log.use_cases`).
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &slogUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *slogUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	if event.Err != nil {
		o.logger.ErrorContext(ctx, "service_use_case", event.attrs()...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", event.attrs()...)
}

// ProcessLogObserver records events in the rotating process log, where
// failed saves and sync fallbacks are kept for later inspection.
type ProcessLogObserver struct{}

func (ProcessLogObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	if event.Err != nil {
		logger.Error("use case failed", event.attrs()...)
		return
	}
	logger.Debug("use case", event.attrs()...)
}

type multiObserver []UseCaseObserver

func (m multiObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		o.ObserveUseCase(ctx, event)
	}
}

// useCaseObserverOrNoop combines the non-nil observers.
func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live multiObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}
