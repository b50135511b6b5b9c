package apisync

import (
	"fmt"
	"io"
	"time"
)

// Op names a sync operation.
type Op string

const (
	OpFetch Op = "fetch"
	OpPush  Op = "push"
)

// CallEvent records one sync operation.
type CallEvent struct {
	Op        Op
	Source    Source
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives sync call events for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes sync call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	fmt.Fprintf(o.w, "[%s] sync_call op=%s source=%s latency_ms=%d status=%s\n",
		ts, event.Op, event.Source, event.LatencyMs, status)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
