package apisync

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/st8/internal/config"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/storage"
)

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.TimeoutMs = 2000
	return cfg
}

func writeFallback(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agents_source.json")
	data := `{"agents":[{"matricule":"C003285","name":"FOURCADE Hervé","group":"ENCADRANTS"}],"metadata":{}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestFetch_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AgentsPath, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"agents":[{"matricule":"C002908","name":"FONTENEAU Fabrice","presences":{"2025-01-06":"ast-h"}}],"metadata":{"last_modified":"x"}}`))
	}))
	defer srv.Close()
	obs := &recordingObserver{}

	res, err := NewClient(testConfig(srv.URL), obs).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SourceRemote, res.Source)
	assert.NoError(t, res.RemoteErr)
	require.Len(t, res.Doc.Agents, 1)
	assert.Equal(t, "ASTH", res.Doc.Agents[0].Presences["2025-01-06"])
	require.Len(t, obs.events, 1)
	assert.Equal(t, CallEvent{Op: OpFetch, Source: SourceRemote, LatencyMs: obs.events[0].LatencyMs, Success: true}, obs.events[0])
}

func TestFetch_FallsBackToFile(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MaxRetries = 0
	cfg.FallbackFile = writeFallback(t)
	obs := &recordingObserver{}

	res, err := NewClient(cfg, obs).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SourceFile, res.Source)
	assert.ErrorIs(t, res.RemoteErr, ErrUnavailable)
	require.Len(t, res.Doc.Agents, 1)
	assert.Equal(t, "ENCADRANTS", res.Doc.Agents[0].Group)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "UNAVAILABLE", obs.events[0].ErrorCode)
}

func TestFetch_FallsBackToEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FallbackFile = filepath.Join(t.TempDir(), "missing.json")

	res, err := NewClient(cfg, nil).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SourceEmpty, res.Source)
	assert.Empty(t, res.Doc.Agents)
	assert.NotNil(t, res.Doc.Metadata)
	assert.Error(t, res.RemoteErr)
}

func TestFetch_BadStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3

	res, err := NewClient(cfg, nil).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SourceEmpty, res.Source)
	assert.ErrorIs(t, res.RemoteErr, ErrBadStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"agents":[],"metadata":{}}`))
	}))
	defer srv.Close()
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	res, err := NewClient(cfg, nil).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()
	cfg := testConfig(srv.URL)
	cfg.TimeoutMs = 50

	res, err := NewClient(cfg, nil).Fetch(context.Background())

	require.NoError(t, err)
	assert.ErrorIs(t, res.RemoteErr, ErrTimeout)
	assert.Equal(t, SourceEmpty, res.Source)
}

func TestPush(t *testing.T) {
	var received storage.RosterDocument
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	doc := storage.RosterDocumentFrom(domain.DefaultRoster())
	ok, err := NewClient(testConfig(srv.URL), nil).Push(context.Background(), doc)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, received.Agents, 3)
}

func TestPush_NoEndpoint(t *testing.T) {
	ok, err := NewClient(DefaultConfig(), nil).Push(context.Background(), storage.NewRosterDocument())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPush_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	obs := &recordingObserver{}

	ok, err := NewClient(testConfig(srv.URL), obs).Push(context.Background(), storage.NewRosterDocument())

	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrBadStatus)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "BAD_STATUS", obs.events[0].ErrorCode)
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.SyncConfig{Endpoint: " http://host:5000/ ", TimeoutMs: 0, MaxRetries: 2})
	assert.Equal(t, "http://host:5000", cfg.Endpoint)
	assert.Equal(t, 5000, cfg.TimeoutMs)
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)

	obs.OnCallComplete(CallEvent{Op: OpFetch, Source: SourceFile, LatencyMs: 12, ErrorCode: "UNAVAILABLE"})

	assert.Contains(t, buf.String(), "sync_call op=fetch source=file latency_ms=12 status=err:UNAVAILABLE")
}
