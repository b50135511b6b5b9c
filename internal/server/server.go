// Package server exposes the shared roster document over HTTP and serves
// read-only planning views.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/st8/internal/logger"
	"github.com/alexanderramin/st8/internal/service"
	"github.com/alexanderramin/st8/internal/storage"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

// Server wraps the HTTP listener and the roster handlers.
type Server struct {
	settings  Settings
	backend   storage.RosterBackend
	planning  service.PlanningService
	clock     func() time.Time
	requestID func() string

	// docMu serializes read-modify-write cycles on the roster document.
	docMu sync.Mutex

	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
}

// Option customizes server construction.
type Option func(*Server)

// WithPlanning enables the planning views backed by svc.
func WithPlanning(svc service.PlanningService) Option {
	return func(s *Server) {
		if svc != nil {
			s.planning = svc
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(gen func() string) Option {
	return func(s *Server) {
		if gen != nil {
			s.requestID = gen
		}
	}
}

// New prepares a server storing the roster document in backend.
func New(settings Settings, backend storage.RosterBackend, opts ...Option) *Server {
	settings.normalize()
	s := &Server{
		settings:  settings,
		backend:   backend,
		clock:     func() time.Time { return time.Now().UTC() },
		requestID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the routed handler with request ids and access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/agents", s.handleGetAgents)
	mux.HandleFunc("POST /api/agents", s.handlePostAgents)
	mux.HandleFunc("DELETE /api/agents/{matricule}", s.handleDeleteAgent)
	mux.HandleFunc("GET /planning", s.handlePlanningHTML)
	mux.HandleFunc("GET /export/planning.xlsx", s.handlePlanningXLSX)
	return s.withRequestID(s.withAccessLog(mux))
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.listener = listener
	s.server = server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve failed", "error", err)
		}
	}()
	logger.Info("listening", "addr", listener.Addr().String())
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL of the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		addr = s.settings.Address()
	}
	return "http://" + addr
}

func (s *Server) now() time.Time {
	return s.clock().UTC()
}
