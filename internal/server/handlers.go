package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/grid"
	"github.com/alexanderramin/st8/internal/logger"
	"github.com/alexanderramin/st8/internal/roster"
	"github.com/alexanderramin/st8/internal/storage"
)

type healthResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// postPayload defers decoding of agents so a missing key can be told apart
// from an empty list.
type postPayload struct {
	Agents   json.RawMessage `json:"agents"`
	Metadata map[string]any  `json:"metadata"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Time: s.now().Format("2006-01-02T15:04:05.000Z07:00")})
}

func (s *Server) handleGetAgents(w http.ResponseWriter, r *http.Request) {
	doc, ok, err := s.backend.Load(r.Context())
	if err != nil {
		logger.Error("loading roster document failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "cannot read data"})
		return
	}
	if !ok {
		doc = storage.NewRosterDocument()
	}
	doc.Normalize()
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePostAgents(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload exceeds limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to read body"})
		return
	}

	var payload postPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}
	raw := bytes.TrimSpace(payload.Agents)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing agents"})
		return
	}
	doc := &storage.RosterDocument{Metadata: payload.Metadata}
	if err := json.Unmarshal(raw, &doc.Agents); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "agents must be an array"})
		return
	}
	doc.Normalize()
	doc.Touch(s.now())

	s.docMu.Lock()
	defer s.docMu.Unlock()
	if err := s.backend.Save(r.Context(), doc); err != nil {
		logger.Error("saving roster document failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	logger.Info("roster document saved", "agents", len(doc.Agents), "request_id", r.Header.Get(RequestIDHeader))
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("matricule")

	s.docMu.Lock()
	defer s.docMu.Unlock()
	doc, ok, err := s.backend.Load(r.Context())
	if err != nil {
		logger.Error("loading roster document failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "cannot read data"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no data"})
		return
	}
	if !doc.Remove(id) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	doc.Normalize()
	doc.Touch(s.now())
	if err := s.backend.Save(r.Context(), doc); err != nil {
		logger.Error("saving roster document failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	logger.Info("agent removed", "matricule", id, "request_id", r.Header.Get(RequestIDHeader))
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// handlePlanningHTML renders the month grid, or the fortnight starting at
// ?start=YYYY-MM-DD when given.
func (s *Server) handlePlanningHTML(w http.ResponseWriter, r *http.Request) {
	g, status, err := s.planningGrid(r)
	if err != nil {
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := grid.RenderHTML(&buf, g); err != nil {
		logger.Error("rendering planning failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "render failed"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePlanningXLSX(w http.ResponseWriter, r *http.Request) {
	if s.planning == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "planning not available"})
		return
	}
	year, month, err := s.monthParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := s.planning.ExportMonthXLSX(r.Context(), &buf, year, month, queryParams(r)); err != nil {
		logger.Error("exporting planning failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "export failed"})
		return
	}
	name := fmt.Sprintf("planning_%s.xlsx", calendar.FormatMonth(year, month))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) planningGrid(r *http.Request) (*grid.Grid, int, error) {
	if s.planning == nil {
		return nil, http.StatusNotFound, errors.New("planning not available")
	}
	q := queryParams(r)
	if start := r.URL.Query().Get("start"); start != "" {
		day, err := calendar.ParseISO(start)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		g, err := s.planning.Fortnight(r.Context(), day, q)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return g, http.StatusOK, nil
	}
	year, month, err := s.monthParam(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	g, err := s.planning.Month(r.Context(), year, month, q)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return g, http.StatusOK, nil
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month.
func (s *Server) monthParam(r *http.Request) (int, int, error) {
	if v := r.URL.Query().Get("month"); v != "" {
		return calendar.ParseMonth(v)
	}
	now := s.now()
	return now.Year(), int(now.Month()), nil
}

func queryParams(r *http.Request) roster.Query {
	q := r.URL.Query()
	return roster.Query{Group: q.Get("group"), Text: q.Get("q")}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
