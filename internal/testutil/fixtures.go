package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/st8/internal/domain"
)

var testMatriculeCounter atomic.Int64

// Agent options
type AgentOption func(*domain.Agent)

func WithGrade(g string) AgentOption {
	return func(a *domain.Agent) {
		a.Grade = g
	}
}

func WithLicenses(l ...string) AgentOption {
	return func(a *domain.Agent) {
		a.Licenses = l
	}
}

func WithCertifications(c ...string) AgentOption {
	return func(a *domain.Agent) {
		a.Certifications = c
	}
}

func WithSkills(s ...string) AgentOption {
	return func(a *domain.Agent) {
		a.Skills = s
	}
}

func WithNotes(n string) AgentOption {
	return func(a *domain.Agent) {
		a.Notes = n
	}
}

// NewMatricule returns a unique test matricule such as "T000007".
func NewMatricule() string {
	return fmt.Sprintf("T%06d", testMatriculeCounter.Add(1))
}

func NewTestAgent(id, name string, opts ...AgentOption) *domain.Agent {
	if id == "" {
		id = NewMatricule()
	}
	a := &domain.Agent{
		ID:    id,
		Name:  name,
		Grade: domain.DefaultGrade,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Workspace options
type WorkspaceOption func(*domain.Workspace)

// WithAgents places agents into group, creating it if needed.
func WithAgents(group string, agents ...*domain.Agent) WorkspaceOption {
	return func(w *domain.Workspace) {
		if _, ok := w.Agents[group]; !ok {
			w.Agents[group] = []domain.Agent{}
		}
		for _, a := range agents {
			w.Agents[group] = append(w.Agents[group], *a)
		}
	}
}

// WithEntry stores one planning cell.
func WithEntry(year int, agentID, day, code string) WorkspaceOption {
	return func(w *domain.Workspace) {
		w.Planning.Set(year, agentID, day, code)
	}
}

// NewTestWorkspace builds a reconciled workspace.
func NewTestWorkspace(opts ...WorkspaceOption) *domain.Workspace {
	w := domain.NewWorkspace()
	for _, opt := range opts {
		opt(w)
	}
	w.Normalize()
	return w
}
