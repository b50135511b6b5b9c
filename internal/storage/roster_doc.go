package storage

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/st8/internal/domain"
)

// UngroupedName is the group given to remote agents without one.
const UngroupedName = "Sans groupe"

// RosterAgent is an agent as exchanged with the roster backend: the local
// fields plus its group and an optional date to code map.
type RosterAgent struct {
	domain.Agent `bson:",inline"`
	Group        string            `json:"group,omitempty" bson:"group,omitempty"`
	Presences    map[string]string `json:"presences,omitempty" bson:"presences,omitempty"`
}

// RosterDocument is the shared roster ({agents, metadata}).
type RosterDocument struct {
	Agents   []RosterAgent  `json:"agents" bson:"agents"`
	Metadata map[string]any `json:"metadata" bson:"metadata"`
}

// NewRosterDocument returns an empty document.
func NewRosterDocument() *RosterDocument {
	return &RosterDocument{Agents: []RosterAgent{}, Metadata: map[string]any{}}
}

// RosterBackend persists the shared roster document.
type RosterBackend interface {
	// Load returns the stored document; ok is false when nothing is stored.
	Load(ctx context.Context) (doc *RosterDocument, ok bool, err error)
	Save(ctx context.Context, doc *RosterDocument) error
}

// Normalize fills nil fields and rewrites every presence code to its
// canonical token.
func (d *RosterDocument) Normalize() {
	if d.Agents == nil {
		d.Agents = []RosterAgent{}
	}
	if d.Metadata == nil {
		d.Metadata = map[string]any{}
	}
	for i := range d.Agents {
		for date, code := range d.Agents[i].Presences {
			d.Agents[i].Presences[date] = domain.NormalizeCode(code)
		}
	}
}

// Touch stamps metadata.last_modified.
func (d *RosterDocument) Touch(now time.Time) {
	if d.Metadata == nil {
		d.Metadata = map[string]any{}
	}
	d.Metadata["last_modified"] = now.UTC().Format(time.RFC3339)
}

// Remove drops the agent with matricule id and reports whether it existed.
func (d *RosterDocument) Remove(id string) bool {
	kept := d.Agents[:0]
	removed := false
	for _, a := range d.Agents {
		if a.ID == id {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	d.Agents = kept
	return removed
}

// RosterDocumentFrom flattens a workspace roster, ordered by group then
// matricule.
func RosterDocumentFrom(r domain.Roster) *RosterDocument {
	doc := NewRosterDocument()
	for _, g := range r.Groups() {
		for _, a := range r[g] {
			doc.Agents = append(doc.Agents, RosterAgent{Agent: a, Group: g})
		}
	}
	sort.SliceStable(doc.Agents, func(i, j int) bool {
		if doc.Agents[i].Group != doc.Agents[j].Group {
			return doc.Agents[i].Group < doc.Agents[j].Group
		}
		return doc.Agents[i].ID < doc.Agents[j].ID
	})
	return doc
}

// MergeInto applies the document to ws: agents are upserted into their
// group (matricule collisions move the agent) and presences are written
// into the planning. It returns the number of agents and cells applied.
func (d *RosterDocument) MergeInto(ws *domain.Workspace) (agents, cells int) {
	for _, ra := range d.Agents {
		a := ra.Agent
		a.Normalize()
		if a.ID == "" {
			continue
		}
		group := strings.TrimSpace(ra.Group)
		if group == "" {
			if _, existing, ok := ws.Agents.Find(a.ID); ok {
				group = existing
			} else {
				group = UngroupedName
			}
		}
		if _, ok := ws.Agents[group]; !ok {
			ws.Agents[group] = []domain.Agent{}
		}
		if err := ws.Agents.Upsert(group, a, a.ID); err != nil {
			continue
		}
		agents++
		for date, code := range ra.Presences {
			t, err := time.Parse("2006-01-02", date)
			if err != nil || strings.TrimSpace(code) == "" {
				continue
			}
			ws.Planning.Set(t.Year(), a.ID, date, code)
			cells++
		}
	}
	return agents, cells
}
