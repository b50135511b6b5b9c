// Package roster flattens, orders and filters the agent roster for display.
package roster

import (
	"sort"
	"strings"

	"github.com/alexanderramin/st8/internal/domain"
)

// Entry is one agent with the group it belongs to.
type Entry struct {
	Group string
	Agent domain.Agent
}

// Scope selects which agent fields a free-text query inspects.
type Scope int

const (
	// ScopePlanning matches name, matricule and group.
	ScopePlanning Scope = iota
	// ScopeAgents also matches grade, notes and qualifications.
	ScopeAgents
)

// AllGroups is the group filter value that disables group filtering.
const AllGroups = "__ALL__"

// Query narrows the visible roster.
type Query struct {
	Group string
	Text  string
	Scope Scope
}

// Flatten lists every agent ordered by group (meta order) then by name.
func Flatten(r domain.Roster, meta map[string]domain.GroupMeta) []Entry {
	groups := r.Groups()
	domain.SortGroups(groups, meta)

	out := make([]Entry, 0, r.Len())
	for _, g := range groups {
		for _, a := range SortAgents(r[g]) {
			out = append(out, Entry{Group: g, Agent: a})
		}
	}
	return out
}

// SortAgents returns a copy of agents ordered by display name.
func SortAgents(agents []domain.Agent) []domain.Agent {
	out := make([]domain.Agent, len(agents))
	copy(out, agents)
	sort.SliceStable(out, func(i, j int) bool {
		return domain.CompareNames(out[i].DisplayName(), out[j].DisplayName()) < 0
	})
	return out
}

// Filter returns the ordered entries matching q.
func Filter(r domain.Roster, meta map[string]domain.GroupMeta, q Query) []Entry {
	all := Flatten(r, meta)
	out := all[:0:0]
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	for _, e := range all {
		if q.Group != "" && q.Group != AllGroups && e.Group != q.Group {
			continue
		}
		if needle != "" && !Matches(e, needle, q.Scope) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Matches reports whether the lower-cased needle occurs in one of the
// searchable fields of e.
func Matches(e Entry, needle string, scope Scope) bool {
	fields := []string{e.Agent.Name, e.Agent.ID, e.Group}
	if scope == ScopeAgents {
		fields = append(fields, e.Agent.Grade, e.Agent.Notes)
		fields = append(fields, e.Agent.Licenses...)
		fields = append(fields, e.Agent.Certifications...)
		fields = append(fields, e.Agent.Skills...)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// IDs extracts the matricules of entries in order.
func IDs(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Agent.ID
	}
	return out
}

// Groups lists the distinct groups of entries in order of first appearance.
func Groups(entries []Entry) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range entries {
		if !seen[e.Group] {
			seen[e.Group] = true
			out = append(out, e.Group)
		}
	}
	return out
}
