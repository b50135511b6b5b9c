package importer

import (
	"sort"
	"strconv"

	"github.com/alexanderramin/st8/internal/domain"
)

func convertPlanning(raw planningSchema) domain.PlanningDocument {
	doc := domain.PlanningDocument{}
	for yearKey, yp := range raw {
		year, _ := strconv.Atoi(yearKey)
		if doc[year] == nil {
			doc[year] = domain.YearPlan{}
		}
		for agentID, plan := range yp {
			ap := domain.AgentPlan{}
			for date, v := range plan {
				if code, ok := v.(string); ok {
					ap[date] = code
				}
			}
			doc[year][agentID] = ap
		}
	}
	doc.Normalize()
	return doc
}

// Convert builds the roster and group metadata described by schema. Group
// metadata is reconciled, so missing colors and orders are filled in.
func Convert(schema *RosterSchema) (domain.Roster, map[string]domain.GroupMeta) {
	roster := make(domain.Roster, len(schema.Agents))
	for group, agents := range schema.Agents {
		out := make([]domain.Agent, 0, len(agents))
		for _, a := range agents {
			agent := domain.Agent{
				ID:             a.Matricule,
				Name:           a.Name,
				Grade:          a.Grade,
				Birth:          a.Birth,
				Notes:          a.Notes,
				Licenses:       a.Permis,
				Certifications: a.Caces,
				Skills:         a.Skills,
			}
			agent.Normalize()
			out = append(out, agent)
		}
		roster[group] = out
	}

	meta := make(map[string]domain.GroupMeta, len(schema.GroupMeta))
	for g, m := range schema.GroupMeta {
		meta[g] = m
	}
	domain.EnsureGroupMeta(roster, meta)
	return roster, meta
}

// FromRoster is the inverse of Convert. Agents are listed by matricule.
func FromRoster(roster domain.Roster, meta map[string]domain.GroupMeta) *RosterSchema {
	schema := &RosterSchema{
		Agents:    make(map[string][]AgentImport, len(roster)),
		GroupMeta: make(map[string]domain.GroupMeta, len(meta)),
	}
	for group, agents := range roster {
		out := make([]AgentImport, 0, len(agents))
		for _, a := range agents {
			out = append(out, AgentImport{
				Matricule: a.ID,
				Name:      a.Name,
				Grade:     a.Grade,
				Birth:     a.Birth,
				Notes:     a.Notes,
				Permis:    a.Licenses,
				Caces:     a.Certifications,
				Skills:    a.Skills,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Matricule < out[j].Matricule })
		schema.Agents[group] = out
	}
	for g, m := range meta {
		schema.GroupMeta[g] = m
	}
	return schema
}
