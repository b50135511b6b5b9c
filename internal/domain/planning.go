package domain

import "strings"

// AgentPlan maps an ISO date (YYYY-MM-DD) to a status code.
type AgentPlan map[string]string

// YearPlan maps an agent matricule to its plan for one year.
type YearPlan map[string]AgentPlan

// PlanningDocument maps a year to its per-agent plans. An absent date key
// means the cell is unset.
type PlanningDocument map[int]YearPlan

// Get returns the stored code for a cell.
func (p PlanningDocument) Get(year int, agentID, date string) (string, bool) {
	code, ok := p[year][agentID][date]
	return code, ok
}

// Set stores code for a cell, creating intermediate maps as needed.
// A blank code deletes the cell.
func (p PlanningDocument) Set(year int, agentID, date, code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		p.Delete(year, agentID, date)
		return
	}
	yp, ok := p[year]
	if !ok {
		yp = YearPlan{}
		p[year] = yp
	}
	ap, ok := yp[agentID]
	if !ok {
		ap = AgentPlan{}
		yp[agentID] = ap
	}
	ap[date] = code
}

// Delete removes a cell. Empty agent maps are kept so the document shape
// matches what the editor produced.
func (p PlanningDocument) Delete(year int, agentID, date string) {
	if ap, ok := p[year][agentID]; ok {
		delete(ap, date)
	}
}

// RenameAgent moves every entry stored under from to to.
func (p PlanningDocument) RenameAgent(from, to string) {
	if from == to {
		return
	}
	for _, yp := range p {
		src, ok := yp[from]
		if !ok {
			continue
		}
		dst, ok := yp[to]
		if !ok {
			dst = AgentPlan{}
			yp[to] = dst
		}
		for d, c := range src {
			dst[d] = c
		}
		delete(yp, from)
	}
}

// Normalize trims codes and drops blank entries.
func (p PlanningDocument) Normalize() {
	for _, yp := range p {
		for agentID, ap := range yp {
			if ap == nil {
				yp[agentID] = AgentPlan{}
				continue
			}
			for d, c := range ap {
				if c = strings.TrimSpace(c); c == "" {
					delete(ap, d)
				} else {
					ap[d] = c
				}
			}
		}
	}
}

// Clone returns a deep copy of the document.
func (p PlanningDocument) Clone() PlanningDocument {
	out := make(PlanningDocument, len(p))
	for y, yp := range p {
		ny := make(YearPlan, len(yp))
		for a, ap := range yp {
			na := make(AgentPlan, len(ap))
			for d, c := range ap {
				na[d] = c
			}
			ny[a] = na
		}
		out[y] = ny
	}
	return out
}
