// Package grid builds the planning grid model: one section per group, one
// row per agent, one cell per displayed day.
package grid

import (
	"strings"
	"time"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/planning"
	"github.com/alexanderramin/st8/internal/roster"
)

// CellKind is the rendering class of a cell, decided in priority order:
// stored recognized status, computed holiday, weekend, blank. A stored code
// outside the taxonomy renders as a plain tag.
type CellKind int

const (
	CellBlank CellKind = iota
	CellWeekend
	CellHoliday
	CellStatus
	CellUnknown
)

func (k CellKind) String() string {
	switch k {
	case CellWeekend:
		return "weekend"
	case CellHoliday:
		return "holiday"
	case CellStatus:
		return "status"
	case CellUnknown:
		return "unknown"
	default:
		return "empty"
	}
}

// Column is one displayed day.
type Column struct {
	Date    time.Time
	Key     string
	Weekday string
	Day     int
	Weekend bool
	Holiday bool
}

// Cell is one agent-day.
type Cell struct {
	Ref  planning.CellRef
	Kind CellKind
	// Code is the stored code, or "JF" for an unset holiday.
	Code   string
	Status domain.StatusDef
	Title  string
	// Stored reports whether Code comes from the planning document.
	Stored  bool
	Weekend bool
	Holiday bool
}

// Row is one agent line.
type Row struct {
	Group  string
	Agent  domain.Agent
	Badges []domain.Badge
	Cells  []Cell
}

// Section is a group header and its agent rows.
type Section struct {
	Group string
	Meta  domain.GroupMeta
	Rows  []Row
}

// Grid is the rendered model. It implements planning.Layout with row
// indexes counting agent rows only, across sections.
type Grid struct {
	Title    string
	Columns  []Column
	Sections []Section

	rows []*Row
}

// Input carries what a grid is built from. Entries should come from
// roster.Filter; they are regrouped and reordered here.
type Input struct {
	Entries   []roster.Entry
	Planning  domain.PlanningDocument
	GroupMeta map[string]domain.GroupMeta
}

// BuildMonth builds the grid of a 1-based month.
func BuildMonth(year, month int, in Input) *Grid {
	days := calendar.MonthDays(year, month)
	g := build(days, in)
	g.Title = calendar.MonthName(month) + " " + days[0].Format("2006")
	return g
}

// BuildFortnight builds the fourteen-day grid starting on the Monday of
// start's week.
func BuildFortnight(start time.Time, in Input) *Grid {
	days := calendar.Fortnight(start)
	g := build(days, in)
	g.Title = calendar.LongDate(days[0]) + " → " + calendar.LongDate(days[len(days)-1])
	return g
}

func build(days []time.Time, in Input) *Grid {
	g := &Grid{Columns: make([]Column, len(days))}
	for i, d := range days {
		g.Columns[i] = Column{
			Date:    d,
			Key:     calendar.ISO(d),
			Weekday: calendar.WeekdayShort(d),
			Day:     d.Day(),
			Weekend: calendar.IsWeekend(d),
			Holiday: calendar.IsHoliday(d),
		}
	}

	byGroup := map[string][]domain.Agent{}
	for _, e := range in.Entries {
		byGroup[e.Group] = append(byGroup[e.Group], e.Agent)
	}
	groups := make([]string, 0, len(byGroup))
	for name := range byGroup {
		groups = append(groups, name)
	}
	domain.SortGroups(groups, in.GroupMeta)

	for _, name := range groups {
		sec := Section{Group: name, Meta: in.GroupMeta[name]}
		for _, a := range roster.SortAgents(byGroup[name]) {
			sec.Rows = append(sec.Rows, buildRow(name, a, g.Columns, in.Planning))
		}
		g.Sections = append(g.Sections, sec)
	}
	for si := range g.Sections {
		for ri := range g.Sections[si].Rows {
			g.rows = append(g.rows, &g.Sections[si].Rows[ri])
		}
	}
	return g
}

func buildRow(group string, a domain.Agent, cols []Column, doc domain.PlanningDocument) Row {
	row := Row{Group: group, Agent: a, Badges: domain.CapabilityBadges(a), Cells: make([]Cell, len(cols))}
	for i, col := range cols {
		code, stored := doc.Get(col.Date.Year(), a.ID, col.Key)
		row.Cells[i] = ResolveCell(a, col, strings.TrimSpace(code), stored)
	}
	return row
}

// ResolveCell applies the cell priority policy for one agent-day.
func ResolveCell(a domain.Agent, col Column, code string, stored bool) Cell {
	c := Cell{
		Ref:     planning.CellRef{AgentID: a.ID, Date: col.Key},
		Code:    code,
		Stored:  stored && code != "",
		Weekend: col.Weekend,
		Holiday: col.Holiday,
	}
	switch {
	case c.Stored:
		if s, ok := domain.LookupStatus(code); ok {
			c.Kind = CellStatus
			c.Status = s
		} else {
			c.Kind = CellUnknown
			c.Code = strings.ToUpper(code)
		}
	case col.Holiday:
		c.Kind = CellHoliday
		c.Code = string(domain.StatusHoliday)
		c.Status, _ = domain.LookupStatus(c.Code)
	case col.Weekend:
		c.Kind = CellWeekend
		c.Code = ""
	default:
		c.Kind = CellBlank
		c.Code = ""
	}
	c.Title = cellTitle(a, col.Date, c)
	return c
}

func cellTitle(a domain.Agent, day time.Time, c Cell) string {
	base := domain.FirstNonEmpty(a.Name, a.ID, "Agent") + " - " + calendar.LongDate(day)
	switch {
	case c.Kind == CellStatus || c.Kind == CellHoliday:
		return base + " : " + c.Status.Label
	case c.Code != "":
		return base + " : " + c.Code
	}
	return base
}

// CellAt implements planning.Layout.
func (g *Grid) CellAt(p planning.Pos) (planning.CellRef, bool) {
	if p.Row < 0 || p.Row >= len(g.rows) || p.Col < 0 || p.Col >= len(g.Columns) {
		return planning.CellRef{}, false
	}
	return g.rows[p.Row].Cells[p.Col].Ref, true
}

// RowCount returns the number of agent rows.
func (g *Grid) RowCount() int { return len(g.rows) }

// RowAt returns the agent row at index i.
func (g *Grid) RowAt(i int) (*Row, bool) {
	if i < 0 || i >= len(g.rows) {
		return nil, false
	}
	return g.rows[i], true
}

// AgentIDs lists the displayed matricules in row order.
func (g *Grid) AgentIDs() []string {
	out := make([]string, len(g.rows))
	for i, r := range g.rows {
		out[i] = r.Agent.ID
	}
	return out
}

var _ planning.Layout = (*Grid)(nil)
