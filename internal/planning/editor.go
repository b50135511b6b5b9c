package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/domain"
)

// MaxUndo bounds the undo history; the oldest entry is evicted first.
const MaxUndo = 100

// CellChange records the value a cell held before an edit. A nil Previous
// means the cell was unset.
type CellChange struct {
	Year     int
	AgentID  string
	Date     string
	Previous *string
}

// UndoEntry groups the cells changed by one edit. Year is the year the edit
// was made in; a fortnight edit may also touch cells of the adjacent year.
type UndoEntry struct {
	Year  int
	Cells []CellChange
}

// Result summarizes one edit.
type Result struct {
	Changed int
	// Skipped counts weekend cells refused by the weekend-write policy.
	Skipped int
}

// Editor applies edits to a planning document and keeps the undo history.
// It is not safe for concurrent use.
type Editor struct {
	doc  domain.PlanningDocument
	undo []UndoEntry
}

// NewEditor edits doc in place.
func NewEditor(doc domain.PlanningDocument) *Editor {
	if doc == nil {
		doc = domain.PlanningDocument{}
	}
	return &Editor{doc: doc}
}

// Document returns the edited document.
func (e *Editor) Document() domain.PlanningDocument { return e.doc }

// Replace swaps the document wholesale and clears the undo history.
func (e *Editor) Replace(doc domain.PlanningDocument) {
	if doc == nil {
		doc = domain.PlanningDocument{}
	}
	e.doc = doc
	e.undo = nil
}

// CanUndo reports whether an undo entry is available.
func (e *Editor) CanUndo() bool { return len(e.undo) > 0 }

// Peek returns the most recent undo entry without consuming it.
func (e *Editor) Peek() (UndoEntry, bool) {
	if len(e.undo) == 0 {
		return UndoEntry{}, false
	}
	return e.undo[len(e.undo)-1], true
}

// UndoDepth returns the number of stored undo entries.
func (e *Editor) UndoDepth() int { return len(e.undo) }

// Apply writes code to every cell, subject to the weekend-write policy.
// Each cell is stored under the year of its date. Cells already holding
// code are left alone. An undo entry is pushed only when at least one cell
// changed. Dates are validated before anything is written. Known codes are
// stored in their canonical spelling and free text is upper-cased.
func (e *Editor) Apply(cells []CellRef, code string) (Result, error) {
	code = canonicalCode(code)
	days := make([]time.Time, len(cells))
	for i, c := range cells {
		day, err := calendar.ParseISO(c.Date)
		if err != nil {
			return Result{}, fmt.Errorf("cell %s/%s: %w", c.AgentID, c.Date, domain.ErrInvalidDate)
		}
		days[i] = day
	}

	var res Result
	var changes []CellChange
	for i, c := range cells {
		if calendar.IsWeekend(days[i]) && !domain.AllowedOnWeekend(code) {
			res.Skipped++
			continue
		}
		if ch, ok := e.write(days[i].Year(), c.AgentID, c.Date, code); ok {
			changes = append(changes, ch)
		}
	}
	res.Changed = len(changes)
	if len(changes) > 0 {
		e.push(changes[0].Year, changes)
	}
	return res, nil
}

func canonicalCode(code string) string {
	if def, ok := domain.LookupStatus(code); ok {
		return string(def.Code)
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// SetAllPresent fills a month for each agent: holidays get JF, weekends are
// cleared and every other day gets P. Month is 1-based.
func (e *Editor) SetAllPresent(year, month int, agentIDs []string) Result {
	return e.bulk(year, month, agentIDs, func(weekend, holiday bool) (string, bool) {
		switch {
		case holiday:
			return string(domain.StatusHoliday), true
		case weekend:
			return "", true
		default:
			return string(domain.StatusPresent), true
		}
	})
}

// ApplyHolidays marks a month's holidays as JF and clears its weekends,
// leaving working days untouched. Month is 1-based.
func (e *Editor) ApplyHolidays(year, month int, agentIDs []string) Result {
	return e.bulk(year, month, agentIDs, func(weekend, holiday bool) (string, bool) {
		switch {
		case holiday:
			return string(domain.StatusHoliday), true
		case weekend:
			return "", true
		default:
			return "", false
		}
	})
}

func (e *Editor) bulk(year, month int, agentIDs []string, decide func(weekend, holiday bool) (string, bool)) Result {
	holidays := calendar.HolidaySet(year)
	n := calendar.DaysInMonth(year, month)
	var changes []CellChange
	for _, id := range agentIDs {
		if id == "" {
			continue
		}
		for d := 1; d <= n; d++ {
			key := calendar.ISODate(year, month, d)
			code, ok := decide(calendar.IsWeekendDate(year, month, d), holidays[key])
			if !ok {
				continue
			}
			if ch, changed := e.write(year, id, key, code); changed {
				changes = append(changes, ch)
			}
		}
	}
	e.push(year, changes)
	return Result{Changed: len(changes)}
}

// Undo restores the most recent entry. It returns false when there is
// nothing to undo.
func (e *Editor) Undo() (UndoEntry, bool) {
	if len(e.undo) == 0 {
		return UndoEntry{}, false
	}
	entry := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	for _, c := range entry.Cells {
		if c.Previous == nil {
			e.doc.Delete(c.Year, c.AgentID, c.Date)
			continue
		}
		e.doc.Set(c.Year, c.AgentID, c.Date, *c.Previous)
	}
	return entry, true
}

// write sets one cell and reports the prior value when it changed.
// An unset cell and an empty code are equivalent.
func (e *Editor) write(year int, agentID, date, code string) (CellChange, bool) {
	prev, had := e.doc.Get(year, agentID, date)
	if (had && prev == code) || (!had && code == "") {
		return CellChange{}, false
	}
	ch := CellChange{Year: year, AgentID: agentID, Date: date}
	if had {
		p := prev
		ch.Previous = &p
	}
	if code == "" {
		e.doc.Delete(year, agentID, date)
	} else {
		e.doc.Set(year, agentID, date, code)
	}
	return ch, true
}

func (e *Editor) push(year int, changes []CellChange) {
	if len(changes) == 0 {
		return
	}
	e.undo = append(e.undo, UndoEntry{Year: year, Cells: changes})
	if over := len(e.undo) - MaxUndo; over > 0 {
		e.undo = append(e.undo[:0:0], e.undo[over:]...)
	}
}
