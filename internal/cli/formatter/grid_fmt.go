package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/grid"
	"github.com/alexanderramin/st8/internal/planning"
	"github.com/charmbracelet/lipgloss"
)

// Grid geometry in terminal cells. Day columns start at NameWidth; each
// day is CellWidth wide with a one-cell gutter on the right.
const (
	NameWidth = 24
	CellWidth = 3

	// HeaderLines is the number of lines above the first group.
	HeaderLines = 2
)

// GridOptions decorates a rendered grid.
type GridOptions struct {
	// Cursor is highlighted when non-nil.
	Cursor *planning.Pos
	// Selected cells are drawn in reverse video.
	Selected map[planning.CellRef]bool
}

// GridView is a rendered grid plus the line index of every agent row, so
// pointer coordinates can be mapped back to grid positions.
type GridView struct {
	Text string
	// RowLines[i] is the agent row shown on line i, or -1 for header and
	// group lines.
	RowLines []int
}

// PosAt maps a line and a column offset within the rendered text to a grid
// position. ok is false outside agent rows and day columns.
func (v GridView) PosAt(line, x int) (planning.Pos, bool) {
	if line < 0 || line >= len(v.RowLines) || v.RowLines[line] < 0 || x < NameWidth {
		return planning.Pos{}, false
	}
	return planning.Pos{Row: v.RowLines[line], Col: (x - NameWidth) / CellWidth}, true
}

// RenderGrid draws g for a terminal: two header lines with day numbers and
// weekdays, then a line per group followed by its agents.
func RenderGrid(g *grid.Grid, opts GridOptions) GridView {
	var lines []string
	var rowLines []int
	emit := func(s string, row int) {
		lines = append(lines, s)
		rowLines = append(rowLines, row)
	}

	var days, weekdays strings.Builder
	days.WriteString(strings.Repeat(" ", NameWidth))
	weekdays.WriteString(strings.Repeat(" ", NameWidth))
	for _, col := range g.Columns {
		style := StyleFg
		switch {
		case col.Holiday:
			style = StyleRed
		case col.Weekend:
			style = StyleDim
		}
		days.WriteString(style.Render(fmt.Sprintf("%2d", col.Day)) + " ")
		weekdays.WriteString(style.Render(PadRight(firstRunes(col.Weekday, 2), 2)) + " ")
	}
	emit(days.String(), -1)
	emit(weekdays.String(), -1)

	row := 0
	for _, sec := range g.Sections {
		emit(GroupName(sec.Group, sec.Meta)+Dim(fmt.Sprintf(" (%d)", len(sec.Rows))), -1)
		for _, r := range sec.Rows {
			var b strings.Builder
			b.WriteString(PadRight(Truncate(r.Agent.DisplayName(), NameWidth-2), NameWidth))
			for ci, cell := range r.Cells {
				focused := opts.Cursor != nil && opts.Cursor.Row == row && opts.Cursor.Col == ci
				b.WriteString(renderCell(cell, opts.Selected[cell.Ref], focused) + " ")
			}
			emit(b.String(), row)
			row++
		}
	}
	if row == 0 {
		emit(Dim("No agents to display."), -1)
	}
	return GridView{Text: strings.Join(lines, "\n"), RowLines: rowLines}
}

// CellGlyph abbreviates a code to the two cells a grid column shows.
func CellGlyph(code string) string {
	switch domain.NormalizeCode(code) {
	case "ASTH":
		return "AH"
	case "ASTS":
		return "AS"
	case "PREV":
		return "PV"
	}
	return PadRight(firstRunes(strings.ToUpper(code), 2), 2)
}

func renderCell(c grid.Cell, selected, focused bool) string {
	var out string
	switch c.Kind {
	case grid.CellStatus, grid.CellHoliday:
		glyph := []rune(CellGlyph(c.Code))
		if c.Status.Split() {
			out = FillStyle(c.Status.Color).Render(string(glyph[0])) +
				FillStyle(c.Status.SplitColor).Render(string(glyph[1]))
		} else {
			out = FillStyle(c.Status.Color).Render(string(glyph))
		}
	case grid.CellUnknown:
		out = StyleFg.Render(CellGlyph(c.Code))
	case grid.CellWeekend:
		out = StyleDim.Render("░░")
	default:
		out = StyleDim.Render(" ·")
	}
	switch {
	case focused:
		return lipgloss.NewStyle().Background(ColorYellow).Foreground(lipgloss.Color("#282828")).Render(CellGlyph(c.Code))
	case selected:
		return lipgloss.NewStyle().Reverse(true).Render(CellGlyph(c.Code))
	}
	return out
}

// FormatLegend lists every status with its tag and label.
func FormatLegend() string {
	parts := make([]string, 0, len(domain.Statuses()))
	for _, s := range domain.Statuses() {
		parts = append(parts, StatusTag(string(s.Code))+" "+s.Label)
	}
	return strings.Join(parts, "  ")
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
