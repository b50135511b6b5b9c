package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/grid"
	"github.com/alexanderramin/st8/internal/planning"
	"github.com/alexanderramin/st8/internal/roster"
)

func sampleGrid() *grid.Grid {
	r := domain.Roster{
		"ENCADRANTS": {{ID: "C003285", Name: "FOURCADE Hervé", Grade: "TECH"}},
		"AGENTS VOIRIE ST 8": {
			{ID: "T028198", Name: "GOUREAU Jonathan"},
			{ID: "C002908", Name: "FONTENEAU Fabrice"},
		},
	}
	meta := map[string]domain.GroupMeta{}
	domain.EnsureGroupMeta(r, meta)
	doc := domain.PlanningDocument{2025: {
		"C002908": {"2025-01-01": "P", "2025-01-02": "AST-H"},
	}}
	return grid.BuildMonth(2025, 1, grid.Input{
		Entries:   roster.Filter(r, meta, roster.Query{}),
		Planning:  doc,
		GroupMeta: meta,
	})
}

func TestRenderGrid_RowLines(t *testing.T) {
	view := RenderGrid(sampleGrid(), GridOptions{})

	assert.Equal(t, []int{-1, -1, -1, 0, 1, -1, 2}, view.RowLines)
	lines := strings.Split(stripANSI(view.Text), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], strings.Repeat(" ", NameWidth)+" 1 "))
	assert.Contains(t, lines[1], "Me ")
	assert.True(t, strings.HasPrefix(lines[2], "AGENTS VOIRIE ST 8 (2)"))
	assert.True(t, strings.HasPrefix(lines[3], "FONTENEAU Fabrice"))
	assert.Equal(t, "P  AH ", lines[3][NameWidth:NameWidth+6])
	// The unset holiday on 1 January renders as JF.
	assert.Equal(t, "JF", lines[4][NameWidth:NameWidth+2])
}

func TestGridView_PosAt(t *testing.T) {
	view := RenderGrid(sampleGrid(), GridOptions{})

	pos, ok := view.PosAt(3, NameWidth)
	require.True(t, ok)
	assert.Equal(t, planning.Pos{Row: 0, Col: 0}, pos)

	pos, ok = view.PosAt(6, NameWidth+CellWidth*4+1)
	require.True(t, ok)
	assert.Equal(t, planning.Pos{Row: 2, Col: 4}, pos)

	_, ok = view.PosAt(2, NameWidth+1)
	assert.False(t, ok, "group line")
	_, ok = view.PosAt(3, NameWidth-1)
	assert.False(t, ok, "name column")
	_, ok = view.PosAt(42, NameWidth)
	assert.False(t, ok)
}

func TestRenderGrid_SelectionAndCursor(t *testing.T) {
	g := sampleGrid()
	ref, _ := g.CellAt(planning.Pos{Row: 0, Col: 1})
	view := RenderGrid(g, GridOptions{
		Cursor:   &planning.Pos{Row: 2, Col: 0},
		Selected: map[planning.CellRef]bool{ref: true},
	})
	lines := strings.Split(stripANSI(view.Text), "\n")
	assert.Equal(t, "AH", lines[3][NameWidth+CellWidth:NameWidth+CellWidth+2])
	assert.Equal(t, "JF", cellText(lines[6], 0))
}

// cellText returns the two visible cells of day column col on a row line.
func cellText(line string, col int) string {
	r := []rune(line)
	start := NameWidth + col*CellWidth
	return string(r[start : start+2])
}

func TestRenderGrid_Empty(t *testing.T) {
	g := grid.BuildMonth(2025, 2, grid.Input{})
	view := RenderGrid(g, GridOptions{})
	assert.Contains(t, stripANSI(view.Text), "No agents to display.")
}

func TestCellGlyph(t *testing.T) {
	assert.Equal(t, "AH", CellGlyph("AST-H"))
	assert.Equal(t, "AS", CellGlyph("asts"))
	assert.Equal(t, "PV", CellGlyph("Prévisionnel"))
	assert.Equal(t, "P ", CellGlyph("P"))
	assert.Equal(t, "  ", CellGlyph(""))
}

func TestFormatLegend(t *testing.T) {
	legend := stripANSI(FormatLegend())
	assert.Contains(t, legend, " P  Présent")
	assert.Contains(t, legend, " JF  ")
}
