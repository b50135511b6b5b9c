// Package planning holds the grid selection state machine and the planning
// editor with its bounded undo history.
package planning

// CellRef identifies a planning cell by agent matricule and ISO date.
type CellRef struct {
	AgentID string
	Date    string
}

// Pos is a row/column position in the rendered grid. Rows count agent rows
// only, columns count day columns only.
type Pos struct {
	Row int
	Col int
}

// Layout resolves grid positions to cells. ok is false for group header
// rows, out-of-range positions and out-of-month cells.
type Layout interface {
	CellAt(p Pos) (CellRef, bool)
}

// Rect returns every valid cell in the rectangle spanned by a and b,
// row-major. Validity is decided by the layout, not by date arithmetic, so
// filtered or reordered rows select what is displayed.
func Rect(layout Layout, a, b Pos) []CellRef {
	minR, maxR := min(a.Row, b.Row), max(a.Row, b.Row)
	minC, maxC := min(a.Col, b.Col), max(a.Col, b.Col)

	var out []CellRef
	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			if ref, ok := layout.CellAt(Pos{Row: r, Col: c}); ok {
				out = append(out, ref)
			}
		}
	}
	return out
}
