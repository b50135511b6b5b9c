package planning

// Point is a pointer or overlay position in page coordinates.
type Point struct {
	X int
	Y int
}

// Viewport describes the visible page area.
type Viewport struct {
	Width   int
	Height  int
	ScrollX int
	ScrollY int
}

// PickerGeometry sizes the status picker overlay and its pointer offset.
type PickerGeometry struct {
	Width   int
	Height  int
	OffsetX int
	OffsetY int
	Margin  int
}

// DefaultPickerGeometry matches the web picker: 320x260 placed 15px right
// of and 10px above the pointer.
var DefaultPickerGeometry = PickerGeometry{
	Width:   320,
	Height:  260,
	OffsetX: 15,
	OffsetY: -10,
	Margin:  10,
}

// PlacePicker positions the picker near the pointer. It flips to the left
// or above the pointer when it would overflow the viewport and never goes
// past the top-left margin.
func PlacePicker(at Point, vp Viewport, g PickerGeometry) Point {
	x := at.X + g.OffsetX
	y := at.Y + g.OffsetY
	if x+g.Width > vp.Width+vp.ScrollX {
		x = at.X - (g.Width + g.OffsetX)
	}
	if y+g.Height > vp.Height+vp.ScrollY {
		y = at.Y - (g.Height - g.OffsetY)
	}
	x = max(x, vp.ScrollX+g.Margin)
	y = max(y, vp.ScrollY+g.Margin)
	return Point{X: x, Y: y}
}
