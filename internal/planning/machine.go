package planning

// Mode is the selection controller state.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Editing
)

func (m Mode) String() string {
	switch m {
	case Dragging:
		return "dragging"
	case Editing:
		return "editing"
	default:
		return "idle"
	}
}

// EventKind enumerates the inputs of the selection controller.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	// Click is a press and release on one cell without movement.
	Click
	// Pick chooses a status from the open picker. An empty code clears.
	Pick
	Cancel
)

// Event is one input to Transition.
type Event struct {
	Kind EventKind
	Pos  Pos
	At   Point
	Code string
}

// State is the controller state. It is a value; Transition never mutates
// its input.
type State struct {
	Mode      Mode
	Anchor    Pos
	Selection []CellRef
	Picker    Point
}

// EffectKind enumerates side effects requested by a transition.
type EffectKind int

const (
	OpenPicker EffectKind = iota
	ClosePicker
	ApplyStatus
)

// Effect is a side effect for the caller to perform.
type Effect struct {
	Kind  EffectKind
	At    Point
	Cells []CellRef
	Code  string
}

// Machine binds the pure transition function to a layout and viewport.
type Machine struct {
	Layout   Layout
	Viewport Viewport
	Geometry PickerGeometry
}

// NewMachine returns a machine using the default picker geometry.
func NewMachine(layout Layout, vp Viewport) Machine {
	return Machine{Layout: layout, Viewport: vp, Geometry: DefaultPickerGeometry}
}

// Transition computes the next state and the effects of ev.
func (m Machine) Transition(s State, ev Event) (State, []Effect) {
	switch ev.Kind {
	case PointerDown:
		ref, ok := m.Layout.CellAt(ev.Pos)
		if !ok {
			return s, nil
		}
		var effects []Effect
		if s.Mode == Editing {
			effects = append(effects, Effect{Kind: ClosePicker})
		}
		return State{Mode: Dragging, Anchor: ev.Pos, Selection: []CellRef{ref}}, effects

	case PointerMove:
		if s.Mode != Dragging {
			return s, nil
		}
		if _, ok := m.Layout.CellAt(ev.Pos); !ok {
			return s, nil
		}
		next := s
		next.Selection = Rect(m.Layout, s.Anchor, ev.Pos)
		return next, nil

	case PointerUp:
		if s.Mode != Dragging {
			return s, nil
		}
		if len(s.Selection) == 0 {
			return State{Mode: Idle}, nil
		}
		return m.openPicker(s.Anchor, s.Selection, ev.At)

	case Click:
		ref, ok := m.Layout.CellAt(ev.Pos)
		if !ok {
			return s, nil
		}
		return m.openPicker(ev.Pos, []CellRef{ref}, ev.At)

	case Pick:
		if s.Mode != Editing || len(s.Selection) == 0 {
			return s, nil
		}
		cells := append([]CellRef(nil), s.Selection...)
		return State{Mode: Idle}, []Effect{
			{Kind: ApplyStatus, Cells: cells, Code: ev.Code},
			{Kind: ClosePicker},
		}

	case Cancel:
		var effects []Effect
		if s.Mode == Editing {
			effects = append(effects, Effect{Kind: ClosePicker})
		}
		return State{Mode: Idle}, effects
	}
	return s, nil
}

func (m Machine) openPicker(anchor Pos, sel []CellRef, at Point) (State, []Effect) {
	pos := PlacePicker(at, m.Viewport, m.Geometry)
	next := State{Mode: Editing, Anchor: anchor, Selection: sel, Picker: pos}
	return next, []Effect{{Kind: OpenPicker, At: pos}}
}
