package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/cli/formatter"
	"github.com/alexanderramin/st8/internal/grid"
	"github.com/alexanderramin/st8/internal/planning"
	"github.com/alexanderramin/st8/internal/roster"
)

// Lines the planning view draws above and below the grid.
const (
	planningTitleLines  = 1
	planningFooterLines = 1
)

// pickerGeometry places the terminal picker two cells right of the pointer
// and one line above it.
var pickerGeometry = planning.PickerGeometry{
	Width:   formatter.PickerWidth,
	Height:  formatter.PickerHeight(len(formatter.PickerOptions())),
	OffsetX: 2,
	OffsetY: -1,
}

type gridLoadedMsg struct {
	grid *grid.Grid
	err  error
}

// planningEditedMsg reports the outcome of an edit to the planning.
type planningEditedMsg struct {
	message string
	err     error
}

type planningView struct {
	state *SharedState

	grid     *grid.Grid
	rendered formatter.GridView
	err      error

	sel         planning.State
	cursor      planning.Pos
	pickerIndex int
	options     []formatter.PickerOption

	// scroll is the first visible body line below the pinned day headers.
	scroll int

	search    textinput.Model
	searching bool

	message string
}

func newPlanningView(state *SharedState) *planningView {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "nom, matricule ou groupe"
	ti.CharLimit = 64

	return &planningView{
		state:   state,
		options: formatter.PickerOptions(),
		search:  ti,
	}
}

func (v *planningView) Init() tea.Cmd {
	return v.load()
}

func (v *planningView) load() tea.Cmd {
	app := v.state.App
	q := v.state.Query(roster.ScopePlanning)
	year, month, start := v.state.Year, v.state.Month, v.state.FortnightStart
	return func() tea.Msg {
		ctx := context.Background()
		var g *grid.Grid
		var err error
		if start.IsZero() {
			g, err = app.Planning.Month(ctx, year, month, q)
		} else {
			g, err = app.Planning.Fortnight(ctx, start, q)
		}
		return gridLoadedMsg{grid: g, err: err}
	}
}

func (v *planningView) machine() planning.Machine {
	return planning.Machine{
		Layout: v.grid,
		Viewport: planning.Viewport{
			Width:  v.state.Width,
			Height: v.state.ContentHeight(),
		},
		Geometry: pickerGeometry,
	}
}

// run feeds ev to the selection machine and performs its effects.
func (v *planningView) run(ev planning.Event) tea.Cmd {
	if v.grid == nil {
		return nil
	}
	next, effects := v.machine().Transition(v.sel, ev)
	v.sel = next

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff.Kind {
		case planning.OpenPicker:
			v.pickerIndex = 0
		case planning.ApplyStatus:
			cmds = append(cmds, v.apply(eff.Cells, eff.Code))
		}
	}
	return tea.Batch(cmds...)
}

func (v *planningView) apply(cells []planning.CellRef, code string) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		res, err := app.Planning.Apply(context.Background(), cells, code)
		label := code
		if label == "" {
			label = "Effacé"
		}
		return planningEditedMsg{message: label + ": " + resultLine(res), err: err}
	}
}

func (v *planningView) bulk(name string, fn func(ctx context.Context, y, m int, q roster.Query) (planning.Result, error)) tea.Cmd {
	y, m := v.state.Year, v.state.Month
	q := v.state.Query(roster.ScopePlanning)
	return func() tea.Msg {
		res, err := fn(context.Background(), y, m, q)
		return planningEditedMsg{message: name + ": " + resultLine(res), err: err}
	}
}

func (v *planningView) undo() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		ok, err := app.Planning.Undo(context.Background())
		if !ok && err == nil {
			return planningEditedMsg{message: "Rien à annuler"}
		}
		return planningEditedMsg{message: "Annulé", err: err}
	}
}

func (v *planningView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gridLoadedMsg:
		v.grid, v.err = msg.grid, msg.err
		v.sel = planning.State{}
		if v.grid != nil {
			v.rendered = formatter.RenderGrid(v.grid, formatter.GridOptions{})
			v.clampCursor()
		}
		return v, nil

	case planningEditedMsg:
		v.message, v.err = msg.message, msg.err
		return v, v.load()

	case refreshViewMsg:
		return v, v.load()

	case tea.WindowSizeMsg:
		v.ensureCursorVisible()
		return v, nil

	case tea.MouseMsg:
		return v, v.handleMouse(msg)

	case tea.KeyMsg:
		if v.searching {
			return v, v.handleSearchKey(msg)
		}
		if v.sel.Mode == planning.Editing {
			return v, v.handlePickerKey(msg)
		}
		return v, v.handleKey(msg)
	}

	if v.searching {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *planningView) handleKey(msg tea.KeyMsg) tea.Cmd {
	app := v.state.App

	switch msg.String() {
	case "up", "down", "left", "right":
		v.moveCursor(msg.String())
		if v.sel.Mode == planning.Dragging {
			return v.run(planning.Event{Kind: planning.PointerMove, Pos: v.cursor})
		}
		return nil

	case "v":
		if v.sel.Mode == planning.Dragging {
			return v.run(planning.Event{Kind: planning.PointerUp, At: v.cursorPoint()})
		}
		return v.run(planning.Event{Kind: planning.PointerDown, Pos: v.cursor})

	case "enter", " ":
		if v.sel.Mode == planning.Dragging {
			return v.run(planning.Event{Kind: planning.PointerUp, At: v.cursorPoint()})
		}
		return v.run(planning.Event{Kind: planning.Click, Pos: v.cursor, At: v.cursorPoint()})

	case "esc":
		return v.run(planning.Event{Kind: planning.Cancel})

	case "[", "]":
		delta := 1
		if msg.String() == "[" {
			delta = -1
		}
		if v.state.FortnightStart.IsZero() {
			v.state.ShiftMonth(delta)
		} else {
			v.state.ShiftFortnight(delta)
		}
		return v.load()

	case "t":
		now := app.now()
		v.state.Year, v.state.Month = now.Year(), int(now.Month())
		if !v.state.FortnightStart.IsZero() {
			v.state.FortnightStart = calendar.StartOfWeek(now)
		}
		return v.load()

	case "f":
		if v.state.FortnightStart.IsZero() {
			v.state.FortnightStart = calendar.StartOfWeek(v.cursorDate())
		} else {
			v.state.FortnightStart = time.Time{}
		}
		v.scroll = 0
		return v.load()

	case "u":
		return v.undo()

	case "p":
		return v.bulk("Tous présents", app.Planning.SetAllPresent)

	case "h":
		return v.bulk("Jours fériés", app.Planning.ApplyHolidays)

	case "g":
		choice := v.state.Group
		form := wizardSelectGroup(context.Background(), app, &choice)
		return startWizardCmd(v.state, "Groupe", form, func() tea.Cmd {
			v.state.Group = choice
			return nil
		})

	case "/":
		v.searching = true
		v.search.SetValue(v.state.Search)
		v.search.CursorEnd()
		return v.search.Focus()

	case "l":
		return showOutput(formatter.FormatLegend())

	case "a":
		return pushView(newAgentsView(v.state))

	case "s":
		return pushView(newStatsView(v.state))
	}
	return nil
}

func (v *planningView) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	n := len(v.options)
	switch s := msg.String(); s {
	case "up":
		v.pickerIndex = (v.pickerIndex - 1 + n) % n
	case "down":
		v.pickerIndex = (v.pickerIndex + 1) % n
	case "enter", " ":
		return v.pick(v.pickerIndex)
	case "x", "backspace", "delete":
		return v.pick(n - 1)
	case "esc":
		return v.run(planning.Event{Kind: planning.Cancel})
	default:
		if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			i := int(s[0]-'0') - 1
			if i < 0 {
				i = 9
			}
			if i < n {
				return v.pick(i)
			}
		}
	}
	return nil
}

func (v *planningView) pick(i int) tea.Cmd {
	return v.run(planning.Event{Kind: planning.Pick, Code: v.options[i].Code})
}

func (v *planningView) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		v.searching = false
		v.search.Blur()
		v.state.Search = strings.TrimSpace(v.search.Value())
		v.scroll = 0
		return v.load()
	case tea.KeyEsc:
		v.searching = false
		v.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	return cmd
}

// handleMouse maps pointer events to machine events. msg.Y is relative to
// the top of this view.
func (v *planningView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if v.grid == nil {
		return nil
	}
	at := planning.Point{X: msg.X, Y: msg.Y}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		v.scrollBy(-3)
		return nil
	case tea.MouseButtonWheelDown:
		v.scrollBy(3)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if v.sel.Mode == planning.Editing {
			if i, ok := v.pickerOptionAt(at); ok {
				return v.pick(i)
			}
		}
		pos, ok := v.posAt(msg.X, msg.Y)
		if !ok {
			if v.sel.Mode == planning.Editing {
				return v.run(planning.Event{Kind: planning.Cancel})
			}
			return nil
		}
		v.cursor = pos
		return v.run(planning.Event{Kind: planning.PointerDown, Pos: pos, At: at})

	case tea.MouseActionMotion:
		if v.sel.Mode != planning.Dragging {
			return nil
		}
		pos, ok := v.posAt(msg.X, msg.Y)
		if !ok {
			return nil
		}
		v.cursor = pos
		return v.run(planning.Event{Kind: planning.PointerMove, Pos: pos, At: at})

	case tea.MouseActionRelease:
		if v.sel.Mode != planning.Dragging {
			return nil
		}
		return v.run(planning.Event{Kind: planning.PointerUp, At: at})
	}
	return nil
}

func (v *planningView) pickerOptionAt(at planning.Point) (int, bool) {
	p := v.sel.Picker
	if at.X < p.X || at.X >= p.X+formatter.PickerWidth {
		return 0, false
	}
	i := at.Y - p.Y - 1
	if i < 0 || i >= len(v.options) {
		return 0, false
	}
	return i, true
}

// ── geometry ─────────────────────────────────────────────────────────────────

func (v *planningView) bodyHeight() int {
	return max(1, v.state.ContentHeight()-planningTitleLines-planningFooterLines-formatter.HeaderLines)
}

func (v *planningView) bodyLen() int {
	return max(0, len(v.rendered.RowLines)-formatter.HeaderLines)
}

// textLine maps a view line to a line of the rendered grid, or -1.
func (v *planningView) textLine(y int) int {
	k := y - planningTitleLines
	switch {
	case k < 0:
		return -1
	case k < formatter.HeaderLines:
		return k
	case k-formatter.HeaderLines >= v.bodyHeight():
		return -1
	}
	return k + v.scroll
}

// screenY is the inverse of textLine for visible lines.
func (v *planningView) screenY(line int) int {
	if line < formatter.HeaderLines {
		return planningTitleLines + line
	}
	return planningTitleLines + line - v.scroll
}

func (v *planningView) posAt(x, y int) (planning.Pos, bool) {
	line := v.textLine(y)
	if line < 0 {
		return planning.Pos{}, false
	}
	pos, ok := v.rendered.PosAt(line, x)
	if !ok {
		return planning.Pos{}, false
	}
	if _, ok := v.grid.CellAt(pos); !ok {
		return planning.Pos{}, false
	}
	return pos, true
}

func (v *planningView) lineOfRow(row int) int {
	for i, r := range v.rendered.RowLines {
		if r == row {
			return i
		}
	}
	return -1
}

func (v *planningView) cursorPoint() planning.Point {
	return planning.Point{
		X: formatter.NameWidth + v.cursor.Col*formatter.CellWidth,
		Y: v.screenY(v.lineOfRow(v.cursor.Row)),
	}
}

func (v *planningView) cursorDate() time.Time {
	if v.grid != nil && v.cursor.Col < len(v.grid.Columns) {
		return v.grid.Columns[v.cursor.Col].Date
	}
	return calendar.Date(v.state.Year, v.state.Month, 1)
}

func (v *planningView) moveCursor(dir string) {
	if v.grid == nil || v.grid.RowCount() == 0 {
		return
	}
	switch dir {
	case "up":
		v.cursor.Row--
	case "down":
		v.cursor.Row++
	case "left":
		v.cursor.Col--
	case "right":
		v.cursor.Col++
	}
	v.clampCursor()
}

func (v *planningView) clampCursor() {
	rows, cols := v.grid.RowCount(), len(v.grid.Columns)
	v.cursor.Row = min(max(v.cursor.Row, 0), max(rows-1, 0))
	v.cursor.Col = min(max(v.cursor.Col, 0), max(cols-1, 0))
	v.ensureCursorVisible()
}

func (v *planningView) ensureCursorVisible() {
	v.scrollBy(0)
	line := v.lineOfRow(v.cursor.Row)
	if line < 0 {
		return
	}
	b := line - formatter.HeaderLines
	if b < v.scroll {
		v.scroll = b
	}
	if b >= v.scroll+v.bodyHeight() {
		v.scroll = b - v.bodyHeight() + 1
	}
}

func (v *planningView) scrollBy(delta int) {
	v.scroll = min(max(v.scroll+delta, 0), max(0, v.bodyLen()-v.bodyHeight()))
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *planningView) View() string {
	if v.grid == nil {
		if v.err != nil {
			return formatter.StyleRed.Render("Error: " + v.err.Error())
		}
		return formatter.Dim("Loading...")
	}

	selected := make(map[planning.CellRef]bool, len(v.sel.Selection))
	for _, ref := range v.sel.Selection {
		selected[ref] = true
	}
	cursor := v.cursor
	gv := formatter.RenderGrid(v.grid, formatter.GridOptions{Cursor: &cursor, Selected: selected})
	lines := strings.Split(gv.Text, "\n")

	var out []string
	out = append(out, v.renderTitle())
	head := min(formatter.HeaderLines, len(lines))
	out = append(out, lines[:head]...)
	body := lines[head:]
	end := min(len(body), v.scroll+v.bodyHeight())
	if v.scroll < end {
		out = append(out, body[v.scroll:end]...)
	}
	for len(out) < planningTitleLines+formatter.HeaderLines+v.bodyHeight() {
		out = append(out, "")
	}
	out = append(out, v.renderFooter())

	text := strings.Join(out, "\n")
	if v.sel.Mode == planning.Editing {
		text = formatter.Overlay(text, formatter.RenderPicker(v.options, v.pickerIndex), v.sel.Picker.X, v.sel.Picker.Y)
	}
	return text
}

func (v *planningView) renderTitle() string {
	title := formatter.StyleHeader.Render(v.grid.Title)
	switch v.sel.Mode {
	case planning.Dragging:
		title += formatter.Dim(fmt.Sprintf("  sélection: %d cellules", len(v.sel.Selection)))
	case planning.Editing:
		title += formatter.Dim(fmt.Sprintf("  %d cellules à modifier", len(v.sel.Selection)))
	}
	if v.state.App.Planning.CanUndo() {
		title += formatter.Dim("  (u: annuler)")
	}
	return title
}

func (v *planningView) renderFooter() string {
	switch {
	case v.searching:
		return v.search.View()
	case v.err != nil:
		return formatter.StyleRed.Render("Error: " + v.err.Error())
	case v.message != "":
		return formatter.StyleGreen.Render(v.message)
	}
	if ref, ok := v.grid.CellAt(v.cursor); ok {
		if row, ok := v.grid.RowAt(v.cursor.Row); ok {
			return formatter.Dim(row.Agent.DisplayName() + " · " + ref.Date)
		}
	}
	return ""
}

func (v *planningView) ID() ViewID    { return ViewPlanning }
func (v *planningView) Title() string { return "Planning" }

func (v *planningView) capturingInput() bool {
	return v.searching || v.sel.Mode == planning.Editing
}

func (v *planningView) ShortHelp() []key.Binding {
	if v.sel.Mode == planning.Editing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "code")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/1-9", "apply")),
			key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "period")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fortnight")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "all present")),
		key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "holidays")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "agents")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
	}
}
