package grid

import (
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/st8/internal/domain"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const cssStyles = `
body { font-family: system-ui, sans-serif; margin: 1rem; color: #0f172a; }
.table-wrap { overflow-x: auto; }
table.planning { border-collapse: collapse; font-size: 12px; }
table.planning th, table.planning td { border: 1px solid #e2e8f0; padding: 2px 4px; text-align: center; min-width: 24px; }
th.agent { text-align: left; white-space: nowrap; }
th.agent .id { color: #64748b; margin-left: 6px; }
tr.group-row th { text-align: left; font-weight: 700; }
td.weekend { background: #f1f5f9; color: #94a3b8; }
td.holiday { background: #fee2e2; color: #b91c1c; font-weight: 700; }
td.unknown { font-style: italic; }
.day-label.weekend { color: #94a3b8; }
.cap { display: inline-block; border-radius: 4px; padding: 0 3px; margin-left: 3px; font-size: 10px; background: #e0e7ff; }
.legend span { display: inline-block; margin-right: 8px; padding: 1px 6px; border-radius: 4px; color: #fff; }
`

// RenderHTML writes a standalone read-only HTML page for the grid.
func RenderHTML(w io.Writer, grid *Grid) error {
	return Page(grid).Render(w)
}

// Page is the full HTML document of a grid.
func Page(grid *Grid) g.Node {
	return h.Doctype(
		h.HTML(h.Lang("fr"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.TitleEl(g.Text("Planning ST8 - "+grid.Title)),
				h.StyleEl(g.Raw(cssStyles)),
			),
			h.Body(
				h.H1(g.Text(grid.Title)),
				Legend(),
				Table(grid),
			),
		),
	)
}

// Legend lists the status taxonomy with its colors.
func Legend() g.Node {
	var items []g.Node
	for _, s := range domain.Statuses() {
		items = append(items, h.Span(
			h.Style("background:"+s.Color),
			g.Attr("title", s.Label),
			g.Text(string(s.Code)),
		))
	}
	return h.P(h.Class("legend"), g.Group(items))
}

// Table renders the grid as an HTML table.
func Table(grid *Grid) g.Node {
	headerCells := []g.Node{h.Th(h.Class("agent"), g.Text("Agent"))}
	for _, col := range grid.Columns {
		labelClass := "day-label"
		if col.Weekend {
			labelClass += " weekend"
		}
		headerCells = append(headerCells, h.Th(
			h.Span(h.Class(labelClass), g.Text(col.Weekday)),
			h.Br(),
			h.Span(h.Class("day-number"), g.Text(strconv.Itoa(col.Day))),
		))
	}

	var rows []g.Node
	for _, sec := range grid.Sections {
		rows = append(rows, groupRow(sec, len(grid.Columns)+1))
		for _, row := range sec.Rows {
			rows = append(rows, agentRow(sec, row))
		}
	}

	return h.Div(h.Class("table-wrap"),
		h.Table(h.Class("planning"),
			h.THead(h.Tr(headerCells...)),
			h.TBody(rows...),
		),
	)
}

func groupRow(sec Section, span int) g.Node {
	color := domain.FirstNonEmpty(sec.Meta.Color, "#4B5563")
	return h.Tr(h.Class("group-row"),
		h.Th(
			g.Attr("colspan", strconv.Itoa(span)),
			h.Style("background:"+color+";color:"+domain.ReadableTextColor(color)),
			g.Text(domain.FirstNonEmpty(sec.Group, "Sans groupe")),
		),
	)
}

func agentRow(sec Section, row Row) g.Node {
	tint := domain.Lighten(domain.FirstNonEmpty(sec.Meta.Color, "#4B5563"), 0.82)
	nameCell := []g.Node{
		h.Class("agent"),
		h.Style("background:" + tint + ";color:" + domain.ReadableTextColor(tint)),
		g.Text(row.Agent.DisplayName()),
	}
	if row.Agent.ID != "" {
		nameCell = append(nameCell, h.Span(h.Class("id"), g.Text("("+row.Agent.ID+")")))
	}
	for _, b := range row.Badges {
		nameCell = append(nameCell, badge(b))
	}

	cells := []g.Node{h.Th(nameCell...)}
	for _, c := range row.Cells {
		cells = append(cells, dayCell(c))
	}
	return h.Tr(cells...)
}

func badge(b domain.Badge) g.Node {
	return h.Span(h.Class("cap "+string(b.Kind)), g.Attr("title", b.Title), g.Text(b.Label))
}

func dayCell(c Cell) g.Node {
	classes := []string{"day"}
	attrs := []g.Node{
		g.Attr("data-agent", c.Ref.AgentID),
		g.Attr("data-date", c.Ref.Date),
		g.Attr("title", c.Title),
	}
	switch c.Kind {
	case CellStatus:
		attrs = append(attrs, h.Style(statusStyle(c.Status)))
	case CellHoliday:
		classes = append(classes, "holiday")
	case CellWeekend:
		classes = append(classes, "weekend")
	case CellUnknown:
		classes = append(classes, "unknown")
	default:
		classes = append(classes, "empty")
	}
	attrs = append(attrs, h.Class(strings.Join(classes, " ")), g.Text(c.Code))
	return h.Td(attrs...)
}

func statusStyle(s domain.StatusDef) string {
	if s.Split() {
		return "background:linear-gradient(90deg," + s.Color + " 50%," + s.SplitColor + " 50%);color:#ffffff;font-weight:700"
	}
	return "background:" + s.Color + ";color:" + domain.ReadableTextColor(s.Color) + ";font-weight:700"
}
