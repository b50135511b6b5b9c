package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/alexanderramin/st8/internal/domain"
)

// PickerWidth is the outer width of the status picker box.
const PickerWidth = 30

// PickerOption is one entry of the status picker. An empty Code clears.
type PickerOption struct {
	Code  string
	Label string
}

// PickerOptions lists the taxonomy followed by the clear entry.
func PickerOptions() []PickerOption {
	statuses := domain.Statuses()
	out := make([]PickerOption, 0, len(statuses)+1)
	for _, s := range statuses {
		out = append(out, PickerOption{Code: string(s.Code), Label: s.Label})
	}
	return append(out, PickerOption{Label: "Effacer"})
}

// PickerHeight is the outer height of a picker listing n options.
func PickerHeight(n int) int { return n + 2 }

var pickerBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorHeader).
	Width(PickerWidth - 2)

// RenderPicker draws the option list with the cursor entry highlighted.
func RenderPicker(options []PickerOption, cursor int) string {
	lines := make([]string, len(options))
	for i, o := range options {
		marker := "  "
		if i == cursor {
			marker = StyleHeader.Render("› ")
		}
		tag := StyleDim.Render(PadRight("", 7))
		if o.Code != "" {
			tag = StatusTag(o.Code) + strings.Repeat(" ", max(0, 7-lipgloss.Width(StatusTag(o.Code))))
		}
		label := Truncate(o.Label, PickerWidth-2-2-7-1)
		if i == cursor {
			label = StyleBold.Render(label)
		}
		lines[i] = marker + tag + " " + label
	}
	return pickerBox.Render(strings.Join(lines, "\n"))
}

// Overlay draws box over base with its top-left corner at column x of
// line y. Styled text on both sides of the box is preserved.
func Overlay(base, box string, x, y int) string {
	lines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	for len(lines) < y+len(boxLines) {
		lines = append(lines, "")
	}
	for i, bl := range boxLines {
		line := lines[y+i]
		left := ansi.Truncate(line, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(bl), "")
		lines[y+i] = left + bl + right
	}
	return strings.Join(lines, "\n")
}
