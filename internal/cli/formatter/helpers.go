package formatter

import (
	"strings"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// BadgeList joins capability badges as "Permis CE, Engins (C1, R.490)".
// An agent without badges yields "-".
func BadgeList(badges []domain.Badge) string {
	if len(badges) == 0 {
		return "-"
	}
	parts := make([]string, len(badges))
	for i, b := range badges {
		parts[i] = b.Label
		if len(b.Codes) > 0 {
			parts[i] += " (" + strings.Join(b.Codes, ", ") + ")"
		}
	}
	return strings.Join(parts, ", ")
}

// Truncate shortens s to width cells, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to width visible cells.
func PadRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
