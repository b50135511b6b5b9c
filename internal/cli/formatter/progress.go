package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/st8/internal/stats"
	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderRate renders a presence rate (0-100) as a bar like [████░░░░] 45.0%,
// colored with the chart grading of the rate.
func RenderRate(rate float64, width int) string {
	return fmt.Sprintf("[%s] %5.1f%%", RenderCompactBar(rate, width), clampRate(rate))
}

// RenderCompactBar renders only the bar, without brackets or percentage.
func RenderCompactBar(rate float64, width int) string {
	rate = clampRate(rate)
	if width < 2 {
		width = 2
	}
	filled := min(int(rate/100*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(stats.RateColor(rate))).Render(bar)
}

func clampRate(rate float64) float64 {
	return min(100, max(0, rate))
}
