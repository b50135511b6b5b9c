package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/roster"
	"github.com/alexanderramin/st8/internal/service"
)

// FormatAgentList renders the roster as a table, one line per agent.
func FormatAgentList(entries []roster.Entry) string {
	headers := []string{"GROUP", "MATRICULE", "NAME", "GRADE", "CAPABILITIES"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Group,
			e.Agent.ID,
			Bold(e.Agent.DisplayName()),
			e.Agent.Grade,
			BadgeList(domain.CapabilityBadges(e.Agent)),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")
	b.WriteString(Dim(Plural(len(entries), "agent")))
	return b.String()
}

// FormatAgent renders one agent card.
func FormatAgent(a domain.Agent, group string) string {
	var lines []string
	field := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, Dim(PadRight(label, 16))+value)
	}
	field("Matricule", a.ID)
	field("Group", group)
	field("Grade", a.Grade)
	field("Birth", a.Birth)
	field("Licenses", strings.Join(a.Licenses, ", "))
	field("CACES", strings.Join(a.Certifications, ", "))
	field("Skills", strings.Join(a.Skills, ", "))
	if badges := domain.CapabilityBadges(a); len(badges) > 0 {
		field("Capabilities", BadgeList(badges))
	}
	field("Notes", a.Notes)
	return RenderBox(a.DisplayName(), strings.Join(lines, "\n"))
}

// FormatGroupList renders groups in display order with their color and
// head count.
func FormatGroupList(groups []service.GroupInfo) string {
	headers := []string{"#", "GROUP", "COLOR", "AGENTS"}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			strconv.Itoa(g.Meta.Order),
			GroupName(g.Name, g.Meta),
			Swatch(g.Meta.Color),
			strconv.Itoa(g.Agents),
		})
	}
	return RenderTable(headers, rows)
}

// Plural formats a count with its noun.
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
