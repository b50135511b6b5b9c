package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/roster"
	"github.com/alexanderramin/st8/internal/service"
	"github.com/alexanderramin/st8/internal/stats"
)

const (
	rateBarWidth   = 20
	seriesBarWidth = 12
)

// FormatMonthStats renders the presence summary of a month: the headline
// rate, the status breakdown and the twelve monthly rates of the year.
func FormatMonthStats(ms *service.MonthStats) string {
	var b strings.Builder

	scope := ms.Group
	if scope == "" || scope == roster.AllGroups {
		scope = "all groups"
	}
	b.WriteString(Header(calendar.MonthName(ms.Month) + " " + strconv.Itoa(ms.Year)))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%s, %s", scope, Plural(ms.Agents, "agent"))))
	b.WriteString("\n\n")
	b.WriteString("Presence  " + RenderRate(ms.Rate, rateBarWidth))
	b.WriteString("\n\n")

	if len(ms.Breakdown) == 0 {
		b.WriteString(Dim("No codes recorded."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(ms.Breakdown))
		for _, c := range ms.Breakdown {
			label := "-"
			if c.Known {
				label = c.Status.Label
			}
			rows = append(rows, []string{StatusTag(c.Code), label, strconv.Itoa(c.Count)})
		}
		b.WriteString(RenderTable([]string{"CODE", "STATUS", "DAYS"}, rows))
	}

	b.WriteString("\n")
	rows := make([][]string, 0, len(ms.Series))
	for i, rate := range ms.Series {
		marker := " "
		if i+1 == ms.Month {
			marker = StyleYellow.Render("›")
		}
		rows = append(rows, []string{marker + calendar.MonthName(i+1), RenderRate(rate, seriesBarWidth)})
	}
	b.WriteString(RenderTable([]string{" MONTH", "PRESENCE"}, rows))
	return b.String()
}

// FormatPeriodRates renders aggregated daily rates, one line per bucket.
func FormatPeriodRates(period stats.Period, rates []stats.PeriodRate) string {
	if len(rates) == 0 {
		return Dim("No days in range.")
	}
	rows := make([][]string, 0, len(rates))
	for _, r := range rates {
		rows = append(rows, []string{r.Key, RenderRate(r.Rate, rateBarWidth), strconv.Itoa(r.Days)})
	}
	return RenderTable([]string{strings.ToUpper(string(period)), "PRESENCE", "DAYS"}, rows)
}
