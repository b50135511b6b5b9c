// Package stats aggregates presence rates and status counts from the
// planning document.
package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/roster"
)

// monthSpan is the number of day keys probed per month. Keys past the end
// of a short month are never stored, so probing 31 is harmless.
const monthSpan = 31

// ScopeIDs lists the matricules of group, or of every agent when group is
// roster.AllGroups or empty.
func ScopeIDs(r domain.Roster, group string) []string {
	if group == "" || group == roster.AllGroups {
		var ids []string
		for _, g := range r.Groups() {
			for _, a := range r[g] {
				ids = append(ids, a.ID)
			}
		}
		return ids
	}
	ids := make([]string, 0, len(r[group]))
	for _, a := range r[group] {
		ids = append(ids, a.ID)
	}
	return ids
}

// PresenceRate is the share of recorded days carrying the present code, as a
// percentage rounded to one decimal. Days without a stored code are ignored;
// the rate is 0 when nothing is recorded.
func PresenceRate(doc domain.PlanningDocument, ids []string, year, month int) float64 {
	present, total := 0, 0
	yp := doc[year]
	for _, id := range ids {
		plan := yp[id]
		if len(plan) == 0 {
			continue
		}
		for d := 1; d <= monthSpan; d++ {
			code, ok := plan[calendar.ISODate(year, month, d)]
			if !ok {
				continue
			}
			total++
			if isPresent(code) {
				present++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return round(float64(present)/float64(total)*100, 1)
}

// YearSeries returns PresenceRate for each month, January first.
func YearSeries(doc domain.PlanningDocument, ids []string, year int) []float64 {
	out := make([]float64, 12)
	for m := 1; m <= 12; m++ {
		out[m-1] = PresenceRate(doc, ids, year, m)
	}
	return out
}

// Counters tallies stored codes for the month, keyed by upper-cased code.
func Counters(doc domain.PlanningDocument, ids []string, year, month int) map[string]int {
	counts := map[string]int{}
	yp := doc[year]
	for _, id := range ids {
		plan := yp[id]
		for d := 1; d <= monthSpan; d++ {
			code := strings.ToUpper(strings.TrimSpace(plan[calendar.ISODate(year, month, d)]))
			if code == "" {
				continue
			}
			counts[code]++
		}
	}
	return counts
}

// CodeCount is one slice of the status breakdown.
type CodeCount struct {
	Code   string
	Count  int
	Status domain.StatusDef
	Known  bool
}

// Breakdown orders counts by descending count, then by code.
func Breakdown(counts map[string]int) []CodeCount {
	out := make([]CodeCount, 0, len(counts))
	for code, n := range counts {
		s, ok := domain.LookupStatus(code)
		out = append(out, CodeCount{Code: code, Count: n, Status: s, Known: ok})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// RateColor grades a presence rate for charts: green from 90, yellow from
// 60, orange from 50, red below.
func RateColor(rate float64) string {
	switch {
	case rate >= 90:
		return "#22c55e"
	case rate >= 60:
		return "#eab308"
	case rate >= 50:
		return "#f97316"
	default:
		return "#ef4444"
	}
}

func isPresent(code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), string(domain.StatusPresent))
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
