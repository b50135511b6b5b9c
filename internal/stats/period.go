package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/domain"
)

// DailyRate is the presence of the agents in scope on one day. Total counts
// agents with a recorded code that day.
type DailyRate struct {
	Date    time.Time
	Present int
	Total   int
	Rate    float64
}

// DailyRates computes one entry per day in [from, to] that has at least one
// recorded code. Rates are percentages rounded to two decimals.
func DailyRates(doc domain.PlanningDocument, ids []string, from, to time.Time) []DailyRate {
	var out []DailyRate
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := calendar.ISO(d)
		yp := doc[d.Year()]
		var r DailyRate
		for _, id := range ids {
			code, ok := yp[id][key]
			if !ok {
				continue
			}
			r.Total++
			if isPresent(code) {
				r.Present++
			}
		}
		if r.Total == 0 {
			continue
		}
		r.Date = d
		r.Rate = round(float64(r.Present)/float64(r.Total)*100, 2)
		out = append(out, r)
	}
	return out
}

// Period is an aggregation step.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod accepts week, month or year.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (want week, month or year)", s)
}

// PeriodRate is the mean daily rate of one bucket.
type PeriodRate struct {
	Key  string
	Rate float64
	Days int
}

// AggregateByPeriod averages daily rates per ISO week (2025-W02), month
// (2025-01) or year (2025), ordered by key. Unknown periods bucket by week.
func AggregateByPeriod(rates []DailyRate, period Period) []PeriodRate {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := map[string]*bucket{}
	for _, r := range rates {
		key := periodKey(r.Date, period)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += r.Rate
		b.count++
	}

	out := make([]PeriodRate, 0, len(buckets))
	for key, b := range buckets {
		out = append(out, PeriodRate{Key: key, Rate: round(b.sum/float64(b.count), 2), Days: b.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func periodKey(d time.Time, period Period) string {
	switch period {
	case PeriodMonth:
		return d.Format("2006-01")
	case PeriodYear:
		return d.Format("2006")
	default:
		y, w := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	}
}
