package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/roster"
)

// monthValue is a YYYY-MM flag. The zero value means "not set".
type monthValue struct {
	Year  int
	Month int
}

var _ pflag.Value = (*monthValue)(nil)

func (m *monthValue) String() string {
	if m.Month == 0 {
		return ""
	}
	return calendar.FormatMonth(m.Year, m.Month)
}

func (m *monthValue) Set(s string) error {
	y, mo, err := calendar.ParseMonth(s)
	if err != nil {
		return err
	}
	m.Year, m.Month = y, mo
	return nil
}

func (m *monthValue) Type() string { return "YYYY-MM" }

// orNow returns the flag value, or the month of now when unset.
func (m *monthValue) orNow(now time.Time) (int, int) {
	if m.Month == 0 {
		return now.Year(), int(now.Month())
	}
	return m.Year, m.Month
}

// dateValue is a YYYY-MM-DD flag.
type dateValue struct {
	t time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	if d.t.IsZero() {
		return ""
	}
	return calendar.ISO(d.t)
}

func (d *dateValue) Set(s string) error {
	t, err := calendar.ParseISO(s)
	if err != nil {
		return err
	}
	d.t = t
	return nil
}

func (d *dateValue) Type() string { return "YYYY-MM-DD" }

func (d *dateValue) isSet() bool { return !d.t.IsZero() }

// queryFlags are the roster filters shared by grid, plan and agent commands.
type queryFlags struct {
	group  string
	search string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.group, "group", "g", "", "Only this group")
	cmd.Flags().StringVarP(&q.search, "search", "s", "", "Free-text filter on name, matricule or group")
}

func (q *queryFlags) query(scope roster.Scope) roster.Query {
	group := strings.TrimSpace(q.group)
	if group == "" {
		group = roster.AllGroups
	}
	return roster.Query{Group: group, Text: q.search, Scope: scope}
}

// splitCSV reads repeatable comma-separated flag values.
func splitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
