package calendar

import (
	"sort"
	"sync"
	"time"
)

// Easter returns Easter Sunday of the Gregorian year.
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return Date(year, month, day)
}

// Holiday is a named public holiday.
type Holiday struct {
	Date time.Time
	Name string
}

var fixedHolidays = []struct {
	month, day int
	name       string
}{
	{1, 1, "Jour de l'an"},
	{5, 1, "Fête du Travail"},
	{5, 8, "Victoire 1945"},
	{7, 14, "Fête nationale"},
	{8, 15, "Assomption"},
	{11, 1, "Toussaint"},
	{11, 11, "Armistice"},
	{12, 25, "Noël"},
}

var movableHolidays = []struct {
	offset int
	name   string
}{
	{1, "Lundi de Pâques"},
	{39, "Ascension"},
	{50, "Lundi de Pentecôte"},
}

// Holidays lists the French public holidays of year in date order.
func Holidays(year int) []Holiday {
	easter := Easter(year)
	out := make([]Holiday, 0, len(fixedHolidays)+len(movableHolidays))
	for _, h := range fixedHolidays {
		out = append(out, Holiday{Date: Date(year, h.month, h.day), Name: h.name})
	}
	for _, h := range movableHolidays {
		out = append(out, Holiday{Date: easter.AddDate(0, 0, h.offset), Name: h.name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

var (
	holidayMu    sync.Mutex
	holidayCache = map[int]map[string]bool{}
)

// HolidaySet returns the ISO keys of year's holidays. A movable holiday that
// lands on a fixed one shares its key, so some years have 10 keys. Results
// are memoized per year; callers must not modify the returned map.
func HolidaySet(year int) map[string]bool {
	holidayMu.Lock()
	defer holidayMu.Unlock()
	if set, ok := holidayCache[year]; ok {
		return set
	}
	set := make(map[string]bool, len(fixedHolidays)+len(movableHolidays))
	for _, h := range Holidays(year) {
		set[ISO(h.Date)] = true
	}
	holidayCache[year] = set
	return set
}

// IsHoliday reports whether t is a French public holiday.
func IsHoliday(t time.Time) bool {
	return HolidaySet(t.Year())[ISO(t)]
}

// IsHolidayDate is IsHoliday for a 1-based month.
func IsHolidayDate(year, month, day int) bool {
	return HolidaySet(year)[ISODate(year, month, day)]
}

// HolidayName returns the holiday name for t, or "".
func HolidayName(t time.Time) string {
	key := ISO(t)
	for _, h := range Holidays(t.Year()) {
		if ISO(h.Date) == key {
			return h.Name
		}
	}
	return ""
}
