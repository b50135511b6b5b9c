package calendar

import "time"

var weekdayShort = [...]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

var monthNames = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

var monthShort = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// WeekdayShort returns the French three letter weekday, e.g. "Lun".
func WeekdayShort(t time.Time) string {
	return weekdayShort[t.Weekday()]
}

// MonthName returns the French name of a 1-based month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// LongDate formats t as "Lun 06 janv. 2025".
func LongDate(t time.Time) string {
	return WeekdayShort(t) + " " + t.Format("02") + " " + monthShort[t.Month()-1] + " " + t.Format("2006")
}
