package domain

import "strings"

// StatusCode is a short attendance token stored for one agent on one day.
type StatusCode string

const (
	StatusPresent          StatusCode = "P"
	StatusWorkAccident     StatusCode = "AT"
	StatusLeave            StatusCode = "C"
	StatusWinterStandby    StatusCode = "AST-H"
	StatusSecurityStandby  StatusCode = "AST-S"
	StatusSickLeave        StatusCode = "AM"
	StatusTraining         StatusCode = "F"
	StatusGendarmerie      StatusCode = "RG"
	StatusExceptionalLeave StatusCode = "CE"
	StatusHalfLeave        StatusCode = "DC"
	StatusHoliday          StatusCode = "JF"
)

// StatusDef describes how a status code is labelled and colored.
// Colors are RGB hex; a split status carries a second color for its right half.
type StatusDef struct {
	Code       StatusCode
	Label      string
	Color      string
	SplitColor string
}

// Split reports whether the status is drawn as two half cells.
func (s StatusDef) Split() bool { return s.SplitColor != "" }

var statusDefs = []StatusDef{
	{Code: StatusPresent, Label: "Présent", Color: "#4B5563"},
	{Code: StatusWorkAccident, Label: "Accident travail", Color: "#B91C1C"},
	{Code: StatusLeave, Label: "Congé", Color: "#C2410C"},
	{Code: StatusWinterStandby, Label: "Astreinte Hivernale", Color: "#1D4ED8"},
	{Code: StatusSecurityStandby, Label: "Astreinte Sécurité", Color: "#6D28D9"},
	{Code: StatusSickLeave, Label: "Arrêt Maladie", Color: "#DC2626"},
	{Code: StatusTraining, Label: "Formation", Color: "#92400E"},
	{Code: StatusGendarmerie, Label: "Réserve Gendarmerie", Color: "#BE185D"},
	{Code: StatusExceptionalLeave, Label: "Congé Exceptionnel", Color: "#B45309"},
	{Code: StatusHalfLeave, Label: "Demi Congé", Color: "#1F2937", SplitColor: "#C2410C"},
	{Code: StatusHoliday, Label: "Jour férié", Color: "#B91C1C"},
}

// Normalized spellings produced by NormalizeCode that map onto a taxonomy entry.
var statusAliases = map[string]StatusCode{
	"ASTH": StatusWinterStandby,
	"ASTS": StatusSecurityStandby,
}

var statusIndex = func() map[string]StatusDef {
	idx := make(map[string]StatusDef, len(statusDefs)+len(statusAliases))
	for _, s := range statusDefs {
		idx[string(s.Code)] = s
	}
	for alias, code := range statusAliases {
		idx[alias] = idx[string(code)]
	}
	return idx
}()

// weekendAllowed lists the codes that may be written onto a Saturday or Sunday.
var weekendAllowed = map[string]bool{
	"":      true,
	"AST-H": true,
	"ASTH":  true,
	"AST-S": true,
	"ASTS":  true,
}

// Statuses returns the fixed taxonomy in display order.
func Statuses() []StatusDef {
	out := make([]StatusDef, len(statusDefs))
	copy(out, statusDefs)
	return out
}

// LookupStatus resolves a stored code to its definition, case-insensitively.
func LookupStatus(code string) (StatusDef, bool) {
	s, ok := statusIndex[strings.ToUpper(strings.TrimSpace(code))]
	return s, ok
}

// AllowedOnWeekend reports whether code may be written onto a weekend cell.
func AllowedOnWeekend(code string) bool {
	return weekendAllowed[strings.ToUpper(strings.TrimSpace(code))]
}

// IsStandby reports whether code is one of the standby-duty codes.
func IsStandby(code string) bool {
	k := strings.ToUpper(strings.TrimSpace(code))
	return k != "" && weekendAllowed[k]
}
