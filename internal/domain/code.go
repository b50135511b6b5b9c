package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeCode maps a free-form status spelling onto its canonical token.
// Empty input yields "".
func NormalizeCode(code string) string {
	k := strings.ToUpper(strings.TrimSpace(code))
	if k == "" {
		return ""
	}
	k = stripDiacritics(k)
	switch k {
	case "PREVISIONELLE", "PREVISIONNEL", "PREVISION", "PREV", "PR":
		return "PREV"
	case "ASTH", "AST-H":
		return "ASTH"
	case "ASTS", "AST-S":
		return "ASTS"
	}
	return k
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
