package domain

import (
	"regexp"
	"strings"
)

// BadgeKind classifies a capability badge for styling.
type BadgeKind string

const (
	BadgePermitBE BadgeKind = "cap-permis-be"
	BadgePermitC  BadgeKind = "cap-permis-c"
	BadgePermitCE BadgeKind = "cap-permis-ce"
	BadgeEngins   BadgeKind = "cap-engins"
	BadgeNacelles BadgeKind = "cap-nacelles"
	BadgeChariots BadgeKind = "cap-chariots"
	BadgeGrues    BadgeKind = "cap-grues"
)

// Badge is a presentational tag summarizing a license or certification family.
type Badge struct {
	Kind  BadgeKind
	Label string
	Title string
	Codes []string
}

// CatalogEntry is one selectable license or certification.
type CatalogEntry struct {
	Value string
	Label string
	Group string
}

// LicenseCatalog lists the driving licenses offered in the agent form.
var LicenseCatalog = []CatalogEntry{
	{Value: "Permis BE", Label: "Permis BE", Group: "Permis de conduire"},
	{Value: "Permis C", Label: "Permis C", Group: "Permis de conduire"},
	{Value: "Permis CE", Label: "Permis CE", Group: "Permis de conduire"},
}

// CertificationCatalog lists the CACES certifications offered in the agent form.
var CertificationCatalog = []CatalogEntry{
	{Value: "R.482 - Engins - A", Label: "A", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - B1", Label: "B1", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - B2", Label: "B2", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - C1", Label: "C1", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - C2", Label: "C2", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - C3", Label: "C3", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - D", Label: "D", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - E", Label: "E", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - F", Label: "F", Group: "R.482 - Engins"},
	{Value: "R.482 - Engins - G", Label: "G", Group: "R.482 - Engins"},
	{Value: "R.486 - Nacelles - A", Label: "A", Group: "R.486 - Nacelles"},
	{Value: "R.486 - Nacelles - B", Label: "B", Group: "R.486 - Nacelles"},
	{Value: "R.489 - Chariots - 1A", Label: "1A", Group: "R.489 - Chariots"},
	{Value: "R.489 - Chariots - 3", Label: "3", Group: "R.489 - Chariots"},
	{Value: "R.489 - Chariots - 5", Label: "5", Group: "R.489 - Chariots"},
	{Value: "R.490 - Grues - R.490", Label: "R.490", Group: "R.490 - Grues"},
}

var (
	heavyPermitPattern = regexp.MustCompile(`(?i)Permis\s*C(E)?`)
	cacesPattern       = regexp.MustCompile(`(?i)R\.\d+\s*-\s*([^-]+?)(?:-\s*(.+))?$`)
	cranePattern       = regexp.MustCompile(`(?i)R\.490`)
	cacesPrefix        = regexp.MustCompile(`(?i)^CACES\s*`)
)

var permitKinds = map[string]BadgeKind{
	"PERMIS BE": BadgePermitBE,
	"PERMIS C":  BadgePermitC,
	"PERMIS CE": BadgePermitCE,
}

var cacesKinds = map[string]BadgeKind{
	"engins":   BadgeEngins,
	"nacelles": BadgeNacelles,
	"chariots": BadgeChariots,
	"grues":    BadgeGrues,
}

// CapabilityBadges derives the heavy-vehicle license badges followed by one
// badge per certification category.
func CapabilityBadges(a Agent) []Badge {
	var badges []Badge
	seen := map[string]bool{}
	for _, permit := range a.Licenses {
		if !heavyPermitPattern.MatchString(permit) {
			continue
		}
		label := NormalizePermitLabel(permit)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		badges = append(badges, Badge{Kind: PermitBadgeKind(label), Label: label, Title: permit})
	}

	var order []string
	byCategory := map[string]*Badge{}
	for _, entry := range a.Certifications {
		category, code := ParseCertification(entry)
		if category == "" {
			continue
		}
		b, ok := byCategory[category]
		if !ok {
			b = &Badge{Kind: CertificationBadgeKind(category), Label: category}
			byCategory[category] = b
			order = append(order, category)
		}
		if code != "" && !containsString(b.Codes, code) {
			b.Codes = append(b.Codes, code)
		}
	}
	for _, category := range order {
		b := byCategory[category]
		b.Title = category
		if len(b.Codes) > 0 {
			b.Title += " • Codes: " + strings.Join(b.Codes, ", ")
		}
		badges = append(badges, *b)
	}
	return badges
}

// NormalizePermitLabel turns "permis ce" style spellings into "Permis CE".
func NormalizePermitLabel(label string) string {
	label = strings.TrimSpace(label)
	m := heavyPermitPattern.FindStringSubmatch(label)
	if m == nil {
		return label
	}
	if m[1] != "" {
		return "Permis C" + strings.ToUpper(m[1])
	}
	return "Permis C"
}

// PermitBadgeKind maps a normalized permit label to its badge class.
func PermitBadgeKind(label string) BadgeKind {
	if k, ok := permitKinds[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return k
	}
	return BadgePermitC
}

// ParseCertification splits "R.482 - Engins - C1" into its category and code.
func ParseCertification(value string) (category, code string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ""
	}
	if m := cacesPattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if loc := cranePattern.FindStringIndex(trimmed); loc != nil {
		return "Grues", trimmed[loc[0]:]
	}
	return strings.TrimSpace(cacesPrefix.ReplaceAllString(trimmed, "")), ""
}

// CertificationBadgeKind maps a certification category to its badge class.
func CertificationBadgeKind(category string) BadgeKind {
	if k, ok := cacesKinds[strings.ToLower(strings.TrimSpace(category))]; ok {
		return k
	}
	return BadgeEngins
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
