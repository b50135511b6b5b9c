package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityBadges_PermitsThenCategories(t *testing.T) {
	a := Agent{
		Licenses: []string{"Permis BE", "permis ce", "Permis CE"},
		Certifications: []string{
			"R.482 - Engins - C1",
			"R.486 - Nacelles - B",
			"R.482 - Engins - A",
			"R.482 - Engins - C1",
		},
	}

	badges := CapabilityBadges(a)

	require.Len(t, badges, 3)
	assert.Equal(t, Badge{Kind: BadgePermitCE, Label: "Permis CE", Title: "permis ce"}, badges[0])
	assert.Equal(t, BadgeEngins, badges[1].Kind)
	assert.Equal(t, "Engins", badges[1].Label)
	assert.Equal(t, []string{"C1", "A"}, badges[1].Codes)
	assert.Equal(t, "Engins • Codes: C1, A", badges[1].Title)
	assert.Equal(t, BadgeNacelles, badges[2].Kind)
}

func TestCapabilityBadges_NoneForBEOnly(t *testing.T) {
	assert.Empty(t, CapabilityBadges(Agent{Licenses: []string{"Permis BE"}}))
}

func TestParseCertification(t *testing.T) {
	cases := []struct {
		in, category, code string
	}{
		{"R.482 - Engins - C1", "Engins", "C1"},
		{"R.490 - Grues - R.490", "Grues", "R.490"},
		{"R.489 - Chariots", "Chariots", ""},
		{"Grue R.490", "Grues", "R.490"},
		{"CACES Nacelle", "Nacelle", ""},
		{"  ", "", ""},
	}
	for _, tc := range cases {
		cat, code := ParseCertification(tc.in)
		assert.Equal(t, tc.category, cat, "in=%q", tc.in)
		assert.Equal(t, tc.code, code, "in=%q", tc.in)
	}
}

func TestPermitBadgeKind(t *testing.T) {
	assert.Equal(t, BadgePermitBE, PermitBadgeKind("permis be"))
	assert.Equal(t, BadgePermitCE, PermitBadgeKind("Permis CE"))
	assert.Equal(t, BadgePermitC, PermitBadgeKind("Permis XYZ"))
}

func TestCertificationBadgeKind_DefaultsToEngins(t *testing.T) {
	assert.Equal(t, BadgeGrues, CertificationBadgeKind("Grues"))
	assert.Equal(t, BadgeEngins, CertificationBadgeKind("Autre"))
}
