package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickGroupColor_Cycles(t *testing.T) {
	assert.Equal(t, "#2563eb", PickGroupColor(1))
	assert.Equal(t, "#78350f", PickGroupColor(9))
	assert.Equal(t, "#2563eb", PickGroupColor(10))
	assert.Equal(t, "#16a34a", PickGroupColor(11))
}

func TestCompareGroupOrder_MissingOrderSortsLast(t *testing.T) {
	meta := map[string]GroupMeta{"B": {Order: 1}}
	assert.Negative(t, CompareGroupOrder("B", "A", meta))
	assert.Positive(t, CompareGroupOrder("A", "B", meta))
}

func TestCompareGroupOrder_TieBrokenByName(t *testing.T) {
	meta := map[string]GroupMeta{"beta": {Order: 2}, "Alpha": {Order: 2}}
	assert.Negative(t, CompareGroupOrder("Alpha", "beta", meta))
}

func TestCompareNames_IgnoresCaseAndAccents(t *testing.T) {
	assert.Zero(t, CompareNames("Hervé", "herve"))
	assert.Negative(t, CompareNames("éric", "Fabrice"))
}

func TestSortGroups(t *testing.T) {
	meta := map[string]GroupMeta{"C": {Order: 1}, "A": {Order: 3}}
	groups := []string{"A", "B", "C"}
	SortGroups(groups, meta)
	assert.Equal(t, []string{"C", "A", "B"}, groups)
}

func TestEnsureGroupMeta_AddsMissingAndDropsOrphans(t *testing.T) {
	roster := Roster{
		"A": {{ID: "1", Name: "x"}},
		"B": {},
	}
	meta := map[string]GroupMeta{
		"A": {Color: "#111111", Order: 1},
		"C": {Color: "#222222", Order: 2},
	}

	changed := EnsureGroupMeta(roster, meta)

	assert.True(t, changed)
	require.Len(t, meta, 2)
	assert.Contains(t, meta, "A")
	assert.Contains(t, meta, "B")
	assert.NotContains(t, meta, "C")
	assert.Equal(t, "#111111", meta["A"].Color)
	assert.Equal(t, 1, meta["A"].Order)
	assert.Equal(t, 2, meta["B"].Order)
	assert.NotEmpty(t, meta["B"].Color)
}

func TestEnsureGroupMeta_UsesPresets(t *testing.T) {
	roster := Roster{"ENCADRANTS": {}, "AGENTS VOIRIE ST 8": {}, "ZZZ": {}}
	meta := map[string]GroupMeta{}

	EnsureGroupMeta(roster, meta)

	assert.Equal(t, GroupMeta{Color: "#2563eb", Order: 1}, meta["AGENTS VOIRIE ST 8"])
	assert.Equal(t, "#9333ea", meta["ENCADRANTS"].Color)
	// ZZZ is numbered from the pre-existing max order, so it ties with the
	// first preset and sorts right after it.
	assert.Equal(t, 2, meta["ZZZ"].Order)
	assert.Equal(t, 3, meta["ENCADRANTS"].Order)
}

func TestEnsureGroupMeta_FillsBlankColor(t *testing.T) {
	roster := Roster{"A": {}}
	meta := map[string]GroupMeta{"A": {Order: 1}}

	assert.True(t, EnsureGroupMeta(roster, meta))
	assert.Equal(t, PickGroupColor(1), meta["A"].Color)
}

func TestEnsureGroupMeta_StableWhenReconciled(t *testing.T) {
	roster := Roster{"A": {}, "B": {}}
	meta := map[string]GroupMeta{
		"A": {Color: "#111111", Order: 1},
		"B": {Color: "#222222", Order: 2},
	}
	assert.False(t, EnsureGroupMeta(roster, meta))
}

func TestEnsureGroupMeta_RenumbersGaps(t *testing.T) {
	roster := Roster{"A": {}, "B": {}}
	meta := map[string]GroupMeta{
		"A": {Color: "#111111", Order: 4},
		"B": {Color: "#222222", Order: 9},
	}
	assert.True(t, EnsureGroupMeta(roster, meta))
	assert.Equal(t, 1, meta["A"].Order)
	assert.Equal(t, 2, meta["B"].Order)
}
