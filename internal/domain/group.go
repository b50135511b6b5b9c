package domain

import (
	"math"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// GroupMeta carries the display color and sort position of a group.
type GroupMeta struct {
	Color string `json:"color"`
	Order int    `json:"order"`
}

// GroupPalette is cycled to color groups without a preset.
var GroupPalette = []string{
	"#2563eb", "#16a34a", "#f59e0b", "#db2777", "#0ea5e9",
	"#9333ea", "#ef4444", "#14b8a6", "#78350f",
}

// groupPresets are the known service teams and their house colors.
var groupPresets = map[string]GroupMeta{
	"AGENTS VOIRIE ST 8":            {Color: "#2563eb", Order: 1},
	"AGENTS ESPACE VERT ST 8":       {Color: "#16a34a", Order: 2},
	"ENCADRANTS":                    {Color: "#9333ea", Order: 3},
	"MAGASIN ST 8":                  {Color: "#f59e0b", Order: 4},
	"AGENT ENTRETIEN BATIMENT ST 8": {Color: "#0ea5e9", Order: 5},
}

// PresetGroupMeta returns the preset for a known group name.
func PresetGroupMeta(group string) (GroupMeta, bool) {
	m, ok := groupPresets[group]
	return m, ok
}

// PickGroupColor returns the palette color for a 1-based order.
func PickGroupColor(order int) string {
	n := len(GroupPalette)
	idx := ((order-1)%n + n) % n
	return GroupPalette[idx]
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.French, collate.Loose)
)

// CompareNames orders strings the way a French reader expects, ignoring case
// and accents.
func CompareNames(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// CompareGroupOrder orders groups by their meta order, missing orders last,
// ties broken by name.
func CompareGroupOrder(a, b string, meta map[string]GroupMeta) int {
	ao, bo := orderOf(meta, a), orderOf(meta, b)
	if ao == bo {
		return CompareNames(a, b)
	}
	if ao < bo {
		return -1
	}
	return 1
}

func orderOf(meta map[string]GroupMeta, group string) int {
	m, ok := meta[group]
	if !ok || m.Order == 0 {
		return math.MaxInt
	}
	return m.Order
}

// SortGroups sorts group names in place by CompareGroupOrder.
func SortGroups(groups []string, meta map[string]GroupMeta) {
	sort.SliceStable(groups, func(i, j int) bool {
		return CompareGroupOrder(groups[i], groups[j], meta) < 0
	})
}

// EnsureGroupMeta reconciles meta against the groups present in roster:
// missing entries are synthesized, orphans dropped, orders renumbered 1..n
// and blank colors filled. It reports whether meta changed.
func EnsureGroupMeta(roster Roster, meta map[string]GroupMeta) bool {
	updated := false
	maxOrder := 0
	for _, m := range meta {
		maxOrder = max(maxOrder, m.Order)
	}

	groups := roster.Groups()
	for _, g := range groups {
		if _, ok := meta[g]; ok {
			continue
		}
		if preset, ok := groupPresets[g]; ok {
			meta[g] = preset
		} else {
			maxOrder++
			meta[g] = GroupMeta{Color: PickGroupColor(maxOrder), Order: maxOrder}
		}
		updated = true
	}

	for g := range meta {
		if _, ok := roster[g]; !ok {
			delete(meta, g)
			updated = true
		}
	}

	SortGroups(groups, meta)
	for idx, g := range groups {
		m := meta[g]
		if want := idx + 1; m.Order != want {
			m.Order = want
			updated = true
		}
		if m.Color == "" {
			m.Color = PickGroupColor(m.Order)
			updated = true
		}
		meta[g] = m
	}
	return updated
}
