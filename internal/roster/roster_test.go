package roster

import (
	"testing"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoster() (domain.Roster, map[string]domain.GroupMeta) {
	r := domain.Roster{
		"VOIRIE": {
			{ID: "T2", Name: "GOUREAU Jonathan", Grade: "AT", Skills: []string{"VRD"}},
			{ID: "C1", Name: "FONTENEAU Fabrice", Grade: "AT", Licenses: []string{"Permis CE"}},
		},
		"ENCADRANTS": {
			{ID: "C3", Name: "Éric MARTIN", Grade: "TECH", Notes: "astreinte hiver"},
		},
	}
	meta := map[string]domain.GroupMeta{
		"VOIRIE":     {Order: 1},
		"ENCADRANTS": {Order: 2},
	}
	return r, meta
}

func TestFlatten_GroupOrderThenName(t *testing.T) {
	r, meta := sampleRoster()

	got := Flatten(r, meta)

	assert.Equal(t, []string{"C1", "T2", "C3"}, IDs(got))
	assert.Equal(t, []string{"VOIRIE", "ENCADRANTS"}, Groups(got))
}

func TestFilter_ByGroup(t *testing.T) {
	r, meta := sampleRoster()

	got := Filter(r, meta, Query{Group: "ENCADRANTS"})
	assert.Equal(t, []string{"C3"}, IDs(got))

	got = Filter(r, meta, Query{Group: AllGroups})
	assert.Len(t, got, 3)
}

func TestFilter_PlanningScope(t *testing.T) {
	r, meta := sampleRoster()

	assert.Equal(t, []string{"T2"}, IDs(Filter(r, meta, Query{Text: "goureau"})))
	assert.Equal(t, []string{"C1"}, IDs(Filter(r, meta, Query{Text: "c1"})))
	assert.Len(t, Filter(r, meta, Query{Text: "voirie"}), 2)

	// Qualifications are not searched from the planning view.
	assert.Empty(t, Filter(r, meta, Query{Text: "permis"}))
}

func TestFilter_AgentsScope(t *testing.T) {
	r, meta := sampleRoster()

	got := Filter(r, meta, Query{Text: "permis ce", Scope: ScopeAgents})
	assert.Equal(t, []string{"C1"}, IDs(got))

	got = Filter(r, meta, Query{Text: "hiver", Scope: ScopeAgents})
	assert.Equal(t, []string{"C3"}, IDs(got))

	got = Filter(r, meta, Query{Text: "tech", Scope: ScopeAgents})
	assert.Equal(t, []string{"C3"}, IDs(got))
}

func TestFilter_GroupAndText(t *testing.T) {
	r, meta := sampleRoster()

	got := Filter(r, meta, Query{Group: "VOIRIE", Text: "vrd", Scope: ScopeAgents})
	require.Len(t, got, 1)
	assert.Equal(t, "T2", got[0].Agent.ID)
}

func TestSortAgents_DoesNotMutate(t *testing.T) {
	in := []domain.Agent{{ID: "b", Name: "Zoé"}, {ID: "a", Name: "albert"}}
	out := SortAgents(in)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", in[0].ID)
}
