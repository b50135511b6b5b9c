package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/grid"
	"github.com/alexanderramin/st8/internal/roster"
)

func samplePlanning() domain.PlanningDocument {
	doc := domain.PlanningDocument{}
	doc.Set(2025, "C002908", "2025-01-06", "C")
	doc.Set(2025, "C002908", "2025-01-07", "AST-H")
	doc.Set(2025, "T028198", "2025-01-06", "P")
	doc.Set(2024, "T028198", "2024-12-30", "AM")
	return doc
}

func TestParsePlanning_RejectsNonObjects(t *testing.T) {
	for _, in := range []string{"", "null", "[]", `[{"2025":{}}]`, `"text"`, "42"} {
		_, err := ParsePlanning([]byte(in))
		assert.True(t, errors.Is(err, ErrNotObject), "input=%q", in)
	}
}

func TestParsePlanning_Valid(t *testing.T) {
	data := []byte(`{"2025": {"C002908": {"2025-01-06": " C ", "2025-01-07": ""}}}`)

	doc, err := ParsePlanning(data)

	require.NoError(t, err)
	code, ok := doc.Get(2025, "C002908", "2025-01-06")
	assert.True(t, ok)
	assert.Equal(t, "C", code)
	_, ok = doc.Get(2025, "C002908", "2025-01-07")
	assert.False(t, ok, "blank codes are dropped")
}

func TestParsePlanning_ReportsAllShapeErrors(t *testing.T) {
	data := []byte(`{
		"year": {},
		"2025": {"C002908": {"06/01/2025": "C", "2025-01-07": 3}}
	}`)

	_, err := ParsePlanning(data)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "planning validation failed (3 errors)")
	assert.Contains(t, err.Error(), `"year": year must be a positive integer`)
	assert.Contains(t, err.Error(), "2025.C002908.06/01/2025: invalid date format")
	assert.Contains(t, err.Error(), "2025.C002908.2025-01-07: code must be a string")
}

func TestParsePlanning_WrongNesting(t *testing.T) {
	_, err := ParsePlanning([]byte(`{"2025": ["C"]}`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotObject))
}

func TestPlanning_ExportImportRoundTrip(t *testing.T) {
	doc := samplePlanning()
	var buf bytes.Buffer
	require.NoError(t, WritePlanning(&buf, doc))

	got, err := ParsePlanning(buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestWritePlanning_FileShape(t *testing.T) {
	doc := domain.PlanningDocument{}
	doc.Set(2025, "C002908", "2025-01-06", "C")
	var buf bytes.Buffer

	require.NoError(t, WritePlanning(&buf, doc))

	assert.JSONEq(t, `{"2025":{"C002908":{"2025-01-06":"C"}}}`, buf.String())
}

func TestLoadPlanningFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), PlanningFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"2025":{"C002908":{"2025-01-06":"P"}}}`), 0o600))

	doc, err := LoadPlanningFile(path)

	require.NoError(t, err)
	code, _ := doc.Get(2025, "C002908", "2025-01-06")
	assert.Equal(t, "P", code)

	_, err = LoadPlanningFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseRoster_Valid(t *testing.T) {
	data := []byte(`{
		"agents": {
			"ENCADRANTS": [{"matricule": "C003285", "name": "FOURCADE Hervé", "grade": "TECH"}],
			"AGENTS VOIRIE ST 8": [{"matricule": "T028198", "name": "GOUREAU Jonathan", "permis": ["Permis CE"]}],
			"MAGASIN ST 8": []
		},
		"groupMeta": {"ENCADRANTS": {"color": "#111111", "order": 1}}
	}`)

	schema, err := ParseRoster(data)
	require.NoError(t, err)

	r, meta := Convert(schema)
	require.Len(t, r, 3)
	a, group, ok := r.Find("T028198")
	require.True(t, ok)
	assert.Equal(t, "AGENTS VOIRIE ST 8", group)
	assert.Equal(t, domain.DefaultGrade, a.Grade)
	assert.Equal(t, []string{"Permis CE"}, a.Licenses)
	assert.Equal(t, "#111111", meta["ENCADRANTS"].Color)
	assert.Contains(t, meta, "MAGASIN ST 8")
}

func TestParseRoster_RejectsNonObjects(t *testing.T) {
	_, err := ParseRoster([]byte(`[{"matricule":"C1"}]`))
	assert.ErrorIs(t, err, ErrNotObject)
	_, err = ParseRoster([]byte(`null`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestValidateRoster_Errors(t *testing.T) {
	schema := &RosterSchema{
		Agents: map[string][]AgentImport{
			"A": {{Matricule: "C1", Name: "X"}, {Matricule: "", Name: ""}},
			"B": {{Matricule: "C1", Name: "Y"}},
		},
		GroupMeta: map[string]domain.GroupMeta{
			"A": {Color: "blue"},
			"Z": {Color: "#fff"},
		},
	}

	errs := ValidateRoster(schema)

	require.Len(t, errs, 5)
	assert.EqualError(t, errs[0], "agents[A][1].matricule is required")
	assert.EqualError(t, errs[1], "agents[A][1].name is required")
	assert.EqualError(t, errs[2], `agents[B][0].matricule "C1" duplicates an agent of A`)
	assert.EqualError(t, errs[3], `groupMeta[A].color: invalid color "blue"`)
	assert.EqualError(t, errs[4], "groupMeta[Z]: unknown group")
}

func TestValidateRoster_MissingAgents(t *testing.T) {
	errs := ValidateRoster(&RosterSchema{})
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "agents is required")
}

func TestRoster_ExportImportRoundTrip(t *testing.T) {
	r := domain.DefaultRoster()
	meta := map[string]domain.GroupMeta{}
	domain.EnsureGroupMeta(r, meta)

	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, r, meta))
	schema, err := ParseRoster(buf.Bytes())
	require.NoError(t, err)
	gotRoster, gotMeta := Convert(schema)

	assert.Equal(t, meta, gotMeta)
	require.Len(t, gotRoster, len(r))
	for group, agents := range r {
		assert.ElementsMatch(t, agents, gotRoster[group], "group=%s", group)
	}
}

func TestWriteMonthXLSX(t *testing.T) {
	r := domain.Roster{
		"ENCADRANTS": {{ID: "C003285", Name: "FOURCADE Hervé", Grade: "TECH"}},
	}
	meta := map[string]domain.GroupMeta{}
	domain.EnsureGroupMeta(r, meta)
	g := grid.BuildMonth(2025, 1, grid.Input{
		Entries:   roster.Flatten(r, meta),
		Planning:  domain.PlanningDocument{2025: {"C003285": {"2025-01-06": "C"}}},
		GroupMeta: meta,
	})

	var buf bytes.Buffer
	require.NoError(t, WriteMonthXLSX(&buf, g))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, "Janvier 2025", f.GetSheetName(0))
	rows, err := f.GetRows("Janvier 2025")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Groupe", "Matricule", "Agent"}, rows[0][:3])
	assert.Len(t, rows[0], 3+31)
	assert.Equal(t, "ENCADRANTS", rows[1][0])
	assert.Equal(t, "C003285", rows[1][1])
	// 2025-01-01 is a holiday, rendered as JF; 2025-01-06 holds C.
	assert.Equal(t, "JF", rows[1][3])
	assert.Equal(t, "C", rows[1][3+5])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Planning", sheetName("  "))
	assert.Equal(t, "a-b-c", sheetName("a/b:c"))
	assert.Len(t, []rune(sheetName("Lun 30 déc. 2024 → Dim 12 janv. 2025")), maxSheetName)
}
