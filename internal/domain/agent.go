package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultGrade is assigned to agents created without an explicit grade.
const DefaultGrade = "AT"

// Agent is a field worker. ID is the matricule and joins into the planning
// document; it never changes once created.
type Agent struct {
	ID             string   `json:"matricule" bson:"matricule"`
	Name           string   `json:"name" bson:"name"`
	Grade          string   `json:"grade,omitempty" bson:"grade,omitempty"`
	Birth          string   `json:"birth,omitempty" bson:"birth,omitempty"`
	Notes          string   `json:"notes,omitempty" bson:"notes,omitempty"`
	Licenses       []string `json:"permis,omitempty" bson:"permis,omitempty"`
	Certifications []string `json:"caces,omitempty" bson:"caces,omitempty"`
	Skills         []string `json:"skills,omitempty" bson:"skills,omitempty"`
}

// Normalize trims identity fields, applies the default grade and turns the
// qualification lists into sorted sets.
func (a *Agent) Normalize() {
	a.ID = strings.TrimSpace(a.ID)
	a.Name = strings.TrimSpace(a.Name)
	a.Grade = FirstNonEmpty(strings.TrimSpace(a.Grade), DefaultGrade)
	a.Birth = strings.TrimSpace(a.Birth)
	a.Notes = strings.TrimSpace(a.Notes)
	a.Licenses = normalizeSet(a.Licenses)
	a.Certifications = normalizeSet(a.Certifications)
	a.Skills = normalizeSet(a.Skills)
}

// Validate checks the fields required to store an agent.
func (a *Agent) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: matricule is required", ErrInvalidAgent)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAgent)
	}
	return nil
}

// DisplayName falls back to the matricule for unnamed agents.
func (a Agent) DisplayName() string {
	return FirstNonEmpty(a.Name, a.ID, "Sans nom")
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// SplitList parses a comma separated form value into trimmed entries.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstNonEmpty returns the first non-empty value, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
