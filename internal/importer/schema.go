// Package importer reads and writes the portable workspace documents: the
// annual planning file, the roster file and the month spreadsheet.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/st8/internal/domain"
)

// ErrNotObject rejects documents whose top level is not a JSON object.
var ErrNotObject = errors.New("document must be a JSON object")

// PlanningFileName is the conventional name of an exported planning.
const PlanningFileName = "planning_annuel_st8.json"

// RosterFileName is the conventional name of an exported roster.
const RosterFileName = "roster_st8.json"

// RosterSchema is the roster export: agents by group and the group display
// metadata.
type RosterSchema struct {
	Agents    map[string][]AgentImport     `json:"agents"`
	GroupMeta map[string]domain.GroupMeta `json:"groupMeta,omitempty"`
}

// AgentImport is one agent record of a roster file.
type AgentImport struct {
	Matricule string   `json:"matricule"`
	Name      string   `json:"name"`
	Grade     string   `json:"grade,omitempty"`
	Birth     string   `json:"birth,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Permis    []string `json:"permis,omitempty"`
	Caces     []string `json:"caces,omitempty"`
	Skills    []string `json:"skills,omitempty"`
}

// planningSchema is the raw shape of a planning file before validation:
// year -> matricule -> date -> code.
type planningSchema map[string]map[string]map[string]any

// LoadPlanningFile reads and validates a planning file.
func LoadPlanningFile(path string) (domain.PlanningDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading planning file: %w", err)
	}
	return ParsePlanning(data)
}

// ParsePlanning validates data as a planning document.
func ParsePlanning(data []byte) (domain.PlanningDocument, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}
	var raw planningSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing planning: %w", err)
	}
	if errs := ValidatePlanning(raw); len(errs) > 0 {
		return nil, formatValidationErrors("planning", errs)
	}
	return convertPlanning(raw), nil
}

// LoadRosterFile reads and validates a roster file.
func LoadRosterFile(path string) (*RosterSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}
	return ParseRoster(data)
}

// ParseRoster validates data as a roster document.
func ParseRoster(data []byte) (*RosterSchema, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}
	var schema RosterSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	if errs := ValidateRoster(&schema); len(errs) > 0 {
		return nil, formatValidationErrors("roster", errs)
	}
	return &schema, nil
}

// requireObject accepts only a top-level JSON object; arrays, null and
// scalars are refused before decoding.
func requireObject(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	return nil
}

func formatValidationErrors(kind string, errs []error) error {
	msg := fmt.Sprintf("%s validation failed (%d errors):", kind, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
