package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/st8/internal/domain"
)

// WritePlanning encodes doc in the planning file format.
func WritePlanning(w io.Writer, doc domain.PlanningDocument) error {
	if doc == nil {
		doc = domain.PlanningDocument{}
	}
	return writeJSON(w, doc)
}

// WriteRoster encodes the roster and its group metadata.
func WriteRoster(w io.Writer, roster domain.Roster, meta map[string]domain.GroupMeta) error {
	return writeJSON(w, FromRoster(roster, meta))
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
