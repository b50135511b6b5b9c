package importer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/domain"
)

// ValidatePlanning checks the shape of a decoded planning file: integer
// year keys, date keys in YYYY-MM-DD form and string codes. All problems
// are reported, in a stable order.
func ValidatePlanning(raw planningSchema) []error {
	var errs []error
	for _, yearKey := range sortedKeys(raw) {
		year, err := strconv.Atoi(yearKey)
		if err != nil || year < 1 {
			errs = append(errs, fmt.Errorf("%q: year must be a positive integer", yearKey))
			continue
		}
		yp := raw[yearKey]
		for _, agentID := range sortedKeys(yp) {
			if strings.TrimSpace(agentID) == "" {
				errs = append(errs, fmt.Errorf("%s: empty matricule", yearKey))
				continue
			}
			plan := yp[agentID]
			for _, date := range sortedKeys(plan) {
				field := fmt.Sprintf("%s.%s.%s", yearKey, agentID, date)
				if _, err := calendar.ParseISO(date); err != nil {
					errs = append(errs, fmt.Errorf("%s: invalid date format (expected YYYY-MM-DD)", field))
					continue
				}
				if _, ok := plan[date].(string); !ok && plan[date] != nil {
					errs = append(errs, fmt.Errorf("%s: code must be a string", field))
				}
			}
		}
	}
	return errs
}

// ValidateRoster checks every agent record and the group metadata.
func ValidateRoster(schema *RosterSchema) []error {
	var errs []error
	if schema.Agents == nil {
		return []error{fmt.Errorf("agents is required")}
	}

	seen := make(map[string]string)
	for _, group := range sortedKeys(schema.Agents) {
		if strings.TrimSpace(group) == "" {
			errs = append(errs, fmt.Errorf("agents: empty group name"))
			continue
		}
		for i, a := range schema.Agents[group] {
			prefix := fmt.Sprintf("agents[%s][%d]", group, i)
			id := strings.TrimSpace(a.Matricule)
			if id == "" {
				errs = append(errs, fmt.Errorf("%s.matricule is required", prefix))
			} else if other, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("%s.matricule %q duplicates an agent of %s", prefix, id, other))
			} else {
				seen[id] = group
			}
			if strings.TrimSpace(a.Name) == "" {
				errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			}
		}
	}

	for _, group := range sortedKeys(schema.GroupMeta) {
		if _, ok := schema.Agents[group]; !ok {
			errs = append(errs, fmt.Errorf("groupMeta[%s]: unknown group", group))
		}
		if c := schema.GroupMeta[group].Color; c != "" && !domain.ValidHex(c) {
			errs = append(errs, fmt.Errorf("groupMeta[%s].color: invalid color %q", group, c))
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
