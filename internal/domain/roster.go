package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Roster partitions agents by group name.
type Roster map[string][]Agent

// Groups returns the group names in stable alphabetical order.
func (r Roster) Groups() []string {
	out := make([]string, 0, len(r))
	for g := range r {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Find returns the agent with the given matricule and the group holding it.
func (r Roster) Find(id string) (Agent, string, bool) {
	for g, agents := range r {
		for _, a := range agents {
			if a.ID == id {
				return a, g, true
			}
		}
	}
	return Agent{}, "", false
}

// Len counts agents across all groups.
func (r Roster) Len() int {
	n := 0
	for _, agents := range r {
		n += len(agents)
	}
	return n
}

// AddGroup creates an empty group.
func (r Roster) AddGroup(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}
	if _, ok := r[name]; ok {
		return fmt.Errorf("group %q: %w", name, ErrGroupExists)
	}
	r[name] = []Agent{}
	return nil
}

// RemoveGroup deletes an empty group.
func (r Roster) RemoveGroup(name string) error {
	agents, ok := r[name]
	if !ok {
		return fmt.Errorf("group %q: %w", name, ErrGroupNotFound)
	}
	if len(agents) > 0 {
		return fmt.Errorf("group %q (%d agents): %w", name, len(agents), ErrGroupNotEmpty)
	}
	delete(r, name)
	return nil
}

// RenameGroup moves every agent of from into a new group named to.
func (r Roster) RenameGroup(from, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}
	agents, ok := r[from]
	if !ok {
		return fmt.Errorf("group %q: %w", from, ErrGroupNotFound)
	}
	if from == to {
		return nil
	}
	if _, exists := r[to]; exists {
		return fmt.Errorf("group %q: %w", to, ErrGroupExists)
	}
	r[to] = agents
	delete(r, from)
	return nil
}

// Upsert stores agent in group. When previousID is set and differs from the
// agent's ID the old record is removed. An agent already stored in another
// group is moved.
func (r Roster) Upsert(group string, agent Agent, previousID string) error {
	agent.Normalize()
	if err := agent.Validate(); err != nil {
		return err
	}
	if _, ok := r[group]; !ok {
		return fmt.Errorf("group %q: %w", group, ErrGroupNotFound)
	}
	if previousID != "" && previousID != agent.ID {
		if _, _, taken := r.Find(agent.ID); taken {
			return fmt.Errorf("agent %q: %w", agent.ID, ErrAgentExists)
		}
		r.remove(previousID)
	}
	r.remove(agent.ID)
	r[group] = append(r[group], agent)
	return nil
}

// Remove deletes an agent by matricule.
func (r Roster) Remove(id string) error {
	if !r.remove(id) {
		return fmt.Errorf("agent %q: %w", id, ErrAgentNotFound)
	}
	return nil
}

func (r Roster) remove(id string) bool {
	for g, agents := range r {
		for i, a := range agents {
			if a.ID == id {
				r[g] = append(agents[:i:i], agents[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the roster.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for g, agents := range r {
		cp := make([]Agent, len(agents))
		for i, a := range agents {
			cp[i] = a
			cp[i].Licenses = append([]string(nil), a.Licenses...)
			cp[i].Certifications = append([]string(nil), a.Certifications...)
			cp[i].Skills = append([]string(nil), a.Skills...)
		}
		out[g] = cp
	}
	return out
}

// DefaultRoster seeds an empty installation.
func DefaultRoster() Roster {
	return Roster{
		"AGENTS VOIRIE ST 8": {
			{ID: "C002908", Name: "FONTENEAU Fabrice", Grade: "AT", Skills: []string{"VRD"}},
			{ID: "T028198", Name: "GOUREAU Jonathan", Grade: "AT", Skills: []string{"VRD"}},
		},
		"ENCADRANTS": {
			{ID: "C003285", Name: "FOURCADE Hervé", Grade: "TECH", Skills: []string{"Encadrement"}},
		},
	}
}
