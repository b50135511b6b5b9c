package domain

// Workspace is the persisted document: roster, group display metadata and
// the planning map, read and written whole.
type Workspace struct {
	Agents    Roster               `json:"agents"`
	GroupMeta map[string]GroupMeta `json:"groupMeta"`
	Planning  PlanningDocument     `json:"planning"`
}

// NewWorkspace returns an empty, fully initialized workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		Agents:    Roster{},
		GroupMeta: map[string]GroupMeta{},
		Planning:  PlanningDocument{},
	}
}

// Normalize fills nil maps, normalizes agents and planning codes and
// reconciles group metadata. It reports whether group metadata changed.
func (w *Workspace) Normalize() bool {
	if w.Agents == nil {
		w.Agents = Roster{}
	}
	if w.GroupMeta == nil {
		w.GroupMeta = map[string]GroupMeta{}
	}
	if w.Planning == nil {
		w.Planning = PlanningDocument{}
	}
	for g, agents := range w.Agents {
		if agents == nil {
			w.Agents[g] = []Agent{}
			continue
		}
		for i := range agents {
			agents[i].Normalize()
		}
	}
	w.Planning.Normalize()
	return EnsureGroupMeta(w.Agents, w.GroupMeta)
}

// Clone returns a deep copy of the workspace.
func (w *Workspace) Clone() *Workspace {
	meta := make(map[string]GroupMeta, len(w.GroupMeta))
	for k, v := range w.GroupMeta {
		meta[k] = v
	}
	return &Workspace{
		Agents:    w.Agents.Clone(),
		GroupMeta: meta,
		Planning:  w.Planning.Clone(),
	}
}

// RenameAgent changes an agent's matricule in the roster and planning.
func (w *Workspace) RenameAgent(group string, agent Agent, previousID string) error {
	if err := w.Agents.Upsert(group, agent, previousID); err != nil {
		return err
	}
	if previousID != "" {
		w.Planning.RenameAgent(previousID, agent.ID)
	}
	return nil
}
