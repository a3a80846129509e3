package systems

// SystemInfo describes a step phase for UI display.
type SystemInfo struct {
	ID          string // Phase identifier (matches the perf tracker)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "core", "ai")
}

// SystemRegistry holds metadata about the step phases.
// This centralizes naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all step phases in execution order.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the step phases. Update this when adding a phase.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "spatial", Name: "Spatial", Description: "Rebuilds agent and food indices", Category: "core"})
	r.Register(SystemInfo{ID: "player", Name: "Player", Description: "Moves the player and resolves click attacks", Category: "player"})
	r.Register(SystemInfo{ID: "creatures", Name: "Creatures", Description: "Runs creature state machines and movement", Category: "ai"})
	r.Register(SystemInfo{ID: "food", Name: "Food", Description: "Respawns eaten food", Category: "world"})
	r.Register(SystemInfo{ID: "contact", Name: "Contact", Description: "Player contact attacks, eating, death checks", Category: "player"})
	r.Register(SystemInfo{ID: "cleanup", Name: "Cleanup", Description: "Removes dead creatures and spawns replacements", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Flushes stats windows and bookmarks", Category: "internal"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
