package components

// Faction selects a creature's behavior. The player has FactionNone.
type Faction uint8

const (
	FactionNone  Faction = iota
	FactionGreen         // forager: flees larger agents, eats food to grow
	FactionRed           // predator: chases smaller-or-equal agents, grows by killing
)

// AIState is the creature state machine state.
type AIState uint8

const (
	StateWander AIState = iota
	StateSeekFood
	StateChase
	StateFlee
)

// String returns the display name for a Faction.
func (f Faction) String() string {
	names := FactionNames()
	if int(f) < len(names) {
		return names[f]
	}
	return "unknown"
}

// FactionNames returns the display names for all factions.
// The order matches the Faction constants.
func FactionNames() []string {
	return []string{"none", "green", "red"}
}

// String returns the display name for an AIState.
func (s AIState) String() string {
	names := AIStateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// AIStateNames returns the display names for all AI states.
// The order matches the AIState constants.
func AIStateNames() []string {
	return []string{"wander", "seek_food", "chase", "flee"}
}
