// Package telemetry provides arena statistics, event logs, bookmarks and snapshots.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/shoal/components"
)

// EventType identifies telemetry events.
type EventType string

const (
	EventCreatureDeath EventType = "creature_death"
	EventTierUp        EventType = "tier_up"
	EventPlayerTierUp  EventType = "player_tier_up"
	EventPlayerDeath   EventType = "player_death"
	EventPlayerWin     EventType = "player_win"
)

// Event is one notable occurrence, written as a row of events.csv.
type Event struct {
	Type     EventType `csv:"type"`
	Tick     int32     `csv:"tick"`
	EntityID uint32    `csv:"entity"`
	Faction  string    `csv:"faction"`
	Tier     int       `csv:"tier"`
	KillerID uint32    `csv:"killer"`

	// Lifetime summary for deaths
	AgeSec float64 `csv:"age_sec"`
	Kills  int     `csv:"kills"`
	Food   int     `csv:"food"`

	Lives int `csv:"lives"`
}

// NewDeathEvent creates a creature death event. life may be nil.
func NewDeathEvent(tick int32, id uint32, faction components.Faction, tier int, killerID uint32, life *LifetimeStats) Event {
	e := Event{
		Type:     EventCreatureDeath,
		Tick:     tick,
		EntityID: id,
		Faction:  faction.String(),
		Tier:     tier,
		KillerID: killerID,
	}
	if life != nil {
		e.AgeSec = life.SurvivalTimeSec
		e.Kills = life.Kills
		e.Food = life.FoodEaten
	}
	return e
}

// NewTierUpEvent creates a creature tier-up event.
func NewTierUpEvent(tick int32, id uint32, faction components.Faction, tier int) Event {
	return Event{
		Type:     EventTierUp,
		Tick:     tick,
		EntityID: id,
		Faction:  faction.String(),
		Tier:     tier,
	}
}

// NewPlayerTierUpEvent creates a player tier-up event.
func NewPlayerTierUpEvent(tick int32, id uint32, tier int) Event {
	return Event{
		Type:     EventPlayerTierUp,
		Tick:     tick,
		EntityID: id,
		Faction:  components.FactionNone.String(),
		Tier:     tier,
	}
}

// NewPlayerDeathEvent creates a lost-life event.
func NewPlayerDeathEvent(tick int32, id uint32, killerID uint32, livesLeft int) Event {
	return Event{
		Type:     EventPlayerDeath,
		Tick:     tick,
		EntityID: id,
		Faction:  components.FactionNone.String(),
		KillerID: killerID,
		Lives:    livesLeft,
	}
}

// NewPlayerWinEvent creates the win event.
func NewPlayerWinEvent(tick int32, id uint32, tier int) Event {
	return Event{
		Type:     EventPlayerWin,
		Tick:     tick,
		EntityID: id,
		Faction:  components.FactionNone.String(),
		Tier:     tier,
	}
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info(string(e.Type),
		"tick", e.Tick,
		"entity", e.EntityID,
		"faction", e.Faction,
		"tier", e.Tier,
		"killer", e.KillerID,
	)
}
