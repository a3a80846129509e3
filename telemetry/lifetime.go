package telemetry

import "github.com/pthm-cable/shoal/components"

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	BirthTick       int32
	SurvivalTimeSec float64

	Faction   components.Faction
	SpawnTier int
	MaxTier   int

	HitsLanded int
	Kills      int
	FoodEaten  int
}

// LifetimeTracker manages per-creature lifetime statistics, keyed by identity.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register starts tracking a newly spawned creature.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, faction components.Faction, tier int) {
	lt.stats[id] = &LifetimeStats{
		BirthTick: birthTick,
		Faction:   faction,
		SpawnTier: tier,
		MaxTier:   tier,
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove stops tracking a creature and returns its final stats with survival
// time filled in.
func (lt *LifetimeTracker) Remove(id uint32, currentTick int32, dtMs float64) *LifetimeStats {
	s := lt.stats[id]
	if s == nil {
		return nil
	}
	delete(lt.stats, id)
	s.SurvivalTimeSec = float64(currentTick-s.BirthTick) * dtMs / 1000
	return s
}

// RecordHit increments the landed hit count.
func (lt *LifetimeTracker) RecordHit(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.HitsLanded++
	}
}

// RecordKill increments the kill count.
func (lt *LifetimeTracker) RecordKill(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Kills++
	}
}

// RecordFood increments the food count.
func (lt *LifetimeTracker) RecordFood(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.FoodEaten++
	}
}

// RecordTier tracks the highest tier reached.
func (lt *LifetimeTracker) RecordTier(id uint32, tier int) {
	if s := lt.stats[id]; s != nil && tier > s.MaxTier {
		s.MaxTier = tier
	}
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	BirthTick  int32 `json:"birth_tick"`
	SpawnTier  int   `json:"spawn_tier"`
	MaxTier    int   `json:"max_tier"`
	HitsLanded int   `json:"hits_landed"`
	Kills      int   `json:"kills"`
	FoodEaten  int   `json:"food_eaten"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		BirthTick:  ls.BirthTick,
		SpawnTier:  ls.SpawnTier,
		MaxTier:    ls.MaxTier,
		HitsLanded: ls.HitsLanded,
		Kills:      ls.Kills,
		FoodEaten:  ls.FoodEaten,
	}
}
