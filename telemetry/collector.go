package telemetry

import (
	"math"

	"github.com/pthm-cable/shoal/components"
)

// Census is a population sample taken at the end of a window.
type Census struct {
	Green, Red int

	// Per-creature samples for distribution stats
	GreenTiers, RedTiers []float64
	GreenHP, RedHP       []float64 // HP ratio in [0, 1]

	ActiveFood int

	PlayerTier  int
	PlayerHP    float64
	PlayerLives int
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dtMs                float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	greenDeaths  int
	redDeaths    int
	spawns       int
	hitsLanded   int
	hitsBlocked  int
	kills        int
	playerKills  int
	greenFood    int
	playerFood   int
	greenTierUps int
	redTierUps   int
	playerDeaths int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dtMs: milliseconds per tick
func NewCollector(windowDurationSec, dtMs float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec * 1000 / dtMs))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dtMs:                dtMs,
	}
}

// RecordHit records an attack; blocked hits hit an invincible player.
func (c *Collector) RecordHit(landed bool) {
	if landed {
		c.hitsLanded++
	} else {
		c.hitsBlocked++
	}
}

// RecordKill records a lethal hit.
func (c *Collector) RecordKill(byPlayer bool) {
	c.kills++
	if byPlayer {
		c.playerKills++
	}
}

// RecordDeath records a creature death.
func (c *Collector) RecordDeath(faction components.Faction) {
	if faction == components.FactionRed {
		c.redDeaths++
	} else {
		c.greenDeaths++
	}
}

// RecordSpawn records a replacement spawn.
func (c *Collector) RecordSpawn() {
	c.spawns++
}

// RecordFood records a food item eaten.
func (c *Collector) RecordFood(byPlayer bool) {
	if byPlayer {
		c.playerFood++
	} else {
		c.greenFood++
	}
}

// RecordTierUp records a creature tier-up.
func (c *Collector) RecordTierUp(faction components.Faction) {
	if faction == components.FactionRed {
		c.redTierUps++
	} else {
		c.greenTierUps++
	}
}

// RecordPlayerDeath records a lost life.
func (c *Collector) RecordPlayerDeath() {
	c.playerDeaths++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, census Census) WindowStats {
	var killRate float64
	if c.hitsLanded > 0 {
		killRate = float64(c.kills) / float64(c.hitsLanded)
	}

	greenTier, _, _, _ := ComputeDistribution(census.GreenTiers)
	redTier, _, _, _ := ComputeDistribution(census.RedTiers)
	greenHP, greenP10, greenP50, greenP90 := ComputeDistribution(census.GreenHP)
	redHP, redP10, redP50, redP90 := ComputeDistribution(census.RedHP)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dtMs / 1000,

		Green: census.Green,
		Red:   census.Red,

		GreenDeaths: c.greenDeaths,
		RedDeaths:   c.redDeaths,
		Spawns:      c.spawns,

		HitsLanded:  c.hitsLanded,
		HitsBlocked: c.hitsBlocked,
		Kills:       c.kills,
		PlayerKills: c.playerKills,
		KillRate:    killRate,

		GreenFood:    c.greenFood,
		PlayerFood:   c.playerFood,
		GreenTierUps: c.greenTierUps,
		RedTierUps:   c.redTierUps,

		GreenTierMean: greenTier,
		RedTierMean:   redTier,
		GreenHPMean:   greenHP,
		GreenHPP10:    greenP10,
		GreenHPP50:    greenP50,
		GreenHPP90:    greenP90,
		RedHPMean:     redHP,
		RedHPP10:      redP10,
		RedHPP50:      redP50,
		RedHPP90:      redP90,

		ActiveFood: census.ActiveFood,

		PlayerTier:   census.PlayerTier,
		PlayerHP:     census.PlayerHP,
		PlayerLives:  census.PlayerLives,
		PlayerDeaths: c.playerDeaths,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.greenDeaths = 0
	c.redDeaths = 0
	c.spawns = 0
	c.hitsLanded = 0
	c.hitsBlocked = 0
	c.kills = 0
	c.playerKills = 0
	c.greenFood = 0
	c.playerFood = 0
	c.greenTierUps = 0
	c.redTierUps = 0
	c.playerDeaths = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
