package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.census())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// census samples the population for the window stats.
func (g *Game) census() telemetry.Census {
	var c telemetry.Census
	query := g.creatureFilter.Query()
	for query.Next() {
		body, health, cr := query.Get()
		if !health.Alive {
			continue
		}
		tier := float64(body.Tier)
		hp := health.Ratio()
		switch cr.Faction {
		case components.FactionGreen:
			c.Green++
			c.GreenTiers = append(c.GreenTiers, tier)
			c.GreenHP = append(c.GreenHP, hp)
		case components.FactionRed:
			c.Red++
			c.RedTiers = append(c.RedTiers, tier)
			c.RedHP = append(c.RedHP, hp)
		}
	}
	foods := g.foodFilter.Query()
	for foods.Next() {
		if foods.Get().Active {
			c.ActiveFood++
		}
	}
	c.PlayerTier = g.maps.Body.Get(g.player).Tier
	c.PlayerHP = g.maps.Health.Get(g.player).HP
	c.PlayerLives = g.lives
	return c
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.rngSeed,
		WorldWidth:  g.cfg.World.Width,
		WorldHeight: g.cfg.World.Height,
		Tick:        g.tick,
		TimeMs:      g.now,
		Lives:       g.lives,
		Bookmark:    bookmark,
	}

	add := func(e ecs.Entity) {
		pos := g.maps.Pos.Get(e)
		vel := g.maps.Vel.Get(e)
		body := g.maps.Body.Get(e)
		health := g.maps.Health.Get(e)
		id := g.maps.Ident.Get(e).ID

		state := telemetry.AgentState{
			ID:      id,
			Tier:    body.Tier,
			X:       pos.X,
			Y:       pos.Y,
			VelX:    vel.X,
			VelY:    vel.Y,
			Heading: g.maps.Heading.Get(e).Angle,
			HP:      health.HP,
			MaxHP:   health.MaxHP,
		}
		if g.maps.Creature.Has(e) {
			cr := g.maps.Creature.Get(e)
			state.Faction = cr.Faction.String()
			state.State = cr.State.String()
			if ls := g.lifetimeTracker.Get(id); ls != nil {
				state.Lifetime = ls.ToJSON()
			}
		} else {
			state.Player = true
			state.Faction = components.FactionNone.String()
		}
		snapshot.Agents = append(snapshot.Agents, state)
	}

	add(g.player)
	for _, e := range g.creatures {
		if g.maps.AgentAlive(e) {
			add(e)
		}
	}
	for _, e := range g.foods {
		pos := g.maps.Pos.Get(e)
		food := g.maps.Food.Get(e)
		snapshot.Food = append(snapshot.Food, telemetry.FoodState{
			ID:        g.maps.Ident.Get(e).ID,
			X:         pos.X,
			Y:         pos.Y,
			Active:    food.Active,
			RespawnAt: food.RespawnAt,
		})
	}

	return snapshot
}
