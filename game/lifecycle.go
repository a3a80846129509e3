package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// spawnAttempts bounds the rejection sampling of spawn points.
const spawnAttempts = 32

func (g *Game) newIdentity() components.Identity {
	g.nextID++
	return components.Identity{ID: g.nextID}
}

// spawnPlayer creates the player at tier 1 in the world center.
func (g *Game) spawnPlayer() {
	x, y := g.cfg.World.Width/2, g.cfg.World.Height/2
	t := g.cfg.Tier(1)

	id := g.newIdentity()
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	head := components.Heading{}
	body := systems.PlayerBody(g.cfg, 1)
	health := components.Health{HP: t.MaxHP, MaxHP: t.MaxHP, Alive: true}
	combat := components.Combat{}
	pl := components.Player{
		GrowthNeeded:   t.GrowthNeeded,
		TargetX:        x,
		TargetY:        y,
		MaxTierReached: 1,
	}
	g.player = g.playerMapper.NewEntity(&id, &pos, &vel, &head, &body, &health, &combat, &pl)
}

// spawnInitialPopulation creates the creatures of the spawn plan, tier by tier.
func (g *Game) spawnInitialPopulation() {
	for _, entry := range g.cfg.Population.SpawnPlan {
		for i := 0; i < entry.Green; i++ {
			g.SpawnCreature(entry.Tier, components.FactionGreen)
		}
		for i := 0; i < entry.Red; i++ {
			g.SpawnCreature(entry.Tier, components.FactionRed)
		}
	}
}

// SpawnCreature adds a creature at a random spawn point. It is a no-op
// returning false once the population cap is reached.
func (g *Game) SpawnCreature(tier int, faction components.Faction) (ecs.Entity, bool) {
	if g.atCap() {
		return ecs.Entity{}, false
	}
	x, y := g.spawnPoint()
	return g.spawnCreatureAt(tier, faction, x, y)
}

func (g *Game) atCap() bool {
	return len(g.creatures) >= g.cfg.Population.MaxCreatures
}

// spawnCreatureAt creates a creature in Wander with an expired state timer,
// so it evaluates on its first tick.
func (g *Game) spawnCreatureAt(tier int, faction components.Faction, x, y float64) (ecs.Entity, bool) {
	if g.atCap() {
		return ecs.Entity{}, false
	}
	t := g.cfg.Tier(tier)

	id := g.newIdentity()
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	head := components.Heading{Angle: g.rng.Float64() * 2 * math.Pi}
	body := systems.CreatureBody(g.cfg, tier, g.cfg.Creatures.SpawnSpeedJitter, g.rng)
	health := components.Health{HP: t.MaxHP, MaxHP: t.MaxHP, Alive: true}
	combat := components.Combat{}
	cr := components.Creature{
		Faction:        faction,
		State:          components.StateWander,
		WanderAngle:    head.Angle,
		DetectionRange: g.cfg.DetectionRange(body.Size),
	}

	e := g.creatureMapper.NewEntity(&id, &pos, &vel, &head, &body, &health, &combat, &cr)
	g.creatures = append(g.creatures, e)
	g.perception.MaxSize = max(g.perception.MaxSize, body.Size)

	g.lifetimeTracker.Register(id.ID, g.tick, faction, body.Tier)
	g.collector.RecordSpawn()
	return e, true
}

// spawnPoint samples a point inside the spawn margin, keeping clear of the
// player. The last sample is used if every attempt lands too close.
func (g *Game) spawnPoint() (float64, float64) {
	pop := &g.cfg.Population
	avoid := g.maps.Pos.Get(g.player)

	var x, y float64
	for i := 0; i < spawnAttempts; i++ {
		x = g.randIn(pop.SpawnMargin, g.cfg.World.Width-pop.SpawnMargin)
		y = g.randIn(pop.SpawnMargin, g.cfg.World.Height-pop.SpawnMargin)
		if math.Hypot(x-avoid.X, y-avoid.Y) >= pop.SpawnClearance {
			break
		}
	}
	return x, y
}

// randIn returns a uniform sample in [lo, hi), or lo for an empty interval.
func (g *Game) randIn(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Float64()*(hi-lo)
}

// spawnFood creates the food field, all active.
func (g *Game) spawnFood() {
	for i := 0; i < g.cfg.Food.Count; i++ {
		id := g.newIdentity()
		pos := g.foodPosition()
		food := components.Food{Active: true}
		g.foods = append(g.foods, g.foodMapper.NewEntity(&id, &pos, &food))
	}
}

func (g *Game) foodPosition() components.Position {
	m := g.cfg.Food.Margin
	return components.Position{
		X: g.randIn(m, g.cfg.World.Width-m),
		Y: g.randIn(m, g.cfg.World.Height-m),
	}
}

// cleanupDead removes creatures killed this tick and spawns one tier-1
// replacement of the same faction for each, unless the session ended.
func (g *Game) cleanupDead() {
	var dead []ecs.Entity
	alive := g.creatures[:0]
	for _, e := range g.creatures {
		if g.maps.Health.Get(e).Alive {
			alive = append(alive, e)
		} else {
			dead = append(dead, e)
		}
	}
	g.creatures = alive

	for _, e := range dead {
		id := g.maps.Ident.Get(e).ID
		faction := g.maps.Creature.Get(e).Faction
		tier := g.maps.Body.Get(e).Tier

		g.collector.RecordDeath(faction)
		life := g.lifetimeTracker.Remove(id, g.tick, g.cfg.Physics.DTMs)
		g.emit(telemetry.NewDeathEvent(g.tick, id, faction, tier, g.killedBy[id], life))
		delete(g.killedBy, id)

		g.world.RemoveEntity(e)

		if g.Ended() {
			continue
		}
		if _, ok := g.SpawnCreature(1, faction); !ok {
			slog.Debug("replacement_dropped", "faction", faction.String())
		}
	}
}
