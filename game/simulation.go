package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/telemetry"
)

// Step advances the arena by dt milliseconds. After the session ends it
// does nothing.
func (g *Game) Step(dt float64) {
	if g.Ended() {
		return
	}
	g.perfCollector.StartTick()
	g.now += dt

	// 1. Rebuild the spatial indices from the live population
	g.perfCollector.StartPhase(telemetry.PhaseSpatial)
	g.rebuildIndices()
	p := &g.perception

	// 2. Player movement, timers and queued click attacks
	g.perfCollector.StartPhase(telemetry.PhasePlayer)
	g.playerSys.Update(g.player, dt, g.bounds)
	for _, c := range g.pendingAttacks {
		g.playerSys.ClickAttack(g.player, c.X, c.Y, p, g)
	}
	g.pendingAttacks = g.pendingAttacks[:0]

	// 3. Creatures, one at a time in collection order
	g.perfCollector.StartPhase(telemetry.PhaseCreatures)
	for _, e := range g.creatures {
		g.creatureSys.Update(e, dt, p, g)
	}

	// 4. Food respawns
	g.perfCollector.StartPhase(telemetry.PhaseFood)
	if g.respawnFood() {
		g.rebuildFoodIndex()
	}

	// 5. Player contact combat, player food, death and win
	g.perfCollector.StartPhase(telemetry.PhaseContact)
	g.playerSys.ContactAttack(g.player, p, g)
	g.playerSys.EatFood(g.player, p, g)
	g.checkPlayer()

	// 6. Remove the dead and replace them
	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDead()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// rebuildIndices inserts the player, live creatures and all food. Insertion
// order is collection order, which decides query ties.
func (g *Game) rebuildIndices() {
	g.agentIndex.Clear()
	maxSize := 0.0

	insert := func(e ecs.Entity) {
		if !g.maps.AgentAlive(e) {
			return
		}
		pos := g.maps.Pos.Get(e)
		g.agentIndex.Insert(e, pos.X, pos.Y)
		maxSize = max(maxSize, g.maps.Body.Get(e).Size)
	}
	insert(g.player)
	for _, e := range g.creatures {
		insert(e)
	}
	g.rebuildFoodIndex()

	g.perception.Agents = g.agentIndex
	g.perception.Food = g.foodIndex
	g.perception.Bounds = g.bounds
	g.perception.MaxSize = maxSize
}

// rebuildFoodIndex re-buckets every food item at its current position.
func (g *Game) rebuildFoodIndex() {
	g.foodIndex.Clear()
	for _, e := range g.foods {
		pos := g.maps.Pos.Get(e)
		g.foodIndex.Insert(e, pos.X, pos.Y)
	}
}

// respawnFood reactivates consumed food whose delay has elapsed, at a new
// random position. It reports whether any food moved.
func (g *Game) respawnFood() bool {
	moved := false
	for _, e := range g.foods {
		food := g.maps.Food.Get(e)
		if food.Active || g.now < food.RespawnAt {
			continue
		}
		*g.maps.Pos.Get(e) = g.foodPosition()
		food.Active = true
		food.RespawnAt = 0
		moved = true
	}
	return moved
}

// checkPlayer handles player death and the win condition.
func (g *Game) checkPlayer() {
	if !g.maps.Health.Get(g.player).Alive {
		g.lives--
		id := g.maps.Ident.Get(g.player).ID
		g.collector.RecordPlayerDeath()
		g.emit(telemetry.NewPlayerDeathEvent(g.tick, id, g.killedBy[id], g.lives))
		delete(g.killedBy, id)
		g.hooks.OnPlayerDeath(g.lives)

		if g.lives > 0 {
			g.playerSys.Respawn(g.player)
		} else {
			g.over = true
		}
		return
	}

	if g.playerSys.Won(g.player) {
		g.won = true
		id := g.maps.Ident.Get(g.player).ID
		g.emit(telemetry.NewPlayerWinEvent(g.tick, id, g.maps.Body.Get(g.player).Tier))
		g.hooks.OnPlayerWin()
	}
}
