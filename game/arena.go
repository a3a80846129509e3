package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/telemetry"
)

// Damage applies a hit from attacker to target. Hits on the player go
// through its invincibility window; hits on creatures always land.
// It implements systems.Arena.
func (g *Game) Damage(attacker, target ecs.Entity, amount float64) (landed, killed bool) {
	if !g.maps.AgentAlive(target) {
		return false, false
	}
	if g.maps.IsPlayer(target) {
		landed, killed = g.playerSys.TakeHit(target, amount)
	} else {
		landed, killed = true, g.maps.Health.Get(target).TakeDamage(amount)
	}
	g.collector.RecordHit(landed)
	if !landed {
		return false, false
	}

	attackerID := g.maps.Ident.Get(attacker).ID
	g.lifetimeTracker.RecordHit(attackerID)
	if !killed {
		return true, false
	}

	byPlayer := g.maps.IsPlayer(attacker)
	g.collector.RecordKill(byPlayer)
	g.lifetimeTracker.RecordKill(attackerID)
	g.killedBy[g.maps.Ident.Get(target).ID] = attackerID
	if !g.maps.IsPlayer(target) {
		g.hooks.OnCreatureDeath(g.agentView(target))
	}
	return true, true
}

// ConsumeFood deactivates an active food item and schedules its respawn.
// It implements systems.Arena.
func (g *Game) ConsumeFood(food, consumer ecs.Entity) bool {
	if !g.maps.FoodActive(food) {
		return false
	}
	f := g.maps.Food.Get(food)
	f.Active = false
	f.RespawnAt = g.now + g.cfg.Food.RespawnMs

	byPlayer := g.maps.IsPlayer(consumer)
	g.collector.RecordFood(byPlayer)
	if !byPlayer {
		g.lifetimeTracker.RecordFood(g.maps.Ident.Get(consumer).ID)
	}
	g.hooks.OnFoodConsumed(g.foodView(food), g.agentView(consumer))
	return true
}

func (g *Game) onCreatureTierUp(e ecs.Entity, faction components.Faction, tier int) {
	id := g.maps.Ident.Get(e).ID
	g.collector.RecordTierUp(faction)
	g.lifetimeTracker.RecordTier(id, tier)
	g.perception.MaxSize = max(g.perception.MaxSize, g.maps.Body.Get(e).Size)
	g.emit(telemetry.NewTierUpEvent(g.tick, id, faction, tier))
}

func (g *Game) onPlayerTierUp(e ecs.Entity, tier int) {
	g.perception.MaxSize = max(g.perception.MaxSize, g.maps.Body.Get(e).Size)
	g.emit(telemetry.NewPlayerTierUpEvent(g.tick, g.maps.Ident.Get(e).ID, tier))
}
