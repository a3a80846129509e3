package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// Decision is the outcome of a state evaluation.
type Decision struct {
	State  components.AIState
	Target ecs.Entity
}

// Behavior is the faction-specific part of the creature controller.
type Behavior interface {
	Faction() components.Faction
	// Evaluate picks the next state. threat is the nearest strictly larger
	// live agent inside detection range, valid when threatened is true.
	Evaluate(s *CreatureSystem, self ecs.Entity, p *Perception, threat Neighbor, threatened bool) Decision
	// CanEngage reports whether an attacker of selfTier may strike targetTier.
	CanEngage(selfTier, targetTier int) bool
	// Lifesteal is the fraction of dealt damage returned as healing.
	Lifesteal() float64
	// Eats reports whether the faction consumes food.
	Eats() bool
	OnKill(s *CreatureSystem, self ecs.Entity)
	OnFoodEaten(s *CreatureSystem, self ecs.Entity)
}

// BehaviorFor returns the behavior of a faction.
func BehaviorFor(f components.Faction, lifesteal float64) Behavior {
	if f == components.FactionRed {
		return predator{lifesteal: lifesteal}
	}
	return forager{}
}

// forager flees anything larger and eats food to grow.
type forager struct{}

func (forager) Faction() components.Faction { return components.FactionGreen }

func (forager) Evaluate(s *CreatureSystem, self ecs.Entity, p *Perception, threat Neighbor, threatened bool) Decision {
	if threatened {
		return Decision{State: components.StateFlee, Target: threat.E}
	}
	if food, ok := s.nearestFood(self, p); ok {
		return Decision{State: components.StateSeekFood, Target: food.E}
	}
	return Decision{State: components.StateWander}
}

// Foragers strike equal or smaller agents opportunistically.
func (forager) CanEngage(selfTier, targetTier int) bool { return targetTier <= selfTier }

func (forager) Lifesteal() float64 { return 0 }

func (forager) Eats() bool { return true }

func (forager) OnKill(*CreatureSystem, ecs.Entity) {}

func (forager) OnFoodEaten(s *CreatureSystem, self ecs.Entity) {
	cr := s.maps.Creature.Get(self)
	cr.FoodEaten++
	if per := s.cfg.Creatures.FoodPerTier; per > 0 && cr.FoodEaten%per == 0 {
		s.TryTierUp(self, false)
	}
}

// predator hunts equal or smaller agents and grows by killing.
type predator struct {
	lifesteal float64
}

func (predator) Faction() components.Faction { return components.FactionRed }

func (predator) Evaluate(s *CreatureSystem, self ecs.Entity, p *Perception, _ Neighbor, _ bool) Decision {
	if prey, ok := s.nearestPrey(self, p); ok {
		return Decision{State: components.StateChase, Target: prey.E}
	}
	return Decision{State: components.StateWander}
}

func (predator) CanEngage(selfTier, targetTier int) bool { return targetTier <= selfTier }

func (b predator) Lifesteal() float64 { return b.lifesteal }

func (predator) Eats() bool { return false }

func (predator) OnKill(s *CreatureSystem, self ecs.Entity) {
	s.TryTierUp(self, true)
}

func (predator) OnFoodEaten(*CreatureSystem, ecs.Entity) {}
