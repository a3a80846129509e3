package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// Maps bundles the component mappers shared by the controllers.
type Maps struct {
	World *ecs.World

	Ident    *ecs.Map1[components.Identity]
	Pos      *ecs.Map1[components.Position]
	Vel      *ecs.Map1[components.Velocity]
	Heading  *ecs.Map1[components.Heading]
	Body     *ecs.Map1[components.Body]
	Health   *ecs.Map1[components.Health]
	Combat   *ecs.Map1[components.Combat]
	Creature *ecs.Map[components.Creature]
	Player   *ecs.Map[components.Player]
	Food     *ecs.Map[components.Food]
}

// NewMaps creates mappers for every component on w.
func NewMaps(w *ecs.World) *Maps {
	return &Maps{
		World:    w,
		Ident:    ecs.NewMap1[components.Identity](w),
		Pos:      ecs.NewMap1[components.Position](w),
		Vel:      ecs.NewMap1[components.Velocity](w),
		Heading:  ecs.NewMap1[components.Heading](w),
		Body:     ecs.NewMap1[components.Body](w),
		Health:   ecs.NewMap1[components.Health](w),
		Combat:   ecs.NewMap1[components.Combat](w),
		Creature: ecs.NewMap[components.Creature](w),
		Player:   ecs.NewMap[components.Player](w),
		Food:     ecs.NewMap[components.Food](w),
	}
}

// Valid reports whether e refers to an entity that still exists.
func (m *Maps) Valid(e ecs.Entity) bool {
	return !e.IsZero() && m.World.Alive(e)
}

// AgentAlive reports whether e is an existing agent with Alive set.
// Agents killed this tick stay in the world until cleanup but fail this check.
func (m *Maps) AgentAlive(e ecs.Entity) bool {
	if !m.Valid(e) || m.Food.Has(e) {
		return false
	}
	return m.Health.Get(e).Alive
}

// FoodActive reports whether e is a food item that can currently be eaten.
func (m *Maps) FoodActive(e ecs.Entity) bool {
	if !m.Valid(e) || !m.Food.Has(e) {
		return false
	}
	return m.Food.Get(e).Active
}

// IsPlayer reports whether e is the player agent.
func (m *Maps) IsPlayer(e ecs.Entity) bool {
	return m.Valid(e) && m.Player.Has(e)
}
