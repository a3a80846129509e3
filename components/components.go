// Package components defines ECS components for the arena.
package components

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Identity gives every agent and food item a stable, never-reused ID.
// ark recycles entity slots, so views and logs use this instead.
type Identity struct {
	ID uint32
}

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a gonum vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Velocity is the movement intent in world units per second.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a gonum vector.
func (v Velocity) Vec() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// Set stores a gonum vector.
func (v *Velocity) Set(u r2.Vec) {
	v.X, v.Y = u.X, u.Y
}

// Heading is the facing direction in radians.
type Heading struct {
	Angle float64
}

// Face updates the heading from a velocity; a zero velocity leaves it unchanged.
func (h *Heading) Face(v Velocity) {
	if v.X != 0 || v.Y != 0 {
		h.Angle = math.Atan2(v.Y, v.X)
	}
}

// Body holds the tier-derived stats of an agent.
type Body struct {
	Tier        int
	Size        float64 // radius-like body size
	Speed       float64 // units per second
	AttackRange float64
	BaseDamage  float64
}

// Health tracks hit points. Alive goes false exactly once, when HP reaches 0.
type Health struct {
	HP    float64
	MaxHP float64
	Alive bool
}

// TakeDamage subtracts amount and reports whether this hit was the lethal one.
// Damage to an already dead agent is ignored.
func (h *Health) TakeDamage(amount float64) (killed bool) {
	if !h.Alive {
		return false
	}
	h.HP -= amount
	if h.HP <= 0 {
		h.HP = 0
		h.Alive = false
		return true
	}
	return false
}

// Heal adds HP up to MaxHP. The dead are not healed.
func (h *Health) Heal(amount float64) {
	if !h.Alive {
		return
	}
	h.HP = math.Min(h.MaxHP, h.HP+amount)
}

// Ratio returns HP/MaxHP in [0, 1].
func (h *Health) Ratio() float64 {
	if h.MaxHP <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, h.HP/h.MaxHP))
}

// Combat holds the attack cooldown in milliseconds.
type Combat struct {
	AttackCooldown float64
}

// Cool counts the cooldown down by dt, clamped at zero.
func (c *Combat) Cool(dt float64) {
	c.AttackCooldown = math.Max(0, c.AttackCooldown-dt)
}

// Ready reports whether an attack may be made this tick.
func (c *Combat) Ready() bool {
	return c.AttackCooldown <= 0
}

// Creature holds the AI state of a non-player agent.
type Creature struct {
	Faction        Faction
	State          AIState
	StateTimer     float64    // ms until the next re-evaluation
	WanderAngle    float64    // radians
	Target         ecs.Entity // weak reference; zero means none
	DetectionRange float64
	FoodEaten      int
}

// ClearTarget drops the captured target.
func (c *Creature) ClearTarget() {
	c.Target = ecs.Entity{}
}

// Player holds the state of the single player-controlled agent.
type Player struct {
	Growth       int
	GrowthNeeded int // 0 = no further growth

	// Input, written by the input layer and read during the step
	TargetX, TargetY float64
	MoveX, MoveY     float64

	RegenTimer      float64 // ms accumulated toward the next regen tick
	InvincibleTimer float64 // ms of remaining hit immunity

	CreaturesEaten int
	FoodEaten      int
	TimeSurvived   float64 // ms
	MaxTierReached int
}

// Food is a consumable pellet. Inactive food waits for RespawnAt (ms).
type Food struct {
	Active    bool
	RespawnAt float64
}
