package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// Arena is the mutation surface the population manager exposes to the
// controllers. All cross-agent damage and food consumption go through it.
type Arena interface {
	// Damage applies amount to target. landed is false when the target was
	// already dead or immune; killed is true only for the lethal hit.
	Damage(attacker, target ecs.Entity, amount float64) (landed, killed bool)
	// ConsumeFood deactivates food on behalf of consumer. It returns false
	// if the food was not active.
	ConsumeFood(food, consumer ecs.Entity) bool
}

// Perception is what controllers can see during a tick.
type Perception struct {
	Agents  Index // player and creatures
	Food    Index
	Bounds  Bounds
	MaxSize float64 // largest agent size, bounds attack queries
}

// CreatureSystem runs the state machine, attack and eat routines of creatures.
type CreatureSystem struct {
	cfg       *config.Config
	rng       *rand.Rand
	maps      *Maps
	behaviors map[components.Faction]Behavior

	// OnTierUp is called after a creature advances a tier.
	OnTierUp func(e ecs.Entity, faction components.Faction, tier int)
}

// NewCreatureSystem creates a new creature controller.
func NewCreatureSystem(cfg *config.Config, rng *rand.Rand, m *Maps) *CreatureSystem {
	return &CreatureSystem{
		cfg:  cfg,
		rng:  rng,
		maps: m,
		behaviors: map[components.Faction]Behavior{
			components.FactionGreen: BehaviorFor(components.FactionGreen, cfg.Creatures.Lifesteal),
			components.FactionRed:   BehaviorFor(components.FactionRed, cfg.Creatures.Lifesteal),
		},
	}
}

// Behavior returns the controller strategy of faction f.
func (s *CreatureSystem) Behavior(f components.Faction) Behavior {
	return s.behaviors[f]
}

// Update advances one creature by dt milliseconds. Creatures are updated one
// at a time, so each sees the moves of those updated before it.
func (s *CreatureSystem) Update(e ecs.Entity, dt float64, p *Perception, arena Arena) {
	health := s.maps.Health.Get(e)
	if !health.Alive {
		return
	}
	cr := s.maps.Creature.Get(e)
	behavior := s.behaviors[cr.Faction]

	s.maps.Combat.Get(e).Cool(dt)
	cr.StateTimer -= dt
	if cr.StateTimer <= 0 {
		s.evaluate(e, behavior, p)
	}

	s.act(e, p)
	moveAgent(s.maps.Pos.Get(e), s.maps.Vel.Get(e), s.maps.Heading.Get(e), dt, p.Bounds)

	s.attack(e, behavior, p, arena)
	if behavior.Eats() {
		s.eat(e, behavior, arena)
	}
}

// evaluate runs the priority list and enters the chosen state.
func (s *CreatureSystem) evaluate(e ecs.Entity, behavior Behavior, p *Perception) {
	threat, threatened := s.nearestThreat(e, p)
	s.enter(e, behavior.Evaluate(s, e, p, threat, threatened))
}

// enter switches state, captures the target and draws the state timer.
func (s *CreatureSystem) enter(e ecs.Entity, d Decision) {
	cr := s.maps.Creature.Get(e)
	cr.State = d.State
	cr.Target = d.Target

	cc := &s.cfg.Creatures
	switch d.State {
	case components.StateFlee:
		cr.StateTimer = cc.Flee.TimerMs
	case components.StateChase:
		cr.StateTimer = cc.Chase.TimerMs
	case components.StateSeekFood:
		cr.StateTimer = cc.SeekFood.TimerMs
	default:
		cr.ClearTarget()
		cr.WanderAngle = s.rng.Float64() * 2 * math.Pi
		cr.StateTimer = randBetween(s.rng, config.Range{
			Min: float64(cc.Wander.TimerMinMs),
			Max: float64(cc.Wander.TimerMaxMs),
		})
	}
}

// fallBack drops an invalid target and forces a re-evaluation next tick.
func (s *CreatureSystem) fallBack(cr *components.Creature) {
	cr.State = components.StateWander
	cr.ClearTarget()
	cr.StateTimer = 0
}

// act sets the velocity for the current state, re-validating the target first.
func (s *CreatureSystem) act(e ecs.Entity, p *Perception) {
	cr := s.maps.Creature.Get(e)
	body := s.maps.Body.Get(e)
	pos := s.maps.Pos.Get(e)
	vel := s.maps.Vel.Get(e)
	cc := &s.cfg.Creatures

	switch cr.State {
	case components.StateFlee:
		if !s.maps.AgentAlive(cr.Target) {
			s.fallBack(cr)
			break
		}
		away := r2.Sub(pos.Vec(), s.maps.Pos.Get(cr.Target).Vec())
		if r2.Norm(away) == 0 {
			away = r2.Vec{X: math.Cos(cr.WanderAngle), Y: math.Sin(cr.WanderAngle)}
		}
		vel.Set(r2.Scale(body.Speed*cc.Flee.SpeedScale, r2.Unit(away)))
		return

	case components.StateChase:
		if !s.maps.AgentAlive(cr.Target) {
			s.fallBack(cr)
			break
		}
		vel.Set(Steer(pos.Vec(), s.maps.Pos.Get(cr.Target).Vec(), body.Speed*cc.Chase.SpeedScale))
		return

	case components.StateSeekFood:
		if !s.maps.FoodActive(cr.Target) {
			food, ok := s.nearestFood(e, p)
			if !ok {
				s.fallBack(cr)
				break
			}
			cr.Target = food.E
		}
		vel.Set(Steer(pos.Vec(), s.maps.Pos.Get(cr.Target).Vec(), body.Speed*cc.SeekFood.SpeedScale))
		return
	}

	s.wander(cr, body, pos, vel, p.Bounds)
}

// wander perturbs the heading, re-aims inward near a bound and moves slowly.
func (s *CreatureSystem) wander(cr *components.Creature, body *components.Body, pos *components.Position, vel *components.Velocity, b Bounds) {
	w := &s.cfg.Creatures.Wander
	cr.WanderAngle = normalizeAngle(cr.WanderAngle + (s.rng.Float64()-0.5)*w.Jitter)

	// Later checks override earlier ones
	if pos.X < w.Margin {
		cr.WanderAngle = 0
	}
	if pos.X > b.Width-w.Margin {
		cr.WanderAngle = math.Pi
	}
	if pos.Y < w.Margin {
		cr.WanderAngle = math.Pi / 2
	}
	if pos.Y > b.Height-w.Margin {
		cr.WanderAngle = -math.Pi / 2
	}

	speed := body.Speed * w.SpeedScale
	vel.X = math.Cos(cr.WanderAngle) * speed
	vel.Y = math.Sin(cr.WanderAngle) * speed
}

// attack strikes the nearest engageable agent in reach when off cooldown.
func (s *CreatureSystem) attack(e ecs.Entity, behavior Behavior, p *Perception, arena Arena) {
	combat := s.maps.Combat.Get(e)
	if !combat.Ready() {
		return
	}
	pos := s.maps.Pos.Get(e)
	body := s.maps.Body.Get(e)
	perSize := s.cfg.Creatures.AttackReachPerSize

	radius := body.AttackRange + p.MaxSize*perSize
	target, ok := p.Agents.Nearest(pos.X, pos.Y, radius, func(n Neighbor) bool {
		if n.E == e || !s.maps.AgentAlive(n.E) {
			return false
		}
		tb := s.maps.Body.Get(n.E)
		if n.Dist >= body.AttackRange+tb.Size*perSize {
			return false
		}
		return behavior.CanEngage(body.Tier, tb.Tier)
	})
	if !ok {
		return
	}

	dmg := HitDamage(body.Tier, s.maps.Body.Get(target.E).Tier, body.BaseDamage)
	landed, killed := arena.Damage(e, target.E, dmg)
	combat.AttackCooldown = s.cfg.Creatures.AttackCooldownMs

	if landed {
		if ls := behavior.Lifesteal(); ls > 0 {
			s.maps.Health.Get(e).Heal(dmg * ls)
		}
	}
	if killed {
		behavior.OnKill(s, e)
	}
}

// eat consumes the tracked food target once it is in reach.
func (s *CreatureSystem) eat(e ecs.Entity, behavior Behavior, arena Arena) {
	cr := s.maps.Creature.Get(e)
	if !s.maps.FoodActive(cr.Target) {
		return
	}
	pos := s.maps.Pos.Get(e)
	food := s.maps.Pos.Get(cr.Target)
	reach := s.maps.Body.Get(e).Size + s.cfg.Creatures.EatReach
	if r2.Norm(r2.Sub(food.Vec(), pos.Vec())) >= reach {
		return
	}
	if arena.ConsumeFood(cr.Target, e) {
		cr.ClearTarget()
		behavior.OnFoodEaten(s, e)
	}
}

// nearestThreat finds the nearest live agent of strictly higher tier in detection range.
func (s *CreatureSystem) nearestThreat(e ecs.Entity, p *Perception) (Neighbor, bool) {
	pos := s.maps.Pos.Get(e)
	tier := s.maps.Body.Get(e).Tier
	return p.Agents.Nearest(pos.X, pos.Y, s.maps.Creature.Get(e).DetectionRange, func(n Neighbor) bool {
		return n.E != e && s.maps.AgentAlive(n.E) && s.maps.Body.Get(n.E).Tier > tier
	})
}

// nearestPrey finds the nearest live agent of equal or lower tier in chase range.
func (s *CreatureSystem) nearestPrey(e ecs.Entity, p *Perception) (Neighbor, bool) {
	pos := s.maps.Pos.Get(e)
	tier := s.maps.Body.Get(e).Tier
	radius := s.maps.Creature.Get(e).DetectionRange * s.cfg.Creatures.ChaseRangeScale
	return p.Agents.Nearest(pos.X, pos.Y, radius, func(n Neighbor) bool {
		return n.E != e && s.maps.AgentAlive(n.E) && s.maps.Body.Get(n.E).Tier <= tier
	})
}

// nearestFood finds the nearest active food in detection range.
func (s *CreatureSystem) nearestFood(e ecs.Entity, p *Perception) (Neighbor, bool) {
	pos := s.maps.Pos.Get(e)
	return p.Food.Nearest(pos.X, pos.Y, s.maps.Creature.Get(e).DetectionRange, func(n Neighbor) bool {
		return s.maps.FoodActive(n.E)
	})
}
