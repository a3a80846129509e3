package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/config"
)

// PlayerSystem runs the player's timers, movement, attacks and growth.
type PlayerSystem struct {
	cfg  *config.Config
	maps *Maps

	// OnTierUp is called after the player advances a tier.
	OnTierUp func(e ecs.Entity, tier int)
}

// NewPlayerSystem creates a new player controller.
func NewPlayerSystem(cfg *config.Config, m *Maps) *PlayerSystem {
	return &PlayerSystem{cfg: cfg, maps: m}
}

// Update ticks the player's timers, regenerates HP and moves it.
// A non-zero move vector overrides the target point.
func (s *PlayerSystem) Update(e ecs.Entity, dt float64, b Bounds) {
	health := s.maps.Health.Get(e)
	if !health.Alive {
		return
	}
	pl := s.maps.Player.Get(e)
	pc := &s.cfg.Player

	pl.TimeSurvived += dt
	pl.InvincibleTimer = max(0, pl.InvincibleTimer-dt)
	s.maps.Combat.Get(e).Cool(dt)

	pl.RegenTimer += dt
	if pl.RegenTimer >= pc.RegenIntervalMs && health.HP < health.MaxHP {
		health.Heal(pc.RegenAmount)
		pl.RegenTimer = 0
	}

	pos := s.maps.Pos.Get(e)
	vel := s.maps.Vel.Get(e)
	speed := s.maps.Body.Get(e).Speed

	move := r2.Vec{X: pl.MoveX, Y: pl.MoveY}
	target := r2.Vec{X: pl.TargetX, Y: pl.TargetY}
	switch {
	case r2.Norm(move) > 0:
		vel.Set(r2.Scale(speed, r2.Unit(move)))
	case r2.Norm(r2.Sub(target, pos.Vec())) > pc.ArriveDistance:
		vel.Set(Steer(pos.Vec(), target, speed))
	default:
		vel.Set(r2.Vec{})
	}

	moveAgent(pos, vel, s.maps.Heading.Get(e), dt, b)
}

// TakeHit applies creature damage to the player, honoring invincibility.
// Every landed hit starts a new invincibility window.
func (s *PlayerSystem) TakeHit(e ecs.Entity, amount float64) (landed, killed bool) {
	health := s.maps.Health.Get(e)
	pl := s.maps.Player.Get(e)
	if !health.Alive || pl.InvincibleTimer > 0 {
		return false, false
	}
	killed = health.TakeDamage(amount)
	pl.InvincibleTimer = s.cfg.Player.InvincibleMs
	return true, killed
}

// ContactAttack strikes the nearest live creature within contact distance,
// boundary included,
// when the contact cooldown allows. It returns the struck creature.
func (s *PlayerSystem) ContactAttack(e ecs.Entity, p *Perception, arena Arena) (ecs.Entity, bool) {
	combat := s.maps.Combat.Get(e)
	if !s.maps.Health.Get(e).Alive || !combat.Ready() {
		return ecs.Entity{}, false
	}
	pos := s.maps.Pos.Get(e)
	body := s.maps.Body.Get(e)
	scale := s.cfg.Player.ContactScale

	target, ok := p.Agents.Nearest(pos.X, pos.Y, inclusive((body.Size+p.MaxSize)*scale), func(n Neighbor) bool {
		if n.E == e || !s.maps.AgentAlive(n.E) {
			return false
		}
		return n.Dist <= (body.Size+s.maps.Body.Get(n.E).Size)*scale
	})
	if !ok {
		return ecs.Entity{}, false
	}

	s.strike(e, target.E, arena)
	combat.AttackCooldown = s.cfg.Player.ContactCooldownMs
	return target.E, true
}

// ClickAttack strikes the creature nearest the player that is within attack
// reach and whose body lies under the clicked point. It is not cooldown-gated.
func (s *PlayerSystem) ClickAttack(e ecs.Entity, x, y float64, p *Perception, arena Arena) (ecs.Entity, bool) {
	if !s.maps.Health.Get(e).Alive {
		return ecs.Entity{}, false
	}
	pos := s.maps.Pos.Get(e)
	body := s.maps.Body.Get(e)
	click := r2.Vec{X: x, Y: y}
	slack := s.cfg.Player.ClickSlack

	target, ok := p.Agents.Nearest(pos.X, pos.Y, body.AttackRange+p.MaxSize, func(n Neighbor) bool {
		if n.E == e || !s.maps.AgentAlive(n.E) {
			return false
		}
		size := s.maps.Body.Get(n.E).Size
		if n.Dist >= body.AttackRange+size {
			return false
		}
		return r2.Norm(r2.Sub(s.maps.Pos.Get(n.E).Vec(), click)) < size+slack
	})
	if !ok {
		return ecs.Entity{}, false
	}

	s.strike(e, target.E, arena)
	return target.E, true
}

// strike deals tier-scaled damage and credits a kill.
func (s *PlayerSystem) strike(e, target ecs.Entity, arena Arena) {
	body := s.maps.Body.Get(e)
	dmg := HitDamage(body.Tier, s.maps.Body.Get(target).Tier, body.BaseDamage)
	if _, killed := arena.Damage(e, target, dmg); killed {
		s.OnKill(e)
	}
}

// EatFood consumes the nearest active food within reach, boundary included.
func (s *PlayerSystem) EatFood(e ecs.Entity, p *Perception, arena Arena) bool {
	if !s.maps.Health.Get(e).Alive {
		return false
	}
	pos := s.maps.Pos.Get(e)
	reach := s.maps.Body.Get(e).Size + s.cfg.Player.EatReach
	food, ok := p.Food.Nearest(pos.X, pos.Y, inclusive(reach), func(n Neighbor) bool {
		return s.maps.FoodActive(n.E)
	})
	if !ok || !arena.ConsumeFood(food.E, e) {
		return false
	}
	s.OnFoodEaten(e)
	return true
}

// OnKill credits a creature kill: one growth point and a small heal.
func (s *PlayerSystem) OnKill(e ecs.Entity) {
	pl := s.maps.Player.Get(e)
	pl.CreaturesEaten++
	s.AddGrowth(e, 1)
	s.maps.Health.Get(e).Heal(s.cfg.Player.KillHeal)
}

// OnFoodEaten credits a food item: a heal and one growth point.
func (s *PlayerSystem) OnFoodEaten(e ecs.Entity) {
	s.maps.Player.Get(e).FoodEaten++
	s.maps.Health.Get(e).Heal(s.cfg.Player.FoodHeal)
	s.AddGrowth(e, 1)
}

// AddGrowth adds growth points and tiers up once the tier's threshold is met.
func (s *PlayerSystem) AddGrowth(e ecs.Entity, amount int) {
	pl := s.maps.Player.Get(e)
	pl.Growth += amount
	if pl.GrowthNeeded > 0 && pl.Growth >= pl.GrowthNeeded {
		s.TierUp(e)
	}
}

// TierUp advances the player one tier with a full heal. It returns false at
// the top tier.
func (s *PlayerSystem) TierUp(e ecs.Entity) bool {
	body := s.maps.Body.Get(e)
	if body.Tier >= config.MaxTier {
		return false
	}
	*body = PlayerBody(s.cfg, body.Tier+1)

	t := s.cfg.Tier(body.Tier)
	health := s.maps.Health.Get(e)
	health.MaxHP = t.MaxHP
	health.HP = t.MaxHP

	pl := s.maps.Player.Get(e)
	pl.Growth = 0
	pl.GrowthNeeded = t.GrowthNeeded
	pl.MaxTierReached = max(pl.MaxTierReached, body.Tier)

	slog.Info("player_tier_up", "tier", body.Tier)
	if s.OnTierUp != nil {
		s.OnTierUp(e, body.Tier)
	}
	return true
}

// Won reports whether the player has reached the top tier.
func (s *PlayerSystem) Won(e ecs.Entity) bool {
	return s.maps.Body.Get(e).Tier >= config.MaxTier
}

// Respawn restores a dead player in place with full HP and a grace period.
func (s *PlayerSystem) Respawn(e ecs.Entity) {
	health := s.maps.Health.Get(e)
	health.HP = health.MaxHP
	health.Alive = true

	pl := s.maps.Player.Get(e)
	pl.InvincibleTimer = s.cfg.Player.InvincibleMs
	pl.RegenTimer = 0
	pl.MoveX, pl.MoveY = 0, 0
	pos := s.maps.Pos.Get(e)
	pl.TargetX, pl.TargetY = pos.X, pos.Y
}
