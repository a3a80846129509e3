package systems

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// CanTierUp reports whether a creature of the given faction and tier may
// advance. Foragers grow only from food (force=false), predators only from
// kills (force=true), and nothing grows past the top tier.
func CanTierUp(faction components.Faction, tier int, force bool) bool {
	if tier >= config.MaxTier {
		return false
	}
	switch faction {
	case components.FactionGreen:
		return !force
	case components.FactionRed:
		return force
	default:
		return false
	}
}

// CreatureBody returns the body of a creature at the given tier. Speed gets
// an integer jitter drawn from jitter; attack range is scaled down.
func CreatureBody(cfg *config.Config, tier int, jitter config.Range, rng *rand.Rand) components.Body {
	t := cfg.Tier(tier)
	return components.Body{
		Tier:        tier,
		Size:        t.Size,
		Speed:       t.Speed + randBetween(rng, jitter),
		AttackRange: t.AttackRange * cfg.Creatures.AttackRangeScale,
		BaseDamage:  t.BaseDamage,
	}
}

// PlayerBody returns the body of the player at the given tier.
func PlayerBody(cfg *config.Config, tier int) components.Body {
	t := cfg.Tier(tier)
	return components.Body{
		Tier:        tier,
		Size:        t.Size,
		Speed:       t.Speed,
		AttackRange: t.AttackRange,
		BaseDamage:  t.BaseDamage,
	}
}

// TryTierUp advances a creature one tier when CanTierUp allows it. Body
// stats are recomputed, max HP raised and HP healed by the configured amount.
func (s *CreatureSystem) TryTierUp(e ecs.Entity, force bool) bool {
	body := s.maps.Body.Get(e)
	cr := s.maps.Creature.Get(e)
	if !CanTierUp(cr.Faction, body.Tier, force) {
		return false
	}

	*body = CreatureBody(s.cfg, body.Tier+1, s.cfg.Creatures.TierUpSpeedJitter, s.rng)
	cr.DetectionRange = s.cfg.DetectionRange(body.Size)

	health := s.maps.Health.Get(e)
	health.MaxHP = s.cfg.Tier(body.Tier).MaxHP
	health.Heal(s.cfg.Creatures.TierUpHeal)

	slog.Debug("creature_tier_up",
		"id", s.maps.Ident.Get(e).ID,
		"faction", cr.Faction.String(),
		"tier", body.Tier,
	)
	if s.OnTierUp != nil {
		s.OnTierUp(e, cr.Faction, body.Tier)
	}
	return true
}
