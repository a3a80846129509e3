package systems

import "math"

// MinHitDamage is the floor applied to every hit so no attack is a no-op.
const MinHitDamage = 0.5

// TierMultiplier returns the damage multiplier for an attacker that is diff
// tiers above (positive) or below (negative) its target.
func TierMultiplier(diff int) float64 {
	switch {
	case diff >= 2:
		return 4
	case diff == 1:
		return 2
	case diff == 0:
		return 1
	case diff == -1:
		return 0.75
	default:
		return 0.5
	}
}

// HitDamage returns the damage of one hit.
// Damage = max(0.5, baseDamage × TierMultiplier(attackerTier - targetTier)).
func HitDamage(attackerTier, targetTier int, baseDamage float64) float64 {
	return math.Max(MinHitDamage, baseDamage*TierMultiplier(attackerTier-targetTier))
}
