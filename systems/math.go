package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/shoal/config"
)

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// randBetween returns an integer-valued sample in [r.Min, r.Max], inclusive.
func randBetween(rng *rand.Rand, r config.Range) float64 {
	lo, hi := int(r.Min), int(r.Max)
	if hi <= lo {
		return float64(lo)
	}
	return float64(lo + rng.Intn(hi-lo+1))
}
