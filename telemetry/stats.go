package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Green int `csv:"green"`
	Red   int `csv:"red"`

	// Events during window
	GreenDeaths int `csv:"green_deaths"`
	RedDeaths   int `csv:"red_deaths"`
	Spawns      int `csv:"spawns"`

	// Combat
	HitsLanded  int     `csv:"hits_landed"`
	HitsBlocked int     `csv:"hits_blocked"`
	Kills       int     `csv:"kills"`
	PlayerKills int     `csv:"player_kills"`
	KillRate    float64 `csv:"kill_rate"`

	// Growth
	GreenFood    int `csv:"green_food"`
	PlayerFood   int `csv:"player_food"`
	GreenTierUps int `csv:"green_tier_ups"`
	RedTierUps   int `csv:"red_tier_ups"`

	// Distributions (sampled at window end)
	GreenTierMean float64 `csv:"green_tier_mean"`
	RedTierMean   float64 `csv:"red_tier_mean"`
	GreenHPMean   float64 `csv:"green_hp_mean"`
	GreenHPP10    float64 `csv:"green_hp_p10"`
	GreenHPP50    float64 `csv:"green_hp_p50"`
	GreenHPP90    float64 `csv:"green_hp_p90"`
	RedHPMean     float64 `csv:"red_hp_mean"`
	RedHPP10      float64 `csv:"red_hp_p10"`
	RedHPP50      float64 `csv:"red_hp_p50"`
	RedHPP90      float64 `csv:"red_hp_p90"`

	ActiveFood int `csv:"active_food"`

	// Player
	PlayerTier   int     `csv:"player_tier"`
	PlayerHP     float64 `csv:"player_hp"`
	PlayerLives  int     `csv:"player_lives"`
	PlayerDeaths int     `csv:"player_deaths"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles of a sample.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// Spread returns the mean and standard deviation of a sample.
func Spread(values []float64) (mean, std float64) {
	if len(values) < 2 {
		if len(values) == 1 {
			return values[0], 0
		}
		return 0, 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("green", s.Green),
		slog.Int("red", s.Red),
		slog.Int("green_deaths", s.GreenDeaths),
		slog.Int("red_deaths", s.RedDeaths),
		slog.Int("spawns", s.Spawns),
		slog.Int("hits_landed", s.HitsLanded),
		slog.Int("hits_blocked", s.HitsBlocked),
		slog.Int("kills", s.Kills),
		slog.Int("player_kills", s.PlayerKills),
		slog.Float64("kill_rate", s.KillRate),
		slog.Int("green_food", s.GreenFood),
		slog.Int("player_food", s.PlayerFood),
		slog.Int("green_tier_ups", s.GreenTierUps),
		slog.Int("red_tier_ups", s.RedTierUps),
		slog.Float64("green_tier_mean", s.GreenTierMean),
		slog.Float64("red_tier_mean", s.RedTierMean),
		slog.Float64("green_hp_mean", s.GreenHPMean),
		slog.Float64("red_hp_mean", s.RedHPMean),
		slog.Int("active_food", s.ActiveFood),
		slog.Int("player_tier", s.PlayerTier),
		slog.Float64("player_hp", s.PlayerHP),
		slog.Int("player_lives", s.PlayerLives),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
