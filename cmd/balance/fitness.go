package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/telemetry"
)

// FitnessEvaluator runs headless arenas and scores faction balance.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the negated mean quality across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(x, s)
			qualities[idx] = computeQuality(windows, fe.targetRatio())
		}(i, seed)
	}
	wg.Wait()

	quality := stat.Mean(qualities, nil)
	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()
	return -quality
}

// targetRatio is the green:red ratio of the initial spawn plan.
func (fe *FitnessEvaluator) targetRatio() float64 {
	var green, red int
	for _, e := range fe.baseConfig.Population.SpawnPlan {
		green += e.Green
		red += e.Red
	}
	if red == 0 {
		return 1
	}
	return float64(green) / float64(red)
}

// runSimulation executes a single headless arena with an idle player that
// cannot run out of lives, collecting window stats.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Player.Lives = math.MaxInt32

	var windows []telemetry.WindowStats
	g := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks && !g.Ended() {
		g.UpdateHeadless()
	}
	return windows
}

// copyConfig returns a copy of the base config. Slices are shared and
// never written.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.30
	qualityWeightCombat    = 0.30

	qualityWarmupWindows = 2 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where either faction < this
)

// computeQuality scores arena balance in [0, 1] from window stats: the
// green:red ratio near target, steady faction counts and ongoing combat.
func computeQuality(windows []telemetry.WindowStats, target float64) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var ratioSum, combatSum float64
	var n int
	greens := make([]float64, 0, len(valid))
	reds := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Green < qualityMinPop || w.Red < qualityMinPop {
			continue
		}
		n++
		greens = append(greens, float64(w.Green))
		reds = append(reds, float64(w.Red))

		logErr := math.Log(float64(w.Green) / float64(w.Red) / target)
		ratioSum += math.Exp(-logErr * logErr)

		// Some kills per window, but not a massacre
		perRed := float64(w.Kills) / float64(w.Red)
		combatSum += 1 - math.Exp(-perRed)
	}
	if n == 0 {
		return 0
	}

	stability := 0.0
	if n >= 2 {
		cg, cr := cv(greens), cv(reds)
		stability = math.Exp(-(cg*cg + cr*cr))
	}

	quality := qualityWeightRatio*ratioSum/float64(n) +
		qualityWeightStability*stability +
		qualityWeightCombat*combatSum/float64(n)
	return min(1, max(0, quality))
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
