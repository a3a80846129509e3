// Package game owns the arena: the ECS world, the creature and food
// collections, the per-tick order and the session signals.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// Options configures a new game.
type Options struct {
	Config *config.Config // nil = config.Cfg()
	Seed   int64
	Rand   *rand.Rand // overrides Seed when set
	Hooks  Hooks      // nil = NopHooks

	LogStats       bool
	StatsWindowSec float64 // 0 = telemetry.stats_window
	StatsCallback  func(telemetry.WindowStats)
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// clickPoint is a queued AttackAt request.
type clickPoint struct {
	X, Y float64
}

// Game holds the complete arena state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	maps  *systems.Maps

	creatureMapper *ecs.Map8[
		components.Identity,
		components.Position,
		components.Velocity,
		components.Heading,
		components.Body,
		components.Health,
		components.Combat,
		components.Creature,
	]
	playerMapper *ecs.Map8[
		components.Identity,
		components.Position,
		components.Velocity,
		components.Heading,
		components.Body,
		components.Health,
		components.Combat,
		components.Player,
	]
	foodMapper *ecs.Map3[components.Identity, components.Position, components.Food]

	// Order-independent scans (census, counts)
	creatureFilter *ecs.Filter3[components.Body, components.Health, components.Creature]
	foodFilter     *ecs.Filter1[components.Food]

	creatureSys *systems.CreatureSystem
	playerSys   *systems.PlayerSystem
	agentIndex  systems.IndexBuilder
	foodIndex   systems.IndexBuilder
	perception  systems.Perception
	bounds      systems.Bounds

	// Collections, in update order
	player    ecs.Entity
	creatures []ecs.Entity
	foods     []ecs.Entity

	pendingAttacks []clickPoint
	killedBy       map[uint32]uint32

	// State
	now    float64 // ms of simulated time
	tick   int32
	nextID uint32
	lives  int
	won    bool
	over   bool

	stepsPerUpdate int
	hooks          Hooks

	// Telemetry
	rngSeed          int64
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	snapshotDir      string
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
}

// NewGame creates a game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{})
}

// NewGameWithOptions creates a new arena, spawns the player at the world
// center, the initial spawn plan and the food field.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	world := ecs.NewWorld()
	maps := systems.NewMaps(world)
	bounds := systems.Bounds{Width: cfg.World.Width, Height: cfg.World.Height}

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rng,
		maps:  maps,
		creatureMapper: ecs.NewMap8[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Health,
			components.Combat,
			components.Creature,
		](world),
		playerMapper: ecs.NewMap8[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Health,
			components.Combat,
			components.Player,
		](world),
		foodMapper:     ecs.NewMap3[components.Identity, components.Position, components.Food](world),
		creatureFilter: ecs.NewFilter3[components.Body, components.Health, components.Creature](world),
		foodFilter:     ecs.NewFilter1[components.Food](world),

		creatureSys: systems.NewCreatureSystem(cfg, rng, maps),
		playerSys:   systems.NewPlayerSystem(cfg, maps),
		agentIndex:  systems.NewIndex(cfg.Spatial.Index, bounds, cfg.Spatial.GridCellSize, maps),
		foodIndex:   systems.NewIndex(cfg.Spatial.Index, bounds, cfg.Spatial.GridCellSize, maps),
		bounds:      bounds,
		killedBy:    make(map[uint32]uint32),

		lives:          cfg.Player.Lives,
		stepsPerUpdate: steps,
		hooks:          hooks,

		rngSeed:          opts.Seed,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
		snapshotDir:      opts.SnapshotDir,
		collector:        telemetry.NewCollector(statsWindow, cfg.Physics.DTMs),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(6),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
	}
	g.creatureSys.OnTierUp = g.onCreatureTierUp
	g.playerSys.OnTierUp = g.onPlayerTierUp

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.spawnPlayer()
	g.spawnInitialPopulation()
	g.spawnFood()

	slog.Info("arena_started",
		"creatures", len(g.creatures),
		"food", len(g.foods),
		"lives", g.lives,
		"index", cfg.Spatial.Index,
	)
	return g
}

// UpdateHeadless runs StepsPerUpdate fixed steps of physics.dt_ms.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Physics.DTMs)
	}
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 { return g.tick }

// Now returns the simulated time in milliseconds.
func (g *Game) Now() float64 { return g.now }

// Lives returns the player's remaining lives.
func (g *Game) Lives() int { return g.lives }

// Won reports whether the player reached the top tier.
func (g *Game) Won() bool { return g.won }

// Over reports whether the player ran out of lives.
func (g *Game) Over() bool { return g.over }

// Ended reports whether the session is finished. Step is a no-op afterwards.
func (g *Game) Ended() bool { return g.won || g.over }

// Player returns the player entity.
func (g *Game) Player() ecs.Entity { return g.player }

// CreatureCount returns the size of the creature collection.
func (g *Game) CreatureCount() int { return len(g.creatures) }

// FactionCount returns the number of live creatures of faction f.
func (g *Game) FactionCount(f components.Faction) int {
	n := 0
	query := g.creatureFilter.Query()
	for query.Next() {
		_, health, cr := query.Get()
		if health.Alive && cr.Faction == f {
			n++
		}
	}
	return n
}

// PerfStats returns timing stats over the recent ticks.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records viewer frame timing.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}
