// Package config provides configuration loading and access for the arena.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MaxTier is the highest tier an agent can reach.
const MaxTier = 5

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Tiers      []TierConfig     `yaml:"tiers"`
	Creatures  CreatureConfig   `yaml:"creatures"`
	Player     PlayerConfig     `yaml:"player"`
	Population PopulationConfig `yaml:"population"`
	Food       FoodConfig       `yaml:"food"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Stream     StreamConfig     `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the debug viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the arena rectangle. Positions are clamped to [0,W]x[0,H].
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TierConfig is one row of the tier table.
type TierConfig struct {
	Size         float64 `yaml:"size"`
	MaxHP        float64 `yaml:"max_hp"`
	Speed        float64 `yaml:"speed"`        // units per second
	AttackRange  float64 `yaml:"attack_range"` // player reach; creatures scale it
	BaseDamage   float64 `yaml:"base_damage"`
	GrowthNeeded int     `yaml:"growth_needed"` // 0 = no further growth
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// StateConfig holds movement and re-evaluation settings for one AI state.
type StateConfig struct {
	SpeedScale float64 `yaml:"speed_scale"`
	TimerMs    float64 `yaml:"timer_ms"`
}

// WanderConfig holds the wander state settings.
type WanderConfig struct {
	SpeedScale float64 `yaml:"speed_scale"`
	TimerMinMs int     `yaml:"timer_min_ms"`
	TimerMaxMs int     `yaml:"timer_max_ms"`
	Jitter     float64 `yaml:"jitter"` // full width of per-tick heading noise (rad)
	Margin     float64 `yaml:"margin"` // distance from a bound that triggers re-aim
}

// CreatureConfig holds creature AI and combat constants.
type CreatureConfig struct {
	DetectionPerSize   float64 `yaml:"detection_per_size"`
	DetectionBase      float64 `yaml:"detection_base"`
	ChaseRangeScale    float64 `yaml:"chase_range_scale"`
	AttackRangeScale   float64 `yaml:"attack_range_scale"`
	AttackReachPerSize float64 `yaml:"attack_reach_per_size"`
	AttackCooldownMs   float64 `yaml:"attack_cooldown_ms"`
	Lifesteal          float64 `yaml:"lifesteal"`
	EatReach           float64 `yaml:"eat_reach"`
	FoodPerTier        int     `yaml:"food_per_tier"`
	TierUpHeal         float64 `yaml:"tier_up_heal"`
	SpawnSpeedJitter   Range   `yaml:"spawn_speed_jitter"`
	TierUpSpeedJitter  Range   `yaml:"tier_up_speed_jitter"`

	Flee     StateConfig  `yaml:"flee"`
	Chase    StateConfig  `yaml:"chase"`
	SeekFood StateConfig  `yaml:"seek_food"`
	Wander   WanderConfig `yaml:"wander"`
}

// PlayerConfig holds player-specific rules.
type PlayerConfig struct {
	Lives             int     `yaml:"lives"`
	RegenIntervalMs   float64 `yaml:"regen_interval_ms"`
	RegenAmount       float64 `yaml:"regen_amount"`
	InvincibleMs      float64 `yaml:"invincible_ms"`
	ContactScale      float64 `yaml:"contact_scale"`
	ContactCooldownMs float64 `yaml:"contact_cooldown_ms"`
	ClickSlack        float64 `yaml:"click_slack"`
	ArriveDistance    float64 `yaml:"arrive_distance"`
	KillHeal          float64 `yaml:"kill_heal"`
	FoodHeal          float64 `yaml:"food_heal"`
	EatReach          float64 `yaml:"eat_reach"`
}

// SpawnPlanEntry lists how many creatures of each faction start at a tier.
type SpawnPlanEntry struct {
	Tier  int `yaml:"tier"`
	Green int `yaml:"green"`
	Red   int `yaml:"red"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	MaxCreatures   int              `yaml:"max_creatures"`
	SpawnMargin    float64          `yaml:"spawn_margin"`    // keep spawns this far from bounds
	SpawnClearance float64          `yaml:"spawn_clearance"` // keep spawns this far from the world center
	SpawnPlan      []SpawnPlanEntry `yaml:"spawn_plan"`
}

// FoodConfig holds food field parameters.
type FoodConfig struct {
	Count     int     `yaml:"count"`
	RespawnMs float64 `yaml:"respawn_ms"`
	Margin    float64 `yaml:"margin"`
}

// SpatialConfig selects the spatial index used for target queries.
type SpatialConfig struct {
	Index        string  `yaml:"index"` // "scan" or "grid"
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// PhysicsConfig holds the fixed step used by headless and serve modes.
type PhysicsConfig struct {
	DTMs float64 `yaml:"dt_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of simulated time
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// StreamConfig holds websocket stream parameters.
type StreamConfig struct {
	Addr           string `yaml:"addr"`
	BroadcastEvery int    `yaml:"broadcast_every"` // ticks between snapshots
	CommandBuffer  int    `yaml:"command_buffer"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TotalInitial int // creatures in the spawn plan
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the invariants the engine relies on.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Tiers) != MaxTier {
		errs = append(errs, fmt.Errorf("tiers: want %d rows, got %d", MaxTier, len(c.Tiers)))
	}
	for i, t := range c.Tiers {
		if t.MaxHP <= 0 || t.Size <= 0 || t.Speed < 0 {
			errs = append(errs, fmt.Errorf("tiers[%d]: size and max_hp must be positive", i))
		}
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, errors.New("world: width and height must be positive"))
	}
	if c.Population.MaxCreatures < 0 {
		errs = append(errs, errors.New("population: max_creatures must not be negative"))
	}
	for i, e := range c.Population.SpawnPlan {
		if e.Tier < 1 || e.Tier > MaxTier {
			errs = append(errs, fmt.Errorf("population.spawn_plan[%d]: tier %d out of range", i, e.Tier))
		}
	}
	if c.Creatures.FoodPerTier <= 0 {
		errs = append(errs, errors.New("creatures: food_per_tier must be positive"))
	}
	if c.Creatures.Wander.TimerMaxMs < c.Creatures.Wander.TimerMinMs {
		errs = append(errs, errors.New("creatures.wander: timer_max_ms below timer_min_ms"))
	}
	switch c.Spatial.Index {
	case "scan", "grid":
	default:
		errs = append(errs, fmt.Errorf("spatial: unknown index %q", c.Spatial.Index))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TotalInitial = 0
	for _, e := range c.Population.SpawnPlan {
		c.Derived.TotalInitial += e.Green + e.Red
	}
	if c.Physics.DTMs <= 0 {
		c.Physics.DTMs = 1000.0 / 60.0
	}
	if c.Stream.BroadcastEvery < 1 {
		c.Stream.BroadcastEvery = 1
	}
}

// Tier returns the stats row for tier t (1-based), clamped to the table.
func (c *Config) Tier(t int) TierConfig {
	if t < 1 {
		t = 1
	}
	if t > len(c.Tiers) {
		t = len(c.Tiers)
	}
	return c.Tiers[t-1]
}

// DetectionRange returns the creature perception radius for a body size.
func (c *Config) DetectionRange(size float64) float64 {
	return size*c.Creatures.DetectionPerSize + c.Creatures.DetectionBase
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
