package game

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func init() {
	config.MustInit("")
}

const dt = 1000.0 / 60

// recorder counts session signals.
type recorder struct {
	NopHooks
	creatureDeaths []AgentView
	playerDeaths   []int
	wins           int
	consumed       []AgentView
}

func (r *recorder) OnCreatureDeath(c AgentView)            { r.creatureDeaths = append(r.creatureDeaths, c) }
func (r *recorder) OnPlayerDeath(livesLeft int)            { r.playerDeaths = append(r.playerDeaths, livesLeft) }
func (r *recorder) OnPlayerWin()                           { r.wins++ }
func (r *recorder) OnFoodConsumed(_ FoodView, c AgentView) { r.consumed = append(r.consumed, c) }

// emptyArena builds a game with only the player; mutate adjusts the config.
func emptyArena(t *testing.T, mutate func(*config.Config)) (*Game, *recorder) {
	t.Helper()
	cfg := *config.Cfg()
	cfg.Population.SpawnPlan = nil
	cfg.Food.Count = 0
	if mutate != nil {
		mutate(&cfg)
	}
	rec := &recorder{}
	g := NewGameWithOptions(Options{
		Config: &cfg,
		Rand:   rand.New(rand.NewSource(3)),
		Hooks:  rec,
	})
	return g, rec
}

func (g *Game) mustSpawn(t *testing.T, tier int, f components.Faction, x, y float64) ecs.Entity {
	t.Helper()
	e, ok := g.spawnCreatureAt(tier, f, x, y)
	if !ok {
		t.Fatalf("spawn tier %d %v refused", tier, f)
	}
	return e
}

func TestNewGameFollowsSpawnPlan(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1})
	cfg := g.Config()

	if got := g.CreatureCount(); got != cfg.Derived.TotalInitial {
		t.Fatalf("creatures = %d, want %d", got, cfg.Derived.TotalInitial)
	}
	if got := g.FactionCount(components.FactionGreen); got != 52 {
		t.Errorf("green = %d, want 52", got)
	}
	if got := g.FactionCount(components.FactionRed); got != 16 {
		t.Errorf("red = %d, want 16", got)
	}
	if len(g.foods) != cfg.Food.Count {
		t.Errorf("food = %d, want %d", len(g.foods), cfg.Food.Count)
	}

	center := g.maps.Pos.Get(g.player)
	if center.X != cfg.World.Width/2 || center.Y != cfg.World.Height/2 {
		t.Errorf("player at (%v, %v), want world center", center.X, center.Y)
	}
	for _, e := range g.creatures {
		pos := g.maps.Pos.Get(e)
		m := cfg.Population.SpawnMargin
		if pos.X < m || pos.X > cfg.World.Width-m || pos.Y < m || pos.Y > cfg.World.Height-m {
			t.Fatalf("creature spawned outside margin at (%v, %v)", pos.X, pos.Y)
		}
		if math.Hypot(pos.X-center.X, pos.Y-center.Y) < cfg.Population.SpawnClearance {
			t.Fatalf("creature spawned inside player clearance at (%v, %v)", pos.X, pos.Y)
		}
	}
}

// A tier-3 red one-shots a tier-1 green; the green is replaced.
func TestScenarioKillAndReplace(t *testing.T) {
	g, rec := emptyArena(t, nil)
	green := g.mustSpawn(t, 1, components.FactionGreen, 500, 500)
	red := g.mustSpawn(t, 3, components.FactionRed, 520, 500)
	greenID := g.maps.Ident.Get(green).ID

	g.Step(dt)

	if g.world.Alive(green) {
		t.Fatal("dead green still in the world")
	}
	if len(rec.creatureDeaths) != 1 || rec.creatureDeaths[0].ID != greenID {
		t.Fatalf("death signals = %+v, want one for id %d", rec.creatureDeaths, greenID)
	}
	if rec.creatureDeaths[0].HPRatio != 0 || rec.creatureDeaths[0].Alive {
		t.Errorf("death view = %+v, want hp 0 and not alive", rec.creatureDeaths[0])
	}
	if g.CreatureCount() != 2 {
		t.Errorf("creatures = %d, want 2", g.CreatureCount())
	}
	if g.FactionCount(components.FactionGreen) != 1 {
		t.Errorf("green = %d, want 1 replacement", g.FactionCount(components.FactionGreen))
	}
	replacement := g.creatures[1]
	if replacement == red || g.maps.Body.Get(replacement).Tier != 1 {
		t.Errorf("replacement tier = %d, want 1", g.maps.Body.Get(replacement).Tier)
	}
	if tier := g.maps.Body.Get(red).Tier; tier != 4 {
		t.Errorf("red tier after kill = %d, want 4", tier)
	}
}

func TestReplacementKeepsFaction(t *testing.T) {
	tests := []struct {
		name    string
		faction components.Faction
	}{
		{"green", components.FactionGreen},
		{"red", components.FactionRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := emptyArena(t, nil)
			e := g.mustSpawn(t, 2, tt.faction, 300, 300)
			g.mustSpawn(t, 1, components.FactionGreen, 3700, 3700)

			if _, killed := g.Damage(g.player, e, 100); !killed {
				t.Fatal("lethal damage did not kill")
			}
			g.Step(dt)

			if g.CreatureCount() != 2 {
				t.Fatalf("creatures = %d, want 2", g.CreatureCount())
			}
			last := g.creatures[len(g.creatures)-1]
			if f := g.maps.Creature.Get(last).Faction; f != tt.faction {
				t.Errorf("replacement faction = %v, want %v", f, tt.faction)
			}
			if tier := g.maps.Body.Get(last).Tier; tier != 1 {
				t.Errorf("replacement tier = %d, want 1", tier)
			}
		})
	}
}

func TestPopulationCap(t *testing.T) {
	g, _ := emptyArena(t, func(c *config.Config) {
		c.Population.MaxCreatures = 3
		c.Population.SpawnPlan = []config.SpawnPlanEntry{{Tier: 1, Green: 4, Red: 2}}
	})

	if g.CreatureCount() != 3 {
		t.Fatalf("creatures = %d, want cap 3", g.CreatureCount())
	}
	if e, ok := g.SpawnCreature(1, components.FactionRed); ok || !e.IsZero() {
		t.Error("spawn over cap should be a no-op")
	}

	for i := 0; i < 120; i++ {
		g.Step(dt)
		if g.CreatureCount() > 3 {
			t.Fatalf("tick %d: creatures = %d above cap", i, g.CreatureCount())
		}
	}
}

// Consumed food stays inactive until exactly respawn_ms later.
func TestScenarioFoodRespawn(t *testing.T) {
	g, rec := emptyArena(t, func(c *config.Config) { c.Food.Count = 1 })
	food := g.foods[0]

	if !g.ConsumeFood(food, g.player) {
		t.Fatal("active food was not consumed")
	}
	if g.ConsumeFood(food, g.player) {
		t.Error("inactive food consumed twice")
	}
	if len(rec.consumed) != 1 || !rec.consumed[0].Player {
		t.Fatalf("consume signals = %+v, want one by the player", rec.consumed)
	}
	if at := g.maps.Food.Get(food).RespawnAt; at != 6000 {
		t.Fatalf("RespawnAt = %v, want 6000", at)
	}

	g.Step(5999)
	if g.maps.FoodActive(food) {
		t.Fatal("food reactivated before respawn time")
	}

	g.Step(1)
	if !g.maps.FoodActive(food) {
		t.Fatal("food not reactivated at respawn time")
	}
}

// Food respawning onto the player is eaten in the same tick with either index.
func TestRespawnedFoodEatenSameTick(t *testing.T) {
	for _, index := range []string{"scan", "grid"} {
		t.Run(index, func(t *testing.T) {
			g, _ := emptyArena(t, func(c *config.Config) {
				c.Spatial.Index = index
				c.Food.Count = 1
				c.Food.Margin = c.World.Width/2 - 5
			})
			food := g.foods[0]
			*g.maps.Pos.Get(food) = components.Position{X: 10, Y: 10}
			f := g.maps.Food.Get(food)
			f.Active = false
			f.RespawnAt = dt / 2

			g.Step(dt)

			if g.maps.FoodActive(food) {
				t.Error("respawned food under the player was not eaten")
			}
			if got := g.Snapshot().Player.FoodEaten; got != 1 {
				t.Errorf("player food eaten = %d, want 1", got)
			}
		})
	}
}

func TestPlayerGrowsOnFood(t *testing.T) {
	g, _ := emptyArena(t, func(c *config.Config) { c.Food.Count = 5 })
	pos := *g.maps.Pos.Get(g.player)
	for _, f := range g.foods {
		*g.maps.Pos.Get(f) = pos
	}

	for i := 0; i < 5; i++ {
		g.Step(dt)
	}

	s := g.Snapshot().Player
	if s.Tier != 2 || s.HP != 6 || s.MaxHP != 6 || s.Growth != 0 || s.FoodEaten != 5 {
		t.Errorf("player after 5 food = %+v, want tier 2 hp 6/6 growth 0", s)
	}
}

func TestClickAttackQueued(t *testing.T) {
	g, _ := emptyArena(t, nil)
	pos := *g.maps.Pos.Get(g.player)
	target := g.mustSpawn(t, 1, components.FactionGreen, pos.X+30, pos.Y)

	g.AttackAt(pos.X+30, pos.Y)
	if got := g.maps.Health.Get(target).HP; got != 4 {
		t.Fatalf("AttackAt applied before the step: hp %v", got)
	}
	g.Step(dt)

	if got := g.maps.Health.Get(target).HP; got != 3 {
		t.Errorf("hp after click = %v, want 3", got)
	}
	if len(g.pendingAttacks) != 0 {
		t.Error("click queue not drained")
	}
}

func TestPlayerLivesAndRespawn(t *testing.T) {
	g, rec := emptyArena(t, func(c *config.Config) { c.Player.Lives = 2 })
	red := g.mustSpawn(t, 1, components.FactionRed, 200, 200)

	if _, killed := g.Damage(red, g.player, 100); !killed {
		t.Fatal("lethal damage did not kill the player")
	}
	g.Step(dt)

	if g.Lives() != 1 || g.Over() {
		t.Fatalf("lives = %d over = %v, want 1 and running", g.Lives(), g.Over())
	}
	health := g.maps.Health.Get(g.player)
	if !health.Alive || health.HP != health.MaxHP {
		t.Errorf("respawned player = %+v, want full HP", *health)
	}
	if landed, _ := g.Damage(red, g.player, 1); landed {
		t.Error("hit landed during respawn invincibility")
	}

	g.maps.Player.Get(g.player).InvincibleTimer = 0
	g.Damage(red, g.player, 100)
	g.Step(dt)

	if !g.Over() || !g.Ended() || g.Lives() != 0 {
		t.Fatalf("after last life: over = %v lives = %d", g.Over(), g.Lives())
	}
	if !reflect.DeepEqual(rec.playerDeaths, []int{1, 0}) {
		t.Errorf("death signals = %v, want [1 0]", rec.playerDeaths)
	}

	tick := g.Tick()
	g.Step(dt)
	if g.Tick() != tick {
		t.Error("Step advanced after game over")
	}
}

func TestPlayerWinEndsSession(t *testing.T) {
	g, rec := emptyArena(t, nil)
	for g.maps.Body.Get(g.player).Tier < config.MaxTier-1 {
		g.playerSys.TierUp(g.player)
	}
	g.Step(dt)
	if g.Won() {
		t.Fatal("won below the top tier")
	}

	g.playerSys.AddGrowth(g.player, g.maps.Player.Get(g.player).GrowthNeeded)
	g.Step(dt)

	if !g.Won() || rec.wins != 1 {
		t.Fatalf("won = %v signals = %d, want true and 1", g.Won(), rec.wins)
	}
	tick := g.Tick()
	g.Step(dt)
	if g.Tick() != tick || rec.wins != 1 {
		t.Error("session kept running after the win")
	}

	g.AttackAt(0, 0)
	if len(g.pendingAttacks) != 0 {
		t.Errorf("clicks queued after the session ended: %d", len(g.pendingAttacks))
	}
}

func TestSeededRunsAreDeterministic(t *testing.T) {
	run := func() Snapshot {
		g := NewGameWithOptions(Options{Seed: 42})
		g.SetMoveTarget(900, 1200)
		for i := 0; i < 240; i++ {
			g.Step(dt)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two runs with the same seed diverged")
	}
}

func TestInvariantsHoldOverLongRun(t *testing.T) {
	for _, index := range []string{"scan", "grid"} {
		t.Run(index, func(t *testing.T) {
			cfg := *config.Cfg()
			cfg.Spatial.Index = index
			g := NewGameWithOptions(Options{Config: &cfg, Seed: 9})

			tiers := make(map[uint32]int)
			for i := 0; i < 900 && !g.Ended(); i++ {
				g.Step(dt)
				if g.CreatureCount() > cfg.Population.MaxCreatures {
					t.Fatalf("tick %d: population %d above cap", i, g.CreatureCount())
				}
				for _, a := range g.Snapshot().Agents {
					if a.HPRatio < 0 || a.HPRatio > 1 {
						t.Fatalf("agent %d hp ratio %v out of range", a.ID, a.HPRatio)
					}
					if a.Tier < 1 || a.Tier > config.MaxTier {
						t.Fatalf("agent %d tier %d out of range", a.ID, a.Tier)
					}
					if a.Tier < tiers[a.ID] {
						t.Fatalf("agent %d tier dropped %d -> %d", a.ID, tiers[a.ID], a.Tier)
					}
					tiers[a.ID] = a.Tier
					if !a.Player && !a.Alive {
						t.Fatalf("dead creature %d survived cleanup", a.ID)
					}
				}
			}
		})
	}
}
