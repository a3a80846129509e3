package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func init() {
	config.MustInit("")
}

// harness is a small arena for driving the controllers directly.
type harness struct {
	cfg       *config.Config
	maps      *Maps
	creatures *CreatureSystem
	players   *PlayerSystem
	agents    IndexBuilder
	food      IndexBuilder
	arena     *testArena
	bounds    Bounds

	agentMapper *ecs.Map8[
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

	order  []ecs.Entity
	foods  []ecs.Entity
	nextID uint32
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Cfg()
	w := ecs.NewWorld()
	m := NewMaps(w)
	rng := rand.New(rand.NewSource(7))

	h := &harness{
		cfg:       cfg,
		maps:      m,
		creatures: NewCreatureSystem(cfg, rng, m),
		players:   NewPlayerSystem(cfg, m),
		agents:    NewScan(m),
		food:      NewScan(m),
		bounds:    Bounds{Width: cfg.World.Width, Height: cfg.World.Height},
		agentMapper: ecs.NewMap8[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Health,
			components.Combat,
			components.Creature,
		](w),
		playerMapper: ecs.NewMap8[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Health,
			components.Combat,
			components.Player,
		](w),
		foodMapper: ecs.NewMap3[components.Identity, components.Position, components.Food](w),
	}
	h.arena = &testArena{h: h}
	return h
}

func (h *harness) id() components.Identity {
	h.nextID++
	return components.Identity{ID: h.nextID}
}

// creature spawns a creature without speed jitter.
func (h *harness) creature(f components.Faction, tier int, x, y float64) ecs.Entity {
	id := h.id()
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	head := components.Heading{}
	body := CreatureBody(h.cfg, tier, config.Range{}, nil)
	t := h.cfg.Tier(tier)
	health := components.Health{HP: t.MaxHP, MaxHP: t.MaxHP, Alive: true}
	combat := components.Combat{}
	cr := components.Creature{Faction: f, DetectionRange: h.cfg.DetectionRange(body.Size)}
	e := h.agentMapper.NewEntity(&id, &pos, &vel, &head, &body, &health, &combat, &cr)
	h.order = append(h.order, e)
	return e
}

func (h *harness) player(tier int, x, y float64) ecs.Entity {
	id := h.id()
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	head := components.Heading{}
	body := PlayerBody(h.cfg, tier)
	t := h.cfg.Tier(tier)
	health := components.Health{HP: t.MaxHP, MaxHP: t.MaxHP, Alive: true}
	combat := components.Combat{}
	pl := components.Player{GrowthNeeded: t.GrowthNeeded, TargetX: x, TargetY: y, MaxTierReached: tier}
	e := h.playerMapper.NewEntity(&id, &pos, &vel, &head, &body, &health, &combat, &pl)
	h.order = append(h.order, e)
	return e
}

func (h *harness) pellet(x, y float64) ecs.Entity {
	id := h.id()
	pos := components.Position{X: x, Y: y}
	food := components.Food{Active: true}
	e := h.foodMapper.NewEntity(&id, &pos, &food)
	h.foods = append(h.foods, e)
	return e
}

// perception rebuilds both indices from the live population.
func (h *harness) perception() *Perception {
	h.agents.Clear()
	h.food.Clear()
	maxSize := 0.0
	for _, e := range h.order {
		if !h.maps.AgentAlive(e) {
			continue
		}
		pos := h.maps.Pos.Get(e)
		h.agents.Insert(e, pos.X, pos.Y)
		maxSize = max(maxSize, h.maps.Body.Get(e).Size)
	}
	for _, e := range h.foods {
		pos := h.maps.Pos.Get(e)
		h.food.Insert(e, pos.X, pos.Y)
	}
	return &Perception{Agents: h.agents, Food: h.food, Bounds: h.bounds, MaxSize: maxSize}
}

// testArena applies damage and consumption directly.
type testArena struct {
	h      *harness
	hits   int
	kills  []ecs.Entity
	eaten  []ecs.Entity
	damage []float64
}

func (a *testArena) Damage(_, target ecs.Entity, amount float64) (bool, bool) {
	if !a.h.maps.AgentAlive(target) {
		return false, false
	}
	var landed, killed bool
	if a.h.maps.IsPlayer(target) {
		landed, killed = a.h.players.TakeHit(target, amount)
	} else {
		landed, killed = true, a.h.maps.Health.Get(target).TakeDamage(amount)
	}
	if landed {
		a.hits++
		a.damage = append(a.damage, amount)
	}
	if killed {
		a.kills = append(a.kills, target)
	}
	return landed, killed
}

func (a *testArena) ConsumeFood(food, _ ecs.Entity) bool {
	f := a.h.maps.Food.Get(food)
	if !f.Active {
		return false
	}
	f.Active = false
	a.eaten = append(a.eaten, food)
	return true
}
