package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// AgentView is the per-agent render state.
type AgentView struct {
	ID      uint32             `msgpack:"id" json:"id"`
	X       float64            `msgpack:"x" json:"x"`
	Y       float64            `msgpack:"y" json:"y"`
	Heading float64            `msgpack:"h" json:"heading"`
	Size    float64            `msgpack:"s" json:"size"`
	Tier    int                `msgpack:"t" json:"tier"`
	Faction components.Faction `msgpack:"f" json:"faction"`
	HPRatio float64            `msgpack:"hp" json:"hp_ratio"`
	Alive   bool               `msgpack:"a" json:"alive"`
	Player  bool               `msgpack:"p,omitempty" json:"player,omitempty"`
	State   components.AIState `msgpack:"st" json:"state"`
}

// FoodView is the per-food render state.
type FoodView struct {
	ID     uint32  `msgpack:"id" json:"id"`
	X      float64 `msgpack:"x" json:"x"`
	Y      float64 `msgpack:"y" json:"y"`
	Active bool    `msgpack:"a" json:"active"`
}

// PlayerStats is the HUD summary of the player.
type PlayerStats struct {
	HP             float64 `msgpack:"hp" json:"hp"`
	MaxHP          float64 `msgpack:"max_hp" json:"max_hp"`
	Tier           int     `msgpack:"tier" json:"tier"`
	Growth         int     `msgpack:"growth" json:"growth"`
	GrowthNeeded   int     `msgpack:"growth_needed" json:"growth_needed"`
	CreaturesEaten int     `msgpack:"creatures_eaten" json:"creatures_eaten"`
	FoodEaten      int     `msgpack:"food_eaten" json:"food_eaten"`
	TimeSurvivedMs float64 `msgpack:"time_survived_ms" json:"time_survived_ms"`
	MaxTierReached int     `msgpack:"max_tier_reached" json:"max_tier_reached"`
	Invincible     bool    `msgpack:"invincible" json:"invincible"`
}

// Snapshot is a read-only copy of everything a renderer needs.
// Agents[0] is the player.
type Snapshot struct {
	Tick        int32       `msgpack:"tick" json:"tick"`
	TimeMs      float64     `msgpack:"time_ms" json:"time_ms"`
	WorldWidth  float64     `msgpack:"w" json:"world_width"`
	WorldHeight float64     `msgpack:"h" json:"world_height"`
	Lives       int         `msgpack:"lives" json:"lives"`
	Won         bool        `msgpack:"won" json:"won"`
	Over        bool        `msgpack:"over" json:"over"`
	Player      PlayerStats `msgpack:"player" json:"player"`
	Agents      []AgentView `msgpack:"agents" json:"agents"`
	Food        []FoodView  `msgpack:"food" json:"food"`
}

// Snapshot copies the current state for rendering or streaming.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:        g.tick,
		TimeMs:      g.now,
		WorldWidth:  g.cfg.World.Width,
		WorldHeight: g.cfg.World.Height,
		Lives:       g.lives,
		Won:         g.won,
		Over:        g.over,
		Player:      g.playerStats(),
		Agents:      make([]AgentView, 0, len(g.creatures)+1),
		Food:        make([]FoodView, 0, len(g.foods)),
	}
	s.Agents = append(s.Agents, g.agentView(g.player))
	for _, e := range g.creatures {
		s.Agents = append(s.Agents, g.agentView(e))
	}
	for _, e := range g.foods {
		s.Food = append(s.Food, g.foodView(e))
	}
	return s
}

func (g *Game) agentView(e ecs.Entity) AgentView {
	pos := g.maps.Pos.Get(e)
	body := g.maps.Body.Get(e)
	health := g.maps.Health.Get(e)
	v := AgentView{
		ID:      g.maps.Ident.Get(e).ID,
		X:       pos.X,
		Y:       pos.Y,
		Heading: g.maps.Heading.Get(e).Angle,
		Size:    body.Size,
		Tier:    body.Tier,
		HPRatio: health.Ratio(),
		Alive:   health.Alive,
	}
	if g.maps.Creature.Has(e) {
		cr := g.maps.Creature.Get(e)
		v.Faction = cr.Faction
		v.State = cr.State
	} else {
		v.Player = true
	}
	return v
}

func (g *Game) foodView(e ecs.Entity) FoodView {
	pos := g.maps.Pos.Get(e)
	return FoodView{
		ID:     g.maps.Ident.Get(e).ID,
		X:      pos.X,
		Y:      pos.Y,
		Active: g.maps.Food.Get(e).Active,
	}
}

func (g *Game) playerStats() PlayerStats {
	health := g.maps.Health.Get(g.player)
	pl := g.maps.Player.Get(g.player)
	return PlayerStats{
		HP:             health.HP,
		MaxHP:          health.MaxHP,
		Tier:           g.maps.Body.Get(g.player).Tier,
		Growth:         pl.Growth,
		GrowthNeeded:   pl.GrowthNeeded,
		CreaturesEaten: pl.CreaturesEaten,
		FoodEaten:      pl.FoodEaten,
		TimeSurvivedMs: pl.TimeSurvived,
		MaxTierReached: pl.MaxTierReached,
		Invincible:     pl.InvincibleTimer > 0,
	}
}
