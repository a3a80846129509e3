package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

const dt = 1000.0 / 60

func TestGreenFleesLargerAgent(t *testing.T) {
	h := newHarness(t)
	green := h.creature(components.FactionGreen, 1, 1000, 1000)
	red := h.creature(components.FactionRed, 2, 1100, 1000)

	h.creatures.Update(green, dt, h.perception(), h.arena)

	cr := h.maps.Creature.Get(green)
	if cr.State != components.StateFlee || cr.Target != red {
		t.Fatalf("state = %v target = %v, want flee from red", cr.State, cr.Target)
	}
	vel := h.maps.Vel.Get(green)
	want := h.maps.Body.Get(green).Speed * h.cfg.Creatures.Flee.SpeedScale
	if vel.X >= 0 || math.Abs(math.Hypot(vel.X, vel.Y)-want) > 1e-9 {
		t.Errorf("velocity = %+v, want %v away from red", vel, want)
	}
	if cr.StateTimer != h.cfg.Creatures.Flee.TimerMs {
		t.Errorf("timer = %v, want %v", cr.StateTimer, h.cfg.Creatures.Flee.TimerMs)
	}
}

func TestRedIgnoresThreatAndChases(t *testing.T) {
	h := newHarness(t)
	red := h.creature(components.FactionRed, 2, 1000, 1000)
	h.creature(components.FactionRed, 4, 1000, 1100)
	prey := h.creature(components.FactionGreen, 1, 1200, 1000)

	h.creatures.Update(red, dt, h.perception(), h.arena)

	cr := h.maps.Creature.Get(red)
	if cr.State != components.StateChase || cr.Target != prey {
		t.Fatalf("state = %v target = %v, want chase prey", cr.State, cr.Target)
	}
	if h.maps.Vel.Get(red).X <= 0 {
		t.Error("not moving toward prey")
	}
}

func TestChaseRangeExceedsDetection(t *testing.T) {
	h := newHarness(t)
	red := h.creature(components.FactionRed, 1, 1000, 1000)
	// DetectionRange(14) = 218; chase reaches 261.6
	prey := h.creature(components.FactionGreen, 1, 1250, 1000)

	h.creatures.Update(red, dt, h.perception(), h.arena)
	if cr := h.maps.Creature.Get(red); cr.State != components.StateChase || cr.Target != prey {
		t.Errorf("state = %v, want chase at 250 units", cr.State)
	}
}

func TestGreenSeeksFoodInDetectionRange(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     components.AIState
	}{
		{"inside detection", 200, components.StateSeekFood},
		{"outside detection", 250, components.StateWander},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			green := h.creature(components.FactionGreen, 1, 1000, 1000)
			food := h.pellet(1000+tt.distance, 1000)

			h.creatures.Update(green, dt, h.perception(), h.arena)

			cr := h.maps.Creature.Get(green)
			if cr.State != tt.want {
				t.Fatalf("state = %v, want %v", cr.State, tt.want)
			}
			if tt.want == components.StateSeekFood && cr.Target != food {
				t.Error("food not captured as target")
			}
		})
	}
}

func TestDeadTargetFallsBackToWander(t *testing.T) {
	h := newHarness(t)
	red := h.creature(components.FactionRed, 2, 1000, 1000)
	prey := h.creature(components.FactionGreen, 1, 1200, 1000)

	cr := h.maps.Creature.Get(red)
	cr.State = components.StateChase
	cr.Target = prey
	cr.StateTimer = 300
	h.maps.Health.Get(prey).TakeDamage(100)

	h.creatures.Update(red, dt, h.perception(), h.arena)

	if cr.State != components.StateWander || !cr.Target.IsZero() {
		t.Fatalf("state = %v target = %v, want wander with no target", cr.State, cr.Target)
	}
	if cr.StateTimer > 0 {
		t.Errorf("timer = %v, want re-evaluation next tick", cr.StateTimer)
	}
	if vel := h.maps.Vel.Get(red); vel.X == 0 && vel.Y == 0 {
		t.Error("fallback left the creature without movement")
	}
}

func TestWanderReaimsAtBounds(t *testing.T) {
	tests := []struct {
		name  string
		x, y  float64
		angle float64
	}{
		{"left", 50, 2000, 0},
		{"right", 3950, 2000, math.Pi},
		{"top", 2000, 50, math.Pi / 2},
		{"bottom", 2000, 3950, -math.Pi / 2},
		{"corner: vertical wins", 50, 50, math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			e := h.creature(components.FactionGreen, 1, tt.x, tt.y)
			h.creatures.Update(e, dt, h.perception(), h.arena)

			cr := h.maps.Creature.Get(e)
			if cr.State != components.StateWander {
				t.Fatalf("state = %v, want wander", cr.State)
			}
			if cr.WanderAngle != tt.angle {
				t.Errorf("angle = %v, want %v", cr.WanderAngle, tt.angle)
			}
			speed := math.Hypot(h.maps.Vel.Get(e).X, h.maps.Vel.Get(e).Y)
			want := h.maps.Body.Get(e).Speed * h.cfg.Creatures.Wander.SpeedScale
			if math.Abs(speed-want) > 1e-9 {
				t.Errorf("speed = %v, want %v", speed, want)
			}
		})
	}
}

func TestPositionStaysInBounds(t *testing.T) {
	h := newHarness(t)
	e := h.creature(components.FactionGreen, 5, 1, 1)
	for i := 0; i < 600; i++ {
		h.creatures.Update(e, dt, h.perception(), h.arena)
		pos := h.maps.Pos.Get(e)
		if !h.bounds.Contains(pos.X, pos.Y) {
			t.Fatalf("tick %d: position %+v left the world", i, pos)
		}
	}
}

// A tier-2 red kills a tier-1 green, heals 25% of the damage and tiers up.
func TestRedKillLifestealAndTierUp(t *testing.T) {
	h := newHarness(t)
	red := h.creature(components.FactionRed, 2, 1000, 1000)
	green := h.creature(components.FactionGreen, 1, 1010, 1000)
	h.maps.Health.Get(red).HP = 3
	h.maps.Health.Get(green).HP = 2

	h.creatures.Update(red, dt, h.perception(), h.arena)

	if h.maps.Health.Get(green).Alive {
		t.Fatal("green survived a lethal hit")
	}
	if len(h.arena.kills) != 1 || h.arena.damage[0] != 3 {
		t.Fatalf("kills = %d damage = %v, want 1 kill of 3", len(h.arena.kills), h.arena.damage)
	}
	body := h.maps.Body.Get(red)
	health := h.maps.Health.Get(red)
	if body.Tier != 3 {
		t.Fatalf("tier = %d, want 3", body.Tier)
	}
	// 3 + 0.25*3 lifesteal, then +1 on tier-up
	if health.MaxHP != 8 || health.HP != 4.75 {
		t.Errorf("hp = %v/%v, want 4.75/8", health.HP, health.MaxHP)
	}
	if body.Size != h.cfg.Tier(3).Size {
		t.Errorf("size = %v, want tier-3 size", body.Size)
	}
	if got := h.maps.Creature.Get(red).DetectionRange; got != h.cfg.DetectionRange(body.Size) {
		t.Errorf("detection range = %v not refreshed", got)
	}
	if h.maps.Combat.Get(red).AttackCooldown != h.cfg.Creatures.AttackCooldownMs {
		t.Error("cooldown not set after attacking")
	}
}

func TestAttackGatedByCooldown(t *testing.T) {
	h := newHarness(t)
	red := h.creature(components.FactionRed, 2, 1000, 1000)
	h.creature(components.FactionGreen, 1, 1010, 1000)
	h.maps.Combat.Get(red).AttackCooldown = 100

	h.creatures.Update(red, dt, h.perception(), h.arena)

	if h.arena.hits != 0 {
		t.Error("attacked while cooling down")
	}
	if got := h.maps.Combat.Get(red).AttackCooldown; math.Abs(got-(100-dt)) > 1e-9 {
		t.Errorf("cooldown = %v, want %v", got, 100-dt)
	}
}

func TestEngagementRules(t *testing.T) {
	tests := []struct {
		name     string
		attacker components.Faction
		self     int
		target   int
		wantHit  bool
	}{
		{"green on smaller", components.FactionGreen, 2, 1, true},
		{"green on equal", components.FactionGreen, 1, 1, true},
		{"green on larger", components.FactionGreen, 1, 2, false},
		{"red on equal", components.FactionRed, 2, 2, true},
		{"red on larger", components.FactionRed, 2, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			a := h.creature(tt.attacker, tt.self, 1000, 1000)
			h.creature(components.FactionGreen, tt.target, 1005, 1000)

			h.creatures.Update(a, dt, h.perception(), h.arena)

			if got := h.arena.hits > 0; got != tt.wantHit {
				t.Errorf("hit = %v, want %v", got, tt.wantHit)
			}
		})
	}
}

func TestBehaviorSelectedPerFaction(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		faction   components.Faction
		lifesteal float64
		eats      bool
	}{
		{components.FactionGreen, 0, true},
		{components.FactionRed, h.cfg.Creatures.Lifesteal, false},
	}
	for _, tt := range tests {
		t.Run(tt.faction.String(), func(t *testing.T) {
			b := h.creatures.Behavior(tt.faction)
			if b == nil || b.Faction() != tt.faction {
				t.Fatalf("behavior = %v, want faction %v", b, tt.faction)
			}
			if b.Lifesteal() != tt.lifesteal || b.Eats() != tt.eats {
				t.Errorf("lifesteal=%v eats=%v, want %v %v", b.Lifesteal(), b.Eats(), tt.lifesteal, tt.eats)
			}
		})
	}
}

func TestNoLifestealOnInvinciblePlayer(t *testing.T) {
	h := newHarness(t)
	red := h.creature(components.FactionRed, 2, 1000, 1000)
	player := h.player(1, 1010, 1000)
	h.maps.Player.Get(player).InvincibleTimer = 400
	h.maps.Health.Get(red).HP = 3

	h.creatures.Update(red, dt, h.perception(), h.arena)

	if hp := h.maps.Health.Get(player).HP; hp != 4 {
		t.Errorf("invincible player hp = %v, want 4", hp)
	}
	if hp := h.maps.Health.Get(red).HP; hp != 3 {
		t.Errorf("red healed to %v from a blocked hit", hp)
	}
	if h.maps.Combat.Get(red).AttackCooldown == 0 {
		t.Error("blocked attack did not start the cooldown")
	}
}

func TestGreenEatsAndTiersUpEveryFifthFood(t *testing.T) {
	h := newHarness(t)
	green := h.creature(components.FactionGreen, 1, 1000, 1000)
	food := h.pellet(1005, 1000)
	h.maps.Creature.Get(green).FoodEaten = 4

	h.creatures.Update(green, dt, h.perception(), h.arena)

	if h.maps.Food.Get(food).Active {
		t.Fatal("food still active")
	}
	cr := h.maps.Creature.Get(green)
	if cr.FoodEaten != 5 || !cr.Target.IsZero() {
		t.Errorf("food eaten = %d target = %v", cr.FoodEaten, cr.Target)
	}
	if tier := h.maps.Body.Get(green).Tier; tier != 2 {
		t.Errorf("tier = %d, want 2 after the fifth food", tier)
	}
	// Tier-up heals 1, not to full
	if hp := h.maps.Health.Get(green).HP; hp != 5 {
		t.Errorf("hp = %v, want 5", hp)
	}
}

func TestCanTierUp(t *testing.T) {
	tests := []struct {
		faction components.Faction
		tier    int
		force   bool
		want    bool
	}{
		{components.FactionGreen, 1, false, true},
		{components.FactionGreen, 1, true, false},
		{components.FactionRed, 1, true, true},
		{components.FactionRed, 1, false, false},
		{components.FactionRed, 5, true, false},
		{components.FactionGreen, 5, false, false},
		{components.FactionNone, 1, true, false},
	}
	for _, tt := range tests {
		if got := CanTierUp(tt.faction, tt.tier, tt.force); got != tt.want {
			t.Errorf("CanTierUp(%v, %d, %v) = %v, want %v", tt.faction, tt.tier, tt.force, got, tt.want)
		}
	}
}

func TestTierUpCallback(t *testing.T) {
	h := newHarness(t)
	red := h.creature(components.FactionRed, 4, 1000, 1000)
	var got int
	h.creatures.OnTierUp = func(_ ecs.Entity, _ components.Faction, tier int) { got = tier }

	if !h.creatures.TryTierUp(red, true) || got != 5 {
		t.Fatalf("tier-up to 5 not reported (got %d)", got)
	}
	if h.creatures.TryTierUp(red, true) {
		t.Error("tiered up past the top tier")
	}
}
