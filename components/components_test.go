package components

import (
	"math"
	"testing"
)

func TestTakeDamageKillsOnce(t *testing.T) {
	h := Health{HP: 4, MaxHP: 4, Alive: true}

	if h.TakeDamage(1.5) {
		t.Fatal("non-lethal hit reported a kill")
	}
	if h.HP != 2.5 {
		t.Errorf("HP = %v, want 2.5", h.HP)
	}

	if !h.TakeDamage(8) {
		t.Fatal("lethal hit did not report a kill")
	}
	if h.HP != 0 || h.Alive {
		t.Errorf("after lethal hit: HP=%v Alive=%v, want 0 false", h.HP, h.Alive)
	}

	// Further hits never report a second kill
	if h.TakeDamage(3) {
		t.Error("dead agent reported a second kill")
	}
	h.Heal(10)
	if h.HP != 0 || h.Alive {
		t.Error("dead agent was healed")
	}
}

func TestHPStaysInRange(t *testing.T) {
	h := Health{HP: 6, MaxHP: 6, Alive: true}
	hits := []float64{0.5, 0.75, 2, 4, 1, 0.5}
	for _, d := range hits {
		h.TakeDamage(d)
		h.Heal(d / 2)
		if h.HP < 0 || h.HP > h.MaxHP {
			t.Fatalf("HP %v escaped [0, %v]", h.HP, h.MaxHP)
		}
	}
}

func TestHealCapsAtMax(t *testing.T) {
	h := Health{HP: 5, MaxHP: 6, Alive: true}
	h.Heal(3)
	if h.HP != 6 {
		t.Errorf("HP = %v, want 6", h.HP)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		h    Health
		want float64
	}{
		{"full", Health{HP: 4, MaxHP: 4}, 1},
		{"half", Health{HP: 3, MaxHP: 6}, 0.5},
		{"zero max", Health{HP: 3, MaxHP: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h.Ratio(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCombatCooldown(t *testing.T) {
	c := Combat{AttackCooldown: 600}
	c.Cool(250)
	if c.Ready() {
		t.Error("ready too early")
	}
	c.Cool(400)
	if !c.Ready() || c.AttackCooldown != 0 {
		t.Errorf("cooldown = %v, want clamped 0", c.AttackCooldown)
	}
}

func TestHeadingFace(t *testing.T) {
	h := Heading{Angle: 1}
	h.Face(Velocity{})
	if h.Angle != 1 {
		t.Error("zero velocity changed heading")
	}
	h.Face(Velocity{X: 0, Y: 2})
	if math.Abs(h.Angle-math.Pi/2) > 1e-9 {
		t.Errorf("Angle = %v, want pi/2", h.Angle)
	}
}

func TestEnumNames(t *testing.T) {
	if FactionRed.String() != "red" || FactionGreen.String() != "green" {
		t.Error("faction names")
	}
	if StateSeekFood.String() != "seek_food" {
		t.Error("state names")
	}
	if AIState(99).String() != "unknown" {
		t.Error("out of range state")
	}
}
