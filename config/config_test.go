package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if len(cfg.Tiers) != MaxTier {
		t.Fatalf("tiers: got %d rows, want %d", len(cfg.Tiers), MaxTier)
	}
	if cfg.Tier(1).MaxHP != 4 || cfg.Tier(2).MaxHP != 6 {
		t.Errorf("unexpected tier hp: t1=%v t2=%v", cfg.Tier(1).MaxHP, cfg.Tier(2).MaxHP)
	}
	if cfg.Tier(MaxTier).GrowthNeeded != 0 {
		t.Errorf("top tier growth_needed = %d, want 0", cfg.Tier(MaxTier).GrowthNeeded)
	}
	if cfg.Population.MaxCreatures != 70 {
		t.Errorf("max_creatures = %d, want 70", cfg.Population.MaxCreatures)
	}
	if cfg.Derived.TotalInitial != 68 {
		t.Errorf("TotalInitial = %d, want 68", cfg.Derived.TotalInitial)
	}
	if cfg.Creatures.SpawnSpeedJitter.Min != -10 || cfg.Creatures.SpawnSpeedJitter.Max != 6 {
		t.Errorf("spawn jitter = %+v", cfg.Creatures.SpawnSpeedJitter)
	}
}

func TestTierClamps(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tier(0) != cfg.Tier(1) {
		t.Error("Tier(0) should clamp to tier 1")
	}
	if cfg.Tier(9) != cfg.Tier(MaxTier) {
		t.Error("Tier(9) should clamp to the top tier")
	}
}

func TestDetectionRange(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	// size*7 + 120
	if got := cfg.DetectionRange(14); got != 218 {
		t.Errorf("DetectionRange(14) = %v, want 218", got)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := "population:\n  max_creatures: 12\nfood:\n  count: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load override: %v", err)
	}
	if cfg.Population.MaxCreatures != 12 {
		t.Errorf("max_creatures = %d, want 12", cfg.Population.MaxCreatures)
	}
	if cfg.Food.Count != 3 {
		t.Errorf("food count = %d, want 3", cfg.Food.Count)
	}
	// Untouched sections keep their defaults
	if cfg.Food.RespawnMs != 6000 {
		t.Errorf("respawn_ms = %v, want 6000", cfg.Food.RespawnMs)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"short tier table", "tiers:\n  - { size: 1, max_hp: 1, speed: 1 }\n", "tiers"},
		{"bad index", "spatial:\n  index: octree\n", "unknown index"},
		{"bad spawn tier", "population:\n  spawn_plan:\n    - { tier: 7, green: 1 }\n", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Food.Count = 17

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Food.Count != 17 {
		t.Errorf("food count after reload = %d, want 17", reloaded.Food.Count)
	}
}
