package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     42,
		WorldWidth:  4000,
		WorldHeight: 4000,
		Tick:        1000,
		TimeMs:      16666.7,
		Lives:       2,
		Agents: []AgentState{
			{ID: 1, Player: true, Faction: "none", Tier: 2, X: 2000, Y: 2000, HP: 5, MaxHP: 6},
			{
				ID: 7, Faction: "red", State: "chase", Tier: 3, X: 150, Y: 250,
				VelX: 12, VelY: -3, Heading: 1.2, HP: 4.75, MaxHP: 8,
				Lifetime: &LifetimeStatsJSON{BirthTick: 100, SpawnTier: 2, MaxTier: 3, Kills: 1},
			},
		},
		Food: []FoodState{
			{ID: 2, X: 300, Y: 400, Active: true},
			{ID: 3, X: 500, Y: 600, RespawnAt: 20000},
		},
		Bookmark: &Bookmark{Type: BookmarkRedSurge, Tick: 1000},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_1000_red_surge.json") {
		t.Errorf("unexpected snapshot name %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Tick != 1000 || loaded.Lives != 2 || len(loaded.Agents) != 2 || len(loaded.Food) != 2 {
		t.Fatalf("loaded snapshot mismatch: %+v", loaded)
	}
	red := loaded.Agents[1]
	if red.State != "chase" || red.HP != 4.75 || red.Lifetime == nil || red.Lifetime.Kills != 1 {
		t.Errorf("agent state lost: %+v", red)
	}
	if loaded.Food[1].Active || loaded.Food[1].RespawnAt != 20000 {
		t.Errorf("food state lost: %+v", loaded.Food[1])
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected a version error")
	}
}
