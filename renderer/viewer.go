package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/ui"
)

// Viewer is the interactive debug window around a Game.
type Viewer struct {
	game     *game.Game
	cam      *camera.Camera
	input    Input
	controls *ui.Controls
	hud      *ui.HUD
	perf     *ui.PerfPanel
	showPerf bool
	frame    int
}

// NewViewer creates a viewer for an open raylib window. speed is the
// initial steps per frame.
func NewViewer(g *game.Game, speed int) *Viewer {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	cfg := g.Config()
	cam := camera.New(w, h, float32(cfg.World.Width), float32(cfg.World.Height))

	v := &Viewer{
		game:     g,
		cam:      cam,
		controls: ui.NewControls(int32(w)-330, 10, 320, speed),
		hud:      ui.NewHUD(),
		perf:     ui.NewPerfPanel(10, 190),
	}
	s := g.Snapshot()
	cam.CenterOn(float32(s.Agents[0].X), float32(s.Agents[0].Y))
	return v
}

// Update applies input and advances the simulation by the selected speed.
func (v *Viewer) Update() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	v.cam.Resize(w, h)

	v.controls.HandleKeys()
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}
	v.input.Update(v.cam, v.game, v.controls.Contains)

	dt := v.game.Config().Physics.DTMs
	for range v.controls.Steps() {
		if v.game.Ended() {
			break
		}
		v.game.Step(dt)
	}
	v.game.RecordFrame()
	v.frame++
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	s := v.game.Snapshot()
	player := s.Agents[0]
	v.cam.Follow(float32(player.X), float32(player.Y))

	rl.BeginDrawing()
	drawBackground(v.cam)
	drawFood(v.cam, s.Food)
	drawAgents(v.cam, s.Agents, s.Player.Invincible, v.frame)

	v.hud.Draw(ui.HUDData{
		Snapshot:     s,
		Green:        v.game.FactionCount(components.FactionGreen),
		Red:          v.game.FactionCount(components.FactionRed),
		Speed:        v.controls.Speed,
		FPS:          rl.GetFPS(),
		Paused:       v.controls.Paused,
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),
	})
	if v.showPerf {
		v.perf.Draw(v.game.PerfStats())
	}
	v.controls.Draw()
	rl.EndDrawing()
}
