package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/game"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Snapshot     game.Snapshot
	Green, Red   int
	Speed        int
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the player panel, arena counts and end-of-game banner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	p := data.Snapshot.Player
	const x, width = 10, 240
	pad := r.Theme.Padding

	r.DrawPanel(x, 10, width, 170)
	y := int32(10) + pad
	rl.DrawText("Player", x+pad, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += r.Theme.LineHeight + 4

	hp := float32(0)
	if p.MaxHP > 0 {
		hp = float32(p.HP / p.MaxHP)
	}
	inner := int32(width) - 2*pad
	y = r.DrawBar(x+pad, y, "HP", hp, inner, r.HealthColor(hp))
	growth := float32(1)
	if p.GrowthNeeded > 0 {
		growth = float32(p.Growth) / float32(p.GrowthNeeded)
	}
	y = r.DrawBar(x+pad, y, "Growth", growth, inner, r.Theme.GrowthFill)
	y = r.DrawLabelValue(x+pad, y, "Tier", fmt.Sprintf("%d", p.Tier))
	y = r.DrawLabelValue(x+pad, y, "Lives", fmt.Sprintf("%d", data.Snapshot.Lives))
	y = r.DrawLabelValue(x+pad, y, "Eaten", fmt.Sprintf("%d creatures, %d food", p.CreaturesEaten, p.FoodEaten))
	r.DrawLabelValue(x+pad, y, "Survived", fmt.Sprintf("%.1fs", p.TimeSurvivedMs/1000))

	status := fmt.Sprintf("Tick %d | Green %d | Red %d | Speed %dx | FPS %d",
		data.Snapshot.Tick, data.Green, data.Red, data.Speed, data.FPS)
	if data.Paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, 10, data.ScreenHeight-25, 14, rl.Gray)

	switch {
	case data.Snapshot.Won:
		h.banner(data, "YOU WIN", rl.Gold)
	case data.Snapshot.Over:
		h.banner(data, "GAME OVER", rl.Red)
	}
}

func (h *HUD) banner(data HUDData, text string, color rl.Color) {
	const size = 48
	w := rl.MeasureText(text, size)
	rl.DrawText(text, (data.ScreenWidth-w)/2, data.ScreenHeight/2-size, size, color)
}
