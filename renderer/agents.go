package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/game"
)

const foodRadius = 4

var (
	greenColor  = rl.Color{R: 90, G: 200, B: 110, A: 255}
	redColor    = rl.Color{R: 220, G: 80, B: 70, A: 255}
	playerColor = rl.Color{R: 90, G: 160, B: 240, A: 255}
	foodColor   = rl.Color{R: 230, G: 210, B: 120, A: 255}
	hpBackColor = rl.Color{R: 40, G: 40, B: 40, A: 200}
	hpColor     = rl.Color{R: 240, G: 240, B: 240, A: 230}
)

func factionColor(v game.AgentView) rl.Color {
	switch {
	case v.Player:
		return playerColor
	case v.Faction == components.FactionRed:
		return redColor
	default:
		return greenColor
	}
}

// drawFood draws active food as dots.
func drawFood(cam *camera.Camera, food []game.FoodView) {
	r := max(foodRadius*cam.Zoom, 1.5)
	for _, f := range food {
		if !f.Active {
			continue
		}
		x, y := float32(f.X), float32(f.Y)
		if !cam.IsVisible(x, y, foodRadius) {
			continue
		}
		sx, sy := cam.WorldToScreen(x, y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r, foodColor)
	}
}

// drawAgents draws creatures then the player on top. invincible blinks the
// player outline.
func drawAgents(cam *camera.Camera, agents []game.AgentView, invincible bool, frame int) {
	for i := len(agents) - 1; i >= 0; i-- {
		a := agents[i]
		if !a.Alive && !a.Player {
			continue
		}
		drawAgent(cam, a, a.Player && invincible && frame/6%2 == 0)
	}
}

func drawAgent(cam *camera.Camera, a game.AgentView, blink bool) {
	x, y, size := float32(a.X), float32(a.Y), float32(a.Size)
	if !cam.IsVisible(x, y, size) {
		return
	}
	sx, sy := cam.WorldToScreen(x, y)
	center := rl.Vector2{X: sx, Y: sy}
	r := size * cam.Zoom

	color := factionColor(a)
	if blink {
		color.A = 110
	}
	rl.DrawCircleV(center, r, color)

	// HP arc, clockwise from 12 o'clock
	ring := max(2, r*0.15)
	rl.DrawRing(center, r+1, r+1+ring, 0, 360, 36, hpBackColor)
	if a.HPRatio > 0 {
		rl.DrawRing(center, r+1, r+1+ring, -90, -90+float32(360*a.HPRatio), 36, hpColor)
	}

	hx := sx + float32(math.Cos(a.Heading))*r
	hy := sy + float32(math.Sin(a.Heading))*r
	rl.DrawLineEx(center, rl.Vector2{X: hx, Y: hy}, max(1, r*0.12), rl.Black)

	if a.Player {
		rl.DrawCircleLines(int32(sx), int32(sy), r+ring+3, rl.RayWhite)
	}
}
