// Package renderer draws the arena with raylib and turns mouse and keyboard
// input into player commands.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
)

const gridSpacing = 200

var (
	floorColor  = rl.Color{R: 18, G: 22, B: 28, A: 255}
	voidColor   = rl.Color{R: 8, G: 8, B: 10, A: 255}
	gridColor   = rl.Color{R: 32, G: 38, B: 46, A: 255}
	boundsColor = rl.Color{R: 90, G: 100, B: 115, A: 255}
)

// drawBackground fills the arena floor, the visible grid lines and the
// world border.
func drawBackground(cam *camera.Camera) {
	rl.ClearBackground(voidColor)

	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(cam.WorldW, cam.WorldH)
	rl.DrawRectangleRec(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, floorColor)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, cam.WorldW), min(maxY, cam.WorldH)

	for gx := float32(int(minX/gridSpacing)) * gridSpacing; gx <= maxX; gx += gridSpacing {
		sx, sy0 := cam.WorldToScreen(gx, minY)
		_, sy1 := cam.WorldToScreen(gx, maxY)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy0}, rl.Vector2{X: sx, Y: sy1}, gridColor)
	}
	for gy := float32(int(minY/gridSpacing)) * gridSpacing; gy <= maxY; gy += gridSpacing {
		sx0, sy := cam.WorldToScreen(minX, gy)
		sx1, _ := cam.WorldToScreen(maxX, gy)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy}, rl.Vector2{X: sx1, Y: sy}, gridColor)
	}

	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 2, boundsColor)
}
