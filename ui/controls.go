package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Speed limits in simulation steps per frame.
const (
	MinSpeed = 1
	MaxSpeed = 10
)

// Controls is the pause button and speed slider strip.
type Controls struct {
	renderer *Renderer
	x, y     int32
	width    int32

	Paused bool
	Speed  int
}

// NewControls creates a control strip anchored at (x, y).
func NewControls(x, y, width int32, speed int) *Controls {
	c := &Controls{renderer: NewRenderer(), x: x, y: y, width: width}
	c.SetSpeed(speed)
	return c
}

// SetSpeed clamps and stores the steps per frame.
func (c *Controls) SetSpeed(speed int) {
	c.Speed = max(MinSpeed, min(MaxSpeed, speed))
}

// Steps returns how many steps to run this frame.
func (c *Controls) Steps() int {
	if c.Paused {
		return 0
	}
	return c.Speed
}

// HandleKeys applies the keyboard shortcuts: space pauses, comma and
// period change the speed.
func (c *Controls) HandleKeys() {
	if rl.IsKeyPressed(rl.KeySpace) {
		c.Paused = !c.Paused
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		c.SetSpeed(c.Speed - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		c.SetSpeed(c.Speed + 1)
	}
}

// Contains reports whether a screen point is over the strip, so clicks on
// it are not forwarded to the arena.
func (c *Controls) Contains(x, y float32) bool {
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, c.bounds())
}

func (c *Controls) bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: 40}
}

// Draw renders the strip and applies any clicks on it.
func (c *Controls) Draw() {
	b := c.bounds()
	c.renderer.DrawPanel(c.x, c.y, c.width, int32(b.Height))

	label := "Pause"
	if c.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: b.X + 8, Y: b.Y + 8, Width: 70, Height: 24}, label) {
		c.Paused = !c.Paused
	}

	sliderW := b.Width - 170
	speed := gui.SliderBar(
		rl.Rectangle{X: b.X + 130, Y: b.Y + 10, Width: sliderW, Height: 20},
		"Speed", "",
		float32(c.Speed), MinSpeed, MaxSpeed,
	)
	c.SetSpeed(int(speed + 0.5))
	rl.DrawText(fmt.Sprintf("%dx", c.Speed), int32(b.X+130+sliderW+8), int32(b.Y+12), 16, rl.RayWhite)
}
