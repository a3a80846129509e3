package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/stream"
)

// Input maps the mouse and keyboard onto a player controller.
type Input struct {
	keysHeld  bool
	lastMouse rl.Vector2
}

func keyAxis(neg, negAlt, pos, posAlt int32) float64 {
	var v float64
	if rl.IsKeyDown(neg) || rl.IsKeyDown(negAlt) {
		v--
	}
	if rl.IsKeyDown(pos) || rl.IsKeyDown(posAlt) {
		v++
	}
	return v
}

// Update forwards this frame's input. Keys override the mouse target while
// held; releasing them clears the vector once. blocked reports screen
// points owned by the UI.
func (in *Input) Update(cam *camera.Camera, ctl stream.Controller, blocked func(x, y float32) bool) {
	dx := keyAxis(rl.KeyA, rl.KeyLeft, rl.KeyD, rl.KeyRight)
	dy := keyAxis(rl.KeyW, rl.KeyUp, rl.KeyS, rl.KeyDown)
	switch {
	case dx != 0 || dy != 0:
		ctl.SetMoveVector(dx, dy)
		in.keysHeld = true
	case in.keysHeld:
		ctl.SetMoveVector(0, 0)
		in.keysHeld = false
	}

	mouse := rl.GetMousePosition()
	if blocked(mouse.X, mouse.Y) {
		in.lastMouse = mouse
		return
	}
	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	if mouse != in.lastMouse {
		ctl.SetMoveTarget(float64(wx), float64(wy))
		in.lastMouse = mouse
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		ctl.AttackAt(float64(wx), float64(wy))
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
}
