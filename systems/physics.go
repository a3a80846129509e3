package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// Bounds represents the world rectangle agents are kept inside.
type Bounds struct {
	Width, Height float64
}

// Clamp keeps a position inside the world rectangle.
func (b Bounds) Clamp(p *components.Position) {
	p.X = clampFloat(p.X, 0, b.Width)
	p.Y = clampFloat(p.Y, 0, b.Height)
}

// Contains reports whether (x, y) lies inside the world rectangle.
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

// Integrate advances pos by vel over dt milliseconds and clamps it to the
// world. Velocity is in units per second.
func Integrate(pos *components.Position, vel components.Velocity, dt float64, b Bounds) {
	pos.X += vel.X * dt / 1000
	pos.Y += vel.Y * dt / 1000
	b.Clamp(pos)
}

// Steer returns a velocity of the given speed pointing from one point to
// another. Coincident points yield a zero velocity.
func Steer(from, to r2.Vec, speed float64) r2.Vec {
	d := r2.Sub(to, from)
	if r2.Norm(d) == 0 {
		return r2.Vec{}
	}
	return r2.Scale(speed, r2.Unit(d))
}

// moveAgent integrates an agent's current velocity and updates its facing.
func moveAgent(pos *components.Position, vel *components.Velocity, head *components.Heading, dt float64, b Bounds) {
	Integrate(pos, *vel, dt, b)
	head.Face(*vel)
}
