package game

// SetMoveTarget sets the world point the player walks toward.
func (g *Game) SetMoveTarget(x, y float64) {
	pl := g.maps.Player.Get(g.player)
	pl.TargetX = x
	pl.TargetY = y
}

// SetMoveVector sets the discrete movement direction. A non-zero vector
// overrides the move target; (0, 0) hands control back to it.
func (g *Game) SetMoveVector(dx, dy float64) {
	pl := g.maps.Player.Get(g.player)
	pl.MoveX = dx
	pl.MoveY = dy
}

// AttackAt queues a click attack at a world point for the next step. It is
// ignored once the session has ended.
func (g *Game) AttackAt(x, y float64) {
	if g.Ended() {
		return
	}
	g.pendingAttacks = append(g.pendingAttacks, clickPoint{X: x, Y: y})
}
