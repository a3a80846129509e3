// Package stream serves arena snapshots over websockets and feeds player
// commands back to the game loop.
package stream

import (
	"encoding/json"
	"fmt"
	"math"
)

// Command types accepted from clients.
const (
	CommandMoveTo = "move_to" // walk toward a world point
	CommandMove   = "move"    // discrete movement vector, (0, 0) releases it
	CommandAttack = "attack"  // click attack at a world point
)

// Command is a player input sent by a client as a JSON text frame.
type Command struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Controller is the input surface of the game.
type Controller interface {
	SetMoveTarget(x, y float64)
	SetMoveVector(dx, dy float64)
	AttackAt(x, y float64)
}

// DecodeCommand parses and validates a client frame.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decoding command: %w", err)
	}
	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Validate rejects unknown types and non-finite coordinates.
func (c Command) Validate() error {
	switch c.Type {
	case CommandMoveTo, CommandMove, CommandAttack:
	default:
		return fmt.Errorf("unknown command type %q", c.Type)
	}
	if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
		return fmt.Errorf("command %s: coordinates must be finite", c.Type)
	}
	return nil
}

// Apply forwards the command to the game.
func (c Command) Apply(ctl Controller) {
	switch c.Type {
	case CommandMoveTo:
		ctl.SetMoveTarget(c.X, c.Y)
	case CommandMove:
		ctl.SetMoveVector(c.X, c.Y)
	case CommandAttack:
		ctl.AttackAt(c.X, c.Y)
	}
}
