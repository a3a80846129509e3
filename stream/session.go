package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/shoal/game"
)

// Engine is the part of the game a session drives.
type Engine interface {
	Controller
	Step(dtMs float64)
	Snapshot() game.Snapshot
	Tick() int32
	Ended() bool
}

// EncodeSnapshot packs a snapshot into a binary frame.
func EncodeSnapshot(s game.Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot unpacks a frame produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) (game.Snapshot, error) {
	var s game.Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return game.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return s, nil
}

// Session runs the game in real time on the calling goroutine. It is the
// only code that touches the engine; the hub talks to it through channels.
type Session struct {
	engine         Engine
	hub            *Hub
	dtMs           float64
	broadcastEvery int
}

// NewSession creates a session stepping dtMs per tick and broadcasting
// every broadcastEvery ticks.
func NewSession(engine Engine, hub *Hub, dtMs float64, broadcastEvery int) *Session {
	if broadcastEvery < 1 {
		broadcastEvery = 1
	}
	return &Session{
		engine:         engine,
		hub:            hub,
		dtMs:           dtMs,
		broadcastEvery: broadcastEvery,
	}
}

// Tick applies queued commands, steps once and broadcasts when due.
func (s *Session) Tick() error {
	s.hub.Drain(s.engine)
	s.engine.Step(s.dtMs)
	if s.engine.Ended() || int(s.engine.Tick())%s.broadcastEvery == 0 {
		return s.broadcast()
	}
	return nil
}

func (s *Session) broadcast() error {
	if s.hub.ClientCount() == 0 {
		return nil
	}
	frame, err := EncodeSnapshot(s.engine.Snapshot())
	if err != nil {
		return err
	}
	s.hub.Broadcast(frame)
	return nil
}

// Run ticks at the real-time rate until ctx is cancelled, the session ends
// or maxTicks (0 = unlimited) is reached.
func (s *Session) Run(ctx context.Context, maxTicks int) error {
	ticker := time.NewTicker(time.Duration(s.dtMs * float64(time.Millisecond)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session_stopped", "tick", s.engine.Tick())
			return nil
		case <-ticker.C:
			if err := s.Tick(); err != nil {
				slog.Error("broadcast failed", "error", err)
			}
			if s.engine.Ended() {
				slog.Info("session_ended", "tick", s.engine.Tick())
				return nil
			}
			if maxTicks > 0 && int(s.engine.Tick()) >= maxTicks {
				slog.Info("max ticks reached", "tick", s.engine.Tick())
				return nil
			}
		}
	}
}
