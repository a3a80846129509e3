package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/telemetry"
)

// emit logs a lifecycle event and appends it to events.csv.
// Creature deaths and tier-ups are logged only with -log-stats.
func (g *Game) emit(ev telemetry.Event) {
	switch ev.Type {
	case telemetry.EventPlayerDeath, telemetry.EventPlayerWin:
		ev.LogEvent()
	default:
		if g.logStats {
			ev.LogEvent()
		}
	}

	if g.outputManager == nil {
		return
	}
	if err := g.outputManager.WriteEvent(ev); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}
