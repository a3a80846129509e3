package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkKillSpree   BookmarkType = "kill_spree"
	BookmarkRedSurge    BookmarkType = "red_surge"
	BookmarkGreenCrash  BookmarkType = "green_crash"
	BookmarkStableArena BookmarkType = "stable_arena"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the arena from window stats.
type BookmarkDetector struct {
	history     []WindowStats
	historyIdx  int
	historyFull bool

	greenPeak    int
	stableStreak int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // stable detection needs 4 windows plus the current
	}
	return &BookmarkDetector{
		history: make([]WindowStats, historySize),
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkKillSpree,
		bd.checkRedSurge,
		bd.checkGreenCrash,
		bd.checkStableArena,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.greenPeak = max(bd.greenPeak, stats.Green)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % len(bd.history)
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkKillSpree fires when kills in a window exceed twice the rolling average.
func (bd *BookmarkDetector) checkKillSpree(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	var kills []float64
	for _, h := range history {
		kills = append(kills, float64(h.Kills))
	}
	avg, _ := Spread(kills)
	if avg == 0 || stats.Kills < 3 || float64(stats.Kills) <= avg*2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkKillSpree,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d kills is %.1fx the average (%.1f)", stats.Kills, float64(stats.Kills)/avg, avg),
	}
}

// checkRedSurge fires when the mean red tier climbs a full tier above its rolling average.
func (bd *BookmarkDetector) checkRedSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Red == 0 {
		return nil
	}
	var tiers []float64
	for _, h := range history {
		tiers = append(tiers, h.RedTierMean)
	}
	avg, _ := Spread(tiers)
	if stats.RedTierMean < avg+1 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkRedSurge,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean red tier %.2f up from %.2f", stats.RedTierMean, avg),
	}
}

// checkGreenCrash fires when greens fall more than 30% below their peak.
func (bd *BookmarkDetector) checkGreenCrash(stats WindowStats) *Bookmark {
	if bd.greenPeak == 0 {
		return nil
	}
	drop := 1 - float64(stats.Green)/float64(bd.greenPeak)
	if drop <= 0.30 || stats.Green >= bd.greenPeak-5 {
		return nil
	}
	oldPeak := bd.greenPeak
	bd.greenPeak = stats.Green
	return &Bookmark{
		Type:        BookmarkGreenCrash,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Greens crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Green),
	}
}

// checkStableArena fires once after five consecutive windows where both
// faction counts vary by less than 20% (coefficient of variation).
func (bd *BookmarkDetector) checkStableArena(stats WindowStats) *Bookmark {
	if stats.Green < 10 || stats.Red < 3 {
		bd.stableStreak = 0
		return nil
	}
	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	var greens, reds []float64
	for _, h := range history[len(history)-4:] {
		greens = append(greens, float64(h.Green))
		reds = append(reds, float64(h.Red))
	}
	if lowVariation(greens) && lowVariation(reds) {
		bd.stableStreak++
	} else {
		bd.stableStreak = 0
	}

	if bd.stableStreak != 5 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStableArena,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Stable arena with %d green, %d red over 5+ windows", stats.Green, stats.Red),
	}
}

func lowVariation(values []float64) bool {
	mean, std := Spread(values)
	return mean > 0 && std/mean < 0.2
}
