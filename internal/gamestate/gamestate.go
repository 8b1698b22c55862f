// Package gamestate classifies a ScheduleGame's overtime, shootout, and
// liveness status.
package gamestate

import (
	"time"

	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

// Live-heuristic thresholds. The start window and goal-recency window
// overlap on purpose; naming them keeps the combined rule readable.
const (
	liveStartWindowBefore = 15 * time.Minute
	liveStartWindowAfter  = 3 * time.Hour
	liveStaleAfter        = 180 * 24 * time.Hour
	liveGoalRecency       = 5 * time.Minute
)

// IsOvertime reports whether the game ended in extended game time.
func IsOvertime(g models.ScheduleGame) bool {
	return g.FinishedType != nil && *g.FinishedType == models.FinishedExtendedTime
}

// IsShootout reports whether the game ended in a shootout.
func IsShootout(g models.ScheduleGame) bool {
	return g.FinishedType != nil && *g.FinishedType == models.FinishedShootout
}

// IsLive reports whether a game looks live: started is authoritative;
// otherwise a non-zero game clock near the scheduled start, or a goal
// logged in the last five minutes, both count as live signals.
func IsLive(g models.ScheduleGame, now time.Time) bool {
	if g.Started {
		return true
	}

	if g.GameTime > 0 && isWithinStartWindow(g.Start, now) && isRecentEnough(g.Start, now) {
		return true
	}

	for _, team := range []models.ScheduleTeam{g.HomeTeam, g.AwayTeam} {
		for _, ev := range team.GoalEvents {
			if now.Sub(ev.LogTime) >= 0 && now.Sub(ev.LogTime) <= liveGoalRecency {
				return true
			}
		}
	}
	return false
}

func isWithinStartWindow(start, now time.Time) bool {
	lower := start.Add(-liveStartWindowBefore)
	upper := start.Add(liveStartWindowAfter)
	return !now.Before(lower) && !now.After(upper)
}

func isRecentEnough(start, now time.Time) bool {
	return now.Sub(start) <= liveStaleAfter
}

// ScoreType resolves the display score status: Scheduled when the game
// is not live, Final when ended, else Ongoing.
func ScoreType(g models.ScheduleGame, now time.Time) models.ScoreType {
	if !IsLive(g, now) {
		return models.ScoreScheduled
	}
	if g.Ended {
		return models.ScoreFinal
	}
	return models.ScoreOngoing
}
