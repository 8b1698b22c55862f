// Package changedetect implements the order-sensitive display hash and
// the live-game presence probe the refresh loop uses to decide whether
// a redraw is warranted.
package changedetect

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

// Hash computes a stable, order-sensitive digest over exactly the fields
// that affect the displayed page. Two equal game lists (including goal
// event score snapshots and player display names) hash identically;
// any display-relevant difference changes the hash.
func Hash(games []models.GameData) string {
	var b strings.Builder
	for _, g := range games {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%t|%t|%s|%d|",
			g.HomeTeam, g.AwayTeam, g.Time, g.Result, g.ScoreType,
			g.IsOvertime, g.IsShootout, g.Series, g.PlayedTime)
		for _, ev := range g.GoalEvents {
			fmt.Fprintf(&b, "[%d|%s|%d|%d|%d|%t|%s]",
				ev.ScorerPlayerID, ev.ScorerName, ev.Minute,
				ev.HomeTeamScore, ev.AwayTeamScore, ev.IsWinningGoal,
				strings.Join(ev.GoalTypes, ","))
		}
		b.WriteByte(';')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// HasLiveGames reports whether any game's scoreType is Ongoing.
func HasLiveGames(games []models.GameData) bool {
	for _, g := range games {
		if g.ScoreType == models.ScoreOngoing {
			return true
		}
	}
	return false
}
