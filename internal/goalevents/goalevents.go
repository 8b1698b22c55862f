// Package goalevents turns raw ScheduleTeam goal lists into display-ready
// GoalEventData: cancelled goals are dropped, scorer names are resolved
// against a team-scoped disambiguation map with fallbacks, and goal-type
// codes can be sanitized for display.
package goalevents

import (
	"github.com/nikosalonen/liiga-teletext-core/internal/models"
	"github.com/nikosalonen/liiga-teletext-core/internal/playernames"
)

// cancelCodes marks a goal as cancelled or removed. No other code
// cancels.
var cancelCodes = map[string]struct{}{
	"RL0": {},
	"VT0": {},
}

// knownGoalTypes is the display allow-list of goal-type codes.
var knownGoalTypes = map[string]struct{}{
	"EV": {}, "YV": {}, "YV2": {}, "IM": {}, "VT": {},
	"AV": {}, "TM": {}, "VL": {}, "MV": {}, "RV": {},
}

func isCancelled(goalTypes []string) bool {
	for _, t := range goalTypes {
		if _, cancelled := cancelCodes[t]; cancelled {
			return true
		}
	}
	return false
}

// ProcessTeamGoals converts one team's non-cancelled goal events into
// GoalEventData, resolving names from playerNames with a numeric
// fallback.
func ProcessTeamGoals(team models.ScheduleTeam, playerNames map[int64]string, isHomeTeam bool) []models.GoalEventData {
	var events []models.GoalEventData
	for _, g := range team.GoalEvents {
		if isCancelled(g.GoalTypes) {
			continue
		}
		name, ok := playerNames[g.ScorerPlayerID]
		if !ok {
			name = playernames.FallbackName(g.ScorerPlayerID)
		}
		events = append(events, models.GoalEventData{
			ScorerPlayerID: g.ScorerPlayerID,
			ScorerName:     name,
			Minute:         g.GameTime / 60,
			HomeTeamScore:  g.HomeTeamScore,
			AwayTeamScore:  g.AwayTeamScore,
			IsWinningGoal:  g.WinningGoal,
			GoalTypes:      SanitizeTypes(g.GoalTypes),
			IsHomeTeam:     isHomeTeam,
			VideoClipURL:   g.VideoClipURL,
		})
	}
	return events
}

// ProcessGameGoals processes both teams of a game with one shared
// player-name map (already merged from team-scoped disambiguation).
func ProcessGameGoals(game models.ScheduleGame, playerNames map[int64]string) []models.GoalEventData {
	events := ProcessTeamGoals(game.HomeTeam, playerNames, true)
	events = append(events, ProcessTeamGoals(game.AwayTeam, playerNames, false)...)
	return events
}

// CreateBasicGoalEvents builds goal events directly from a schedule
// response without a prior detailed-game fetch: embedded scorerPlayer
// names are used when present, and if the game has no goal events at
// all but a non-zero score, placeholder events naming the Finnish
// "Tuntematon pelaaja" (unknown player) are synthesized so the score is
// still explained.
func CreateBasicGoalEvents(game models.ScheduleGame) []models.GoalEventData {
	if len(game.HomeTeam.GoalEvents) > 0 || len(game.AwayTeam.GoalEvents) > 0 {
		names := collectEmbeddedNames(game)
		return ProcessGameGoals(game, names)
	}

	var events []models.GoalEventData
	for i := 0; i < game.HomeTeam.Goals; i++ {
		events = append(events, models.GoalEventData{
			ScorerName:    playernames.UnknownScorerName,
			HomeTeamScore: i + 1,
			IsHomeTeam:    true,
		})
	}
	for i := 0; i < game.AwayTeam.Goals; i++ {
		events = append(events, models.GoalEventData{
			ScorerName:    playernames.UnknownScorerName,
			AwayTeamScore: i + 1,
			IsHomeTeam:    false,
		})
	}
	return events
}

func collectEmbeddedNames(game models.ScheduleGame) map[int64]string {
	names := make(map[int64]string)
	collect := func(ev models.GoalEvent) {
		switch {
		case ev.ScorerPlayer != nil && ev.ScorerPlayer.LastName != "":
			names[ev.ScorerPlayerID] = ev.ScorerPlayer.LastName
		case ev.ScorerPlayer != nil && ev.ScorerPlayer.FirstName != "":
			names[ev.ScorerPlayerID] = ev.ScorerPlayer.FirstName
		default:
			names[ev.ScorerPlayerID] = playernames.FallbackName(ev.ScorerPlayerID)
		}
	}
	for _, ev := range game.HomeTeam.GoalEvents {
		collect(ev)
	}
	for _, ev := range game.AwayTeam.GoalEvents {
		collect(ev)
	}
	return names
}

// SanitizeTypes retains only known display goal-type codes, trims
// nothing (codes carry no surrounding whitespace by contract), drops
// empties, and deduplicates while preserving insertion order.
func SanitizeTypes(goalTypes []string) []string {
	seen := make(map[string]struct{}, len(goalTypes))
	var out []string
	for _, t := range goalTypes {
		if t == "" {
			continue
		}
		if _, known := knownGoalTypes[t]; !known {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
