package changedetect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

func sampleGames() []models.GameData {
	return []models.GameData{
		{
			HomeTeam: "HIFK", AwayTeam: "Tappara", Result: "2-1", ScoreType: models.ScoreOngoing,
			GoalEvents: []models.GoalEventData{{ScorerPlayerID: 123, ScorerName: "Smith", Minute: 15, HomeTeamScore: 1}},
		},
	}
}

func TestHashIsByteStable(t *testing.T) {
	a := sampleGames()
	b := sampleGames()
	assert.Equal(t, Hash(a), Hash(b))
}

func TestHashDiffersWhenScoreChanges(t *testing.T) {
	a := sampleGames()
	b := sampleGames()
	b[0].Result = "3-1"
	assert.NotEqual(t, Hash(a), Hash(b))
}

func TestHashDiffersWhenScorerNameChanges(t *testing.T) {
	a := sampleGames()
	b := sampleGames()
	b[0].GoalEvents[0].ScorerName = "Koivu M."
	assert.NotEqual(t, Hash(a), Hash(b))
}

func TestHasLiveGames(t *testing.T) {
	assert.True(t, HasLiveGames(sampleGames()))

	final := sampleGames()
	final[0].ScoreType = models.ScoreFinal
	assert.False(t, HasLiveGames(final))
}
