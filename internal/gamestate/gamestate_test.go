package gamestate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

func extended() *models.FinishedType {
	v := models.FinishedExtendedTime
	return &v
}

func TestScoreTypeScheduledForFutureUnstartedGame(t *testing.T) {
	now := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	g := models.ScheduleGame{Start: now.Add(24 * time.Hour)}
	assert.Equal(t, models.ScoreScheduled, ScoreType(g, now))
}

func TestScoreTypeOngoingWhenStarted(t *testing.T) {
	now := time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC)
	g := models.ScheduleGame{Started: true, Ended: false, Start: now.Add(-30 * time.Minute)}
	assert.Equal(t, models.ScoreOngoing, ScoreType(g, now))
}

func TestScoreTypeFinalWhenEnded(t *testing.T) {
	now := time.Date(2024, time.January, 15, 20, 30, 0, 0, time.UTC)
	g := models.ScheduleGame{Started: true, Ended: true, Start: now.Add(-2 * time.Hour)}
	assert.Equal(t, models.ScoreFinal, ScoreType(g, now))
	assert.True(t, IsOvertime(models.ScheduleGame{FinishedType: extended()}))
}

func TestIsLiveFromRecentGoalEvent(t *testing.T) {
	now := time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC)
	g := models.ScheduleGame{
		Start: now.Add(-10 * 24 * time.Hour),
		HomeTeam: models.ScheduleTeam{GoalEvents: []models.GoalEvent{
			{LogTime: now.Add(-2 * time.Minute)},
		}},
	}
	assert.True(t, IsLive(g, now))
}

func TestIsLiveFalseForStaleUnstartedGame(t *testing.T) {
	now := time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC)
	g := models.ScheduleGame{GameTime: 100, Start: now.Add(-400 * 24 * time.Hour)}
	assert.False(t, IsLive(g, now))
}
