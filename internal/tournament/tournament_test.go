package tournament

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

func TestCandidateListRegularSeasonOnly(t *testing.T) {
	assert.Equal(t, []string{TagRegularSeason}, CandidateList("2024-01-15"))
}

func TestCandidateListPlayoffMonth(t *testing.T) {
	assert.Equal(t, []string{TagRegularSeason, TagPlayoffs, TagPlayout, TagQualifications}, CandidateList("2024-03-15"))
}

func TestCandidateListPreseasonMonth(t *testing.T) {
	assert.Equal(t, []string{TagRegularSeason, TagPractice}, CandidateList("2024-07-10"))
}

type stubFetcher struct {
	responses map[string]models.ScheduleResponse
}

func (s stubFetcher) FetchTournament(_ context.Context, tournament, _ string) (models.ScheduleResponse, error) {
	return s.responses[tournament], nil
}

func TestDetermineActiveTournamentsFallsBackWhenAllEmpty(t *testing.T) {
	f := stubFetcher{responses: map[string]models.ScheduleResponse{}}
	result, err := DetermineActiveTournaments(context.Background(), f, "2024-03-15")
	assert.NoError(t, err)
	assert.Equal(t, []string{TagRegularSeason}, result.Active)
}

func TestDetermineActiveTournamentsRetainsTournamentWithGamesOnDate(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-03-15T17:30:00Z")
	f := stubFetcher{responses: map[string]models.ScheduleResponse{
		TagRegularSeason: {Games: []models.ScheduleGame{{ID: 1, Start: start}}},
	}}
	result, err := DetermineActiveTournaments(context.Background(), f, "2024-03-15")
	assert.NoError(t, err)
	assert.Equal(t, []string{TagRegularSeason}, result.Active)
	assert.Contains(t, result.Responses, TagRegularSeason)
}

func TestDetermineActiveTournamentsKeepsEarliestNextGameDate(t *testing.T) {
	f := stubFetcher{responses: map[string]models.ScheduleResponse{
		TagRegularSeason:  {},
		TagPlayoffs:       {NextGameDate: "2024-03-16"},
		TagPlayout:        {},
		TagQualifications: {},
	}}
	result, err := DetermineActiveTournaments(context.Background(), f, "2024-03-15")
	assert.NoError(t, err)
	assert.Equal(t, []string{TagPlayoffs}, result.Active)
}
