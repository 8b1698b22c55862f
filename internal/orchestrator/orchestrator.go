// Package orchestrator implements the end-to-end data pipeline: date ->
// tournaments -> responses -> per-game processing -> aggregated
// display-ready output.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikosalonen/liiga-teletext-core/internal/apperrors"
	"github.com/nikosalonen/liiga-teletext-core/internal/cache"
	"github.com/nikosalonen/liiga-teletext-core/internal/config"
	"github.com/nikosalonen/liiga-teletext-core/internal/gamestate"
	"github.com/nikosalonen/liiga-teletext-core/internal/goalevents"
	"github.com/nikosalonen/liiga-teletext-core/internal/httpfetch"
	"github.com/nikosalonen/liiga-teletext-core/internal/logging"
	"github.com/nikosalonen/liiga-teletext-core/internal/models"
	"github.com/nikosalonen/liiga-teletext-core/internal/playernames"
	"github.com/nikosalonen/liiga-teletext-core/internal/season"
	"github.com/nikosalonen/liiga-teletext-core/internal/tournament"
)

// Orchestrator wires the fetch, cache, season, tournament, game-state,
// and goal-event layers into fetch_liiga_data and
// fetch_regular_season_start_date.
type Orchestrator struct {
	cfg     config.Config
	caches  *cache.Caches
	fetcher *httpfetch.Fetcher
	log     *logging.Logger
	now     func() time.Time
}

func New(cfg config.Config, caches *cache.Caches, fetcher *httpfetch.Fetcher) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		caches:  caches,
		fetcher: fetcher,
		log:     logging.Get().WithField("component", "orchestrator"),
		now:     time.Now,
	}
}

// FetchLiigaData is the entry point: given an optional caller-supplied
// date, it returns the display-ready games for that date (or the next
// known date, if none were found) and the effective date used.
func (o *Orchestrator) FetchLiigaData(ctx context.Context, customDate *string) ([]models.GameData, string, error) {
	if config.IsSentinel(o.cfg.APIDomain) {
		return nil, "", apperrors.NewConfigError("API domain is unset or a placeholder value")
	}

	date, _ := season.DetermineFetchDate(customDate)
	now := o.now()

	if season.IsHistoricalDate(date, now) || season.ShouldUseScheduleForPlayoffsWithTime(date, now) {
		games, err := o.fetchHistoricalPath(ctx, date)
		if err != nil {
			return nil, date, err
		}
		return games, date, nil
	}

	result, err := tournament.DetermineActiveTournaments(ctx, o, date)
	if err != nil {
		return nil, date, err
	}

	scheduleGames, responses, earliestDate, err := o.fetchDayData(ctx, result.Active, date, result.Responses)
	if err != nil {
		return nil, date, err
	}

	effectiveDate := date
	if len(scheduleGames) == 0 && earliestDate != "" {
		scheduleGames, _, _, err = o.handleNoGamesFound(ctx, result.Active, date, responses)
		if err != nil {
			return nil, date, err
		}
		effectiveDate = earliestDate
	}

	games := o.buildGameData(scheduleGames, now)
	return games, effectiveDate, nil
}

// FetchTournament implements tournament.Fetcher: consult the tournament
// cache, then the HTTP fetcher, caching the response on a miss.
func (o *Orchestrator) FetchTournament(ctx context.Context, tag, date string) (models.ScheduleResponse, error) {
	key := cache.Key(tag, date)
	if resp, ok := o.caches.Tournament.Get(key); ok {
		return resp, nil
	}

	url := httpfetch.BuildTournamentURL(o.cfg.APIDomain, tag, date)
	resp, err := httpfetch.Fetch[models.ScheduleResponse](ctx, o.fetcher, url)
	if err != nil {
		if apperrors.AsKind(err, apperrors.KindAPINotFound) {
			return models.ScheduleResponse{}, apperrors.NewAPITournamentNotFound(tag)
		}
		return models.ScheduleResponse{}, err
	}

	o.caches.Tournament.Set(key, resp)
	return resp, nil
}

// fetchDayData fetches every active tournament for date concurrently and
// concatenates the games in tournament-priority order.
func (o *Orchestrator) fetchDayData(ctx context.Context, tags []string, date string, seen map[string]models.ScheduleResponse) ([]models.ScheduleGame, map[string]models.ScheduleResponse, string, error) {
	responses := make(map[string]models.ScheduleResponse, len(tags))
	fetched := make([]models.ScheduleResponse, len(tags))

	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range tags {
		i, tag := i, tag
		g.Go(func() error {
			if resp, ok := seen[tag]; ok {
				fetched[i] = resp
				return nil
			}
			resp, err := o.FetchTournament(gctx, tag, date)
			if err != nil {
				o.log.Warnf("tournament probe failed for %s on %s: %v", tag, date, err)
				return nil
			}
			fetched[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, "", err
	}

	var games []models.ScheduleGame
	earliest := ""
	for i, tag := range tags {
		resp := fetched[i]
		responses[tag] = resp
		games = append(games, resp.Games...)
		if resp.NextGameDate != "" && (earliest == "" || resp.NextGameDate < earliest) {
			earliest = resp.NextGameDate
		}
	}

	return games, responses, earliest, nil
}

// handleNoGamesFound recovers from a day with zero games: refetch the
// tournaments sharing the earliest next-game-date for that date, and if
// that still yields nothing, try fetchDayData once more at that date.
func (o *Orchestrator) handleNoGamesFound(ctx context.Context, tags []string, date string, responses map[string]models.ScheduleResponse) ([]models.ScheduleGame, map[string]models.ScheduleResponse, string, error) {
	earliest := ""
	for _, tag := range tags {
		if nd := responses[tag].NextGameDate; nd != "" && (earliest == "" || nd < earliest) {
			earliest = nd
		}
	}
	if earliest == "" {
		return nil, responses, "", nil
	}

	var candidates []string
	for _, tag := range tags {
		if responses[tag].NextGameDate == earliest {
			candidates = append(candidates, tag)
		}
	}

	games, newResponses, _, err := o.fetchDayData(ctx, candidates, earliest, map[string]models.ScheduleResponse{})
	if err != nil {
		return nil, responses, earliest, err
	}
	if len(games) > 0 {
		return games, newResponses, earliest, nil
	}

	games, newResponses, _, err = o.fetchDayData(ctx, tags, earliest, map[string]models.ScheduleResponse{})
	if err != nil {
		return nil, responses, earliest, err
	}
	return games, newResponses, earliest, nil
}

// fetchHistoricalPath serves completed seasons and finished playoff
// rounds: fetch the season's full schedule, filter by date, then enrich
// each match with its detailed-game record.
func (o *Orchestrator) fetchHistoricalPath(ctx context.Context, date string) ([]models.GameData, error) {
	_, _, seasonYear := season.ParseDateAndSeason(date)

	scheduleGames, err := o.fetchSeasonSchedule(ctx, seasonYear)
	if err != nil {
		return nil, err
	}

	var matching []models.ScheduleGame
	for _, g := range scheduleGames {
		if g.Start.Format("2006-01-02") == date {
			matching = append(matching, g)
		}
	}

	results := make([]models.GameData, len(matching))
	g, gctx := errgroup.WithContext(ctx)
	for i, game := range matching {
		i, game := i, game
		g.Go(func() error {
			detailed, isLive, err := o.fetchGameDetail(gctx, seasonYear, game.ID)
			if err != nil {
				o.log.Warnf("skipping game %d on historical path: %v", game.ID, err)
				return nil
			}
			names := o.resolveRosterNames(game.ID, detailed)
			results[i] = o.buildOneGameData(detailed.Game, names, isLive, o.now())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.GameData
	for _, r := range results {
		if r.HomeTeam != "" || r.AwayTeam != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (o *Orchestrator) fetchSeasonSchedule(ctx context.Context, seasonYear int) ([]models.ScheduleGame, error) {
	url := httpfetch.BuildScheduleURL(o.cfg.APIDomain, 1, seasonYear)
	games, err := httpfetch.Fetch[[]models.ScheduleGame](ctx, o.fetcher, url)
	if err != nil {
		if apperrors.AsKind(err, apperrors.KindAPINotFound) {
			return nil, apperrors.NewAPISeasonNotFound(seasonYear)
		}
		return nil, err
	}
	return games, nil
}

func (o *Orchestrator) fetchGameDetail(ctx context.Context, seasonYear int, gameID int64) (models.DetailedGameResponse, bool, error) {
	key := cache.DetailedGameKey(seasonYear, gameID)
	if data, ok := o.caches.DetailedGame.Get(key); ok {
		return data, gamestate.IsLive(data.Game, o.now()), nil
	}

	url := httpfetch.BuildGameURL(o.cfg.APIDomain, seasonYear, gameID)
	detailed, err := httpfetch.Fetch[models.DetailedGameResponse](ctx, o.fetcher, url)
	if err != nil {
		if apperrors.AsKind(err, apperrors.KindAPINotFound) {
			return models.DetailedGameResponse{}, false, apperrors.NewAPIGameNotFound(gameID)
		}
		return models.DetailedGameResponse{}, false, err
	}

	isLive := gamestate.IsLive(detailed.Game, o.now())
	o.caches.DetailedGame.Set(key, detailed, isLive)
	return detailed, isLive, nil
}

// resolveRosterNames builds the team-scoped disambiguated name map from a
// detailed game's rosters. The home and away sets are disambiguated
// independently, then merged, so a surname shared across teams stays
// bare on both sides.
func (o *Orchestrator) resolveRosterNames(gameID int64, d models.DetailedGameResponse) map[int64]string {
	if names, ok := o.caches.Player.Get(gameID); ok {
		return names
	}

	home := rosterPlayers(d.HomeRoster)
	away := rosterPlayers(d.AwayRoster)
	if len(home) == 0 && len(away) == 0 {
		return nil
	}

	merged := playernames.FormatWithDisambiguation(home)
	for id, name := range playernames.FormatWithDisambiguation(away) {
		merged[id] = name
	}
	o.caches.Player.Set(gameID, merged)
	return merged
}

func rosterPlayers(roster models.PlayerRoster) []playernames.Player {
	var players []playernames.Player
	for id, name := range roster {
		players = append(players, playernames.Player{
			ID:        id,
			FirstName: name.FirstName,
			LastName:  name.LastName,
		})
	}
	return players
}

// buildGameData converts a slice of raw ScheduleGames to display-ready
// GameData.
func (o *Orchestrator) buildGameData(games []models.ScheduleGame, now time.Time) []models.GameData {
	out := make([]models.GameData, len(games))
	for i, g := range games {
		out[i] = o.buildOneGameData(g, nil, gamestate.IsLive(g, now), now)
	}
	return out
}

// buildOneGameData assembles one display-ready game. playerNames may be
// nil, in which case names are resolved from the schedule-embedded
// scorerPlayer data instead (the roster-backed historical path passes
// its own map).
func (o *Orchestrator) buildOneGameData(g models.ScheduleGame, playerNames map[int64]string, isLiveHint bool, now time.Time) models.GameData {
	scoreType := gamestate.ScoreType(g, now)

	displayTime := ""
	if scoreType == models.ScoreScheduled {
		displayTime = FormatStartTime(g.Start, time.Local)
	}

	if playerNames == nil {
		playerNames = o.resolvePlayerNames(g)
	}
	goals := o.resolveGoalEvents(g, playerNames, isLiveHint, scoreType)

	return models.GameData{
		HomeTeam:   g.HomeTeam.DisplayName(),
		AwayTeam:   g.AwayTeam.DisplayName(),
		Time:       displayTime,
		Result:     fmt.Sprintf("%d-%d", g.HomeTeam.Goals, g.AwayTeam.Goals),
		ScoreType:  scoreType,
		IsOvertime: gamestate.IsOvertime(g),
		IsShootout: gamestate.IsShootout(g),
		Series:     g.Serie,
		GoalEvents: goals,
		PlayedTime: g.GameTime,
		Start:      g.Start,
	}
}

// resolveGoalEvents consults the goal-events cache before reprocessing a
// game's raw goal data. A cache hit whose IsLiveGame flag predates the
// game going final is tombstoned and recomputed once, so the final,
// settled event list replaces whatever was cached while the game was
// still live.
func (o *Orchestrator) resolveGoalEvents(g models.ScheduleGame, playerNames map[int64]string, isLive bool, scoreType models.ScoreType) []models.GoalEventData {
	key := cache.GoalEventsKey(g.Season, g.ID)
	currentScore := fmt.Sprintf("%d-%d", g.HomeTeam.Goals, g.AwayTeam.Goals)

	if cached, ok := o.caches.GoalEvents.Get(key); ok {
		if cached.IsLiveGame && scoreType == models.ScoreFinal {
			o.caches.GoalEvents.ClearForGame(key, currentScore)
		} else if !cached.WasCleared {
			return cached.Events
		}
	}

	events := goalevents.ProcessGameGoals(g, playerNames)
	if len(events) == 0 && len(g.HomeTeam.GoalEvents) == 0 && len(g.AwayTeam.GoalEvents) == 0 {
		events = goalevents.CreateBasicGoalEvents(g)
	}

	o.caches.GoalEvents.Set(key, events, isLive && scoreType != models.ScoreFinal)
	return events
}

// resolvePlayerNames prefers a cached, already-disambiguated name map
// for the game; otherwise it falls back to embedded scorerPlayer data.
func (o *Orchestrator) resolvePlayerNames(g models.ScheduleGame) map[int64]string {
	if names, ok := o.caches.Player.Get(g.ID); ok {
		return names
	}

	home := collectTeamPlayers(g.HomeTeam)
	away := collectTeamPlayers(g.AwayTeam)
	if len(home) == 0 && len(away) == 0 {
		return map[int64]string{}
	}

	merged := playernames.FormatWithDisambiguation(home)
	for id, name := range playernames.FormatWithDisambiguation(away) {
		merged[id] = name
	}
	o.caches.Player.Set(g.ID, merged)
	return merged
}

func collectTeamPlayers(team models.ScheduleTeam) []playernames.Player {
	var players []playernames.Player
	for _, ev := range team.GoalEvents {
		if ev.ScorerPlayer == nil {
			continue
		}
		players = append(players, playernames.Player{
			ID:        ev.ScorerPlayerID,
			FirstName: ev.ScorerPlayer.FirstName,
			LastName:  ev.ScorerPlayer.LastName,
		})
	}
	return players
}

// FetchRegularSeasonStartDate finds the earliest start timestamp across
// the season's full schedule, or nil when the season has no published
// games yet.
func (o *Orchestrator) FetchRegularSeasonStartDate(ctx context.Context, seasonYear int) (*string, error) {
	games, err := o.fetchSeasonSchedule(ctx, seasonYear)
	if err != nil {
		if apperrors.AsKind(err, apperrors.KindAPINoData) {
			return nil, nil
		}
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}

	earliest := games[0].Start
	for _, g := range games[1:] {
		if g.Start.Before(earliest) {
			earliest = g.Start
		}
	}
	result := earliest.Format("2006-01-02")
	return &result, nil
}

// FormatStartTime renders a scheduled game's start timestamp in the
// "HH.MM" display form, converted to loc.
func FormatStartTime(start time.Time, loc *time.Location) string {
	return start.In(loc).Format("15.04")
}

// ClearAllCaches empties every cache; test scaffolding only.
func (o *Orchestrator) ClearAllCaches() { o.caches.ClearAll() }

// GetAllCacheStats reports per-cache occupancy.
func (o *Orchestrator) GetAllCacheStats() map[string]cache.Stats { return o.caches.AllStats() }
