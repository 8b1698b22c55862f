// Package tournament implements the active-tournament selection logic:
// which series tags to probe for a given date, and which of those
// probes come back "active".
package tournament

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikosalonen/liiga-teletext-core/internal/models"
	"github.com/nikosalonen/liiga-teletext-core/internal/season"
)

// Tournament tag identifiers as the games endpoint expects them.
const (
	TagPractice       = "valmistavat_ottelut"
	TagRegularSeason  = "runkosarja"
	TagPlayoffs       = "playoffs"
	TagPlayout        = "playout"
	TagQualifications = "qualifications"
)

// CandidateList builds the ordered set of tournament tags worth probing
// for date's month.
func CandidateList(date string) []string {
	_, month, _ := season.ParseDateAndSeason(date)

	candidates := []string{TagRegularSeason}
	if season.IsPreseasonMonth(month) {
		candidates = append(candidates, TagPractice)
	}
	if season.IsPlayoffMonth(month) {
		candidates = append(candidates, TagPlayoffs, TagPlayout, TagQualifications)
	}
	return candidates
}

// Fetcher is the subset of the HTTP fetch layer the selector depends on:
// fetch one tournament's schedule response for a date.
type Fetcher interface {
	FetchTournament(ctx context.Context, tournament, date string) (models.ScheduleResponse, error)
}

// Result is the outcome of DetermineActiveTournaments: the filtered,
// priority-ordered tournament list plus every response already fetched
// while probing, so callers avoid refetching.
type Result struct {
	Active    []string
	Responses map[string]models.ScheduleResponse
}

// DetermineActiveTournaments builds the candidate list for date, probes
// every candidate concurrently, and retains those with games on date or
// a next-game-date on or after date, falling back to ["runkosarja"] when
// nothing qualifies. Failed probes are dropped; candidate-list priority
// is restored from the probe's index, not from goroutine completion
// order.
func DetermineActiveTournaments(ctx context.Context, f Fetcher, date string) (Result, error) {
	candidates := CandidateList(date)
	probes := make([]*models.ScheduleResponse, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range candidates {
		i, tag := i, tag
		g.Go(func() error {
			resp, err := f.FetchTournament(gctx, tag, date)
			if err != nil {
				return nil
			}
			probes[i] = &resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	responses := make(map[string]models.ScheduleResponse, len(candidates))
	var active []string
	for i, tag := range candidates {
		if probes[i] == nil {
			continue
		}
		resp := *probes[i]
		responses[tag] = resp

		if hasGameOnDate(resp, date) || nextGameDateOnOrAfter(resp.NextGameDate, date) {
			active = append(active, tag)
		}
	}

	if len(active) == 0 {
		active = []string{TagRegularSeason}
	}
	return Result{Active: active, Responses: responses}, nil
}

func hasGameOnDate(resp models.ScheduleResponse, date string) bool {
	for _, g := range resp.Games {
		if g.Start.Format("2006-01-02") == date {
			return true
		}
	}
	return false
}

func nextGameDateOnOrAfter(nextGameDate, date string) bool {
	if nextGameDate == "" {
		return false
	}
	want, err1 := time.Parse("2006-01-02", date)
	got, err2 := time.Parse("2006-01-02", nextGameDate)
	if err1 != nil || err2 != nil {
		return false
	}
	return !got.Before(want)
}
