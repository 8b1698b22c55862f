// Package refresh implements the auto-refresh loop that periodically
// calls the orchestrator, detects whether the displayed data changed,
// and tracks retry backoff and cache-usage monitoring. Everything
// downstream of a completed cycle (terminal rendering, page objects,
// resize/keyboard handling) belongs to the embedding application;
// Coordinator exposes the state a renderer would need (games, fetched
// date, whether a redraw is warranted) without owning the renderer
// itself.
package refresh

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/nikosalonen/liiga-teletext-core/internal/apperrors"
	"github.com/nikosalonen/liiga-teletext-core/internal/cache"
	"github.com/nikosalonen/liiga-teletext-core/internal/changedetect"
	"github.com/nikosalonen/liiga-teletext-core/internal/logging"
	"github.com/nikosalonen/liiga-teletext-core/internal/models"
	"github.com/nikosalonen/liiga-teletext-core/internal/orchestrator"
)

const (
	perCycleTimeout    = 15 * time.Second
	cacheMonitorPeriod = 5 * time.Minute
	maxBackoff         = 5 * time.Minute
	initialBackoff     = 2 * time.Second
)

// fetcher is the subset of Orchestrator the coordinator depends on.
type fetcher interface {
	FetchLiigaData(ctx context.Context, customDate *string) ([]models.GameData, string, error)
	GetAllCacheStats() map[string]cache.Stats
}

var _ fetcher = (*orchestrator.Orchestrator)(nil)

// CycleResult is the outcome of one refresh cycle. ShowLoading tells
// the caller a loading indicator was warranted for this cycle (the date
// changed, or nothing was on screen yet); everything else the renderer
// needs to decide whether and what to redraw is carried alongside.
type CycleResult struct {
	Games         []models.GameData
	FetchedDate   string
	HadError      bool
	DataChanged   bool
	ShouldRetry   bool
	ShowLoading   bool
	CorrelationID string
}

// adaptivePolling tracks the retry backoff window applied after a
// failed cycle.
type adaptivePolling struct {
	retryBackoff   time.Duration
	lastBackoffHit time.Time
}

func (a *adaptivePolling) backoffRemaining(now time.Time) time.Duration {
	if a.retryBackoff == 0 {
		return 0
	}
	elapsed := now.Sub(a.lastBackoffHit)
	remaining := a.retryBackoff - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (a *adaptivePolling) apply(now time.Time) {
	if a.retryBackoff == 0 {
		a.retryBackoff = initialBackoff
	} else {
		a.retryBackoff *= 2
		if a.retryBackoff > maxBackoff {
			a.retryBackoff = maxBackoff
		}
	}
	jitter := time.Duration(rand.Int63n(int64(a.retryBackoff) / 4))
	a.retryBackoff += jitter
	a.lastBackoffHit = now
}

func (a *adaptivePolling) reset() {
	a.retryBackoff = 0
	a.lastBackoffHit = time.Time{}
}

// Coordinator drives the refresh loop: cadence selection, the fetch
// itself under a per-cycle timeout, change detection, retry backoff,
// page-number preservation, and periodic cache-usage logging.
type Coordinator struct {
	fetcher fetcher
	log     *logging.Logger

	currentDate *string
	lastGames   []models.GameData
	lastHash    string

	preservedPage int
	hasPreserved  bool

	lastAutoRefresh  time.Time
	lastCacheMonitor time.Time
	needsRefresh     bool
	dateChanged      bool
	polling          adaptivePolling

	minRefreshInterval *time.Duration
}

// New builds a Coordinator. minRefreshInterval overrides the
// game-count-derived floor when non-nil.
func New(f fetcher, minRefreshInterval *time.Duration) *Coordinator {
	return &Coordinator{
		fetcher:            f,
		log:                logging.Get().WithField("component", "refresh"),
		minRefreshInterval: minRefreshInterval,
	}
}

// RequestRefresh flags the next ShouldTriggerRefresh check to return
// true unconditionally.
func (c *Coordinator) RequestRefresh() { c.needsRefresh = true }

// SetCurrentDate overrides the date the next cycle fetches, e.g. after
// the caller navigates to a different day.
func (c *Coordinator) SetCurrentDate(date *string) {
	switch {
	case date == nil && c.currentDate == nil:
	case date != nil && c.currentDate != nil && *date == *c.currentDate:
	default:
		c.dateChanged = true
	}
	c.currentDate = date
}

// PreservePage records the page number to restore after the next
// successful cycle rebuilds the display state.
func (c *Coordinator) PreservePage(page int) {
	c.preservedPage = page
	c.hasPreserved = true
}

// ConsumePreservedPage returns and clears the preserved page number, if
// any was set since the last consumption.
func (c *Coordinator) ConsumePreservedPage() (int, bool) {
	if !c.hasPreserved {
		return 0, false
	}
	c.hasPreserved = false
	return c.preservedPage, true
}

// autoRefreshInterval picks the refresh cadence from the last known game
// set: an empty set refreshes every five minutes; live games refresh
// fastest; a set that is entirely scheduled and in the future disables
// periodic refresh (zero), since nothing can change until the first puck
// drops; anything else refreshes at the medium cadence.
func autoRefreshInterval(games []models.GameData, now time.Time) time.Duration {
	if len(games) == 0 {
		return 5 * time.Minute
	}
	if changedetect.HasLiveGames(games) {
		return 10 * time.Second
	}
	if allScheduledAndFuture(games, now) {
		return 0
	}
	return 60 * time.Second
}

func allScheduledAndFuture(games []models.GameData, now time.Time) bool {
	for _, g := range games {
		if g.ScoreType != models.ScoreScheduled || !g.Start.After(now) {
			return false
		}
	}
	return true
}

// minRefreshIntervalFor returns the configured override verbatim when
// set; otherwise a default floor scaled down as the tracked game count
// grows (more concurrent games means more frequent goal events worth
// catching promptly).
func (c *Coordinator) minRefreshIntervalFor(gameCount int) time.Duration {
	if c.minRefreshInterval != nil {
		return *c.minRefreshInterval
	}
	switch {
	case gameCount >= 6:
		return 8 * time.Second
	case gameCount >= 1:
		return 15 * time.Second
	default:
		return 30 * time.Second
	}
}

// ShouldTriggerRefresh reports whether a new cycle is due at now: an
// explicit request always fires; otherwise both the auto-refresh
// interval and the minimum-interval floor must have elapsed, and any
// active retry backoff must have drained.
func (c *Coordinator) ShouldTriggerRefresh(now time.Time) bool {
	if c.needsRefresh {
		return true
	}

	if c.polling.backoffRemaining(now) > 0 {
		return false
	}

	interval := autoRefreshInterval(c.lastGames, now)
	if interval == 0 && !c.lastAutoRefresh.IsZero() {
		return false
	}
	floor := c.minRefreshIntervalFor(len(c.lastGames))
	if interval < floor {
		interval = floor
	}

	if c.lastAutoRefresh.IsZero() {
		return true
	}
	return now.Sub(c.lastAutoRefresh) >= interval
}

// RunCycle performs one fetch-and-detect cycle and updates the
// coordinator's internal timing and backoff state. A failed fetch never
// discards the last known games.
func (c *Coordinator) RunCycle(ctx context.Context) (CycleResult, error) {
	correlationID := uuid.NewString()
	log := c.log.WithField("cycle_id", correlationID)

	showLoading := c.dateChanged || len(c.lastGames) == 0
	c.dateChanged = false

	cycleCtx, cancel := context.WithTimeout(ctx, perCycleTimeout)
	defer cancel()

	games, fetchedDate, err := c.fetcher.FetchLiigaData(cycleCtx, c.currentDate)

	now := time.Now()
	result := CycleResult{CorrelationID: correlationID, ShowLoading: showLoading}

	if err != nil {
		log.Warnf("refresh cycle failed, keeping existing data: %s", apperrors.FormatChain(err))
		result.HadError = true
		result.ShouldRetry = true
		c.updateTiming(true, now)
		c.maybeMonitorCaches(now)
		return result, nil
	}

	hash := changedetect.Hash(games)
	dataChanged := hash != c.lastHash || len(c.lastGames) != len(games)

	result.Games = games
	result.FetchedDate = fetchedDate
	result.DataChanged = dataChanged

	if dataChanged {
		log.Debugf("data changed for %s: %d games", fetchedDate, len(games))
	} else {
		log.Debugf("no data changes detected for %s", fetchedDate)
	}

	c.lastGames = games
	c.lastHash = hash
	c.currentDate = &fetchedDate
	c.updateTiming(false, now)
	c.maybeMonitorCaches(now)

	return result, nil
}

// updateTiming clears the explicit-refresh flag and either commits the
// cycle (resetting backoff) or applies backoff for the next attempt.
func (c *Coordinator) updateTiming(shouldRetry bool, now time.Time) {
	c.needsRefresh = false
	if !shouldRetry {
		c.lastAutoRefresh = now
		c.polling.reset()
		return
	}
	c.polling.apply(now)
}

// maybeMonitorCaches logs per-cache occupancy at most once per
// cacheMonitorPeriod.
func (c *Coordinator) maybeMonitorCaches(now time.Time) {
	if !c.lastCacheMonitor.IsZero() && now.Sub(c.lastCacheMonitor) < cacheMonitorPeriod {
		return
	}
	c.lastCacheMonitor = now

	for name, stats := range c.fetcher.GetAllCacheStats() {
		pct := 0
		if stats.Capacity > 0 {
			pct = stats.Size * 100 / stats.Capacity
		}
		c.log.Debugf("cache status - %s: %d/%d (%d%%)", name, stats.Size, stats.Capacity, pct)
	}
}

// Run drives the coordinator on its own goroutine until ctx is
// cancelled, waking at tick to check ShouldTriggerRefresh. onResult, if
// non-nil, is invoked with each completed cycle's result.
func (c *Coordinator) Run(ctx context.Context, tick time.Duration, onResult func(CycleResult)) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !c.ShouldTriggerRefresh(now) {
				continue
			}
			result, err := c.RunCycle(ctx)
			if err != nil {
				c.log.Errorf("unexpected refresh cycle error: %v", err)
				continue
			}
			if onResult != nil {
				onResult(result)
			}
		}
	}
}

// String renders a compact human summary of the last cycle, useful for
// the demonstration binary's stdout output.
func (r CycleResult) String() string {
	if r.HadError {
		return fmt.Sprintf("[%s] refresh failed, retry scheduled", r.CorrelationID)
	}
	return fmt.Sprintf("[%s] %s: %d games (changed=%t)", r.CorrelationID, r.FetchedDate, len(r.Games), r.DataChanged)
}
