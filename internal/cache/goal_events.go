package cache

import (
	"fmt"

	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

const goalEventsCacheCapacity = 300

// CachedGoalEvents is the GoalEventsCache entry shape: the processed
// events plus enough state to build a tombstone when cleared.
type CachedGoalEvents struct {
	Events         []models.GoalEventData
	IsLiveGame     bool
	WasCleared     bool
	LastKnownScore string
}

// GoalEventsCache caches processed goal events per game, supporting a
// tombstone entry on clear so refreshes can tell "nothing known" apart
// from "cleared, but the last score was X-Y" for UI continuity.
type GoalEventsCache struct {
	inner *lru[CachedGoalEvents]
}

func NewGoalEventsCache() *GoalEventsCache {
	return &GoalEventsCache{inner: newLRU[CachedGoalEvents](goalEventsCacheCapacity)}
}

// GoalEventsKey builds "goal_events_{season}_{gameId}".
func GoalEventsKey(season int, gameID int64) string {
	return fmt.Sprintf("goal_events_%d_%d", season, gameID)
}

func (c *GoalEventsCache) Get(key string) (CachedGoalEvents, bool) {
	return c.inner.get(key)
}

func (c *GoalEventsCache) Set(key string, events []models.GoalEventData, isLiveGame bool) {
	c.inner.set(key, CachedGoalEvents{Events: events, IsLiveGame: isLiveGame}, ttlFor(isLiveGame))
}

// ClearForGame replaces the entry for key with a tombstone: the last
// known score string and whether the game was live are preserved, but
// WasCleared is set and Events is emptied.
func (c *GoalEventsCache) ClearForGame(key string, lastKnownScore string) {
	prior, existed := c.inner.get(key)
	wasLive := existed && prior.IsLiveGame
	c.inner.set(key, CachedGoalEvents{
		Events:         nil,
		IsLiveGame:     wasLive,
		WasCleared:     true,
		LastKnownScore: lastKnownScore,
	}, ttlFor(wasLive))
}

func (c *GoalEventsCache) Clear() { c.inner.clear() }

func (c *GoalEventsCache) Stats() Stats { return c.inner.stats() }
