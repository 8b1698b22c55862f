package cache

import (
	"fmt"
	"time"

	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

const detailedGameCacheCapacity = 200

// gameDetailTTLLive and gameDetailTTLFinal are the two TTL tiers shared
// by DetailedGameCache and GoalEventsCache.
const (
	gameDetailTTLLive  = 30 * time.Second
	gameDetailTTLFinal = 600 * time.Second
)

// ttlFor picks the live/final TTL tier shared by DetailedGameCache and
// GoalEventsCache.
func ttlFor(isLiveGame bool) time.Duration {
	if isLiveGame {
		return gameDetailTTLLive
	}
	return gameDetailTTLFinal
}

// CachedDetailedGame pairs a DetailedGameResponse with the liveness flag
// it was cached under, since the cache's TTL tier depends on it.
type CachedDetailedGame struct {
	Data        models.DetailedGameResponse
	IsLiveGame  bool
}

// DetailedGameCache caches per-game detail responses for the historical
// data path.
type DetailedGameCache struct {
	inner *lru[CachedDetailedGame]
}

func NewDetailedGameCache() *DetailedGameCache {
	return &DetailedGameCache{inner: newLRU[CachedDetailedGame](detailedGameCacheCapacity)}
}

// DetailedGameKey builds "detailed_game_{season}_{gameId}".
func DetailedGameKey(season int, gameID int64) string {
	return fmt.Sprintf("detailed_game_%d_%d", season, gameID)
}

func (c *DetailedGameCache) Get(key string) (models.DetailedGameResponse, bool) {
	cached, ok := c.inner.get(key)
	if !ok {
		return models.DetailedGameResponse{}, false
	}
	return cached.Data, true
}

func (c *DetailedGameCache) Set(key string, data models.DetailedGameResponse, isLiveGame bool) {
	ttl := ttlFor(isLiveGame)
	c.inner.set(key, CachedDetailedGame{Data: data, IsLiveGame: isLiveGame}, ttl)
}

func (c *DetailedGameCache) Clear() { c.inner.clear() }

func (c *DetailedGameCache) Stats() Stats { return c.inner.stats() }
