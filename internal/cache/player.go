package cache

import "strconv"

const playerCacheCapacity = 100

// PlayerCache caches the resolved, disambiguated player display names
// for one game. It carries no TTL; entries are retired only by LRU
// eviction or an explicit clear.
type PlayerCache struct {
	inner *lru[map[int64]string]
}

func NewPlayerCache() *PlayerCache {
	return &PlayerCache{inner: newLRU[map[int64]string](playerCacheCapacity)}
}

// PlayerKey builds the cache key for a game id.
func PlayerKey(gameID int64) string {
	return "players_" + strconv.FormatInt(gameID, 10)
}

func (c *PlayerCache) Get(gameID int64) (map[int64]string, bool) {
	return c.inner.get(PlayerKey(gameID))
}

func (c *PlayerCache) Set(gameID int64, players map[int64]string) {
	c.inner.set(PlayerKey(gameID), players, 0)
}

func (c *PlayerCache) Clear() { c.inner.clear() }

func (c *PlayerCache) Stats() Stats { return c.inner.stats() }
