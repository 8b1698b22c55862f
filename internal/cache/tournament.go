package cache

import (
	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

const tournamentCacheCapacity = 200

// TournamentCache caches one tournament/date probe's ScheduleResponse.
type TournamentCache struct {
	inner *lru[models.ScheduleResponse]
}

func NewTournamentCache() *TournamentCache {
	return &TournamentCache{inner: newLRU[models.ScheduleResponse](tournamentCacheCapacity)}
}

// Key builds the cache key "{tournament}-{date}".
func Key(tournament, date string) string {
	return tournament + "-" + date
}

func (c *TournamentCache) Get(key string) (models.ScheduleResponse, bool) {
	return c.inner.get(key)
}

// Set stores resp: 15 s TTL when it contains any live game, else 600 s.
func (c *TournamentCache) Set(key string, resp models.ScheduleResponse) {
	ttl := TTLDefault
	if resp.HasLiveCandidate() {
		ttl = TTLLive
	}
	c.inner.set(key, resp, ttl)
}

func (c *TournamentCache) Clear() { c.inner.clear() }

func (c *TournamentCache) Stats() Stats { return c.inner.stats() }
