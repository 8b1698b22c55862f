package cache

// Caches bundles the five process-wide caches the core owns. There are
// no cross-cache pointers; each cache stores owned values keyed by
// primitive strings or integers.
type Caches struct {
	HTTP          *HTTPResponseCache
	Tournament    *TournamentCache
	DetailedGame  *DetailedGameCache
	GoalEvents    *GoalEventsCache
	Player        *PlayerCache
}

// New constructs all five caches at their fixed capacities.
func New() *Caches {
	return &Caches{
		HTTP:         NewHTTPResponseCache(),
		Tournament:   NewTournamentCache(),
		DetailedGame: NewDetailedGameCache(),
		GoalEvents:   NewGoalEventsCache(),
		Player:       NewPlayerCache(),
	}
}

// ClearAll empties every cache. Intended for test scaffolding only.
func (c *Caches) ClearAll() {
	c.HTTP.Clear()
	c.Tournament.Clear()
	c.DetailedGame.Clear()
	c.GoalEvents.Clear()
	c.Player.Clear()
}

// AllStats reports per-cache occupancy for the cache monitor.
func (c *Caches) AllStats() map[string]Stats {
	return map[string]Stats{
		"http_response": c.HTTP.Stats(),
		"tournament":    c.Tournament.Stats(),
		"detailed_game": c.DetailedGame.Stats(),
		"goal_events":   c.GoalEvents.Stats(),
		"player":        c.Player.Stats(),
	}
}
