package httpfetch

import (
	"fmt"
	"net/url"
	"strconv"
)

// BuildTournamentURL builds "{base}/games?tournament={tournament}&date={date}".
func BuildTournamentURL(base, tournament, date string) string {
	u := fmt.Sprintf("%s/games", base)
	q := url.Values{"tournament": {tournament}, "date": {date}}
	return u + "?" + q.Encode()
}

// BuildGameURL builds "{base}/games/{season}/{gameId}".
func BuildGameURL(base string, season int, gameID int64) string {
	return fmt.Sprintf("%s/games/%d/%d", base, season, gameID)
}

// BuildScheduleURL builds "{base}/schedule?tournament=runkosarja&week={week}&season={season}".
func BuildScheduleURL(base string, week, season int) string {
	u := fmt.Sprintf("%s/schedule", base)
	q := url.Values{
		"tournament": {"runkosarja"},
		"week":       {strconv.Itoa(week)},
		"season":     {strconv.Itoa(season)},
	}
	return u + "?" + q.Encode()
}
