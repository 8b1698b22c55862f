// Package season implements the date and hockey-season logic: the
// afternoon cutoff rule, season-from-date parsing, and historical-date
// detection.
package season

import (
	"strconv"
	"strings"
	"time"
)

// Month classes used by the tournament selector.
const (
	PreseasonStartMonth = time.May
	PreseasonEndMonth   = time.September
	PlayoffsStartMonth  = time.March
	PlayoffsEndMonth    = time.June
)

// IsPreseasonMonth reports whether m falls within May-September.
func IsPreseasonMonth(m time.Month) bool {
	return m >= PreseasonStartMonth && m <= PreseasonEndMonth
}

// IsPlayoffMonth reports whether m falls within March-June.
func IsPlayoffMonth(m time.Month) bool {
	return m >= PlayoffsStartMonth && m <= PlayoffsEndMonth
}

// DetermineFetchDate decides which date's games the caller is interested
// in. If customDate is non-nil it is returned verbatim with cutoff=false.
// Otherwise: before 14:00 local, yesterday is chosen (cutoff=true),
// except during the May-September preseason window where today is
// always chosen regardless of the hour.
func DetermineFetchDate(customDate *string) (date string, preNoonCutoff bool) {
	return DetermineFetchDateWithTime(customDate, time.Now())
}

// DetermineFetchDateWithTime is DetermineFetchDate with an injected
// local "now", for deterministic testing.
func DetermineFetchDateWithTime(customDate *string, nowLocal time.Time) (string, bool) {
	if customDate != nil {
		return *customDate, false
	}

	if shouldShowTodaysGames(nowLocal) {
		return nowLocal.Format("2006-01-02"), false
	}

	yesterday := nowLocal.AddDate(0, 0, -1)
	return yesterday.Format("2006-01-02"), true
}

func shouldShowTodaysGames(nowLocal time.Time) bool {
	if IsPreseasonMonth(nowLocal.Month()) {
		return true
	}
	cutoff := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 14, 0, 0, 0, nowLocal.Location())
	return !nowLocal.Before(cutoff)
}

// ParseDateAndSeason parses a YYYY-MM-DD date string into its year,
// month, and hockey season (season = year+1 when month >= September,
// else year).
func ParseDateAndSeason(date string) (year int, month time.Month, season int) {
	parts := strings.Split(date, "-")
	year = time.Now().Year()
	month = time.January
	if len(parts) >= 2 {
		if y, err := strconv.Atoi(parts[0]); err == nil {
			year = y
		}
		if m, err := strconv.Atoi(parts[1]); err == nil {
			month = time.Month(m)
		}
	}

	if month >= time.September {
		season = year + 1
	} else {
		season = year
	}
	return year, month, season
}

// ShouldUseScheduleForPlayoffs reports whether date should be served
// from the season schedule endpoint even though it is not historical: a
// completed playoff-month date of the current season. The per-date games
// endpoint is unreliable for finished playoff rounds, so those days come
// from the full-season schedule instead.
func ShouldUseScheduleForPlayoffs(date string) bool {
	return ShouldUseScheduleForPlayoffsWithTime(date, time.Now())
}

// ShouldUseScheduleForPlayoffsWithTime is ShouldUseScheduleForPlayoffs
// with an injected "now", for deterministic testing.
func ShouldUseScheduleForPlayoffsWithTime(date string, now time.Time) bool {
	_, month, seasonYear := ParseDateAndSeason(date)
	if !IsPlayoffMonth(month) {
		return false
	}

	parsed, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !parsed.Before(today) {
		return false
	}

	_, _, currentSeason := ParseDateAndSeason(now.Format("2006-01-02"))
	return seasonYear == currentSeason
}

// IsHistoricalDate reports whether date belongs to a prior hockey season
// relative to now, with a special-cased August transition window: when
// the current month is August and date's month is May-July of the same
// year, the date is treated as historical (the prior season's tail end,
// not the upcoming preseason). Future dates are never historical.
func IsHistoricalDate(date string, now time.Time) bool {
	year, month, season := ParseDateAndSeason(date)

	parsed, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err == nil && parsed.After(now) {
		return false
	}

	_, _, currentSeason := ParseDateAndSeason(now.Format("2006-01-02"))

	if now.Month() == time.August && year == now.Year() && month >= time.May && month <= time.July {
		return true
	}

	return season < currentSeason
}
