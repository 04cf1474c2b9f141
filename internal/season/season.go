package season

import (
	"errors"
	"fmt"
	"time"
)

// FirstSeason is the earliest season the statistics site publishes.
const FirstSeason = 1970

// Fiscal boundary of a season: September 7.
const (
	boundaryMonth = time.September
	boundaryDay   = 7
)

var (
	// ErrSeasonTooEarly is returned when a season before FirstSeason is requested.
	ErrSeasonTooEarly = errors.New("season is before 1970")

	// ErrSeasonInFuture is returned when a season after the current season is requested.
	ErrSeasonInFuture = errors.New("season has not started yet")
)

// Clock provides the current time. It exists so callers can pin "today"
// in tests and in the season command.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// eastern is the time zone the league schedules in. Falls back to UTC when
// the zone database is unavailable.
var eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

// SystemClock returns a Clock reading the wall clock in US Eastern time.
func SystemClock() Clock {
	return ClockFunc(func() time.Time {
		return time.Now().In(eastern)
	})
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time {
		return t
	})
}

// Boundary returns the fiscal boundary (September 7) of the season that
// today belongs to.
func Boundary(today time.Time) time.Time {
	year := today.Year()
	if today.Month() >= time.January && today.Month() <= time.May {
		year--
	}
	return time.Date(year, boundaryMonth, boundaryDay, 0, 0, 0, 0, time.UTC)
}

// Resolve returns the active season and week for today.
//
// The season is the year of the fiscal boundary, so March 1 2025 resolves
// to 2024 and October 1 2025 to 2025. The week is floor(days/7)+1 where
// days is the number of calendar days since the boundary; dates on or
// before the boundary (June through September 7) resolve to week 1.
func Resolve(today time.Time) (season, week int) {
	boundary := Boundary(today)
	days := DaysSince(boundary, today)
	return boundary.Year(), WeekForDays(days)
}

// DaysSince returns the number of calendar days from boundary to today,
// ignoring the time of day and the time zone of today.
func DaysSince(boundary, today time.Time) int {
	d := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(boundary).Hours() / 24)
}

// WeekForDays converts days since the boundary into a week number.
func WeekForDays(days int) int {
	if days < 0 {
		return 1
	}
	return days/7 + 1
}

// Validate checks that requested is a season the site can serve given the
// current season.
func Validate(requested, current int) error {
	if requested < FirstSeason {
		return fmt.Errorf("the %d season is not within the range %d to %d: %w",
			requested, FirstSeason, current, ErrSeasonTooEarly)
	}
	if requested > current {
		return fmt.Errorf("the %d season is not within the range %d to %d: %w",
			requested, FirstSeason, current, ErrSeasonInFuture)
	}
	return nil
}

// Range returns the seasons from..to inclusive in ascending order.
// It returns nil when from > to.
func Range(from, to int) []int {
	if from > to {
		return nil
	}
	seasons := make([]int, 0, to-from+1)
	for s := from; s <= to; s++ {
		seasons = append(seasons, s)
	}
	return seasons
}

// HistoricRange returns every completed season: FirstSeason through
// current-1.
func HistoricRange(current int) []int {
	return Range(FirstSeason, current-1)
}
