// Package season resolves the active NFL season and week from a date and
// validates requested seasons.
//
// The season year is anchored on a fixed fiscal boundary of September 7:
// dates from January through May belong to the season that started the
// previous September, every other date to the season starting this
// September. Weeks count whole 7-day blocks since the boundary, starting
// at week 1.
package season
