package model

import (
	"fmt"
	"strings"
)

// Level is the scope of statistics being scraped.
// It selects which landing page is used and which markup class names
// identify the statistics table.
type Level string

const (
	// LevelPlayer scrapes individual player statistics.
	LevelPlayer Level = "player"
	// LevelTeam scrapes team statistics split into phases (offense, defense, special-teams).
	LevelTeam Level = "team"
)

// IndividualUnit is the single synthetic unit used for player level statistics.
const IndividualUnit = "individual"

// AllLevels returns every supported level in scrape order.
func AllLevels() []Level {
	return []Level{LevelPlayer, LevelTeam}
}

// String returns the level name.
func (l Level) String() string {
	return string(l)
}

// Valid reports whether l is a supported level.
func (l Level) Valid() bool {
	return l == LevelPlayer || l == LevelTeam
}

// HasUnitDirectory reports whether exports for this level are nested under
// a per-unit directory. Player level has a single unit and writes directly
// under the level directory.
func (l Level) HasUnitDirectory() bool {
	return l == LevelTeam
}

// ParseLevel converts a string such as "player" or "TEAM" into a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q: must be one of player, team", s)
	}
	return l, nil
}

// ParseLevels parses a list of level names, dropping duplicates while
// preserving order. An empty list yields AllLevels.
func ParseLevels(names []string) ([]Level, error) {
	if len(names) == 0 {
		return AllLevels(), nil
	}
	seen := make(map[Level]bool, len(names))
	levels := make([]Level, 0, len(names))
	for _, name := range names {
		l, err := ParseLevel(name)
		if err != nil {
			return nil, err
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		levels = append(levels, l)
	}
	return levels, nil
}
