package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/nao1215/nflstats/internal/log"
	"github.com/nao1215/nflstats/internal/model"
)

// Path segment positions of category URLs:
//
//	/stats/player-stats/category/<category>/<season>/...
//	/stats/team-stats/<unit>/<category>/<season>/...
const (
	playerCategorySegment = 3
	teamUnitSegment       = 2
	teamCategorySegment   = 3
)

// UnitAndCategory extracts the unit and category of a category URL.
// Player URLs always belong to the "individual" unit.
func UnitAndCategory(rawURL string, level model.Level) (unit, category string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", &StructureError{URL: rawURL, Reason: err.Error()}
	}
	segments := model.PathSegments(u.Path)

	need := playerCategorySegment + 1
	if level == model.LevelTeam {
		need = max(teamUnitSegment, teamCategorySegment) + 1
	}
	if len(segments) < need {
		return "", "", &StructureError{
			URL:    rawURL,
			Reason: fmt.Sprintf("need at least %d path segments, have %d", need, len(segments)),
		}
	}

	switch level {
	case model.LevelPlayer:
		return model.IndividualUnit, segments[playerCategorySegment], nil
	case model.LevelTeam:
		return segments[teamUnitSegment], segments[teamCategorySegment], nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}

// Organize groups category URLs into a unit -> category -> seed URL map.
//
// URLs that cannot be split into unit and category are left out; their
// *StructureError values are joined into the returned error, which is
// non-nil even though the map holds every URL that could be placed.
// When two URLs map to the same (unit, category) the first one wins and
// the later ones are dropped, so the seed is the link listed first on the
// site (the regular season tab before the postseason one).
func Organize(urls []string, level model.Level) (model.LinkMap, error) {
	links := make(model.LinkMap)
	var errs []error

	for _, raw := range urls {
		unit, category, err := UnitAndCategory(raw, level)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if links.Pages(unit, category) != nil {
			continue
		}
		links.Set(unit, category, raw)
	}

	return links, errors.Join(errs...)
}

// withScope narrows the logging scope of ctx to a unit and category.
func withScope(ctx context.Context, unit, category string) context.Context {
	return log.WithScope(ctx, log.Scope{Unit: unit, Category: category})
}
