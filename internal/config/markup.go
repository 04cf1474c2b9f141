package config

import "github.com/nao1215/nflstats/internal/model"

// LevelMarkup holds the page locations and CSS selectors used to scrape one
// statistics level. The site's class names change between redesigns, so
// every selector can be overridden from the configuration file.
type LevelMarkup struct {
	// LandingPath is the path of the level's statistics landing page,
	// resolved against the base URL.
	LandingPath string `yaml:"landingPath,omitempty"`

	// GroupSelector selects the anchors on the landing page that lead to
	// category group pages.
	GroupSelector string `yaml:"groupSelector,omitempty"`

	// CategorySelector selects the anchors on a group page that lead to the
	// final category pages.
	CategorySelector string `yaml:"categorySelector,omitempty"`

	// NextSelector selects the "next page" anchor on a category page.
	NextSelector string `yaml:"nextSelector,omitempty"`

	// DetailClass is the class of the elements holding the statistics
	// table rows (header and data cells).
	DetailClass string `yaml:"detailClass,omitempty"`
}

// Complete reports whether every selector is set.
func (m LevelMarkup) Complete() bool {
	return m.LandingPath != "" &&
		m.GroupSelector != "" &&
		m.CategorySelector != "" &&
		m.NextSelector != "" &&
		m.DetailClass != ""
}

// Tab and pagination selectors shared by both levels.
const (
	tabItemAnchorSelector = "li.d3-o-tabs__list-item a"
	nextPageSelector      = "a.nfl-o-table-pagination__next"
)

// DefaultPlayerMarkup returns the selectors for player statistics.
// Every top-level tab on the landing page is a category group.
func DefaultPlayerMarkup() LevelMarkup {
	return LevelMarkup{
		LandingPath:      "/stats/player-stats/",
		GroupSelector:    tabItemAnchorSelector,
		CategorySelector: tabItemAnchorSelector,
		NextSelector:     nextPageSelector,
		DetailClass:      "d3-o-player-stats--detailed",
	}
}

// DefaultTeamMarkup returns the selectors for team statistics.
// Only the tabbed phase selector (offense, defense, special teams) on the
// landing page leads to category groups.
func DefaultTeamMarkup() LevelMarkup {
	return LevelMarkup{
		LandingPath:      "/stats/team-stats/",
		GroupSelector:    "ul.d3-o-tabbed-controls-selector__list li a",
		CategorySelector: tabItemAnchorSelector,
		NextSelector:     nextPageSelector,
		DetailClass:      "d3-o-team-stats--detailed",
	}
}

// Markup returns the selectors configured for level.
func (s *Settings) Markup(level model.Level) LevelMarkup {
	if level == model.LevelTeam {
		return s.Team
	}
	return s.Player
}
