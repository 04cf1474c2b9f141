package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// seasonSegmentPattern matches a path segment that holds a season year.
var seasonSegmentPattern = regexp.MustCompile(`^\d{4}$`)

// ErrNoSeasonSegment is returned by URLTemplate.WithSeason when the template
// has no path segment that holds a season.
var ErrNoSeasonSegment = errors.New("url has no season path segment")

// URLTemplate is a category URL split into path segments with the position
// of the season segment recorded.
//
// The statistics site embeds the season as its own path segment, e.g.
//
//	https://www.nfl.com/stats/team-stats/offense/passing/2023/reg/all
//
// Discovered links always carry whatever season the landing page is
// showing, so the season is rendered from the template instead of
// replacing a literal year inside the URL string.
type URLTemplate struct {
	// base holds scheme, host, query and fragment; its Path is ignored.
	base url.URL

	// segments are the non-empty path segments in order.
	segments []string

	// seasonIndex is the index into segments of the season, or -1.
	seasonIndex int

	// trailingSlash preserves a trailing "/" on the original path.
	trailingSlash bool
}

// ParseURLTemplate parses raw into a URLTemplate.
// The season segment is the first 4-digit path segment that is a
// plausible season (1970 or later). A URL without one is still a valid
// template; WithSeason then returns ErrNoSeasonSegment.
func ParseURLTemplate(raw string) (URLTemplate, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return URLTemplate{}, fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return URLTemplate{}, fmt.Errorf("url %q is not absolute", raw)
	}

	t := URLTemplate{
		base:          *u,
		segments:      PathSegments(u.Path),
		seasonIndex:   -1,
		trailingSlash: strings.HasSuffix(u.Path, "/"),
	}
	t.base.Path = ""
	t.base.RawPath = ""

	for i, seg := range t.segments {
		if !seasonSegmentPattern.MatchString(seg) {
			continue
		}
		if year, err := strconv.Atoi(seg); err == nil && year >= 1970 {
			t.seasonIndex = i
			break
		}
	}
	return t, nil
}

// HasSeason reports whether the template carries a season segment.
func (t URLTemplate) HasSeason() bool {
	return t.seasonIndex >= 0
}

// Segments returns a copy of the path segments.
func (t URLTemplate) Segments() []string {
	out := make([]string, len(t.segments))
	copy(out, t.segments)
	return out
}

// WithSeason renders the template with the season segment set to season.
func (t URLTemplate) WithSeason(season int) (string, error) {
	if !t.HasSeason() {
		return "", fmt.Errorf("%s: %w", t.String(), ErrNoSeasonSegment)
	}
	segments := t.Segments()
	segments[t.seasonIndex] = strconv.Itoa(season)
	return t.render(segments), nil
}

// String renders the template unchanged.
func (t URLTemplate) String() string {
	return t.render(t.segments)
}

func (t URLTemplate) render(segments []string) string {
	u := t.base
	u.Path = "/" + strings.Join(segments, "/")
	if t.trailingSlash && len(segments) > 0 {
		u.Path += "/"
	}
	return u.String()
}

// PathSegments splits a URL path into its non-empty segments.
func PathSegments(p string) []string {
	parts := strings.Split(p, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
