package model

import (
	"sort"
)

// PageSequence is the ordered list of page URLs of one category.
// Index 0 is the seed URL found by link discovery.
type PageSequence []string

// Seed returns the first URL of the sequence, or "" when empty.
func (p PageSequence) Seed() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// LinkMap maps unit -> category -> page sequence.
//
// The organizer fills each sequence with its seed URL; the paginator then
// extends every sequence in place. Only the pipeline step that currently
// owns the map writes to it.
type LinkMap map[string]map[string]PageSequence

// Set stores seed as the only page of (unit, category), replacing any
// previous sequence.
func (m LinkMap) Set(unit, category, seed string) {
	categories, ok := m[unit]
	if !ok {
		categories = make(map[string]PageSequence)
		m[unit] = categories
	}
	categories[category] = PageSequence{seed}
}

// Pages returns the page sequence of (unit, category).
func (m LinkMap) Pages(unit, category string) PageSequence {
	return m[unit][category]
}

// Replace overwrites the page sequence of an existing (unit, category).
func (m LinkMap) Replace(unit, category string, pages PageSequence) {
	if categories, ok := m[unit]; ok {
		categories[category] = pages
	}
}

// Units returns the unit names in sorted order.
func (m LinkMap) Units() []string {
	units := make([]string, 0, len(m))
	for unit := range m {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

// Categories returns the category names of unit in sorted order.
func (m LinkMap) Categories(unit string) []string {
	categories := make([]string, 0, len(m[unit]))
	for category := range m[unit] {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// CategoryCount returns the number of (unit, category) pairs.
func (m LinkMap) CategoryCount() int {
	n := 0
	for _, categories := range m {
		n += len(categories)
	}
	return n
}

// PageCount returns the total number of pages across all categories.
func (m LinkMap) PageCount() int {
	n := 0
	for _, categories := range m {
		for _, pages := range categories {
			n += len(pages)
		}
	}
	return n
}
