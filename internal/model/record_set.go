package model

import "slices"

// TeamColumn is the column whose cells carry the duplicated team
// abbreviation artifact ("BUFBUF").
const TeamColumn = "Team"

// RecordSet is a rectangular table parsed from statistics markup.
// Every row has exactly len(Columns) cells.
type RecordSet struct {
	// Columns are the column names in encounter order.
	Columns []string `json:"columns"`

	// Rows are the data rows in page order.
	Rows [][]string `json:"rows"`
}

// Empty reports whether the record set has no rows.
func (r RecordSet) Empty() bool {
	return len(r.Rows) == 0
}

// Len returns the number of rows.
func (r RecordSet) Len() int {
	return len(r.Rows)
}

// ColumnIndex returns the index of the named column, or -1.
func (r RecordSet) ColumnIndex(name string) int {
	return slices.Index(r.Columns, name)
}

// Merge concatenates the record sets of one category's page sequence.
//
// Columns are taken from the first page that has any. Rows are appended in
// page order and then row order; nothing is deduplicated or sorted. A page
// whose columns differ from the chosen schema cannot be aligned and is
// left out; its index is returned in skipped so the caller can report it.
func Merge(pages []RecordSet) (merged RecordSet, skipped []int) {
	schemaSet := false
	for i, page := range pages {
		if page.Empty() && len(page.Columns) == 0 {
			continue
		}
		if !schemaSet {
			merged.Columns = slices.Clone(page.Columns)
			schemaSet = true
		} else if !slices.Equal(merged.Columns, page.Columns) {
			skipped = append(skipped, i)
			continue
		}
		for _, row := range page.Rows {
			merged.Rows = append(merged.Rows, slices.Clone(row))
		}
	}
	return merged, skipped
}

// CleanTeamColumn removes the duplicated-text artifact from the Team column
// in place: each cell keeps its first len/2 characters, so "NYGNYG" becomes
// "NYG" and an odd length truncates ("ABCAB" becomes "AB").
// It reports whether a Team column was present.
func (r RecordSet) CleanTeamColumn() bool {
	idx := r.ColumnIndex(TeamColumn)
	if idx < 0 {
		return false
	}
	for _, row := range r.Rows {
		if idx < len(row) {
			row[idx] = HalveText(row[idx])
		}
	}
	return true
}

// HalveText returns the first half of s, counted in characters, using
// integer division.
func HalveText(s string) string {
	runes := []rune(s)
	return string(runes[:len(runes)/2])
}
