package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLinkMap(t *testing.T) {
	t.Parallel()

	t.Run("set and expand in place", func(t *testing.T) {
		t.Parallel()

		m := make(LinkMap)
		m.Set("offense", "passing", "http://x/passing")
		m.Set("offense", "rushing", "http://x/rushing")
		m.Set("defense", "sacks", "http://x/sacks")

		m.Replace("offense", "passing", PageSequence{"http://x/passing", "http://x/passing?p=2"})

		if got := m.Pages("offense", "passing"); len(got) != 2 {
			t.Errorf("expected 2 pages, got %d", len(got))
		}
		if got := m.Pages("offense", "passing").Seed(); got != "http://x/passing" {
			t.Errorf("unexpected seed %q", got)
		}
		if m.CategoryCount() != 3 {
			t.Errorf("expected 3 categories, got %d", m.CategoryCount())
		}
		if m.PageCount() != 4 {
			t.Errorf("expected 4 pages, got %d", m.PageCount())
		}
	})

	t.Run("replace ignores unknown unit", func(t *testing.T) {
		t.Parallel()

		m := make(LinkMap)
		m.Replace("offense", "passing", PageSequence{"http://x"})
		if len(m) != 0 {
			t.Errorf("expected empty map, got %v", m)
		}
	})

	t.Run("units and categories are sorted", func(t *testing.T) {
		t.Parallel()

		m := make(LinkMap)
		m.Set("special-teams", "punting", "u1")
		m.Set("defense", "tackles", "u2")
		m.Set("defense", "interceptions", "u3")

		if diff := cmp.Diff([]string{"defense", "special-teams"}, m.Units()); diff != "" {
			t.Errorf("units mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"interceptions", "tackles"}, m.Categories("defense")); diff != "" {
			t.Errorf("categories mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("seed of empty sequence", func(t *testing.T) {
		t.Parallel()

		if got := (PageSequence{}).Seed(); got != "" {
			t.Errorf("expected empty seed, got %q", got)
		}
	})
}
