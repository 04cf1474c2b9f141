package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nao1215/nflstats/internal/database"
	"github.com/nao1215/nflstats/internal/model"
)

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("reports an empty history", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"history", "--history-dir", t.TempDir()})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "No exports recorded yet") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"history", "--history-dir", t.TempDir(), "--json", "--markdown"})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for --json with --markdown")
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"history", "--history-dir", t.TempDir(), "--level", "coach"})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for unknown level")
		}
	})
}

func TestHistoryFilter(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	if err := cmd.ParseFlags([]string{"--season", "2021", "--level", "TEAM", "--limit", "5"}); err != nil {
		t.Fatal(err)
	}

	got, err := historyFilter(cmd)
	if err != nil {
		t.Fatalf("historyFilter() error = %v", err)
	}
	want := database.ExportFilter{Season: 2021, Level: model.LevelTeam, Limit: 5}
	if got != want {
		t.Errorf("historyFilter() = %+v, want %+v", got, want)
	}
}

func TestWriteRunRecords(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := writeRunRecords(&out, nil, false); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "No runs recorded yet") {
			t.Errorf("unexpected output: %q", out.String())
		}

		out.Reset()
		if err := writeRunRecords(&out, nil, true); err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(out.String()) != "[]" {
			t.Errorf("expected empty JSON array, got %q", out.String())
		}
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		runs := []database.RunRecord{
			{ID: 2, Season: 2023, Level: model.LevelTeam, Week: 4, Exports: 12, Rows: 384, Failures: 1},
			{ID: 1, Season: 2022, Level: model.LevelPlayer, Exports: 20, Rows: 5000, Cancelled: true},
		}
		if err := writeRunRecords(&out, runs, false); err != nil {
			t.Fatal(err)
		}

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got:\n%s", out.String())
		}
		if !strings.HasSuffix(lines[1], "partial") {
			t.Errorf("expected partial status, got %q", lines[1])
		}
		if !strings.HasSuffix(lines[2], "cancelled") {
			t.Errorf("expected cancelled status, got %q", lines[2])
		}
	})
}
