package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestContextHandler_AddsScope(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{})

	ctx := WithScope(context.Background(), Scope{Season: 2024, Level: "team"})
	ctx = WithScope(ctx, Scope{Unit: "offense", Category: "passing"})
	logger.InfoContext(ctx, "category exported", "rows", 32)

	out := buf.String()
	for _, want := range []string{"season=2024", "level=team", "unit=offense", "category=passing", "rows=32"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output: %s", want, out)
		}
	}
}

func TestContextHandler_NarrowingScope(t *testing.T) {
	t.Parallel()

	ctx := WithScope(context.Background(), Scope{Season: 2024, Level: "team", Unit: "offense"})
	ctx = WithScope(ctx, Scope{Unit: "defense"})

	scope := ScopeFrom(ctx)
	if scope.Season != 2024 || scope.Level != "team" || scope.Unit != "defense" {
		t.Errorf("unexpected scope %+v", scope)
	}
}

func TestContextHandler_NoScope(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{})
	logger.Info("starting")

	if strings.Contains(buf.String(), "season=") {
		t.Errorf("unexpected scope attribute in output: %s", buf.String())
	}
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	t.Run("debug hidden by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, Options{})
		logger.Debug("fetching")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %s", buf.String())
		}
	})

	t.Run("verbose shows debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, Options{Verbose: true})
		logger.Debug("fetching")
		if !strings.Contains(buf.String(), "fetching") {
			t.Errorf("expected debug output, got %s", buf.String())
		}
	})
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{JSON: true})
	ctx := WithScope(context.Background(), Scope{Season: 1999, Level: "player"})
	logger.WarnContext(ctx, "no data")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if record["msg"] != "no data" {
		t.Errorf("unexpected msg %v", record["msg"])
	}
	if record["season"] != float64(1999) {
		t.Errorf("unexpected season %v", record["season"])
	}
	if record["level"] != "player" {
		t.Errorf("unexpected level %v", record["level"])
	}
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(h).With("component", "paginator").WithGroup("page")

	ctx := WithScope(context.Background(), Scope{Category: "rushing"})
	logger.InfoContext(ctx, "next page", "index", 2)

	out := buf.String()
	if !strings.Contains(out, "component=paginator") {
		t.Errorf("expected component attribute: %s", out)
	}
	if !strings.Contains(out, "page.index=2") {
		t.Errorf("expected grouped attribute: %s", out)
	}
}

func TestNewContextHandler_NilHandler(t *testing.T) {
	t.Parallel()

	if NewContextHandler(nil).handler == nil {
		t.Error("expected default handler")
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled")
	}
}
