package log

import (
	"context"
	"io"
	"log/slog"
)

// Scope identifies the slice of a scrape a log record belongs to.
// Zero fields are omitted from the output.
type Scope struct {
	Season   int
	Level    string
	Unit     string
	Category string
}

type scopeKey struct{}

// WithScope returns a context carrying scope. Non-zero fields of scope
// override those already on ctx, so callers can narrow the scope as they
// descend from a level to a unit and category.
func WithScope(ctx context.Context, scope Scope) context.Context {
	merged := ScopeFrom(ctx)
	if scope.Season != 0 {
		merged.Season = scope.Season
	}
	if scope.Level != "" {
		merged.Level = scope.Level
	}
	if scope.Unit != "" {
		merged.Unit = scope.Unit
	}
	if scope.Category != "" {
		merged.Category = scope.Category
	}
	return context.WithValue(ctx, scopeKey{}, merged)
}

// ScopeFrom returns the scope carried by ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	scope, _ := ctx.Value(scopeKey{}).(Scope)
	return scope
}

// attrs returns the non-zero fields of s as log attributes.
func (s Scope) attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)
	if s.Season != 0 {
		attrs = append(attrs, slog.Int("season", s.Season))
	}
	if s.Level != "" {
		attrs = append(attrs, slog.String("level", s.Level))
	}
	if s.Unit != "" {
		attrs = append(attrs, slog.String("unit", s.Unit))
	}
	if s.Category != "" {
		attrs = append(attrs, slog.String("category", s.Category))
	}
	return attrs
}

// ContextHandler wraps an slog.Handler and adds the scrape scope found on
// the record's context before passing the record on.
//
// Design decision: We use a handler wrapper rather than logger.With()
// because the scope changes at every unit and category while the logger is
// injected once per component.
type ContextHandler struct {
	// handler is the underlying slog handler that receives the records.
	handler slog.Handler
}

// NewContextHandler creates a new ContextHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &ContextHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle adds the scope attributes of ctx to r and passes it on.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := ScopeFrom(ctx).attrs(); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new ContextHandler whose underlying handler has attrs.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a new ContextHandler whose underlying handler uses the group.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// Options configures NewLogger.
type Options struct {
	// Verbose sets the level to Debug; otherwise Info.
	Verbose bool

	// JSON switches output from logfmt-style text to JSON lines.
	JSON bool
}

// NewLogger creates a new slog.Logger that writes to w and adds the scrape
// scope from the context to every record.
//
// Progress (pages found, files exported) is logged at Info, so the default
// level is Info; Verbose adds per-request Debug records.
func NewLogger(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	var base slog.Handler
	if opts.JSON {
		base = slog.NewJSONHandler(w, handlerOpts)
	} else {
		base = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(NewContextHandler(base))
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
