// Package log configures structured logging for viewc.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Sentinel configuration errors.
var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

const (
	attrComponent = "component"
	attrFile      = "file"

	// FormatText selects slog's key=value handler.
	FormatText = "text"
	// FormatJSON selects slog's JSON handler.
	FormatJSON = "json"
)

// Config selects the level and encoding of a logger.
type Config struct {
	Level     string
	Format    string
	Component string
}

// New builds a logger writing to w. An empty level means info and an empty
// format means text.
func New(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", FormatText:
		inner = slog.NewTextHandler(w, opts)
	case FormatJSON:
		inner = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}

	return slog.New(NewFileHandler(inner, cfg.Component)), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

type fileKey struct{}

// WithFile returns a context carrying the path of the file being processed.
// Records logged with that context get a file attribute.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey{}, path)
}

// FileFrom returns the path stored by WithFile.
func FileFrom(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(fileKey{}).(string)
	return path, ok && path != ""
}

// FileHandler is an [slog.Handler] that injects the file path carried by the
// context into every record. The component attribute is pre-attached at
// construction so it stays at the top level when groups are used.
type FileHandler struct {
	inner slog.Handler
}

// NewFileHandler wraps inner. An empty component adds no attribute.
func NewFileHandler(inner slog.Handler, component string) *FileHandler {
	if component != "" {
		inner = inner.WithAttrs([]slog.Attr{slog.String(attrComponent, component)})
	}
	return &FileHandler{inner: inner}
}

// Enabled delegates to the inner handler.
func (h *FileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the file attribute from ctx, then delegates.
func (h *FileHandler) Handle(ctx context.Context, record slog.Record) error {
	if path, ok := FileFrom(ctx); ok {
		record.AddAttrs(slog.String(attrFile, path))
	}

	if err := h.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("file handler: %w", err)
	}
	return nil
}

// WithAttrs returns a new FileHandler with additional attributes on the inner handler.
func (h *FileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &FileHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup returns a new FileHandler with a group prefix on the inner handler.
func (h *FileHandler) WithGroup(name string) slog.Handler {
	return &FileHandler{inner: h.inner.WithGroup(name)}
}
