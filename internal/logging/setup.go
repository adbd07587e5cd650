package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/Olprog59/go-clientbook/internal/config"
)

// ParseLevel maps a configured level name to slog, defaulting to info / Convertit le niveau configuré
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the console handler and, when enabled, fans out to Loki / Construit le handler
// The returned closer flushes Loki and is never nil.
func NewHandler(conf *config.Config, w io.Writer) (slog.Handler, io.Closer) {
	level := ParseLevel(conf.Logging.Level)

	var console slog.Handler
	if strings.ToLower(conf.Logging.Format) == "json" {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: conf.IsProduction(),
		})
	} else {
		console = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	if !conf.Logging.LokiEnabled {
		return console, nopCloser{}
	}

	loki := NewLokiHandler(
		conf.Logging.LokiURL,
		conf.Logging.LokiLabels,
		conf.Logging.LokiBatchSize,
		true,
		level,
	)
	return NewFanout(console, loki), loki
}

// Setup installs the configured logger as the slog default / Installe le logger par défaut
func Setup(conf *config.Config, w io.Writer) io.Closer {
	handler, closer := NewHandler(conf, w)
	slog.SetDefault(slog.New(handler))

	slog.Info("logging configured",
		"level", ParseLevel(conf.Logging.Level).String(),
		"format", conf.Logging.Format,
		"loki_enabled", conf.Logging.LokiEnabled,
	)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Fanout writes every record to each handler that accepts its level.
// The first handler is primary: its error is returned, the others are best effort.
type Fanout struct {
	handlers []slog.Handler
}

// NewFanout creates a fan-out handler / Crée un handler de diffusion
func NewFanout(primary slog.Handler, others ...slog.Handler) *Fanout {
	return &Fanout{handlers: append([]slog.Handler{primary}, others...)}
}

func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *Fanout) Handle(ctx context.Context, record slog.Record) error {
	var primaryErr error
	for i, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		err := h.Handle(ctx, record.Clone())
		if i == 0 {
			primaryErr = err
		}
	}
	return primaryErr
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &Fanout{handlers: next}
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &Fanout{handlers: next}
}

var _ slog.Handler = (*Fanout)(nil)
