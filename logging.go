package icap

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger builds the default structured logger: colored, leveled
// text to stderr, timestamps trimmed to millisecond precision. Set
// verbose to include debug-level frame tracing.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(formatMillis(a.Value.Time()))
			}
			return a
		},
	}))
}

func formatMillis(t time.Time) string {
	t = t.UTC()
	return t.Format("2006-01-02T15:04:05.000Z")
}

// noopLogger is used when an embedder passes a nil logger to
// NewApplicationInstance/NewDeviceInstance.
func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
