// Package logutil configures slog for the trainer and adds a TRACE
// level below Debug for per-splice output in the merge loop.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
)

const LevelTrace slog.Level = -8

func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				if attr.Value.Any().(slog.Level) == LevelTrace {
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				source := attr.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return attr
		},
	}))
}

// Trace logs at LevelTrace through the default logger. The enabled
// check keeps it cheap on hot paths.
func Trace(msg string, args ...any) {
	if logger := slog.Default(); logger.Enabled(context.Background(), LevelTrace) {
		logger.Log(context.Background(), LevelTrace, msg, args...)
	}
}
