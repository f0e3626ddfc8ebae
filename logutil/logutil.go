// Package logutil builds the slog logger used by the command line tools
package logutil

import (
	"io"
	"log/slog"
	"path/filepath"
)

// NewLogger returns a text logger writing to w at level. Records carry their
// source file trimmed to its base name when level is debug or lower.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.SourceKey {
				if source, ok := attr.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}

			return attr
		},
	})

	return slog.New(handler)
}
