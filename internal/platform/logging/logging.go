package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var level slog.LevelVar

// Init installs the default slog logger on stderr. format is "json" or "text".
func Init(levelName, format string) error {
	return InitWriter(os.Stderr, levelName, format)
}

func InitWriter(w io.Writer, levelName, format string) error {
	if err := SetLevel(levelName); err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: &level}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

func SetLevel(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "", "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	return nil
}
