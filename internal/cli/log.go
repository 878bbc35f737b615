package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/muesli/termenv"
)

func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// newCLILogger logs to the terminal for non-interactive commands. Colour
// follows the writer's capabilities and NO_COLOR/CLICOLOR.
func newCLILogger(w io.Writer, debug bool) *slog.Logger {
	noColor := termenv.NewOutput(w).EnvColorProfile() == termenv.Ascii
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      logLevel(debug),
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// newFileLogger appends plain text records to path. An empty path discards.
func newFileLogger(path string, debug bool) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log %s: %w", path, err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel(debug)}))
	return log, func() { _ = f.Close() }, nil
}
