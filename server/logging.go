package server

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytdlp-gui/ytdlp-gui/server/config"
)

// setupLogging makes a text logger on stdout, and optionally the log file,
// the default one. The returned closer releases the file.
func setupLogging(c config.LoggingConfig) (io.Closer, error) {
	writers := []io.Writer{os.Stdout}

	var closer io.Closer = io.NopCloser(nil)

	if c.EnableFileLogging {
		if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
			return nil, err
		}

		f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}

		writers = append(writers, f)
		closer = f
	}

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: parseLogLevel(c.Level),
	}))

	slog.SetDefault(logger)
	return closer, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
