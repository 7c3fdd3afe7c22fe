package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger for the duel server, writing
// human-readable console output. An unknown level string falls back to
// info and is reported on the returned logger.
func New(level string) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, known := parseLevel(level)
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	logger := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	if !known {
		logger.Warn().Str("level", level).Msg("unknown log level, using info")
	}
	return &logger
}

func parseLevel(level string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info", "":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}
