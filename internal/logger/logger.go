package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vaultagent/internal/config"
)

// New builds the service logger from config. Unknown levels fall back to
// info; format "console" selects human-readable output, anything else stays
// structured JSON.
func New(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out = os.Stderr
	logger := zerolog.New(out)
	if strings.ToLower(cfg.Format) == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger.Level(level).With().Timestamp().Str("service", "vaultagent").Logger()
}
