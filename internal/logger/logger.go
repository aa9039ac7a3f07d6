package logger

import (
	"os"
	"time"

	"pubgbot/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Build the process logger and install it as the global one
func New(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime})
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		logger = zerolog.New(os.Stdout)
	}
	logger = logger.With().Timestamp().Logger().Level(level)

	log.Logger = logger
	return logger
}
