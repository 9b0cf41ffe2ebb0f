package logger

import (
	"fmt"
	"os"
	"hytale-list/internal/config"

	"github.com/rs/zerolog"
)

// New returns the root logger. It is built before the configuration, so the
// configured level is applied afterwards by Configure.
func New() zerolog.Logger {
	return SetLevel(zerolog.DebugLevel)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

// Configure applies cfg.LogLevel to every logger through zerolog's global
// level. An empty level means info.
func Configure(cfg *config.Config, logger zerolog.Logger) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger.Info().Str("level", level.String()).Msg("log level applied")
	return nil
}
