package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DiscordToken    string        `env:"DISCORD_TOKEN,required,notEmpty"`
	PubgApiKey      string        `env:"PUBG_API_KEY,required,notEmpty"`
	PubgApiUrl      string        `env:"PUBG_API_URL" envDefault:"https://api.pubg.com"`
	DBPath          string        `env:"DB_PATH" envDefault:"pubgbot.db"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty       bool          `env:"LOG_PRETTY" envDefault:"false"`
	CommandPrefix   string        `env:"COMMAND_PREFIX" envDefault:"pubg"`
	DefaultPlatform string        `env:"DEFAULT_PLATFORM" envDefault:"steam"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
}

// Load the configuration from the environment, reading a .env file first if present
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables or defaults")
	}
	return Parse()
}

func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.CommandPrefix == "" {
		return nil, fmt.Errorf("COMMAND_PREFIX cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	log.Info().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Str("prefix", cfg.CommandPrefix).
		Str("default_platform", cfg.DefaultPlatform).
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("configuration loaded")

	return &cfg, nil
}
