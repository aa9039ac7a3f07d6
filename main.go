package main

import (
	"context"
	"database/sql"

	"pubgbot/internal/bot"
	"pubgbot/internal/config"
	"pubgbot/internal/database"
	"pubgbot/internal/logger"
	"pubgbot/internal/pubgapi"
	"pubgbot/internal/rank"
	"pubgbot/internal/rolesync"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			logger.New,
			database.New,
			newStatsApi,
			newSyncer,
			bot.NewBot,
		),
		fx.Invoke(runBot),
	).Run()
}

func newStatsApi(cfg *config.Config) bot.StatsApi {
	return pubgapi.NewPubgApi(cfg.PubgApiUrl, cfg.PubgApiKey)
}

func newSyncer(logger zerolog.Logger) *rolesync.Syncer {
	return rolesync.NewSyncer(rank.Default, logger.With().Str("component", "rolesync").Logger())
}

func runBot(lc fx.Lifecycle, b *bot.Bot, db *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info().Msg("starting bot")
			return b.Start()
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("stopping bot")
			if err := b.Stop(); err != nil {
				logger.Warn().Err(err).Msg("error closing discord session")
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}
