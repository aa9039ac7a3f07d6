package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pubgbot/internal/pubgapi"
)

// A discord user linked to a PUBG account name
type Registration struct {
	DiscordId string
	PubgName  string
	Platform  pubgapi.Platform
}

type DatabaseBot struct {
	db *sql.DB
}

func NewDatabaseBot(db *sql.DB) DatabaseBot {
	return DatabaseBot{db: db}
}

func (database *DatabaseBot) Register(ctx context.Context, registration Registration) error {
	_, err := database.db.ExecContext(ctx, `
		INSERT INTO registrations (discord_id, pubg_name, platform)
		VALUES (?, ?, ?)
		ON CONFLICT(discord_id) DO UPDATE SET
			pubg_name = excluded.pubg_name,
			platform = excluded.platform,
			updated_at = CURRENT_TIMESTAMP`,
		registration.DiscordId, registration.PubgName, string(registration.Platform))
	if err != nil {
		return fmt.Errorf("could not register discord user %s: %w", registration.DiscordId, err)
	}
	return nil
}

func (database *DatabaseBot) Registration(ctx context.Context, discordId string) (Registration, bool, error) {
	registration := Registration{DiscordId: discordId}
	var platform string
	err := database.db.QueryRowContext(ctx,
		`SELECT pubg_name, platform FROM registrations WHERE discord_id = ?`, discordId).
		Scan(&registration.PubgName, &platform)
	if errors.Is(err, sql.ErrNoRows) {
		return Registration{}, false, nil
	}
	if err != nil {
		return Registration{}, false, fmt.Errorf("could not read registration of discord user %s: %w", discordId, err)
	}
	registration.Platform = pubgapi.Platform(platform)
	return registration, true, nil
}

func (database *DatabaseBot) Unregister(ctx context.Context, discordId string) (bool, error) {
	result, err := database.db.ExecContext(ctx, `DELETE FROM registrations WHERE discord_id = ?`, discordId)
	if err != nil {
		return false, fmt.Errorf("could not unregister discord user %s: %w", discordId, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
