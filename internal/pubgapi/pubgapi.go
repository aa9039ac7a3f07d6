package pubgapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pubgbot/internal/common"
	"pubgbot/internal/rank"

	"github.com/rs/zerolog/log"
)

// Default location of the stats API
const PUBG_SCHEMA = "https://api.pubg.com"

// Routes inside the stats API
const ROUTE_PLAYERS = "/shards/%s/players?filter[playerNames]=%s"
const ROUTE_SEASONS = "/shards/%s/seasons"
const ROUTE_SEASON_STATS = "/shards/%s/players/%s/seasons/%s"
const ROUTE_STATUS = "/status"

var (
	ErrNotFound     = common.ErrNotFound
	ErrUnauthorized = common.ErrUnauthorized
	ErrRateLimited  = common.ErrRateLimited
)

type PubgApi struct {
	baseUrl string
	proxy   common.Proxy
}

func NewPubgApi(baseUrl string, apiKey string) *PubgApi {
	if baseUrl == "" {
		baseUrl = PUBG_SCHEMA
	}
	return &PubgApi{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		proxy: common.NewProxy(map[string]string{
			"Authorization": "Bearer " + apiKey,
			"Accept":        "application/vnd.api+json",
		}),
	}
}

func (pubgapi *PubgApi) GetPlayer(ctx context.Context, platform Platform, name string) (Player, error) {

	requestUrl := pubgapi.baseUrl + fmt.Sprintf(ROUTE_PLAYERS, platform, url.QueryEscape(name))
	data, err := pubgapi.request(ctx, requestUrl)
	if err != nil {
		return Player{}, fmt.Errorf("could not find player %s on %s: %w", name, platform, err)
	}

	players, err := UnmarshalPlayers(data)
	if err != nil {
		return Player{}, err
	}
	if len(players) == 0 {
		return Player{}, fmt.Errorf("could not find player %s on %s: %w", name, platform, ErrNotFound)
	}
	player := players[0]
	if player.Platform == "" {
		player.Platform = platform
	}
	log.Debug().Str("player", name).Str("account", string(player.Id)).Msg("Found player")
	return player, nil
}

func (pubgapi *PubgApi) GetSeasons(ctx context.Context, platform Platform) ([]Season, error) {

	url := pubgapi.baseUrl + fmt.Sprintf(ROUTE_SEASONS, platform)
	data, err := pubgapi.request(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("could not list seasons on %s: %w", platform, err)
	}
	return UnmarshalSeasons(data)
}

func (pubgapi *PubgApi) CurrentSeason(ctx context.Context, platform Platform) (SeasonId, error) {

	seasons, err := pubgapi.GetSeasons(ctx, platform)
	if err != nil {
		return "", err
	}
	for _, season := range seasons {
		if season.Current {
			log.Debug().Str("season", string(season.Id)).Str("platform", string(platform)).Msg("Current season")
			return season.Id, nil
		}
	}
	return "", fmt.Errorf("no current season on %s: %w", platform, ErrNotFound)
}

func (pubgapi *PubgApi) GetSeasonStats(ctx context.Context, platform Platform, accountId AccountId, seasonId SeasonId) (rank.Snapshot, error) {

	url := pubgapi.baseUrl + fmt.Sprintf(ROUTE_SEASON_STATS, platform, accountId, seasonId)
	data, err := pubgapi.request(ctx, url)
	if err != nil {
		return rank.Snapshot{}, fmt.Errorf("could not get season %s for account %s: %w", seasonId, accountId, err)
	}
	return UnmarshalSeasonStats(data, accountId, seasonId)
}

// Check the stats API is up and return how long it took to answer
func (pubgapi *PubgApi) Status(ctx context.Context) (time.Duration, error) {

	start := time.Now()
	if _, err := pubgapi.request(ctx, pubgapi.baseUrl+ROUTE_STATUS); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (pubgapi *PubgApi) request(ctx context.Context, url string) ([]byte, error) {
	log.Debug().Str("url", url).Msg("Requesting")
	data, err := pubgapi.proxy.Request(ctx, url)
	if err != nil && errors.Is(err, ErrRateLimited) {
		log.Warn().Str("url", url).Msg("Stats API is rate limiting the bot")
	}
	return data, err
}
