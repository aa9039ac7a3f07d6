package pubgapi

import (
	"encoding/json"
	"fmt"

	"pubgbot/internal/rank"
)

func UnmarshalPlayers(data []byte) ([]Player, error) {

	var raw struct {
		Data []struct {
			Type       string
			Id         AccountId
			Attributes struct {
				Name    string
				ShardId Platform
			}
		}
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	players := make([]Player, 0, len(raw.Data))
	for _, entry := range raw.Data {
		if entry.Type != "player" || entry.Id == "" {
			continue
		}
		players = append(players, Player{Id: entry.Id, Name: entry.Attributes.Name, Platform: entry.Attributes.ShardId})
	}
	return players, nil
}

func UnmarshalSeasons(data []byte) ([]Season, error) {

	var raw struct {
		Data []struct {
			Type       string
			Id         SeasonId
			Attributes struct {
				IsCurrentSeason bool
				IsOffseason     bool
			}
		}
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	seasons := make([]Season, 0, len(raw.Data))
	for _, entry := range raw.Data {
		if entry.Type != "season" {
			continue
		}
		seasons = append(seasons, Season{Id: entry.Id, Current: entry.Attributes.IsCurrentSeason, Offseason: entry.Attributes.IsOffseason})
	}
	return seasons, nil
}

// Decode a player season into a snapshot.
// Modes the player has not played this season are left out of the snapshot,
// a played mode stays in even if its rank points are zero
func UnmarshalSeasonStats(data []byte, accountId AccountId, seasonId SeasonId) (rank.Snapshot, error) {

	type modeStats struct {
		RankPoints   float64
		RoundsPlayed int
		Wins         int
		Top10s       int
		Kills        int
	}
	var raw struct {
		Data struct {
			Type       string
			Attributes struct {
				GameModeStats map[string]*modeStats
			}
		}
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return rank.Snapshot{}, err
	}
	if raw.Data.Type != "playerSeason" {
		return rank.Snapshot{}, fmt.Errorf("unexpected data type `%s` in season stats", raw.Data.Type)
	}

	snapshot := rank.Snapshot{AccountId: string(accountId), SeasonId: string(seasonId), Modes: map[rank.GameMode]rank.ModeStats{}}
	for _, mode := range rank.GameModes {
		stats, ok := raw.Data.Attributes.GameModeStats[string(mode)]
		if !ok || stats == nil || stats.RoundsPlayed <= 0 {
			continue
		}
		snapshot.Modes[mode] = rank.ModeStats{
			RankPoints:   stats.RankPoints,
			RoundsPlayed: stats.RoundsPlayed,
			Wins:         stats.Wins,
			Top10s:       stats.Top10s,
			Kills:        stats.Kills,
		}
	}
	return snapshot, nil
}
