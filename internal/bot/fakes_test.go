package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"pubgbot/internal/pubgapi"
	"pubgbot/internal/rank"

	"github.com/bwmarrin/discordgo"
)

type fakeSession struct {
	roles     []*discordgo.Role
	members   map[string]*discordgo.Member
	next      int
	createErr error
	editErr   error
	edits     int
}

func newFakeSession() *fakeSession {
	return &fakeSession{members: map[string]*discordgo.Member{}}
}

func (session *fakeSession) addRole(name string) string {
	session.next++
	role := &discordgo.Role{ID: fmt.Sprintf("role-%d", session.next), Name: name}
	session.roles = append(session.roles, role)
	return role.ID
}

func (session *fakeSession) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return slices.Clone(session.roles), nil
}

func (session *fakeSession) GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
	if session.createErr != nil {
		return nil, session.createErr
	}
	id := session.addRole(data.Name)
	role := session.roles[len(session.roles)-1]
	role.Color = *data.Color
	role.Mentionable = *data.Mentionable
	return &discordgo.Role{ID: id, Name: role.Name, Color: role.Color, Mentionable: role.Mentionable}, nil
}

func (session *fakeSession) GuildMember(guildID string, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	member, ok := session.members[userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	return &discordgo.Member{User: member.User, Roles: slices.Clone(member.Roles)}, nil
}

func (session *fakeSession) GuildMemberEdit(guildID string, userID string, data *discordgo.GuildMemberParams, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	if session.editErr != nil {
		return nil, session.editErr
	}
	member, ok := session.members[userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	session.edits++
	if data.Roles != nil {
		member.Roles = slices.Clone(*data.Roles)
	}
	return member, nil
}

func (session *fakeSession) roleNames(userID string) []string {
	names := []string{}
	for _, id := range session.members[userID].Roles {
		for _, role := range session.roles {
			if role.ID == id {
				names = append(names, role.Name)
			}
		}
	}
	return names
}

type fakeStats struct {
	players   map[string]pubgapi.Player
	snapshots map[pubgapi.AccountId]rank.Snapshot
	season    pubgapi.SeasonId
	err       error
}

func (stats *fakeStats) GetPlayer(ctx context.Context, platform pubgapi.Platform, name string) (pubgapi.Player, error) {
	if stats.err != nil {
		return pubgapi.Player{}, stats.err
	}
	player, ok := stats.players[string(platform)+"/"+name]
	if !ok {
		return pubgapi.Player{}, pubgapi.ErrNotFound
	}
	return player, nil
}

func (stats *fakeStats) CurrentSeason(ctx context.Context, platform pubgapi.Platform) (pubgapi.SeasonId, error) {
	if stats.season == "" {
		return "", pubgapi.ErrNotFound
	}
	return stats.season, nil
}

func (stats *fakeStats) GetSeasonStats(ctx context.Context, platform pubgapi.Platform, accountId pubgapi.AccountId, seasonId pubgapi.SeasonId) (rank.Snapshot, error) {
	if seasonId != stats.season {
		return rank.Snapshot{}, pubgapi.ErrNotFound
	}
	snapshot, ok := stats.snapshots[accountId]
	if !ok {
		return rank.Snapshot{}, pubgapi.ErrNotFound
	}
	return snapshot, nil
}

func (stats *fakeStats) Status(ctx context.Context) (time.Duration, error) {
	return time.Millisecond, stats.err
}
