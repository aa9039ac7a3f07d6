package bot

import (
	"context"

	"pubgbot/internal/rolesync"

	"github.com/bwmarrin/discordgo"
)

// The part of the discord session needed to read and change roles
type roleSession interface {
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildMember(guildID string, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberEdit(guildID string, userID string, data *discordgo.GuildMemberParams, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

type guildDirectory struct {
	discord roleSession
	guildId string
}

func (directory guildDirectory) Id() string {
	return directory.guildId
}

func (directory guildDirectory) Roles(ctx context.Context) ([]rolesync.Role, error) {
	roles, err := directory.discord.GuildRoles(directory.guildId, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	result := make([]rolesync.Role, 0, len(roles))
	for _, role := range roles {
		result = append(result, rolesync.Role{Id: role.ID, Name: role.Name, Color: role.Color, Mentionable: role.Mentionable})
	}
	return result, nil
}

func (directory guildDirectory) CreateRole(ctx context.Context, spec rolesync.RoleSpec) (rolesync.Role, error) {
	color := spec.Color
	mentionable := spec.Mentionable
	role, err := directory.discord.GuildRoleCreate(directory.guildId, &discordgo.RoleParams{
		Name:        spec.Name,
		Color:       &color,
		Mentionable: &mentionable,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return rolesync.Role{}, err
	}
	return rolesync.Role{Id: role.ID, Name: role.Name, Color: role.Color, Mentionable: role.Mentionable}, nil
}

type guildMember struct {
	discord roleSession
	guildId string
	userId  string
}

func (member guildMember) Id() string {
	return member.userId
}

func (member guildMember) RoleIds(ctx context.Context) ([]string, error) {
	m, err := member.discord.GuildMember(member.guildId, member.userId, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return m.Roles, nil
}

func (member guildMember) ReplaceRoles(ctx context.Context, roleIds []string) error {
	roles := make([]string, len(roleIds))
	copy(roles, roleIds)
	_, err := member.discord.GuildMemberEdit(member.guildId, member.userId, &discordgo.GuildMemberParams{Roles: &roles}, discordgo.WithContext(ctx))
	return err
}
