package bot

import (
	"fmt"
	"strings"
	"time"

	"pubgbot/internal/pubgapi"
	"pubgbot/internal/rolesync"

	"github.com/bwmarrin/discordgo"
)

// Use the same yellow as the tier roles
const color int = 0xF2A900

type BotInfo struct {
	Servers  int
	Channels int
	Users    int
	Memory   uint64
	Uptime   time.Duration
	Version  string
}

func PrivateMessageIgnored() []Response {
	return []Response{ResponseString{"For the time being, I only answer in servers"}}
}

func InputNotValid(errorMessage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func MissingManageRoles() []Response {
	return []Response{ResponseString{":warning: Bot is missing the `General Permissions > Manage Roles` permission. Give permission so the bot can assign roles. :warning:"}}
}

func HelpMessage(prefix string) []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	commands := []struct{ name, value string }{
		{"role [username] [season=<season>] [platform=<platform>]", "Give yourself the `PUBG-<rank>` role of your best ranked mode this season"},
		{"register <username> [platform=<platform>]", "Remember your PUBG username so you can leave it out of other commands"},
		{"unregister", "Forget your PUBG username"},
		{"info", "Print details about the bot"},
		{"ping", "Check the latency to Discord and to the PUBG API"},
		{"help", "Print the usage of the different commands"},
	}
	for _, command := range commands {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s %s`", prefix, command.name),
			Value:  command.value,
			Inline: false,
		})
	}
	return []Response{ResponseEmbed{embed}}
}

func UsernameRequired(prefix string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Must specify a username or register with `%s register <username>`", prefix)}}
}

func PlayerNotFound(username string, platform pubgapi.Platform, season pubgapi.SeasonId) []Response {
	if season == "" {
		return []Response{ResponseString{fmt.Sprintf("Could not find **%s** on the `%s` platform. Double check the username and platform.", username, platform)}}
	}
	return []Response{ResponseString{fmt.Sprintf("Could not find **%s** on the `%s` platform for the `%s` season. Double check the username, platform, and ensure you've played this season.", username, platform, season)}}
}

func SeasonNotFound(platform pubgapi.Platform) []Response {
	return []Response{ResponseString{fmt.Sprintf("Could not find the current season on the `%s` platform", platform)}}
}

func StatsUnavailable() []Response {
	return []Response{ResponseString{"The PUBG API is not answering right now, try again in a minute"}}
}

func PlayerRegistered(username string, platform pubgapi.Platform) []Response {
	return []Response{ResponseString{fmt.Sprintf("Registered **%s** on the `%s` platform", username, platform)}}
}

func PlayerUnregistered(username string) []Response {
	return []Response{ResponseString{fmt.Sprintf("**%s** is no longer registered", username)}}
}

func NotRegistered() []Response {
	return []Response{ResponseString{"You were not registered"}}
}

func RegistrationFailed() []Response {
	return []Response{ResponseString{"Could not save the registration, try again later"}}
}

// Translate the result of a role sync into the message for the member
func SyncMessage(result rolesync.Result, err error, username string, member string) []Response {

	switch {
	case err != nil && result.Outcome == rolesync.RoleNotFound:
		return []Response{ResponseString{fmt.Sprintf("Could not complete: the **%s** role does not exist on this server and could not be created. Check the bot permissions.", result.Tier.RoleName())}}
	case err != nil:
		return []Response{ResponseString{fmt.Sprintf("Could not complete: the roles of **%s** were left unchanged", member)}}
	}

	switch result.Outcome {
	case rolesync.NoRankedData:
		return []Response{ResponseString{fmt.Sprintf("**%s** has no ranked games this season, roles were left unchanged", username)}}
	case rolesync.Applied, rolesync.PartialCatalogFailure:
		var content string
		if result.Changed {
			content = fmt.Sprintf("Assigned **%s** to **%s**", result.Tier.RoleName(), member)
		} else {
			content = fmt.Sprintf("**%s** already has **%s**", member, result.Tier.RoleName())
		}
		if len(result.CatalogFailures) > 0 {
			names := make([]string, len(result.CatalogFailures))
			for i, failure := range result.CatalogFailures {
				names[i] = failure.Tier.RoleName()
			}
			content += fmt.Sprintf("\n:warning: Could not create %s", strings.Join(names, ", "))
		}
		return []Response{ResponseString{content}}
	default:
		return []Response{ResponseString{fmt.Sprintf("Could not complete: the roles of **%s** were left unchanged", member)}}
	}
}

// Count the servers the bot is in, with their channels and members
func (info *BotInfo) addGuilds(guilds []*discordgo.Guild) {
	info.Servers += len(guilds)
	for _, guild := range guilds {
		info.Channels += len(guild.Channels)
		info.Users += guild.MemberCount
	}
}

func InfoMessage(info BotInfo) []Response {

	embed := discordgo.MessageEmbed{Title: "PUBG Bot Information", Color: color}
	values := []struct{ name, value string }{
		{"Mem Usage", fmt.Sprintf("%.2f MB", float64(info.Memory)/1024/1024)},
		{"Servers", fmt.Sprintf("%d", info.Servers)},
		{"Users", fmt.Sprintf("%d", info.Users)},
		{"Channels", fmt.Sprintf("%d", info.Channels)},
		{"Uptime", info.Uptime.Truncate(time.Second).String()},
		{"Discordgo", "v" + discordgo.VERSION},
		{"Go", info.Version},
	}
	for _, value := range values {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: value.name, Value: value.value, Inline: true})
	}
	return []Response{ResponseEmbed{embed}}
}

func PingMessage(gateway time.Duration, api time.Duration, apiErr error) []Response {

	content := fmt.Sprintf("Pong! Discord heartbeat: `%dms`", gateway.Milliseconds())
	if apiErr != nil {
		content += "\nPUBG API: `unreachable`"
	} else {
		content += fmt.Sprintf("\nPUBG API: `%dms`", api.Milliseconds())
	}
	return []Response{ResponseString{content}}
}
