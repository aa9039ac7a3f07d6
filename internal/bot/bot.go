package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"pubgbot/internal/config"
	"pubgbot/internal/pubgapi"
	"pubgbot/internal/rank"
	"pubgbot/internal/rolesync"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errUsernameRequired = errors.New("no username given and none registered")

// What the bot needs from the stats API
type StatsApi interface {
	GetPlayer(ctx context.Context, platform pubgapi.Platform, name string) (pubgapi.Player, error)
	CurrentSeason(ctx context.Context, platform pubgapi.Platform) (pubgapi.SeasonId, error)
	GetSeasonStats(ctx context.Context, platform pubgapi.Platform, accountId pubgapi.AccountId, seasonId pubgapi.SeasonId) (rank.Snapshot, error)
	Status(ctx context.Context) (time.Duration, error)
}

type Bot struct {
	token    string
	prefix   string
	platform pubgapi.Platform
	timeout  time.Duration
	database DatabaseBot
	pubgapi  StatsApi
	syncer   *rolesync.Syncer
	session  *discordgo.Session
	started  time.Time
}

func NewBot(cfg *config.Config, db *sql.DB, pubgapi StatsApi, syncer *rolesync.Syncer) (*Bot, error) {

	platform, err := parseDefaultPlatform(cfg.DefaultPlatform)
	if err != nil {
		return nil, err
	}

	return &Bot{
		token:    cfg.DiscordToken,
		prefix:   cfg.CommandPrefix,
		platform: platform,
		timeout:  cfg.RequestTimeout,
		database: NewDatabaseBot(db),
		pubgapi:  pubgapi,
		syncer:   syncer,
		started:  time.Now(),
	}, nil
}

func parseDefaultPlatform(input string) (pubgapi.Platform, error) {
	platform, err := pubgapi.ParsePlatform(input)
	if err != nil {
		return "", fmt.Errorf("invalid DEFAULT_PLATFORM: %w", err)
	}
	return platform, nil
}

// Open the discord session and start receiving messages
func (bot *Bot) Start() error {

	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	// Event handler
	discord.AddHandler(bot.Receive)

	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	bot.session = discord
	log.Info().Str("prefix", bot.prefix).Msg("Bot is listening")
	return nil
}

func (bot *Bot) Stop() error {
	if bot.session == nil {
		return nil
	}
	log.Info().Msg("Closing discord session")
	return bot.session.Close()
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages and those of other bots
	if message.Author == nil || message.Author.Bot || message.Author.ID == discord.State.User.ID {
		return
	}

	parseResult := Parse(bot.prefix, message.Content)
	if parseResult.parseid == PARSEID_NO_BOT_PREFIX {
		return
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		log.Debug().Str("user", message.Author.ID).Msg("Ignoring private message")
		bot.sendResponses(discord, message.ChannelID, PrivateMessageIgnored())
		return
	}

	// Every invocation gets its own id and deadline
	ctx, cancel := context.WithTimeout(context.Background(), bot.timeout)
	defer cancel()
	logger := log.With().
		Str("invocation", uuid.New().String()).
		Str("guild", message.GuildID).
		Str("user", message.Author.ID).
		Logger()
	ctx = logger.WithContext(ctx)

	start := time.Now()
	responses := bot.dispatch(ctx, discord, message, parseResult)
	bot.sendResponses(discord, message.ChannelID, responses)
	logger.Info().Dur("duration", time.Since(start)).Msg("Command completed")
}

func (bot *Bot) dispatch(ctx context.Context, discord *discordgo.Session, message *discordgo.MessageCreate, parseResult ParseResult) []Response {

	logger := zerolog.Ctx(ctx)
	if parseResult.parseid != PARSEID_OK {
		// The command is invalid input, so it contains an error message
		logger.Info().Str("content", message.Content).Str("reason", parseResult.errorMessage).Msg("Wrong input")
		return InputNotValid(parseResult.errorMessage)
	}

	logger.Info().Str("command", commandName(parseResult.command)).Msg("Command understood")
	switch parseResult.command {
	case COMMAND_ROLE:
		arguments, ok := parseResult.arguments.(PlayerArguments)
		if !ok {
			panic(fmt.Sprintf("unexpected type of arguments %T", parseResult.arguments))
		}
		if !bot.canManageRoles(discord, message.GuildID) {
			logger.Warn().Msg("Missing Manage Roles permission")
			return MissingManageRoles()
		}
		return bot.role(ctx, discord, message.GuildID, message.Author, arguments)
	case COMMAND_REGISTER:
		arguments, ok := parseResult.arguments.(PlayerArguments)
		if !ok {
			panic(fmt.Sprintf("unexpected type of arguments %T", parseResult.arguments))
		}
		return bot.register(ctx, message.Author.ID, arguments)
	case COMMAND_UNREGISTER:
		return bot.unregister(ctx, message.Author.ID)
	case COMMAND_INFO:
		return bot.info(discord)
	case COMMAND_PING:
		return bot.ping(ctx, discord)
	case COMMAND_HELP:
		return HelpMessage(bot.prefix)
	default:
		panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
	}
}

func (bot *Bot) sendResponses(discord *discordgo.Session, channelId string, responses []Response) {
	for _, response := range responses {
		response.Send(channelId, discord)
	}
}

// Manage Roles is a guild permission, channel overwrites do not apply to it
func (bot *Bot) canManageRoles(discord *discordgo.Session, guildId string) bool {
	guild, err := discord.State.Guild(guildId)
	if err != nil {
		log.Warn().Err(err).Str("guild", guildId).Msg("Could not compute permissions, trying anyway")
		return true
	}
	member, err := discord.State.Member(guildId, discord.State.User.ID)
	if err != nil {
		log.Warn().Err(err).Str("guild", guildId).Msg("Could not compute permissions, trying anyway")
		return true
	}
	discord.State.RLock()
	defer discord.State.RUnlock()
	return guildPermissions(guild, member)&discordgo.PermissionManageRoles != 0
}

// Permissions granted to a member by its roles in the guild
func guildPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	if member.User != nil && member.User.ID == guild.OwnerID {
		return discordgo.PermissionAll
	}
	var permissions int64
	for _, role := range guild.Roles {
		// The everyone role has the id of the guild
		if role.ID == guild.ID || slices.Contains(member.Roles, role.ID) {
			permissions |= role.Permissions
		}
	}
	if permissions&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return permissions
}

// Fill the missing arguments from the registration of the user and the defaults
func (bot *Bot) resolve(ctx context.Context, discordId string, arguments PlayerArguments) (PlayerArguments, error) {

	if arguments.Username == "" || arguments.Platform == "" {
		registration, found, err := bot.database.Registration(ctx, discordId)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Could not read registration")
		}
		if found && arguments.Username == "" {
			arguments.Username = registration.PubgName
			if arguments.Platform == "" {
				arguments.Platform = registration.Platform
			}
		}
	}
	if arguments.Username == "" {
		return arguments, errUsernameRequired
	}
	if arguments.Platform == "" {
		arguments.Platform = bot.platform
	}
	return arguments, nil
}

func (bot *Bot) role(ctx context.Context, discord roleSession, guildId string, user *discordgo.User, arguments PlayerArguments) []Response {

	logger := zerolog.Ctx(ctx)

	arguments, err := bot.resolve(ctx, user.ID, arguments)
	if err != nil {
		return UsernameRequired(bot.prefix)
	}

	// Season
	if arguments.Season == "" {
		season, err := bot.pubgapi.CurrentSeason(ctx, arguments.Platform)
		if err != nil {
			logger.Error().Err(err).Str("platform", string(arguments.Platform)).Msg("Could not find current season")
			if errors.Is(err, pubgapi.ErrNotFound) {
				return SeasonNotFound(arguments.Platform)
			}
			return StatsUnavailable()
		}
		arguments.Season = season
	}

	// Player and season stats
	player, err := bot.pubgapi.GetPlayer(ctx, arguments.Platform, arguments.Username)
	if err != nil {
		return bot.lookupFailed(ctx, err, arguments)
	}
	snapshot, err := bot.pubgapi.GetSeasonStats(ctx, arguments.Platform, player.Id, arguments.Season)
	if err != nil {
		return bot.lookupFailed(ctx, err, arguments)
	}

	directory := guildDirectory{discord: discord, guildId: guildId}
	member := guildMember{discord: discord, guildId: guildId, userId: user.ID}
	result, err := bot.syncer.Sync(ctx, directory, member, snapshot)
	if err != nil {
		logger.Error().Err(err).Stringer("outcome", result.Outcome).Msg("Role sync failed")
	}
	return SyncMessage(result, err, arguments.Username, user.Username)
}

func (bot *Bot) lookupFailed(ctx context.Context, err error, arguments PlayerArguments) []Response {
	zerolog.Ctx(ctx).Warn().Err(err).Str("player", arguments.Username).Str("season", string(arguments.Season)).Msg("Stats lookup failed")
	if errors.Is(err, pubgapi.ErrNotFound) {
		return PlayerNotFound(arguments.Username, arguments.Platform, arguments.Season)
	}
	return StatsUnavailable()
}

func (bot *Bot) register(ctx context.Context, discordId string, arguments PlayerArguments) []Response {

	if arguments.Platform == "" {
		arguments.Platform = bot.platform
	}

	// Only accept players that exist
	if _, err := bot.pubgapi.GetPlayer(ctx, arguments.Platform, arguments.Username); err != nil {
		return bot.lookupFailed(ctx, err, arguments)
	}

	registration := Registration{DiscordId: discordId, PubgName: arguments.Username, Platform: arguments.Platform}
	if err := bot.database.Register(ctx, registration); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Could not register player")
		return RegistrationFailed()
	}
	zerolog.Ctx(ctx).Info().Str("player", arguments.Username).Str("platform", string(arguments.Platform)).Msg("Player registered")
	return PlayerRegistered(arguments.Username, arguments.Platform)
}

func (bot *Bot) unregister(ctx context.Context, discordId string) []Response {

	registration, found, err := bot.database.Registration(ctx, discordId)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Could not read registration")
		return RegistrationFailed()
	}
	if !found {
		return NotRegistered()
	}
	if _, err := bot.database.Unregister(ctx, discordId); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Could not unregister player")
		return RegistrationFailed()
	}
	return PlayerUnregistered(registration.PubgName)
}

func (bot *Bot) info(discord *discordgo.Session) []Response {

	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	info := BotInfo{Memory: memory.HeapAlloc, Uptime: time.Since(bot.started), Version: runtime.Version()}
	discord.State.RLock()
	info.addGuilds(discord.State.Guilds)
	discord.State.RUnlock()

	return InfoMessage(info)
}

func (bot *Bot) ping(ctx context.Context, discord *discordgo.Session) []Response {
	latency, err := bot.pubgapi.Status(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Stats API status check failed")
	}
	return PingMessage(discord.HeartbeatLatency(), latency, err)
}
