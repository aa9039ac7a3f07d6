package bot

import (
	"fmt"
	"strings"

	"pubgbot/internal/pubgapi"

	"github.com/rs/zerolog/log"
)

const (
	COMMAND_ROLE = iota
	COMMAND_REGISTER
	COMMAND_UNREGISTER
	COMMAND_INFO
	COMMAND_PING
	COMMAND_HELP
)

const (
	PARSEID_OK = iota
	PARSEID_NO_BOT_PREFIX
	PARSEID_NO_COMMAND
	PARSEID_COMMAND_NOT_RECOGNISED
	PARSEID_NO_INPUT
	PARSEID_UNKNOWN_OPTION
	PARSEID_INVALID_PLATFORM
	PARSEID_TOO_MANY_ARGUMENTS
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires a username",
	PARSEID_UNKNOWN_OPTION:         "Option `%s` not recognised",
	PARSEID_INVALID_PLATFORM:       "Platform `%s` is not supported",
	PARSEID_TOO_MANY_ARGUMENTS:     "Unexpected argument `%s`",
}

// Arguments shared by the commands that look up a player.
// Empty fields are filled from the registration or the defaults
type PlayerArguments struct {
	Username string
	Season   pubgapi.SeasonId
	Platform pubgapi.Platform
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
}

func Parse(prefix string, message string) ParseResult {

	// The message has to start with the bot prefix, as a word of its own
	message = strings.TrimSpace(message)
	if !strings.HasPrefix(message, prefix) {
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}
	rest := message[len(prefix):]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(rest)
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := strings.ToLower(words[0])
	words = words[1:]
	log.Debug().Str("command", commandString).Int("arguments", len(words)).Msg("Parsing command")

	// Match the command
	switch commandString {
	case "role":
		// pubg role [username] [season=<season>] [platform=<platform>]
		return parsePlayerArguments(COMMAND_ROLE, words, false)
	case "register":
		// pubg register <username> [platform=<platform>]
		return parsePlayerArguments(COMMAND_REGISTER, words, true)
	case "unregister":
		// pubg unregister
		return ParseResult{command: COMMAND_UNREGISTER, parseid: PARSEID_OK}
	case "info":
		// pubg info
		return ParseResult{command: COMMAND_INFO, parseid: PARSEID_OK}
	case "ping":
		// pubg ping
		return ParseResult{command: COMMAND_PING, parseid: PARSEID_OK}
	case "help":
		// pubg help
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
}

func parsePlayerArguments(command int, words []string, usernameRequired bool) ParseResult {

	failure := func(parseid int, input string) ParseResult {
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], input)}
	}

	var arguments PlayerArguments
	for _, word := range words {

		key, value, isOption := strings.Cut(word, "=")
		if !isOption {
			if arguments.Username != "" {
				return failure(PARSEID_TOO_MANY_ARGUMENTS, word)
			}
			arguments.Username = word
			continue
		}

		switch strings.ToLower(key) {
		case "season":
			// Seasons only make sense together with a lookup
			if command != COMMAND_ROLE {
				return failure(PARSEID_UNKNOWN_OPTION, key)
			}
			arguments.Season = pubgapi.SeasonId(value)
		case "platform", "region":
			platform, err := pubgapi.ParsePlatform(value)
			if err != nil {
				return failure(PARSEID_INVALID_PLATFORM, value)
			}
			arguments.Platform = platform
		default:
			return failure(PARSEID_UNKNOWN_OPTION, key)
		}
	}

	if usernameRequired && arguments.Username == "" {
		return failure(PARSEID_NO_INPUT, commandName(command))
	}
	return ParseResult{command: command, parseid: PARSEID_OK, arguments: arguments}
}

func commandName(command int) string {
	switch command {
	case COMMAND_ROLE:
		return "role"
	case COMMAND_REGISTER:
		return "register"
	case COMMAND_UNREGISTER:
		return "unregister"
	case COMMAND_INFO:
		return "info"
	case COMMAND_PING:
		return "ping"
	default:
		return "help"
	}
}
