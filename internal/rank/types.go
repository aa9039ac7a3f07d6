package rank

import "fmt"

// Every tier role created on a server carries this prefix
const RolePrefix = "PUBG-"

// Display color of the tier roles (PUBG yellow)
const Color int = 0xF2A900

type GameMode string

const (
	Solo     GameMode = "solo"
	SoloFpp  GameMode = "solo-fpp"
	Duo      GameMode = "duo"
	DuoFpp   GameMode = "duo-fpp"
	Squad    GameMode = "squad"
	SquadFpp GameMode = "squad-fpp"
)

// All the game modes a season snapshot can hold, in the order they are displayed
var GameModes = []GameMode{Solo, SoloFpp, Duo, DuoFpp, Squad, SquadFpp}

type Tier struct {
	Ordinal int
	Name    string
	Color   int
}

// Name of the server role that represents this tier
func (tier Tier) RoleName() string {
	return RolePrefix + tier.Name
}

func (tier Tier) String() string {
	return fmt.Sprintf("%s (%d)", tier.Name, tier.Ordinal)
}

type ModeStats struct {
	RankPoints   float64
	RoundsPlayed int
	Wins         int
	Top10s       int
	Kills        int
}

// The ranking statistics of one player for one season.
// A mode is only present in the map if the player has played it
type Snapshot struct {
	AccountId string
	SeasonId  string
	Modes     map[GameMode]ModeStats
}

func (snapshot Snapshot) Populated() int {
	return len(snapshot.Modes)
}
