package orps

import "strings"

// Move is a player's move as it travels on the wire.
type Move string

const (
	MoveNone     Move = "NO_MOVE"
	MoveRock     Move = "ROCK"
	MovePaper    Move = "PAPER"
	MoveScissors Move = "SCISSORS"
	// MoveUnknown means the player has committed a move but its value
	// is hidden from this client until the round resolves.
	MoveUnknown Move = "UNKNOWN"
)

// botUUIDPrefix is the server's naming convention for bot identities.
// Bots carry no explicit flag on the wire.
const botUUIDPrefix = "Bot-"

// IsBotUUID reports whether a uuid belongs to a server-controlled bot.
func IsBotUUID(uuid string) bool {
	return strings.HasPrefix(uuid, botUUIDPrefix)
}

// User identifies a connected client. UUID is stable for the lifetime of
// the session; Username is display-only and may change.
type User struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

// Player is a user seated in a game.
type Player struct {
	User
	Score int  `json:"score"`
	Move  Move `json:"move"`
}

// IsBot reports whether the player is a server-controlled bot.
func (p Player) IsBot() bool {
	return IsBotUUID(p.UUID)
}

// GameSettings are the rules a game is played under.
type GameSettings struct {
	TimeForMove int `json:"timeForMove"`
	ScoreGoal   int `json:"scoreGoal"`
}

// LobbySettings extends GameSettings with lobby-only options.
type LobbySettings struct {
	GameSettings
	InviteOnly bool `json:"inviteOnly"`
}

// Lobby is a snapshot of a lobby as pushed by the server. Users are kept
// in join order.
type Lobby struct {
	URI      string        `json:"uri"`
	Users    []User        `json:"users"`
	Settings LobbySettings `json:"settings"`
}

// Game is a snapshot of a running game. Players keeps the seat order the
// game started with; only Score and Move change across events.
type Game struct {
	URI            string       `json:"uri"`
	ParentLobbyURI string       `json:"parentLobbyUri,omitempty"`
	Players        []Player     `json:"players"`
	Settings       GameSettings `json:"settings"`
}
