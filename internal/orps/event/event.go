package event

import (
	"encoding/json"

	"github.com/ad044/orps-client/internal/orps"
)

// Category partitions the protocol into addressing domains. It appears on
// outbound action envelopes and selects which scope key, if any, an event
// carries.
type Category string

const (
	CategoryGeneral Category = "GENERAL"
	CategoryLobby   Category = "LOBBY"
	CategoryGame    Category = "GAME"
)

// Inbound event ids, by category.
const (
	// General
	CreatedLobby    = "CREATED_LOBBY"
	UserChangedName = "USER_CHANGED_NAME"

	// Lobby
	MemberJoin       = "MEMBER_JOIN"
	MemberLeave      = "MEMBER_LEAVE"
	ReceiveLobbyData = "RECEIVE_LOBBY_DATA"
	SettingsUpdated  = "SETTINGS_UPDATED"
	CreatedGame      = "CREATED_GAME"
	NewTextMessage   = "NEW_TEXT_MESSAGE"

	// Game
	PlayerMadeMove     = "PLAYER_MADE_MOVE"
	DisplayAuthorMove  = "DISPLAY_AUTHOR_MOVE"
	ReceiveRoundResult = "RECEIVE_ROUND_RESULT"
	StartNextRound     = "START_NEXT_ROUND"
	CountdownUpdate    = "COUNTDOWN_UPDATE"
	PlayerWonGame      = "PLAYER_WON_GAME"
	PlayerLeave        = "PLAYER_LEAVE"
)

// Data is the loosely typed payload of an inbound event. Values are
// whatever encoding/json produced; accessors narrow them on demand.
type Data map[string]any

// String returns the string value under key, if present and a string.
func (d Data) String(key string) (string, bool) {
	return orps.AsString(d[key])
}

// Int returns the integer value under key, if present and a number.
func (d Data) Int(key string) (int, bool) {
	return orps.AsInt(d[key])
}

// Event is the envelope every inbound message decodes into. ID
// discriminates the payload shape carried in Data.
type Event struct {
	ID   string
	Data Data
}

// LobbyEvent is an event addressed to a single lobby.
type LobbyEvent struct {
	Event
	LobbyURI string
}

// GameEvent is an event addressed to a single game.
type GameEvent struct {
	Event
	GameURI string
}

// envelope is the raw wire shape shared by all inbound events. Scope keys
// sit beside id and data, not inside data.
type envelope struct {
	ID       *string `json:"id"`
	Data     Data    `json:"data"`
	LobbyURI *string `json:"lobbyUri"`
	GameURI  *string `json:"gameUri"`
}

func decode(body []byte) (envelope, bool) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, false
	}
	if env.ID == nil || env.Data == nil {
		return envelope{}, false
	}
	return env, true
}

// Decode parses an inbound message body into a generic event. It verifies
// only the envelope: id must be a string and data an object.
func Decode(body []byte) (Event, bool) {
	env, ok := decode(body)
	if !ok {
		return Event{}, false
	}
	return Event{ID: *env.ID, Data: env.Data}, true
}

// DecodeLobby parses an inbound message body into a lobby-scoped event.
// On top of the generic envelope it requires the lobbyUri scope key.
func DecodeLobby(body []byte) (LobbyEvent, bool) {
	env, ok := decode(body)
	if !ok || env.LobbyURI == nil {
		return LobbyEvent{}, false
	}
	return LobbyEvent{
		Event:    Event{ID: *env.ID, Data: env.Data},
		LobbyURI: *env.LobbyURI,
	}, true
}

// DecodeGame parses an inbound message body into a game-scoped event. On
// top of the generic envelope it requires the gameUri scope key.
func DecodeGame(body []byte) (GameEvent, bool) {
	env, ok := decode(body)
	if !ok || env.GameURI == nil {
		return GameEvent{}, false
	}
	return GameEvent{
		Event:   Event{ID: *env.ID, Data: env.Data},
		GameURI: *env.GameURI,
	}, true
}
