// Package action builds and publishes outbound user intents.
//
// Every intent travels to one fixed destination as an envelope of
// {idString, category, data}; routing on the remote side happens by
// category and idString, not by destination. Data values are strings
// regardless of their real type -- that is the server's Action contract.
package action

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ad044/orps-client/internal/orps/event"
	"github.com/ad044/orps-client/internal/transport"
)

// Outbound action ids, by category.
const (
	// General
	CreateLobby = "CREATE_LOBBY"
	ChangeName  = "CHANGE_NAME"

	// Lobby
	UserJoin       = "USER_JOIN"
	UserLeave      = "USER_LEAVE"
	StartGame      = "START_GAME"
	AddBot         = "ADD_BOT"
	UpdateSettings = "UPDATE_SETTINGS"
	NewTextMessage = "NEW_TEXT_MESSAGE"

	// Game
	SubmitMove = "SUBMIT_MOVE"
)

// ErrNoSession is returned when an intent is raised with no live
// transport session. The action is not queued; the user re-triggers it.
var ErrNoSession = errors.New("no active transport session")

// Envelope is the outbound wire shape.
type Envelope struct {
	IDString string            `json:"idString"`
	Category event.Category    `json:"category"`
	Data     map[string]string `json:"data"`
}

// Encode builds the outbound message body for an intent. For LOBBY and
// GAME categories the scope uri is merged into data under the matching
// scope key and must be non-empty; GENERAL actions carry no scope. The
// action id is not validated -- the server is authoritative for rejecting
// unknown actions.
func Encode(category event.Category, idString, scopeURI string, data map[string]string) ([]byte, error) {
	merged := make(map[string]string, len(data)+1)
	for k, v := range data {
		merged[k] = v
	}

	switch category {
	case event.CategoryGeneral:
	case event.CategoryLobby:
		if scopeURI == "" {
			return nil, fmt.Errorf("encode %s: lobby action requires a lobby uri", idString)
		}
		merged["lobbyUri"] = scopeURI
	case event.CategoryGame:
		if scopeURI == "" {
			return nil, fmt.Errorf("encode %s: game action requires a game uri", idString)
		}
		merged["gameUri"] = scopeURI
	default:
		return nil, fmt.Errorf("encode %s: unknown category %q", idString, category)
	}

	body, err := json.Marshal(Envelope{IDString: idString, Category: category, Data: merged})
	if err != nil {
		return nil, fmt.Errorf("marshal action %s: %w", idString, err)
	}
	return body, nil
}

// Sender publishes encoded actions over a transport to the fixed action
// destination.
type Sender struct {
	tr          transport.Transport
	destination string
}

// NewSender creates a sender bound to a transport and destination.
func NewSender(tr transport.Transport, destination string) *Sender {
	return &Sender{tr: tr, destination: destination}
}

func (s *Sender) send(category event.Category, idString, scopeURI string, data map[string]string) error {
	if s == nil || s.tr == nil {
		return ErrNoSession
	}

	body, err := Encode(category, idString, scopeURI, data)
	if err != nil {
		return err
	}
	if err := s.tr.Publish(s.destination, body); err != nil {
		return fmt.Errorf("publish action %s: %w", idString, err)
	}
	return nil
}

// General publishes an unscoped action.
func (s *Sender) General(idString string, data map[string]string) error {
	return s.send(event.CategoryGeneral, idString, "", data)
}

// Lobby publishes an action addressed to a lobby.
func (s *Sender) Lobby(idString, lobbyURI string, data map[string]string) error {
	return s.send(event.CategoryLobby, idString, lobbyURI, data)
}

// Game publishes an action addressed to a game.
func (s *Sender) Game(idString, gameURI string, data map[string]string) error {
	return s.send(event.CategoryGame, idString, gameURI, data)
}
