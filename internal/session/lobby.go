package session

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ad044/orps-client/internal/orps"
	"github.com/ad044/orps-client/internal/orps/action"
	"github.com/ad044/orps-client/internal/orps/event"
	"github.com/ad044/orps-client/internal/reducer"
	"github.com/ad044/orps-client/internal/transport"
)

// ChatMessage is one entry of the lobby chat log.
type ChatMessage struct {
	Author  orps.User
	Content string
}

// Lobby owns the lobby screen: it folds lobby events into its state,
// accumulates chat, and hands off to a game session when the server
// starts a game.
type Lobby struct {
	uri           string
	sender        *action.Sender
	onGameCreated func(orps.Game)

	mu     sync.Mutex
	state  reducer.LobbyState
	chat   []ChatMessage
	closed bool

	unsubs []transport.Unsubscribe
}

// NewLobby subscribes to the lobby and error reply topics, seeded with
// the snapshot that put the client into this lobby. onGameCreated fires
// with the validated game snapshot when the server announces
// CREATED_GAME for this lobby.
func NewLobby(tr transport.Transport, topics Topics, lobby orps.Lobby, onGameCreated func(orps.Game)) (*Lobby, error) {
	l := &Lobby{
		uri:           lobby.URI,
		sender:        action.NewSender(tr, topics.Actions),
		onGameCreated: onGameCreated,
		state:         reducer.LobbyState{Users: lobby.Users, Settings: lobby.Settings},
	}

	unsub, err := tr.Subscribe(topics.Lobby, l.handleLobbyReply)
	if err != nil {
		return nil, fmt.Errorf("subscribe lobby replies: %w", err)
	}
	l.unsubs = append(l.unsubs, unsub)

	errUnsub, err := tr.Subscribe(topics.Error, logErrorReply)
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("subscribe error replies: %w", err)
	}
	l.unsubs = append(l.unsubs, errUnsub)

	return l, nil
}

func (l *Lobby) handleLobbyReply(body []byte) {
	ev, ok := event.DecodeLobby(body)
	if !ok {
		log.Debug().Msg("dropping malformed lobby event")
		return
	}

	// Ignore events addressed to a lobby this client is not in; the
	// server may still be flushing messages for one it just left.
	if ev.LobbyURI != l.uri {
		return
	}

	switch ev.ID {
	case event.CreatedGame:
		game, ok := orps.AsGame(ev.Data["gameData"])
		if !ok {
			log.Debug().Str("lobby", l.uri).Msg("dropping CREATED_GAME with invalid game data")
			return
		}
		if l.onGameCreated != nil {
			l.onGameCreated(game)
		}

	case event.NewTextMessage:
		author, ok := orps.AsUser(ev.Data["messageAuthor"])
		if !ok {
			return
		}
		content, ok := ev.Data.String("messageContent")
		if !ok {
			return
		}

		l.mu.Lock()
		if !l.closed {
			l.chat = append(l.chat, ChatMessage{Author: author, Content: content})
		}
		l.mu.Unlock()

	default:
		l.mu.Lock()
		if !l.closed {
			l.state = reducer.Lobby(l.state, ev)
		}
		l.mu.Unlock()
	}
}

// URI returns the identifier of the lobby this session is bound to.
func (l *Lobby) URI() string {
	return l.uri
}

// State returns the current lobby snapshot.
func (l *Lobby) State() reducer.LobbyState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Chat returns a copy of the chat log.
func (l *Lobby) Chat() []ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ChatMessage(nil), l.chat...)
}

// StartGame asks the server to start a game with the current members.
func (l *Lobby) StartGame() error {
	return l.sender.Lobby(action.StartGame, l.uri, nil)
}

// AddBot asks the server to seat a bot in the lobby.
func (l *Lobby) AddBot() error {
	return l.sender.Lobby(action.AddBot, l.uri, nil)
}

// SendChat publishes a chat message to the lobby.
func (l *Lobby) SendChat(content string) error {
	return l.sender.Lobby(action.NewTextMessage, l.uri, map[string]string{"messageContent": content})
}

// UpdateSettings proposes a setting change. The value travels as a
// string whatever its real type; the server validates and echoes the
// accepted value back as SETTINGS_UPDATED.
func (l *Lobby) UpdateSettings(name, value string) error {
	return l.sender.Lobby(action.UpdateSettings, l.uri, map[string]string{
		"settingName":  name,
		"settingValue": value,
	})
}

// Leave announces the departure and tears the session down.
func (l *Lobby) Leave() error {
	err := l.sender.Lobby(action.UserLeave, l.uri, nil)
	l.Close()
	return err
}

// Close detaches the screen from its subscriptions. It is idempotent;
// no event is applied after it returns.
func (l *Lobby) Close() {
	l.mu.Lock()
	unsubs := l.unsubs
	l.unsubs = nil
	l.closed = true
	l.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// logErrorReply surfaces error-topic payloads as diagnostics. Bodies are
// arbitrary JSON and are never parsed into event shapes.
func logErrorReply(body []byte) {
	log.Warn().Str("body", string(body)).Msg("server rejected action")
}
