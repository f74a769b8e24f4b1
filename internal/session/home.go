package session

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ad044/orps-client/internal/orps"
	"github.com/ad044/orps-client/internal/orps/action"
	"github.com/ad044/orps-client/internal/orps/event"
	"github.com/ad044/orps-client/internal/transport"
)

// Home is the entry screen: it can create or join a lobby and rename
// the local user, and reacts to the server confirming either entry.
type Home struct {
	tr             transport.Transport
	topics         Topics
	sender         *action.Sender
	onLobbyEntered func(orps.Lobby)

	mu     sync.Mutex
	unsubs []transport.Unsubscribe
	closed bool
}

// NewHome subscribes to the general reply topic. onLobbyEntered fires
// with the validated lobby snapshot when the server confirms
// CREATE_LOBBY or a USER_JOIN resync.
func NewHome(tr transport.Transport, topics Topics, onLobbyEntered func(orps.Lobby)) (*Home, error) {
	h := &Home{
		tr:             tr,
		topics:         topics,
		sender:         action.NewSender(tr, topics.Actions),
		onLobbyEntered: onLobbyEntered,
	}

	unsub, err := tr.Subscribe(topics.General, h.handleGeneralReply)
	if err != nil {
		return nil, fmt.Errorf("subscribe general replies: %w", err)
	}
	h.unsubs = append(h.unsubs, unsub)

	return h, nil
}

func (h *Home) handleGeneralReply(body []byte) {
	ev, ok := event.Decode(body)
	if !ok {
		log.Debug().Msg("dropping malformed general event")
		return
	}

	switch ev.ID {
	case event.CreatedLobby:
		lobby, ok := orps.AsLobby(ev.Data["lobbyData"])
		if !ok {
			log.Debug().Msg("dropping CREATED_LOBBY with invalid lobby data")
			return
		}
		h.enterLobby(lobby)
	case event.UserChangedName:
		userUUID, okUUID := ev.Data.String("userUuid")
		newName, okName := ev.Data.String("newName")
		if !okUUID || !okName {
			log.Debug().Msg("dropping USER_CHANGED_NAME with invalid data")
			return
		}
		log.Info().Str("user", userUUID).Str("name", newName).Msg("user renamed")
	}
}

func (h *Home) enterLobby(lobby orps.Lobby) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return
	}
	if h.onLobbyEntered != nil {
		h.onLobbyEntered(lobby)
	}
}

// CreateLobby asks the server for a fresh lobby.
func (h *Home) CreateLobby() error {
	return h.sender.General(action.CreateLobby, nil)
}

// JoinLobby asks to join an existing lobby. The server answers the
// joiner with a RECEIVE_LOBBY_DATA resync on the lobby topic, which
// triggers the same transition as CREATED_LOBBY.
func (h *Home) JoinLobby(lobbyURI string) error {
	var once sync.Once
	unsub, err := h.tr.Subscribe(h.topics.Lobby, func(body []byte) {
		ev, ok := event.DecodeLobby(body)
		if !ok || ev.ID != event.ReceiveLobbyData || ev.LobbyURI != lobbyURI {
			return
		}
		lobby, ok := orps.AsLobby(ev.Data["lobbyData"])
		if !ok {
			log.Debug().Str("lobby", lobbyURI).Msg("dropping RECEIVE_LOBBY_DATA with invalid lobby data")
			return
		}
		once.Do(func() { h.enterLobby(lobby) })
	})
	if err != nil {
		return fmt.Errorf("subscribe lobby replies: %w", err)
	}

	h.mu.Lock()
	h.unsubs = append(h.unsubs, unsub)
	h.mu.Unlock()

	return h.sender.Lobby(action.UserJoin, lobbyURI, nil)
}

// ChangeName asks the server to rename the local user. The server is
// authoritative for name rules and replies on the error topic when the
// name is rejected.
func (h *Home) ChangeName(newName string) error {
	return h.sender.General(action.ChangeName, map[string]string{"newName": newName})
}

// Close detaches the screen from its subscriptions. It is idempotent.
func (h *Home) Close() {
	h.mu.Lock()
	unsubs := h.unsubs
	h.unsubs = nil
	h.closed = true
	h.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}
