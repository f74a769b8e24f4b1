package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/ad044/orps-client/internal/countdown"
	"github.com/ad044/orps-client/internal/orps"
	"github.com/ad044/orps-client/internal/orps/action"
	"github.com/ad044/orps-client/internal/orps/event"
	"github.com/ad044/orps-client/internal/reducer"
	"github.com/ad044/orps-client/internal/transport"
)

// ErrGameFinished is returned when a move is submitted after a game
// winner was announced.
var ErrGameFinished = errors.New("game already finished")

// ErrNotPicking is returned when a move is submitted during the
// pre-round countdown.
var ErrNotPicking = errors.New("round has not started")

// Game owns the game screen: it folds game events into its state and
// drives the local pick timer off the authoritative round events.
type Game struct {
	uri            string
	parentLobbyURI string
	sender         *action.Sender
	timer          *countdown.Countdown

	mu     sync.Mutex
	state  reducer.GameState
	closed bool

	unsubs []transport.Unsubscribe
}

// NewGame subscribes to the game and error reply topics, seeded with the
// snapshot from CREATED_GAME. selfUUID is the local player's identity;
// clock drives the pick timer.
func NewGame(tr transport.Transport, topics Topics, game orps.Game, selfUUID string, clock clockwork.Clock) (*Game, error) {
	g := &Game{
		uri:            game.URI,
		parentLobbyURI: game.ParentLobbyURI,
		sender:         action.NewSender(tr, topics.Actions),
		timer:          countdown.New(clock),
		state:          reducer.NewGameState(game, selfUUID),
	}

	unsub, err := tr.Subscribe(topics.Game, g.handleGameReply)
	if err != nil {
		return nil, fmt.Errorf("subscribe game replies: %w", err)
	}
	g.unsubs = append(g.unsubs, unsub)

	errUnsub, err := tr.Subscribe(topics.Error, logErrorReply)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("subscribe error replies: %w", err)
	}
	g.unsubs = append(g.unsubs, errUnsub)

	return g, nil
}

func (g *Game) handleGameReply(body []byte) {
	ev, ok := event.DecodeGame(body)
	if !ok {
		log.Debug().Msg("dropping malformed game event")
		return
	}

	if ev.GameURI != g.uri {
		return
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	prev := g.state
	next := reducer.Game(prev, ev)
	g.state = next
	g.mu.Unlock()

	// One-shot reactions layered on top of the pure transition. They
	// fire only when the transition itself was taken: an event the
	// reducer rejected, or one arriving after the game finished, must
	// not touch the pick timer.
	switch ev.ID {
	case event.StartNextRound:
		if prev.GameWinner != nil {
			return
		}
		timeToPick, ok := ev.Data.Int("timeToPick")
		if !ok {
			return
		}
		if _, ok := ev.Data.Int("roundNumber"); !ok {
			return
		}
		g.timer.Start(timeToPick)
	case event.PlayerWonGame:
		if next.GameWinner != nil {
			g.timer.Stop()
		}
	}
}

// URI returns the identifier of the game this session is bound to.
func (g *Game) URI() string {
	return g.uri
}

// ParentLobbyURI returns the lobby the game was started from, or ""
// when that lobby no longer exists.
func (g *Game) ParentLobbyURI() string {
	return g.parentLobbyURI
}

// State returns the current game snapshot.
func (g *Game) State() reducer.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// TimeLeft returns the locally predicted seconds left to pick a move.
func (g *Game) TimeLeft() int {
	return g.timer.Remaining()
}

// SubmitMove publishes the local player's move. Moves are refused
// locally once the game is finished or while the start countdown is
// still running; anything else the server judges.
func (g *Game) SubmitMove(move orps.Move) error {
	g.mu.Lock()
	finished := g.state.GameWinner != nil
	counting := g.state.StartCountdown > 0
	g.mu.Unlock()

	if finished {
		return ErrGameFinished
	}
	if counting {
		return ErrNotPicking
	}

	return g.sender.Game(action.SubmitMove, g.uri, map[string]string{"move": string(move)})
}

// Close stops the pick timer and detaches the screen from its
// subscriptions. It is idempotent; no event is applied and no tick fires
// after it returns.
func (g *Game) Close() {
	g.mu.Lock()
	unsubs := g.unsubs
	g.unsubs = nil
	g.closed = true
	g.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}

	g.timer.Stop()
}
