package reducer

import (
	"github.com/ad044/orps-client/internal/orps"
	"github.com/ad044/orps-client/internal/orps/event"
)

// GameState is the synchronized view of a running game. SelfUUID marks
// the local player so DISPLAY_AUTHOR_MOVE can tell own-move reveals from
// other players'. Players keeps the seat order fixed at game start.
//
// Phases: StartCountdown > 0 is the pre-round countdown; StartCountdown
// == 0 with no GameWinner is the picking phase; a non-nil GameWinner is
// terminal and no event transitions out of it.
type GameState struct {
	SelfUUID           string
	Players            []orps.Player
	RoundNumber        int
	RoundWinner        *orps.Player
	DisplayRoundWinner bool
	StartCountdown     int
	SelectedMove       orps.Move
	GameWinner         *orps.Player
}

// NewGameState seeds the state for a freshly created game.
func NewGameState(game orps.Game, selfUUID string) GameState {
	return GameState{
		SelfUUID:       selfUUID,
		Players:        game.Players,
		RoundNumber:    1,
		StartCountdown: 5,
		SelectedMove:   orps.MoveNone,
	}
}

// Game folds one game event into the next game state.
func Game(state GameState, ev event.GameEvent) GameState {
	// Finished is terminal.
	if state.GameWinner != nil {
		return state
	}

	switch ev.ID {
	case event.PlayerMadeMove:
		// Reveals that a move was committed, not which one.
		playerUUID, ok := ev.Data.String("playerUuid")
		if !ok {
			return state
		}
		state.Players = withMove(state.Players, playerUUID, orps.MoveUnknown)
		return state

	case event.DisplayAuthorMove:
		authorUUID, ok := ev.Data.String("authorUuid")
		if !ok {
			return state
		}
		move, ok := ev.Data.String("move")
		if !ok {
			return state
		}

		state.Players = withMove(state.Players, authorUUID, orps.Move(move))
		if authorUUID == state.SelfUUID {
			state.SelectedMove = orps.Move(move)
		}
		return state

	case event.ReceiveRoundResult:
		players, ok := orps.AsPlayers(ev.Data["playerData"])
		if !ok {
			return state
		}

		// winner is null on a draw, but the key is always sent.
		raw, present := ev.Data["winner"]
		if !present {
			return state
		}
		var winner *orps.Player
		if raw != nil {
			w, ok := orps.AsPlayer(raw)
			if !ok {
				return state
			}
			winner = &w
		}

		state.Players = players
		state.RoundWinner = winner
		state.DisplayRoundWinner = true
		state.SelectedMove = ""
		return state

	case event.StartNextRound:
		roundNumber, ok := ev.Data.Int("roundNumber")
		if !ok {
			return state
		}
		if _, ok := ev.Data.Int("timeToPick"); !ok {
			return state
		}

		// Bots never count as "still deciding" from this client's
		// perspective, so their moves reset to UNKNOWN instead.
		players := make([]orps.Player, len(state.Players))
		for i, player := range state.Players {
			if player.IsBot() {
				player.Move = orps.MoveUnknown
			} else {
				player.Move = orps.MoveNone
			}
			players[i] = player
		}

		state.Players = players
		state.RoundNumber = roundNumber
		state.RoundWinner = nil
		state.DisplayRoundWinner = false
		state.StartCountdown = 0
		return state

	case event.CountdownUpdate:
		value, ok := ev.Data.Int("currentTimerValue")
		if !ok {
			return state
		}
		state.StartCountdown = value
		return state

	case event.PlayerWonGame:
		winner, ok := orps.AsPlayer(ev.Data["gameWinner"])
		if !ok {
			return state
		}
		state.GameWinner = &winner
		return state

	case event.PlayerLeave:
		playerUUID, ok := ev.Data.String("playerUuid")
		if !ok {
			return state
		}

		players := make([]orps.Player, 0, len(state.Players))
		for _, player := range state.Players {
			if player.UUID != playerUUID {
				players = append(players, player)
			}
		}
		state.Players = players
		return state

	default:
		return state
	}
}

// withMove rebuilds the roster with one player's move replaced.
func withMove(players []orps.Player, uuid string, move orps.Move) []orps.Player {
	next := make([]orps.Player, len(players))
	for i, player := range players {
		if player.UUID == uuid {
			player.Move = move
		}
		next[i] = player
	}
	return next
}
