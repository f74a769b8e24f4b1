// Package session wires transport topics to the validation, reduction
// and side-effect pipeline for each screen of the client. A session owns
// its subscriptions and any local timer; Close releases both, after
// which no event is applied.
package session

// Topics names the inbound reply topics and the single outbound action
// destination.
type Topics struct {
	General string
	Lobby   string
	Game    string
	Error   string
	Actions string
}

// DefaultTopics returns the topic layout the server publishes on.
func DefaultTopics() Topics {
	return Topics{
		General: "orps.reply.general",
		Lobby:   "orps.reply.lobby",
		Game:    "orps.reply.game",
		Error:   "orps.reply.error",
		Actions: "orps.user-action",
	}
}
