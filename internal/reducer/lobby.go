// Package reducer holds the pure state machines that fold validated
// events into new state snapshots. Reducers never mutate their input:
// collections are rebuilt with the targeted element replaced, removed or
// appended, and the previous snapshot stays valid. Unrecognized event ids
// return the input unchanged, so future protocol additions degrade to
// no-ops instead of failures.
package reducer

import (
	"strconv"

	"github.com/ad044/orps-client/internal/orps"
	"github.com/ad044/orps-client/internal/orps/event"
)

// LobbyState is the synchronized view of a lobby.
type LobbyState struct {
	Users    []orps.User
	Settings orps.LobbySettings
}

// Lobby folds one lobby event into the next lobby state.
func Lobby(state LobbyState, ev event.LobbyEvent) LobbyState {
	switch ev.ID {
	case event.MemberJoin:
		member, ok := orps.AsUser(ev.Data["memberData"])
		if !ok {
			return state
		}

		users := make([]orps.User, 0, len(state.Users)+1)
		users = append(users, state.Users...)
		users = append(users, member)
		state.Users = users
		return state

	case event.MemberLeave:
		memberUUID, ok := ev.Data.String("memberUuid")
		if !ok {
			return state
		}

		users := make([]orps.User, 0, len(state.Users))
		for _, user := range state.Users {
			if user.UUID != memberUUID {
				users = append(users, user)
			}
		}
		state.Users = users
		return state

	case event.ReceiveLobbyData:
		// Full resync from the server; overrides any local drift.
		lobby, ok := orps.AsLobby(ev.Data["lobbyData"])
		if !ok {
			return state
		}
		return LobbyState{Users: lobby.Users, Settings: lobby.Settings}

	case event.SettingsUpdated:
		return applySettingUpdate(state, ev.Data)

	default:
		return state
	}
}

// applySettingUpdate coerces a string-valued setting by name. Values
// travel as strings regardless of their real type; a malformed numeric
// string rejects the update and keeps the prior value.
func applySettingUpdate(state LobbyState, data event.Data) LobbyState {
	name, ok := data.String("settingName")
	if !ok {
		return state
	}
	value, ok := data.String("settingValue")
	if !ok {
		return state
	}

	switch name {
	case "inviteOnly":
		state.Settings.InviteOnly = value == "true"
	case "scoreGoal":
		n, err := strconv.Atoi(value)
		if err != nil {
			return state
		}
		state.Settings.ScoreGoal = n
	case "timeForMove":
		n, err := strconv.Atoi(value)
		if err != nil {
			return state
		}
		state.Settings.TimeForMove = n
	}
	return state
}
