package reducer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ad044/orps-client/internal/orps"
	"github.com/ad044/orps-client/internal/orps/event"
)

// lobbyEvent round-trips the payload through JSON so data values carry
// the same dynamic types inbound messages decode to.
func lobbyEvent(t *testing.T, id string, data map[string]any) event.LobbyEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	var decoded event.Data
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return event.LobbyEvent{Event: event.Event{ID: id, Data: decoded}, LobbyURI: "lobby-1"}
}

func initialLobbyState() LobbyState {
	return LobbyState{
		Users: []orps.User{{UUID: "a", Username: "alice"}},
		Settings: orps.LobbySettings{
			GameSettings: orps.GameSettings{TimeForMove: 5, ScoreGoal: 3},
			InviteOnly:   false,
		},
	}
}

func TestLobbyMemberJoinLeave(t *testing.T) {
	state := initialLobbyState()

	joined := Lobby(state, lobbyEvent(t, event.MemberJoin, map[string]any{
		"memberData": map[string]any{"uuid": "b", "username": "bob"},
	}))
	require.Equal(t, []orps.User{
		{UUID: "a", Username: "alice"},
		{UUID: "b", Username: "bob"},
	}, joined.Users)
	// The prior snapshot is untouched.
	require.Len(t, state.Users, 1)

	left := Lobby(joined, lobbyEvent(t, event.MemberLeave, map[string]any{"memberUuid": "b"}))
	require.Equal(t, state.Users, left.Users)

	// Removing a non-member is a no-op.
	same := Lobby(left, lobbyEvent(t, event.MemberLeave, map[string]any{"memberUuid": "ghost"}))
	require.Equal(t, left.Users, same.Users)
}

func TestLobbyMemberJoinRejectsInvalidMember(t *testing.T) {
	state := initialLobbyState()

	// memberData missing uuid never reaches the roster.
	next := Lobby(state, lobbyEvent(t, event.MemberJoin, map[string]any{
		"memberData": map[string]any{"username": "x"},
	}))
	require.Equal(t, state.Users, next.Users)

	next = Lobby(state, lobbyEvent(t, event.MemberJoin, map[string]any{}))
	require.Equal(t, state.Users, next.Users)
}

func TestLobbySettingsUpdated(t *testing.T) {
	cases := []struct {
		name  string
		data  map[string]any
		check func(t *testing.T, s LobbyState)
	}{
		{
			name: "inviteOnly true literal",
			data: map[string]any{"settingName": "inviteOnly", "settingValue": "true"},
			check: func(t *testing.T, s LobbyState) {
				require.True(t, s.Settings.InviteOnly)
			},
		},
		{
			name: "inviteOnly anything else is false",
			data: map[string]any{"settingName": "inviteOnly", "settingValue": "yes"},
			check: func(t *testing.T, s LobbyState) {
				require.False(t, s.Settings.InviteOnly)
			},
		},
		{
			name: "scoreGoal parses",
			data: map[string]any{"settingName": "scoreGoal", "settingValue": "5"},
			check: func(t *testing.T, s LobbyState) {
				require.Equal(t, 5, s.Settings.ScoreGoal)
			},
		},
		{
			name: "timeForMove parses",
			data: map[string]any{"settingName": "timeForMove", "settingValue": "8"},
			check: func(t *testing.T, s LobbyState) {
				require.Equal(t, 8, s.Settings.TimeForMove)
			},
		},
		{
			name: "non-numeric value keeps prior value",
			data: map[string]any{"settingName": "scoreGoal", "settingValue": "lots"},
			check: func(t *testing.T, s LobbyState) {
				require.Equal(t, 3, s.Settings.ScoreGoal)
			},
		},
		{
			name: "unknown setting name is a no-op",
			data: map[string]any{"settingName": "maxPlayers", "settingValue": "10"},
			check: func(t *testing.T, s LobbyState) {
				require.Equal(t, initialLobbyState().Settings, s.Settings)
			},
		},
		{
			name: "mistyped value is a no-op",
			data: map[string]any{"settingName": "scoreGoal", "settingValue": 5},
			check: func(t *testing.T, s LobbyState) {
				require.Equal(t, 3, s.Settings.ScoreGoal)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := Lobby(initialLobbyState(), lobbyEvent(t, event.SettingsUpdated, tc.data))
			tc.check(t, next)
		})
	}
}

func TestLobbyReceiveLobbyDataIsIdempotent(t *testing.T) {
	snapshot := map[string]any{
		"uri": "lobby-1",
		"users": []any{
			map[string]any{"uuid": "a", "username": "alice"},
			map[string]any{"uuid": "b", "username": "bob"},
		},
		"settings": map[string]any{"timeForMove": 7, "scoreGoal": 9, "inviteOnly": true},
	}

	ev := lobbyEvent(t, event.ReceiveLobbyData, map[string]any{"lobbyData": snapshot})
	once := Lobby(initialLobbyState(), ev)
	twice := Lobby(once, ev)

	require.Equal(t, once, twice)
	require.Equal(t, 9, once.Settings.ScoreGoal)
	require.True(t, once.Settings.InviteOnly)
	require.Equal(t, []orps.User{
		{UUID: "a", Username: "alice"},
		{UUID: "b", Username: "bob"},
	}, once.Users)
}

func TestLobbyUnknownEventIsNoOp(t *testing.T) {
	state := initialLobbyState()
	next := Lobby(state, lobbyEvent(t, "SOME_FUTURE_EVENT", map[string]any{"x": 1}))
	require.Equal(t, state, next)
}

// End-to-end: join then settings update, mirroring a fresh lobby session.
func TestLobbyScenario(t *testing.T) {
	state := initialLobbyState()

	state = Lobby(state, lobbyEvent(t, event.MemberJoin, map[string]any{
		"memberData": map[string]any{"uuid": "b", "username": "bob"},
	}))
	state = Lobby(state, lobbyEvent(t, event.SettingsUpdated, map[string]any{
		"settingName": "scoreGoal", "settingValue": "5",
	}))

	require.Len(t, state.Users, 2)
	require.Equal(t, 5, state.Settings.ScoreGoal)
}
