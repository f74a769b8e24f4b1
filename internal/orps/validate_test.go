package orps

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// decode runs a JSON literal through encoding/json the same way inbound
// payloads arrive.
func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestAsUser(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want User
		ok   bool
	}{
		{
			name: "valid user",
			raw:  `{"uuid":"u1","username":"alice"}`,
			want: User{UUID: "u1", Username: "alice"},
			ok:   true,
		},
		{
			name: "extra fields tolerated",
			raw:  `{"uuid":"u1","username":"alice","role":"admin"}`,
			want: User{UUID: "u1", Username: "alice"},
			ok:   true,
		},
		{name: "missing uuid", raw: `{"username":"alice"}`},
		{name: "mistyped uuid", raw: `{"uuid":1,"username":"alice"}`},
		{name: "not an object", raw: `"alice"`},
		{name: "null", raw: `null`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := AsUser(decode(t, tc.raw))
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestAsPlayer(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Player
		ok   bool
	}{
		{
			name: "valid player",
			raw:  `{"uuid":"u1","username":"alice","score":3,"move":"ROCK"}`,
			want: Player{User: User{UUID: "u1", Username: "alice"}, Score: 3, Move: MoveRock},
			ok:   true,
		},
		{name: "missing score", raw: `{"uuid":"u1","username":"alice","move":"ROCK"}`},
		{name: "mistyped score", raw: `{"uuid":"u1","username":"alice","score":"3","move":"ROCK"}`},
		{name: "missing move", raw: `{"uuid":"u1","username":"alice","score":3}`},
		{name: "missing user fields", raw: `{"score":3,"move":"ROCK"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := AsPlayer(decode(t, tc.raw))
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestAsPlayersRejectsOneBadElement(t *testing.T) {
	v := decode(t, `[
		{"uuid":"u1","username":"alice","score":0,"move":"NO_MOVE"},
		{"username":"broken","score":0,"move":"NO_MOVE"}
	]`)
	_, ok := AsPlayers(v)
	require.False(t, ok)

	_, ok = AsPlayers(decode(t, `{"uuid":"u1"}`))
	require.False(t, ok)

	players, ok := AsPlayers(decode(t, `[]`))
	require.True(t, ok)
	require.Empty(t, players)
}

func TestAsLobby(t *testing.T) {
	valid := `{
		"uri": "lobby-1",
		"users": [{"uuid":"u1","username":"alice"}],
		"settings": {"timeForMove":5,"scoreGoal":3,"inviteOnly":false}
	}`

	lobby, ok := AsLobby(decode(t, valid))
	require.True(t, ok)
	require.Equal(t, Lobby{
		URI:   "lobby-1",
		Users: []User{{UUID: "u1", Username: "alice"}},
		Settings: LobbySettings{
			GameSettings: GameSettings{TimeForMove: 5, ScoreGoal: 3},
		},
	}, lobby)

	rejected := []struct {
		name string
		raw  string
	}{
		{"missing uri", `{"users":[],"settings":{"timeForMove":5,"scoreGoal":3,"inviteOnly":false}}`},
		{"missing settings", `{"uri":"lobby-1","users":[]}`},
		{"settings missing inviteOnly", `{"uri":"lobby-1","users":[],"settings":{"timeForMove":5,"scoreGoal":3}}`},
		{"users not an array", `{"uri":"lobby-1","users":{},"settings":{"timeForMove":5,"scoreGoal":3,"inviteOnly":false}}`},
		{"user element invalid", `{"uri":"lobby-1","users":[{"username":"x"}],"settings":{"timeForMove":5,"scoreGoal":3,"inviteOnly":false}}`},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := AsLobby(decode(t, tc.raw))
			require.False(t, ok)
		})
	}
}

func TestAsGame(t *testing.T) {
	valid := `{
		"uri": "game-1",
		"parentLobbyUri": "lobby-1",
		"players": [{"uuid":"u1","username":"alice","score":0,"move":"NO_MOVE"}],
		"settings": {"timeForMove":5,"scoreGoal":3}
	}`

	game, ok := AsGame(decode(t, valid))
	require.True(t, ok)
	require.Equal(t, "lobby-1", game.ParentLobbyURI)
	require.Len(t, game.Players, 1)

	// The parent lobby may be gone by the time the game starts.
	noParent := `{
		"uri": "game-1",
		"parentLobbyUri": null,
		"players": [],
		"settings": {"timeForMove":5,"scoreGoal":3}
	}`
	game, ok = AsGame(decode(t, noParent))
	require.True(t, ok)
	require.Empty(t, game.ParentLobbyURI)

	_, ok = AsGame(decode(t, `{"uri":"game-1","players":[],"settings":{"timeForMove":5}}`))
	require.False(t, ok)

	_, ok = AsGame(decode(t, `{"uri":"game-1","parentLobbyUri":7,"players":[],"settings":{"timeForMove":5,"scoreGoal":3}}`))
	require.False(t, ok)
}

func TestAsIntTruncates(t *testing.T) {
	n, ok := AsInt(float64(5))
	require.True(t, ok)
	require.Equal(t, 5, n)

	_, ok = AsInt("5")
	require.False(t, ok)
}

func TestIsBotUUID(t *testing.T) {
	require.True(t, IsBotUUID("Bot-1234"))
	require.False(t, IsBotUUID("u-1234"))
	require.True(t, Player{User: User{UUID: "Bot-1"}}.IsBot())
}
