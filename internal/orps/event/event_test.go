package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{name: "valid", body: `{"id":"CREATED_LOBBY","data":{}}`, ok: true},
		{name: "extra fields tolerated", body: `{"id":"X","data":{},"recipientUuids":["u1"]}`, ok: true},
		{name: "missing id", body: `{"data":{}}`},
		{name: "id not a string", body: `{"id":5,"data":{}}`},
		{name: "missing data", body: `{"id":"X"}`},
		{name: "data not an object", body: `{"id":"X","data":[1,2]}`},
		{name: "not json", body: `garbage`},
		{name: "json scalar", body: `"hello"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := Decode([]byte(tc.body))
			require.Equal(t, tc.ok, ok)
			if ok {
				require.NotEmpty(t, ev.ID)
				require.NotNil(t, ev.Data)
			}
		})
	}
}

func TestDecodeScoped(t *testing.T) {
	body := []byte(`{"id":"MEMBER_JOIN","lobbyUri":"lobby-1","data":{"memberUuid":"u1"}}`)

	lev, ok := DecodeLobby(body)
	require.True(t, ok)
	require.Equal(t, "lobby-1", lev.LobbyURI)
	require.Equal(t, MemberJoin, lev.ID)

	// A lobby event is not a game event: the scope key is required.
	_, ok = DecodeGame(body)
	require.False(t, ok)

	gev, ok := DecodeGame([]byte(`{"id":"COUNTDOWN_UPDATE","gameUri":"game-1","data":{"currentTimerValue":4}}`))
	require.True(t, ok)
	require.Equal(t, "game-1", gev.GameURI)

	_, ok = DecodeLobby([]byte(`{"id":"X","lobbyUri":5,"data":{}}`))
	require.False(t, ok)
}

func TestDataAccessors(t *testing.T) {
	d := Data{"name": "alice", "count": float64(3)}

	s, ok := d.String("name")
	require.True(t, ok)
	require.Equal(t, "alice", s)

	n, ok := d.Int("count")
	require.True(t, ok)
	require.Equal(t, 3, n)

	_, ok = d.String("count")
	require.False(t, ok)
	_, ok = d.Int("missing")
	require.False(t, ok)
}
