package orps

// Runtime narrowing of decoded JSON values into entity snapshots.
//
// Inbound payloads cross a trust boundary, so every composite shape is
// verified field by field before it can reach a reducer. The functions
// follow the comma-ok convention: they return the typed value and a
// verdict, and never panic on arbitrary input. Unexpected extra fields
// are ignored; a missing or mistyped required field rejects the value.

// AsString narrows a decoded JSON value to a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsInt narrows a decoded JSON number to an int. encoding/json decodes
// every number as float64; fractional parts are truncated, matching the
// wire contract where all numeric fields are integral.
func AsInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// AsBool narrows a decoded JSON value to a bool.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// AsUser validates and converts a decoded user payload.
func AsUser(v any) (User, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return User{}, false
	}

	uuid, ok := AsString(m["uuid"])
	if !ok {
		return User{}, false
	}
	username, ok := AsString(m["username"])
	if !ok {
		return User{}, false
	}

	return User{UUID: uuid, Username: username}, true
}

// AsPlayer validates and converts a decoded player payload.
func AsPlayer(v any) (Player, bool) {
	user, ok := AsUser(v)
	if !ok {
		return Player{}, false
	}

	m := v.(map[string]any)
	score, ok := AsInt(m["score"])
	if !ok {
		return Player{}, false
	}
	move, ok := AsString(m["move"])
	if !ok {
		return Player{}, false
	}

	return Player{User: user, Score: score, Move: Move(move)}, true
}

// AsPlayers validates a decoded array of player payloads.
func AsPlayers(v any) ([]Player, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}

	players := make([]Player, 0, len(arr))
	for _, item := range arr {
		player, ok := AsPlayer(item)
		if !ok {
			return nil, false
		}
		players = append(players, player)
	}
	return players, true
}

// AsGameSettings validates and converts a decoded settings payload.
func AsGameSettings(v any) (GameSettings, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return GameSettings{}, false
	}

	timeForMove, ok := AsInt(m["timeForMove"])
	if !ok {
		return GameSettings{}, false
	}
	scoreGoal, ok := AsInt(m["scoreGoal"])
	if !ok {
		return GameSettings{}, false
	}

	return GameSettings{TimeForMove: timeForMove, ScoreGoal: scoreGoal}, true
}

// AsLobbySettings validates and converts a decoded lobby settings payload.
func AsLobbySettings(v any) (LobbySettings, bool) {
	settings, ok := AsGameSettings(v)
	if !ok {
		return LobbySettings{}, false
	}

	m := v.(map[string]any)
	inviteOnly, ok := AsBool(m["inviteOnly"])
	if !ok {
		return LobbySettings{}, false
	}

	return LobbySettings{GameSettings: settings, InviteOnly: inviteOnly}, true
}

// AsLobby validates and converts a decoded lobby snapshot.
func AsLobby(v any) (Lobby, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Lobby{}, false
	}

	uri, ok := AsString(m["uri"])
	if !ok {
		return Lobby{}, false
	}
	settings, ok := AsLobbySettings(m["settings"])
	if !ok {
		return Lobby{}, false
	}
	arr, ok := m["users"].([]any)
	if !ok {
		return Lobby{}, false
	}

	users := make([]User, 0, len(arr))
	for _, item := range arr {
		user, ok := AsUser(item)
		if !ok {
			return Lobby{}, false
		}
		users = append(users, user)
	}

	return Lobby{URI: uri, Users: users, Settings: settings}, true
}

// AsGame validates and converts a decoded game snapshot. parentLobbyUri
// may be null when the parent lobby no longer exists.
func AsGame(v any) (Game, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Game{}, false
	}

	uri, ok := AsString(m["uri"])
	if !ok {
		return Game{}, false
	}
	settings, ok := AsGameSettings(m["settings"])
	if !ok {
		return Game{}, false
	}
	players, ok := AsPlayers(m["players"])
	if !ok {
		return Game{}, false
	}

	var parentLobbyURI string
	if raw, present := m["parentLobbyUri"]; present && raw != nil {
		parentLobbyURI, ok = AsString(raw)
		if !ok {
			return Game{}, false
		}
	}

	return Game{
		URI:            uri,
		ParentLobbyURI: parentLobbyURI,
		Players:        players,
		Settings:       settings,
	}, true
}
