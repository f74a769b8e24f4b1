package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ad044/orps-client/internal/orps"
	"github.com/ad044/orps-client/internal/session"
	"github.com/ad044/orps-client/internal/transport"
)

func main() {
	configPath := flag.String("config", "orps.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	tr, err := dialTransport(config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to dial transport")
	}
	defer tr.Close()

	app := &app{
		transport: tr,
		topics:    config.topics(),
		selfUUID:  uuid.NewString(),
		clock:     clockwork.NewRealClock(),
	}
	log.Info().Str("uuid", app.selfUUID).Str("transport", config.Transport.Kind).Msg("connected")

	if err := app.toHome(); err != nil {
		log.Fatal().Err(err).Msg("failed to open home screen")
	}

	app.repl(os.Stdin)
}

// app tracks the active screen. Screen transitions are driven by server
// events (CREATED_LOBBY, CREATED_GAME); each transition closes the
// previous session before opening the next so at most one pipeline
// observes the transport per topic.
type app struct {
	transport transport.Transport
	topics    session.Topics
	selfUUID  string
	clock     clockwork.Clock

	mu    sync.Mutex
	home  *session.Home
	lobby *session.Lobby
	game  *session.Game
}

func (a *app) closeAllLocked() {
	if a.home != nil {
		a.home.Close()
		a.home = nil
	}
	if a.lobby != nil {
		a.lobby.Close()
		a.lobby = nil
	}
	if a.game != nil {
		a.game.Close()
		a.game = nil
	}
}

func (a *app) toHome() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeAllLocked()

	home, err := session.NewHome(a.transport, a.topics, a.onLobbyCreated)
	if err != nil {
		return err
	}
	a.home = home
	fmt.Println("home> commands: create | join <lobbyUri> | name <newName> | quit")
	return nil
}

func (a *app) onLobbyCreated(lobbyData orps.Lobby) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeAllLocked()

	lobby, err := session.NewLobby(a.transport, a.topics, lobbyData, a.onGameCreated)
	if err != nil {
		log.Error().Err(err).Msg("failed to open lobby screen")
		return
	}
	a.lobby = lobby
	fmt.Printf("lobby %s> commands: start | bot | say <msg> | set <name> <value> | leave\n", lobbyData.URI)
}

func (a *app) onGameCreated(gameData orps.Game) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeAllLocked()

	game, err := session.NewGame(a.transport, a.topics, gameData, a.selfUUID, a.clock)
	if err != nil {
		log.Error().Err(err).Msg("failed to open game screen")
		return
	}
	a.game = game
	fmt.Printf("game %s> commands: rock | paper | scissors | state | leave\n", gameData.URI)
}

func (a *app) repl(in *os.File) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" {
			return
		}
		if err := a.dispatch(fields); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func (a *app) dispatch(fields []string) error {
	a.mu.Lock()
	home, lobby, game := a.home, a.lobby, a.game
	a.mu.Unlock()

	cmd := fields[0]
	switch {
	case home != nil && cmd == "create":
		return home.CreateLobby()
	case home != nil && cmd == "join" && len(fields) == 2:
		return home.JoinLobby(fields[1])
	case home != nil && cmd == "name" && len(fields) == 2:
		return home.ChangeName(fields[1])

	case lobby != nil && cmd == "start":
		return lobby.StartGame()
	case lobby != nil && cmd == "bot":
		return lobby.AddBot()
	case lobby != nil && cmd == "say" && len(fields) > 1:
		return lobby.SendChat(strings.Join(fields[1:], " "))
	case lobby != nil && cmd == "set" && len(fields) == 3:
		return lobby.UpdateSettings(fields[1], fields[2])
	case lobby != nil && cmd == "leave":
		if err := lobby.Leave(); err != nil {
			return err
		}
		return a.toHome()

	case game != nil && (cmd == "rock" || cmd == "paper" || cmd == "scissors"):
		return game.SubmitMove(orps.Move(strings.ToUpper(cmd)))
	case game != nil && cmd == "state":
		printGameState(game)
		return nil
	case game != nil && cmd == "leave":
		game.Close()
		return a.toHome()

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printGameState(game *session.Game) {
	state := game.State()
	if state.GameWinner != nil {
		fmt.Printf("%s won the game\n", state.GameWinner.Username)
	} else if state.StartCountdown > 0 {
		fmt.Printf("game starting in %d...\n", state.StartCountdown)
	} else if state.DisplayRoundWinner {
		if state.RoundWinner != nil {
			fmt.Printf("%s won the round\n", state.RoundWinner.Username)
		} else {
			fmt.Println("draw")
		}
	} else {
		fmt.Printf("%d seconds left to pick\n", game.TimeLeft())
	}
	fmt.Printf("round %d\n", state.RoundNumber)
	for _, player := range state.Players {
		fmt.Printf("  %s score=%d move=%s\n", player.Username, player.Score, player.Move)
	}
}
