package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ad044/orps-client/internal/session"
	"github.com/ad044/orps-client/internal/transport"
)

type Config struct {
	Transport struct {
		Kind             string `yaml:"kind"` // "nats" or "websocket"
		URL              string `yaml:"url"`
		ReconnectWaitSec int    `yaml:"reconnect_wait_sec"`
	} `yaml:"transport"`
	Topics struct {
		General string `yaml:"general"`
		Lobby   string `yaml:"lobby"`
		Game    string `yaml:"game"`
		Error   string `yaml:"error"`
		Actions string `yaml:"actions"`
	} `yaml:"topics"`
	Username string `yaml:"username"`
}

func defaultConfig() *Config {
	var config Config
	config.Transport.Kind = "nats"
	config.Transport.URL = ""
	config.Transport.ReconnectWaitSec = 2
	topics := session.DefaultTopics()
	config.Topics.General = topics.General
	config.Topics.Lobby = topics.Lobby
	config.Topics.Game = topics.Game
	config.Topics.Error = topics.Error
	config.Topics.Actions = topics.Actions
	config.Username = "anonymous"
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads the yaml config file when present and applies
// environment overrides on top.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.Transport.Kind = getEnv("ORPS_TRANSPORT", config.Transport.Kind)
	config.Transport.URL = getEnv("ORPS_TRANSPORT_URL", config.Transport.URL)
	config.Username = getEnv("ORPS_USERNAME", config.Username)
	if wait := getEnvAsInt("ORPS_RECONNECT_WAIT_SEC", 0); wait > 0 {
		config.Transport.ReconnectWaitSec = wait
	}

	return config, nil
}

func (c *Config) topics() session.Topics {
	return session.Topics{
		General: c.Topics.General,
		Lobby:   c.Topics.Lobby,
		Game:    c.Topics.Game,
		Error:   c.Topics.Error,
		Actions: c.Topics.Actions,
	}
}

// dialTransport opens the configured transport session.
func dialTransport(c *Config) (transport.Transport, error) {
	switch c.Transport.Kind {
	case "nats", "":
		natsConfig := transport.DefaultNATSConfig()
		if c.Transport.URL != "" {
			natsConfig.URL = c.Transport.URL
		}
		if c.Transport.ReconnectWaitSec > 0 {
			natsConfig.ReconnectWait = time.Duration(c.Transport.ReconnectWaitSec) * time.Second
		}
		return transport.DialNATS(natsConfig)
	case "websocket":
		wsConfig := transport.DefaultWebSocketConfig()
		if c.Transport.URL != "" {
			wsConfig.URL = c.Transport.URL
		}
		return transport.DialWebSocket(wsConfig)
	default:
		return nil, fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
	}
}
