package transport

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds connection options for the NATS transport.
type NATSConfig struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns the default NATS connection configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Name:          "orps-client",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// NATS is a Transport backed by a core NATS connection. Core NATS
// semantics match the protocol: at-most-once, no offline queuing, no
// acknowledgements.
type NATS struct {
	nc *nats.Conn
}

// DialNATS connects to a NATS server and wraps the connection as a
// Transport.
func DialNATS(config NATSConfig) (*NATS, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATS{nc: nc}, nil
}

// Publish sends a message body to a subject.
func (t *NATS) Publish(destination string, body []byte) error {
	if err := t.nc.Publish(destination, body); err != nil {
		return fmt.Errorf("publish to %s: %w", destination, err)
	}
	return nil
}

// Subscribe registers a handler for a subject.
func (t *NATS) Subscribe(topic string, fn Handler) (Unsubscribe, error) {
	sub, err := t.nc.Subscribe(topic, func(msg *nats.Msg) {
		fn(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Debug().Err(err).Str("topic", topic).Msg("unsubscribe failed")
		}
	}, nil
}

// Close drains nothing and closes the connection; in-flight messages are
// dropped, matching the fire-and-forget contract.
func (t *NATS) Close() {
	t.nc.Close()
}
