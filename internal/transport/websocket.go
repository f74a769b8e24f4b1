package transport

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketConfig holds dial and I/O options for the WebSocket transport.
type WebSocketConfig struct {
	URL              string
	WriteTimeout     time.Duration
	HandshakeTimeout time.Duration
	MaxMessageSize   int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		URL:              "ws://localhost:8080/ws",
		WriteTimeout:     10 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		MaxMessageSize:   64 * 1024,
	}
}

// frame is the wire shape multiplexing topics over one WebSocket
// connection, in both directions.
type frame struct {
	Topic string          `json:"topic"`
	Body  json.RawMessage `json:"body"`
}

// WebSocket is a Transport multiplexing topics over a single WebSocket
// connection. A read loop dispatches inbound frames to local
// subscribers; a write mutex serializes outbound frames.
type WebSocket struct {
	conn   *websocket.Conn
	config WebSocketConfig

	writeMu sync.Mutex

	mu          sync.RWMutex
	nextID      int
	subscribers map[string]map[int]Handler
	closed      bool

	done chan struct{}
}

// DialWebSocket connects to a server and starts the read loop.
func DialWebSocket(config WebSocketConfig) (*WebSocket, error) {
	dialer := websocket.Dialer{HandshakeTimeout: config.HandshakeTimeout}
	conn, _, err := dialer.Dial(config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", config.URL, err)
	}
	conn.SetReadLimit(config.MaxMessageSize)

	t := &WebSocket{
		conn:        conn,
		config:      config,
		subscribers: make(map[string]map[int]Handler),
		done:        make(chan struct{}),
	}
	go t.readLoop()

	return t, nil
}

func (t *WebSocket) readLoop() {
	defer close(t.done)

	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			closed := t.closed
			t.mu.Unlock()
			if !closed {
				log.Error().Err(err).Msg("websocket read failed")
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			log.Debug().Err(err).Msg("dropping unframed websocket message")
			continue
		}

		t.mu.RLock()
		handlers := make([]Handler, 0, len(t.subscribers[f.Topic]))
		for _, fn := range t.subscribers[f.Topic] {
			handlers = append(handlers, fn)
		}
		t.mu.RUnlock()

		for _, fn := range handlers {
			fn(f.Body)
		}
	}
}

// Publish sends a message body to a destination topic.
func (t *WebSocket) Publish(destination string, body []byte) error {
	data, err := json.Marshal(frame{Topic: destination, Body: body})
	if err != nil {
		return fmt.Errorf("marshal frame for %s: %w", destination, err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write to %s: %w", destination, err)
	}
	return nil
}

// Subscribe registers a handler for a topic.
func (t *WebSocket) Subscribe(topic string, fn Handler) (Unsubscribe, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, fmt.Errorf("subscribe to %s: transport closed", topic)
	}

	id := t.nextID
	t.nextID++
	if t.subscribers[topic] == nil {
		t.subscribers[topic] = make(map[int]Handler)
	}
	t.subscribers[topic][id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subscribers[topic], id)
	}, nil
}

// Close shuts the connection down and waits for the read loop to exit.
func (t *WebSocket) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	if err := t.conn.Close(); err != nil {
		log.Debug().Err(err).Msg("websocket close failed")
	}
	<-t.done
}
