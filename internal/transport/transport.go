// Package transport abstracts the publish/subscribe session the client
// speaks over. The core consumes exactly two primitives: publish to a
// destination, and subscribe to a topic. Delivery is fire-and-forget;
// there is no request/response correlation.
package transport

// Handler receives the raw body of one inbound message.
type Handler func(body []byte)

// Unsubscribe detaches a subscription. It is safe to call once; no
// handler invocation happens after it returns.
type Unsubscribe func()

// Transport is a live messaging session.
type Transport interface {
	// Publish sends a message body to a destination without waiting
	// for any acknowledgement.
	Publish(destination string, body []byte) error

	// Subscribe registers a handler for every message arriving on a
	// topic and returns a function that detaches it.
	Subscribe(topic string, fn Handler) (Unsubscribe, error)

	// Close tears the session down. Publishing or subscribing after
	// Close returns an error.
	Close()
}
