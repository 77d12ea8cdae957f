package pubsub

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/snake-draft/internal/logger"
)

// DefaultStreamName is the JetStream stream that carries draft events
const DefaultStreamName = "DRAFT_EVENTS"

// NATSPubSub implements pub/sub using NATS JetStream
type NATSPubSub struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	sub     *nats.Subscription
	subject string
	local   fanout
}

// NewNATSPubSub connects to NATS and makes sure the event stream exists
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL, nats.Name("snake-draft"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p, err := newJetStreamPubSub(nc, subject, &nats.StreamConfig{
		Name:     DefaultStreamName,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, err
	}
	return p, nil
}

// newJetStreamPubSub binds to (or creates) the stream and starts relaying
// messages to local subscribers
func newJetStreamPubSub(nc *nats.Conn, subject string, stream *nats.StreamConfig) (*NATSPubSub, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(stream.Name); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return nil, fmt.Errorf("failed to look up stream: %w", err)
		}
		if _, err := js.AddStream(stream); err != nil {
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
		logger.Info("JetStream stream created", "stream", stream.Name, "subject", subject)
	}

	p := &NATSPubSub{
		nc:      nc,
		js:      js,
		subject: subject,
		local:   fanout{subscribers: []chan Event{}, buffer: 100},
	}

	p.sub, err = js.Subscribe(subject, p.relay, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to JetStream: %w", err)
	}
	return p, nil
}

func (p *NATSPubSub) relay(msg *nats.Msg) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to unmarshal event from JetStream", "error", err)
		msg.Term()
		return
	}
	p.local.deliver(event)
	msg.Ack()
}

// Publish publishes an event to NATS JetStream. Local subscribers receive it
// when JetStream delivers it back.
func (p *NATSPubSub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	if _, err := p.js.Publish(p.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", p.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event to NATS", "event_type", event.Type, "subject", p.subject)
}

// Subscribe creates a subscription channel for events
func (p *NATSPubSub) Subscribe() chan Event {
	return p.local.subscribe()
}

// Unsubscribe removes a subscription channel
func (p *NATSPubSub) Unsubscribe(ch chan Event) {
	p.local.unsubscribe(ch)
}

// SubscriberCount returns the number of active local subscribers
func (p *NATSPubSub) SubscriberCount() int {
	return p.local.count()
}

// Connected reports whether the NATS connection is up
func (p *NATSPubSub) Connected() bool {
	return p.nc != nil && p.nc.IsConnected()
}

// Close drains the subscription and closes the connection
func (p *NATSPubSub) Close() {
	if p.sub != nil {
		p.sub.Unsubscribe()
	}
	p.local.closeAll()
	if p.nc != nil {
		p.nc.Close()
	}
}
