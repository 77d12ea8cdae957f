package pubsub

import (
	"sync"

	"github.com/Billy-Davies-2/snake-draft/internal/logger"
)

// Event types published by the draft service
const (
	EventDraftStart    = "draft:start"
	EventDraftPick     = "draft:pick"
	EventDraftComplete = "draft:complete"
)

// Event represents a pubsub event
type Event struct {
	Type    string         `json:"type"`
	Session string         `json:"session,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Publisher is anything events can be sent to
type Publisher interface {
	Publish(Event)
}

// Upstream is an interface for upstream brokers (e.g., NATS)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// fanout delivers events to buffered subscriber channels, dropping events for
// subscribers that are not keeping up
type fanout struct {
	mu          sync.RWMutex
	subscribers []chan Event
	buffer      int
}

func (f *fanout) subscribe() chan Event {
	ch := make(chan Event, f.buffer)
	f.mu.Lock()
	f.subscribers = append(f.subscribers, ch)
	n := len(f.subscribers)
	f.mu.Unlock()
	logger.Debug("PubSub: New subscriber added", "totalSubscribers", n)
	return ch
}

func (f *fanout) unsubscribe(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subscribers {
		if sub == ch {
			close(ch)
			f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
			break
		}
	}
}

// deliver holds the read lock across the sends so unsubscribe cannot close
// a channel mid-delivery. Sends never block.
func (f *fanout) deliver(event Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, ch := range f.subscribers {
		select {
		case ch <- event:
		default:
			logger.Warn("PubSub: Skipping slow subscriber", "type", event.Type)
		}
	}
}

func (f *fanout) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subscribers {
		close(sub)
	}
	f.subscribers = nil
}

// PubSub implements a simple publish-subscribe system
type PubSub struct {
	local    fanout
	upstream Upstream // Optional upstream broker (e.g., NATS)
}

// New creates a new PubSub instance
func New() *PubSub {
	return &PubSub{local: fanout{subscribers: []chan Event{}, buffer: 10}}
}

// NewWithUpstream creates a PubSub that bridges to an upstream broker.
// Publish sends to the upstream, which broadcasts to every instance, and
// upstream events are forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := New()
	ps.upstream = upstream

	go func() {
		ch := upstream.Subscribe()
		logger.Debug("PubSub: Subscribed to upstream, waiting for events")
		for event := range ch {
			ps.local.deliver(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (ps *PubSub) Subscribe() chan Event {
	return ps.local.subscribe()
}

// Unsubscribe removes a subscriber and closes its channel
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.local.unsubscribe(ch)
}

// Publish sends an event to the upstream if configured, otherwise directly
// to local subscribers
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.local.deliver(event)
}

// SubscriberCount returns the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	return ps.local.count()
}
