package pubsub

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ps := New()
	if ps == nil {
		t.Fatal("New() returned nil")
	}
	if ps.upstream != nil {
		t.Error("upstream should be nil for basic PubSub")
	}
	if ps.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", ps.SubscriberCount())
	}
}

func TestSubscribeMultiple(t *testing.T) {
	ps := New()

	for i := 0; i < 3; i++ {
		if ch := ps.Subscribe(); ch == nil {
			t.Fatal("Subscribe() returned nil channel")
		}
	}

	if ps.SubscriberCount() != 3 {
		t.Errorf("expected 3 subscribers, got %d", ps.SubscriberCount())
	}
}

func TestUnsubscribe(t *testing.T) {
	ps := New()

	ch := ps.Subscribe()
	ps.Unsubscribe(ch)

	if ps.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", ps.SubscriberCount())
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel should be closed after unsubscribe")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestUnsubscribeMiddle(t *testing.T) {
	ps := New()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	ch3 := ps.Subscribe()

	ps.Unsubscribe(ch2)

	if ps.SubscriberCount() != 2 {
		t.Errorf("expected 2 subscribers, got %d", ps.SubscriberCount())
	}

	ps.Publish(Event{Type: EventDraftPick})

	for name, ch := range map[string]chan Event{"ch1": ch1, "ch3": ch3} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("%s should have received event", name)
		}
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	ps := New()
	ps.Publish(Event{Type: EventDraftStart})
}

func TestPublishCarriesSessionAndPayload(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	ps.Publish(Event{
		Type:    EventDraftPick,
		Session: "abc",
		Payload: map[string]any{"player": "Bijan Robinson"},
	})

	select {
	case got := <-ch:
		if got.Type != EventDraftPick {
			t.Errorf("expected type %s, got %s", EventDraftPick, got.Type)
		}
		if got.Session != "abc" {
			t.Errorf("expected session abc, got %q", got.Session)
		}
		if got.Payload["player"] != "Bijan Robinson" {
			t.Error("payload mismatch")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for event")
	}
}

func TestPublishDropsWhenChannelFull(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	// buffer is 10, the rest are dropped without blocking
	for i := 0; i < 25; i++ {
		ps.Publish(Event{Type: EventDraftPick})
	}

	if len(ch) != 10 {
		t.Errorf("expected 10 buffered events, got %d", len(ch))
	}
}

func TestConcurrentPublish(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ps.Publish(Event{Type: EventDraftPick})
		}()
	}
	wg.Wait()

	if len(ch) != 5 {
		t.Errorf("expected 5 events, got %d", len(ch))
	}
}

func TestConcurrentSubscribeUnsubscribe(t *testing.T) {
	ps := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := ps.Subscribe()
			ps.Publish(Event{Type: EventDraftPick})
			ps.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	if ps.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", ps.SubscriberCount())
	}
}

func TestPublishWhileUnsubscribing(t *testing.T) {
	ps := New()
	done := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					ps.Publish(Event{Type: EventDraftPick})
				}
			}
		}()
	}

	for i := 0; i < 20000; i++ {
		ch := ps.Subscribe()
		ps.Unsubscribe(ch)
	}
	close(done)
	wg.Wait()

	if ps.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", ps.SubscriberCount())
	}
}

// mockUpstream echoes published events back to its subscribers
type mockUpstream struct {
	mu        sync.Mutex
	published []Event
	local     fanout
}

func newMockUpstream() *mockUpstream {
	return &mockUpstream{local: fanout{buffer: 10}}
}

func (m *mockUpstream) Publish(event Event) {
	m.mu.Lock()
	m.published = append(m.published, event)
	m.mu.Unlock()
	m.local.deliver(event)
}

func (m *mockUpstream) Subscribe() chan Event { return m.local.subscribe() }

func (m *mockUpstream) Unsubscribe(ch chan Event) { m.local.unsubscribe(ch) }

func (m *mockUpstream) publishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.published))
	copy(out, m.published)
	return out
}

func waitForUpstreamSubscriber(t *testing.T, m *mockUpstream) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for m.local.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("bridge never subscribed to upstream")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishWithUpstream(t *testing.T) {
	up := newMockUpstream()
	ps := NewWithUpstream(up)
	waitForUpstreamSubscriber(t, up)

	ch := ps.Subscribe()
	ps.Publish(Event{Type: EventDraftComplete, Session: "s1"})

	if got := up.publishedEvents(); len(got) != 1 || got[0].Type != EventDraftComplete {
		t.Fatalf("expected one upstream event, got %v", got)
	}

	select {
	case got := <-ch:
		if got.Session != "s1" {
			t.Errorf("expected session s1, got %q", got.Session)
		}
	case <-time.After(time.Second):
		t.Error("local subscriber did not receive upstream event")
	}
}
