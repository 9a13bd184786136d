package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	logger := zerolog.Nop()
	hub := NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, have %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	hub := newRunningHub(t)

	a := NewClient("tab-a", hub, nil)
	b := NewClient("tab-b", hub, nil)
	hub.Register(a)
	hub.Register(b)
	waitForCount(t, hub, 2)

	hub.unsubscribe <- a
	waitForCount(t, hub, 1)
}

func TestBroadcastReload(t *testing.T) {
	hub := newRunningHub(t)

	c := NewClient("tab-1", hub, nil)
	hub.Register(c)
	waitForCount(t, hub, 1)

	hub.BroadcastReload()

	select {
	case ev := <-c.send:
		if ev.Type != EventReload {
			t.Errorf("expected %q event, got %q", EventReload, ev.Type)
		}
		if ev.At.IsZero() {
			t.Error("expected the event to carry a timestamp")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the reload event")
	}
}

// TestSlowSubscriberDropped verifies a stalled tab loses its subscription
// instead of blocking delivery to the rest.
func TestSlowSubscriberDropped(t *testing.T) {
	hub := newRunningHub(t)

	c := NewClient("stalled", hub, nil)
	hub.Register(c)
	waitForCount(t, hub, 1)

	// Nothing reads c.send back, so filling it simulates a stalled tab.
	for i := 0; i < sendBuffer; i++ {
		c.send <- Event{Type: EventReload}
	}
	hub.BroadcastReload()
	waitForCount(t, hub, 0)
}

func TestShutdownDrainsSubscribers(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := NewClient("tab-1", hub, nil)
	hub.Register(c)
	waitForCount(t, hub, 1)

	cancel()
	select {
	case <-hub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop after cancellation")
	}

	if n := hub.ClientCount(); n != 0 {
		t.Errorf("expected 0 subscribers after shutdown, got %d", n)
	}
	if _, ok := <-c.send; ok {
		t.Error("expected the send channel to be closed")
	}
}

func TestOnCountChange(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)
	counts := make(chan int, 8)
	hub.OnCountChange(func(n int) { counts <- n })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	c := NewClient("tab-1", hub, nil)
	hub.Register(c)
	if n := nextCount(t, counts); n != 1 {
		t.Errorf("expected count 1 after subscribe, got %d", n)
	}

	hub.unsubscribe <- c
	if n := nextCount(t, counts); n != 0 {
		t.Errorf("expected count 0 after unsubscribe, got %d", n)
	}
}

func nextCount(t *testing.T, counts <-chan int) int {
	t.Helper()
	select {
	case n := <-counts:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("no count observation arrived")
		return -1
	}
}

func TestBroadcastDoesNotBlock(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)

	// Without a running hub the queue fills; overflow must drop, not block.
	for i := 0; i < cap(hub.events)+8; i++ {
		hub.BroadcastReload()
	}
}

func TestManySubscribers(t *testing.T) {
	hub := newRunningHub(t)

	const tabs = 32
	clients := make([]*Client, tabs)
	var wg sync.WaitGroup
	for i := range clients {
		clients[i] = NewClient(fmt.Sprintf("tab-%d", i), hub, nil)
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			hub.Register(c)
		}(clients[i])
	}
	wg.Wait()
	waitForCount(t, hub, tabs)

	hub.BroadcastReload()
	for _, c := range clients {
		select {
		case ev := <-c.send:
			if ev.Type != EventReload {
				t.Fatalf("expected %q, got %q", EventReload, ev.Type)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("a subscriber missed the broadcast")
		}
	}
}

// TestEventJSON pins the field name the browser script matches on.
func TestEventJSON(t *testing.T) {
	payload, err := json.Marshal(Event{Type: EventReload, At: time.Now()})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(payload), `"type":"reload"`) {
		t.Errorf("unexpected payload: %s", payload)
	}
}
