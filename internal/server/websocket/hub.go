// Package websocket pushes live-reload notifications to browsers viewing
// the documentation while watch mode is active.
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/skyview/pkg/constants"
)

// EventReload instructs the browser to refresh the page.
const EventReload = "reload"

// Event is the wire message pushed to subscribed browsers. The protocol is
// one-way: the server announces, clients act.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// Hub fans events out to every subscribed browser tab. All subscriptions,
// departures, and deliveries funnel through the Run loop; the mutex exists
// for ClientCount readers on other goroutines.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	events      chan Event
	subscribe   chan *Client
	unsubscribe chan *Client
	done        chan struct{}

	logger *zerolog.Logger

	// onCount, when set, observes every change to the subscriber count.
	onCount func(int)
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]struct{}),
		events:      make(chan Event, constants.ChannelBufferSize),
		subscribe:   make(chan *Client),
		unsubscribe: make(chan *Client),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// OnCountChange registers an observer for the subscriber count. Must be set
// before Run starts; the observer runs on the hub goroutine.
func (h *Hub) OnCountChange(fn func(int)) {
	h.onCount = fn
}

// Run owns the client set until ctx is canceled, then closes every send
// channel so the write loops wind down.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.drain()
			close(h.done)
			return
		case c := <-h.subscribe:
			h.admit(c)
		case c := <-h.unsubscribe:
			h.drop(c)
		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

func (h *Hub) admit(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	h.countChanged(total)
	h.logger.Info().
		Str("client_id", c.id).
		Int("total_clients", total).
		Msg("Reload client connected")
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.countChanged(total)
	h.logger.Info().
		Str("client_id", c.id).
		Int("total_clients", total).
		Msg("Reload client disconnected")
}

// deliver hands ev to every subscriber. A client whose buffer is full loses
// its subscription rather than stalling the others; its browser reconnects
// through the script's backoff loop.
func (h *Hub) deliver(ev Event) {
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.countChanged(total)
}

func (h *Hub) drain() {
	h.mu.Lock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()

	h.countChanged(0)
}

func (h *Hub) countChanged(total int) {
	if h.onCount != nil {
		h.onCount(total)
	}
}

// Register queues a client for subscription.
func (h *Hub) Register(c *Client) {
	h.subscribe <- c
}

// Broadcast queues ev for delivery to all subscribers. When the queue is
// full the event is dropped; a missed reload only delays the refresh until
// the next change.
func (h *Hub) Broadcast(ev Event) {
	select {
	case h.events <- ev:
	default:
		h.logger.Warn().Str("type", ev.Type).Msg("Reload queue full, event dropped")
	}
}

// BroadcastReload tells every connected browser to refresh the page.
func (h *Hub) BroadcastReload() {
	h.Broadcast(Event{Type: EventReload, At: time.Now()})
}

// ClientCount reports how many browsers are subscribed.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
