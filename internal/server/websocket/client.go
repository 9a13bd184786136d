package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// writeTimeout bounds a single frame write to the peer.
	writeTimeout = 10 * time.Second

	// pongTimeout is how long a silent peer stays subscribed.
	pongTimeout = 60 * time.Second

	// pingInterval must be shorter than pongTimeout so a healthy peer is
	// probed before its deadline expires.
	pingInterval = (pongTimeout * 9) / 10

	// readLimit caps inbound frames. Subscribers have nothing to say
	// beyond control frames.
	readLimit = 512

	// sendBuffer is the per-client event queue length.
	sendBuffer = 16
)

// Client is one subscribed browser tab.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan Event
}

// NewClient wires a connection to the hub. conn may be nil in tests that
// exercise hub bookkeeping without a socket.
func NewClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		hub:  hub,
		conn: conn,
		send: make(chan Event, sendBuffer),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The reload channel carries no state and the dev server binds to
	// localhost, so any origin may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a WebSocket connection and subscribes
// the resulting client to reload events.
func ServeWS(hub *Hub, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error().Err(err).Msg("WebSocket upgrade failed")
			return
		}

		c := NewClient(uuid.NewString(), hub, conn)
		hub.Register(c)

		go c.writeLoop()
		go c.readLoop()
	}
}

// readLoop discards inbound frames until the peer goes away. Reads exist
// only for close and pong handling.
func (c *Client) readLoop() {
	defer func() {
		select {
		case c.hub.unsubscribe <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error().Err(err).Str("client_id", c.id).Msg("WebSocket read error")
			}
			return
		}
	}
}

// writeLoop serializes events to the peer and pings it on an interval. It
// exits when the hub closes the send channel or a write fails.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			payload, err := json.Marshal(ev)
			if err != nil {
				c.hub.logger.Error().Err(err).Msg("Failed to marshal reload event")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
