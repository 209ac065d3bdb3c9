// Package live pushes roster snapshots to connected browsers over WebSocket.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smashden/smashden/internal/domain/types"
	"github.com/smashden/smashden/pkg/logger"
	"github.com/smashden/smashden/pkg/metrics"
)

const (
	// writeWait bounds a single write to a client.
	writeWait = 10 * time.Second
	// pongWait is how long a client may stay silent before it is dropped.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames; clients only listen.
	maxMessageSize = 512

	defaultSendBuffer = 16
	broadcastBacklog  = 16
)

// rosterUpdate is the envelope pushed to every connected client.
type rosterUpdate struct {
	Type   string              `json:"type"`
	Roster []types.RosterEntry `json:"roster"`
}

// client is one connected browser.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans roster snapshots out to WebSocket clients. All client
// bookkeeping happens on the Run goroutine; handlers only touch the
// channels.
type Hub struct {
	upgrader   websocket.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]struct{}
	last       []byte
	sendBuffer int
	count      atomic.Int64
	done       chan struct{}
	logger     logger.Logger
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastBacklog),
		clients:    make(map[*client]struct{}),
		sendBuffer: defaultSendBuffer,
		done:       make(chan struct{}),
		logger:     logger.Get().Named("live"),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run owns the client set until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			if h.last != nil {
				select {
				case c.send <- h.last:
				default:
				}
			}
			h.trackClients()
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.trackClients()
		case msg := <-h.broadcast:
			h.last = msg
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer: drop it rather than stall the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.trackClients()
		}
	}
}

// BroadcastRoster queues a roster snapshot for all clients. When the
// backlog is full the oldest snapshot gives way; clients only ever care
// about the newest one.
func (h *Hub) BroadcastRoster(entries []types.RosterEntry) {
	payload, err := json.Marshal(rosterUpdate{Type: "roster", Roster: entries})
	if err != nil {
		h.logger.Error(context.Background(), "marshal roster snapshot", logger.Error(err))
		return
	}

	for {
		select {
		case h.broadcast <- payload:
			return
		default:
		}
		select {
		case <-h.broadcast:
		default:
		}
	}
}

// ServeWS upgrades the request and attaches the client to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

// ClientCount returns how many clients are currently attached.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// trackClients refreshes the connected-client gauge. Runs on the Run
// goroutine only.
func (h *Hub) trackClients() {
	h.count.Store(int64(len(h.clients)))
	metrics.UpdateLiveClients(len(h.clients))
}

// closeAll releases every client during shutdown. Runs on the Run
// goroutine only.
func (h *Hub) closeAll() {
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.trackClients()
}

// writePump drains the send channel to the socket and keeps the
// connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and unregisters the client when the
// connection drops.
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
