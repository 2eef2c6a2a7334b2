// Package spectate streams world snapshots to read-only websocket viewers.
package spectate

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Pulse-Sense/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client is one connected viewer.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to viewers. Publish never blocks: a viewer that
// cannot keep up misses frames.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     logrus.FieldLogger
	every   int
	seen    int
	dropped int
}

// NewHub creates a hub forwarding every n-th published snapshot (n < 1 means all).
func NewHub(log logrus.FieldLogger, every int) *Hub {
	if every < 1 {
		every = 1
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
		every:   every,
	}
}

// Publish implements game.SnapshotSink.
func (h *Hub) Publish(s game.Snapshot) {
	h.mu.Lock()
	h.seen++
	skip := (h.seen-1)%h.every != 0 || len(h.clients) == 0
	h.mu.Unlock()
	if skip {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		h.log.WithError(err).Warn("encode snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped++
		}
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// ServeHTTP upgrades the request and attaches a new viewer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.log.WithField("remote", r.RemoteAddr).Info("spectator connected")

	go h.writePump(c)
	go h.readPump(c)
}

// readPump only services control frames; viewers have nothing to say.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		if err := c.conn.Close(); err != nil {
			h.log.WithError(err).Debug("close spectator connection")
		}
		h.log.Info("spectator disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Warn("spectator read")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			h.log.WithError(err).Debug("close spectator connection in writePump")
		}
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				h.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					h.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.WithError(err).Debug("write snapshot failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				h.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
