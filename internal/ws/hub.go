package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
)

const writeTimeout = 5 * time.Second

type client struct {
	conn *websocket.Conn
	info ConnInfo
	// gorilla connections allow one concurrent writer.
	mu sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub keeps the live websocket connections of every user and delivers
// events to them. It implements notify.Notifier.
type Hub struct {
	clients map[int]map[*websocket.Conn]*client
	mu      sync.RWMutex
	log     *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[int]map[*websocket.Conn]*client),
		log:     log,
	}
}

// AddClient registers a connection for info.UserID.
func (h *Hub) AddClient(conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[info.UserID]; !ok {
		h.clients[info.UserID] = make(map[*websocket.Conn]*client)
	}
	h.clients[info.UserID][conn] = &client{conn: conn, info: info}
}

// RemoveClient drops a connection. It reports whether it was registered.
func (h *Hub) RemoveClient(userID int, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[userID]
	if !ok {
		return false
	}
	if _, ok := conns[conn]; !ok {
		return false
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
	return true
}

// ConnectionCount returns how many connections userID holds.
func (h *Hub) ConnectionCount(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) snapshot(userID int) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(h.clients[userID]))
	for _, c := range h.clients[userID] {
		out = append(out, c)
	}
	return out
}

// NotifyUser writes event to every connection of userID. Offline users are
// not an error. A connection that fails to take the write is closed and
// dropped.
func (h *Hub) NotifyUser(ctx context.Context, userID int, event models.Event) error {
	clients := h.snapshot(userID)
	if len(clients) == 0 {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Type, err)
	}

	var errs error
	for _, c := range clients {
		if err := c.write(payload); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("conn %s: %w", c.info.ConnID, err))
			h.drop(c, err)
			continue
		}
		observability.IncWSEvent("ws_delivered")
	}
	return errs
}

// NotifyChannelMembers delivers event to each member's connections.
func (h *Hub) NotifyChannelMembers(ctx context.Context, channelID int, memberIDs []int, event models.Event) error {
	var errs error
	for _, userID := range memberIDs {
		errs = multierr.Append(errs, h.NotifyUser(ctx, userID, event))
	}
	return errs
}

func (h *Hub) drop(c *client, err error) {
	if !h.RemoveClient(c.info.UserID, c.conn) {
		return
	}
	h.log.Warn("websocket write error",
		zap.String("conn_id", c.info.ConnID),
		zap.Int("user_id", c.info.UserID),
		zap.Duration("connected_for", time.Since(c.info.ConnectedAt)),
		zap.Error(err),
	)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	observability.DecWSActive()
	observability.IncWSEvent("ws_error")
}
