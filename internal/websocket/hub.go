package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hackpsu/admin-console/internal/metrics"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/rs/zerolog"
)

// sendBuffer is how many events a client may fall behind before it is
// disconnected. A dropped dashboard reconnects and refetches everything.
const sendBuffer = 32

// Hub fans cache invalidations out to connected dashboards.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log.With().Str("component", "ws_hub").Logger(),
	}
}

// Run forwards every invalidation to the clients until events closes or
// ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context, events <-chan querycache.Invalidation) {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return
		case inv, ok := <-events:
			if !ok {
				h.log.Warn().Msg("Invalidation stream closed")
				return
			}
			h.Broadcast(inv)
		}
	}
}

// Broadcast sends inv to every client subscribed to at least one of its
// namespaces. Clients only see the keys they subscribed to.
func (h *Hub) Broadcast(inv querycache.Invalidation) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		keys := make([][]string, 0, len(inv.Keys))
		for _, k := range inv.Keys {
			if c.wants(k.Namespace()) {
				keys = append(keys, []string(k))
			}
		}
		if len(keys) == 0 {
			continue
		}
		if !c.enqueue(InvalidateEvent{Event: EventInvalidate, Keys: keys, At: inv.At}) {
			c.log.Warn().Msg("Client too slow, disconnecting")
			c.stop()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve runs one connection until either side closes it.
func (h *Hub) Serve(conn *websocket.Conn, actor string) {
	c := &client{
		conn: conn,
		send: make(chan interface{}, sendBuffer),
		done: make(chan struct{}),
		log:  h.log.With().Str("actor", actor).Logger(),
	}
	if !h.add(c) {
		_ = WriteError(conn, "server shutting down")
		_ = conn.Close()
		return
	}
	defer h.remove(c)

	conn.SetReadLimit(4096)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop()
	}()

	c.log.Info().Msg("Dashboard connected")
	c.enqueue(ReadyResponse{Event: EventReady, Namespaces: []string{}})
	c.readLoop()
	c.stop()
	<-writerDone
	c.log.Info().Msg("Dashboard disconnected")
}

// add reports false once the hub has shut down.
func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.WSClients.Inc()
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	metrics.WSClients.Dec()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.stop()
	}
}

type client struct {
	conn *websocket.Conn
	send chan interface{}
	done chan struct{}
	once sync.Once
	log  zerolog.Logger

	mu         sync.RWMutex
	namespaces map[string]struct{} // nil means every namespace
}

func (c *client) wants(namespace string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.namespaces == nil {
		return true
	}
	_, ok := c.namespaces[namespace]
	return ok
}

func (c *client) subscribe(namespaces []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(namespaces) == 0 {
		c.namespaces = nil
		return []string{}
	}
	c.namespaces = make(map[string]struct{}, len(namespaces))
	for _, ns := range namespaces {
		c.namespaces[ns] = struct{}{}
	}
	out := make([]string, 0, len(c.namespaces))
	for ns := range c.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// enqueue reports false when the client's buffer is full.
func (c *client) enqueue(v interface{}) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// writeLoop is the only goroutine that writes to the connection.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case v := <-c.send:
			if err := WriteTyped(c.conn, v); err != nil {
				c.log.Debug().Err(err).Msg("Write failed")
				return
			}
		case <-ticker.C:
			if err := writePing(c.conn); err != nil {
				c.log.Debug().Err(err).Msg("Ping failed")
				return
			}
		}
	}
}

func (c *client) readLoop() {
	for {
		var msg RequestEnvelope
		if err := ReadJSON(c.conn, &msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.enqueue(ErrorResponse{Event: EventError, Error: "malformed message"})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ActionPing:
			c.enqueue(PongResponse{Event: EventPong})
		case ActionSubscribe:
			c.enqueue(ReadyResponse{Event: EventReady, Namespaces: c.subscribe(msg.Namespaces)})
		default:
			c.enqueue(ErrorResponse{Event: EventError, Error: "unknown action: " + string(msg.Action)})
		}
	}
}
