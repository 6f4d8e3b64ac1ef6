package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/render"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Event types pushed to websocket clients.
const (
	EventSnapshot = "snapshot"
	EventPlaced   = "placed"
	EventRestored = "restored"
	EventCleared  = "cleared"
)

// Event is the message pushed to websocket clients after every mutation.
type Event struct {
	Type   string             `json:"type"`
	State  render.View        `json:"state"`
	Object *render.ObjectView `json:"object,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans simulation events out to connected websocket clients.
// It implements simulation.Presenter.
type Hub struct {
	plank   geometry.Plank
	logger  *log.Logger
	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub that renders views for plank.
func NewHub(plank geometry.Plank, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		plank:   plank,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// ObjectPlaced broadcasts a placement.
func (h *Hub) ObjectPlaced(snap simulation.Snapshot, obj balance.Object) {
	ov := render.NewView(simulation.Snapshot{Objects: []balance.Object{obj}}, h.plank).Objects[0]
	h.broadcast(Event{Type: EventPlaced, State: render.NewView(snap, h.plank), Object: &ov})
}

// Restored broadcasts the full restored state.
func (h *Hub) Restored(snap simulation.Snapshot) {
	h.broadcast(Event{Type: EventRestored, State: render.NewView(snap, h.plank)})
}

// Cleared broadcasts a reset.
func (h *Hub) Cleared(snap simulation.Snapshot) {
	h.broadcast(Event{Type: EventCleared, State: render.NewView(snap, h.plank)})
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "type", ev.Type, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket send buffer full; dropping event", "type", ev.Type, "remote", c.conn.RemoteAddr())
		}
	}
}

// serve upgrades the request and streams events until the peer goes away.
// guard is the lock mutations run under; see attach.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, guard sync.Locker, initial func() Event) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.attach(c, guard, initial)
	h.logger.Debug("websocket connected", "remote", conn.RemoteAddr(), "clients", h.Len())

	go h.writePump(c)
	h.readPump(c)
}

// attach registers c and queues the initial snapshot while guard is held.
// Holding the mutation lock across both steps means every later mutation is
// broadcast to c after its snapshot, and none is missed in between.
// initial runs with guard held and must not take it again.
func (h *Hub) attach(c *client, guard sync.Locker, initial func() Event) {
	guard.Lock()
	defer guard.Unlock()

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	ev := initial()
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "type", ev.Type, "err", err)
		return
	}
	c.send <- data
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Debug("websocket disconnected", "remote", c.conn.RemoteAddr())
}

// readPump discards client messages; it exists to process control frames
// and notice disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("websocket write error", "err", err)
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

var _ simulation.Presenter = (*Hub)(nil)
