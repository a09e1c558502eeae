// Package sync pushes meal plan changes to a user's open clients so a
// plan edited in one tab shows up in the others without a refresh.
package sync

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one plan change notification
type Event struct {
	Type   string `json:"type"` // plan_created, plan_updated, plan_deleted
	PlanID int    `json:"plan_id"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	userID int
	conn   *websocket.Conn
}

// Hub fans plan events out to every connection a user has open
type Hub struct {
	clientsMux sync.Mutex
	clients    map[*client]bool
	broadcast  chan userEvent
}

type userEvent struct {
	userID int
	event  Event
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*client]bool),
		broadcast: make(chan userEvent, 16),
	}
}

// Run drains the broadcast channel. Call once from a goroutine.
func (h *Hub) Run() {
	for ue := range h.broadcast {
		h.clientsMux.Lock()
		for c := range h.clients {
			if c.userID != ue.userID {
				continue
			}
			if err := c.conn.WriteJSON(ue.event); err != nil {
				c.conn.Close()
				delete(h.clients, c)
			}
		}
		h.clientsMux.Unlock()
	}
}

// Notify queues an event for all of a user's connections. Drops the
// event when the channel is full rather than blocking the request.
func (h *Hub) Notify(userID int, event Event) {
	select {
	case h.broadcast <- userEvent{userID: userID, event: event}:
	default:
	}
}

// HandleWebSocket upgrades the request and parks the connection until
// the client goes away. The caller supplies the authenticated user id.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request, userID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	c := &client{userID: userID, conn: conn}
	h.clientsMux.Lock()
	h.clients[c] = true
	h.clientsMux.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.clientsMux.Lock()
			delete(h.clients, c)
			h.clientsMux.Unlock()
			break
		}
	}
}
