package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-dashboard/services"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	user string
	send chan []byte
}

// Hub holds the websocket clients of the dashboard view and fans out
// notifications to all of them. Each client has its own writer, so a stalled
// browser never holds up the command that notified.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// RegisterClient -> adds a connection and starts its writer
func (h *Hub) RegisterClient(conn *websocket.Conn, user string) {
	cl := &client{conn: conn, user: user, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = cl
	h.mutex.Unlock()

	go h.writePump(cl)
}

// UnregisterClient -> drops and closes a connection
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if cl, ok := h.clients[conn]; ok {
		h.drop(cl)
	}
}

// drop must be called with the mutex held.
func (h *Hub) drop(cl *client) {
	delete(h.clients, cl.conn)
	close(cl.send)
	cl.conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Notify implements services.Notifier.
func (h *Hub) Notify(n services.Notification) {
	h.Broadcast(Message{Event: n.Event, Data: n})
}

// Broadcast -> queues msg for every client. A client whose queue is full is
// too slow to keep up and is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			utils.ErrorLogger.Errorf("Dropping %s: %s not delivered, client too slow", cl.user, msg.Event)
			h.drop(cl)
		}
	}
}

func (h *Hub) writePump(cl *client) {
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error sending to %s: %v", cl.user, err)
			h.UnregisterClient(cl.conn)
			return
		}
	}
}
