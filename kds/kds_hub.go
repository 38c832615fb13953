package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/ronda-app/utils"
)

// Event types
const (
	EventOrderCreated        = "order_created"
	EventOrderUpdated        = "order_updated"
	EventTableUpdated        = "table_updated"
	EventTableCreated        = "table_created"
	EventTableDeleted        = "table_deleted"
	EventRondaOpened         = "ronda_opened"
	EventRondaClosed         = "ronda_closed"
	EventPaymentCreated      = "payment_created"
	EventTableGroupCreated   = "table_group_created"
	EventTableGroupDissolved = "table_group_dissolved"
	EventReservationCreated  = "reservation_created"
	EventReservationUpdated  = "reservation_updated"
	EventReservationDeleted  = "reservation_deleted"
	EventFloorSnapshot       = "floor_snapshot"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const writeWait = 5 * time.Second

// Hub keeps the connected floor and kitchen screens, keyed by connection, with
// the role of the user that opened each one.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

var defaultHub = NewHub()

// Default is the process-wide hub used by the websocket handler.
func Default() *Hub { return defaultHub }

func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client. Clients that fail to receive it are dropped.
func (h *Hub) Broadcast(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.Debugf("broadcasting %s to %d clients", msg.Event, len(h.clients))

	for conn, role := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("dropping %s client: %v", role, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	return nil
}

// RegisterClient adds conn to the default hub.
func RegisterClient(conn *websocket.Conn, role string) {
	defaultHub.Register(conn, role)
}

// UnregisterClient removes conn from the default hub and closes it.
func UnregisterClient(conn *websocket.Conn) {
	defaultHub.Unregister(conn)
}

// BroadcastMessage sends msg through the default hub.
func BroadcastMessage(msg Message) {
	if err := defaultHub.Broadcast(msg); err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
	}
}
