package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/cantina/utils"
)

// DefaultWriteWait membatasi berapa lama satu client boleh menahan broadcast.
const DefaultWriteWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client websocket staff dan menyiarkan perubahan ledger.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex

	WriteWait time.Duration
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]string),
		WriteWait: DefaultWriteWait,
	}
}

// Register -> menambahkan connection dengan role
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// Unregister -> melepaskan connection
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

// Publish sends the event to every connected client. Clients that fail a write,
// or do not accept it within WriteWait, are dropped.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.Debugf("Broadcasting %s to %d clients", event, len(h.clients))
	for conn, role := range h.clients {
		// client yang macet di-drop setelah WriteWait supaya request ledger tidak ikut tertahan
		conn.SetWriteDeadline(time.Now().Add(h.WriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to %s client: %v", event, role, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
