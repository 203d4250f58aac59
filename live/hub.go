package live

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/utils"
)

// Event types pushed to connected admin panels
const (
	EventOrderCreated = "order_created"
	EventOrderStatus  = "order_status"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected admin client of the live order feed.
type Hub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]bool),
}

// RegisterClient adds a connection to the feed
func RegisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = true
}

// UnregisterClient drops a connection and closes it
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreated pushes a freshly captured order to all clients
func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{
		Event: EventOrderCreated,
		Data:  order,
	})
}

// BroadcastOrderStatus pushes a status change to all clients
func BroadcastOrderStatus(order models.Order) {
	broadcast(Message{
		Event: EventOrderStatus,
		Data: map[string]interface{}{
			"order_id": order.ID,
			"status":   order.Status,
		},
	})
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("live feed marshal error: %v", err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// client went away, drop it
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
