package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Role string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			// Write lock: slow clients get dropped from the map mid-loop
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastToUser sends a message to a specific user. Takes the write
// lock because slow clients are removed in place.
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToRole sends a message to all users with a specific role.
// Same locking rule as BroadcastToUser.
func (h *Hub) BroadcastToRole(role string, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.Role == role {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToAll sends a message to all connected clients
func (h *Hub) BroadcastToAll(message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BusLocationUpdate represents a bus location update
type BusLocationUpdate struct {
	BusID    uint   `json:"busId"`
	Location string `json:"location"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// DriverLocationUpdate represents a driver location update
type DriverLocationUpdate struct {
	DriverID uint `json:"driverId"`
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// SeatAssigned represents a seat assignment notification
type SeatAssigned struct {
	UserID     uint   `json:"userId"`
	BusNumber  int    `json:"busNumber"`
	SeatNumber int    `json:"seatNumber"`
	Route      string `json:"route"`
}

// BusStatusChanged announces a bus status transition
type BusStatusChanged struct {
	BusID     uint   `json:"busId"`
	BusNumber int    `json:"busNumber"`
	Status    string `json:"status"`
}

// EmergencyRaised represents an emergency alert notification
type EmergencyRaised struct {
	AlertID  uint   `json:"alertId"`
	BusID    uint   `json:"busId"`
	DriverID uint   `json:"driverId"`
	Message  string `json:"message"`
}

// NotificationPush carries a persisted notification to a connected client
type NotificationPush struct {
	NotificationID uint   `json:"notificationId"`
	Message        string `json:"message"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling WebSocket message: %v", err)
			continue
		}

		switch wsMessage.Type {
		case "ping":
			pong, _ := json.Marshal(WebSocketMessage{Type: "pong"})
			c.Send <- pong
		case "driver_location":
			c.handleDriverLocation(wsMessage.Data)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// handleDriverLocation processes inbound driver location frames and rebroadcasts them
func (c *Client) handleDriverLocation(data interface{}) {
	if c.Role != "DRIVER" {
		log.Printf("Ignoring driver_location from non-driver client %d", c.ID)
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return
	}

	var loc struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := json.Unmarshal(raw, &loc); err != nil {
		log.Printf("Invalid driver_location payload from client %d: %v", c.ID, err)
		return
	}

	update := DriverLocationUpdate{DriverID: c.ID}
	update.Location.Lat = loc.Lat
	update.Location.Lng = loc.Lng
	c.Hub.SendDriverLocationUpdate(update)
}

// SendBusLocationUpdate broadcasts a bus location update to all clients
func (hub *Hub) SendBusLocationUpdate(update BusLocationUpdate) {
	message := WebSocketMessage{
		Type: "bus_location_update",
		Data: update,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling bus location update: %v", err)
		return
	}

	hub.BroadcastToAll(data)
}

// SendDriverLocationUpdate broadcasts a driver location update to all clients
func (hub *Hub) SendDriverLocationUpdate(update DriverLocationUpdate) {
	message := WebSocketMessage{
		Type: "driver_location_update",
		Data: update,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling driver location update: %v", err)
		return
	}

	hub.BroadcastToAll(data)
}

// SendBusStatusChanged broadcasts a bus status transition to all clients
func (hub *Hub) SendBusStatusChanged(change BusStatusChanged) {
	message := WebSocketMessage{
		Type: "bus_status_changed",
		Data: change,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling bus status change: %v", err)
		return
	}

	hub.BroadcastToAll(data)
}

// SendSeatAssigned sends a seat assignment notification to the assigned user
func (hub *Hub) SendSeatAssigned(assigned SeatAssigned) {
	message := WebSocketMessage{
		Type: "seat_assigned",
		Data: assigned,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling seat assigned: %v", err)
		return
	}

	hub.BroadcastToUser(assigned.UserID, data)
}

// SendEmergencyRaised sends an emergency alert to all admins
func (hub *Hub) SendEmergencyRaised(alert EmergencyRaised) {
	message := WebSocketMessage{
		Type: "emergency_alert",
		Data: alert,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling emergency alert: %v", err)
		return
	}

	hub.BroadcastToRole("ADMIN", data)
}

// SendNotification pushes a persisted notification to a specific user
func (hub *Hub) SendNotification(userID uint, push NotificationPush) {
	message := WebSocketMessage{
		Type: "notification",
		Data: push,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling notification: %v", err)
		return
	}

	hub.BroadcastToUser(userID, data)
}
