package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"valomarket/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client represents a WebSocket connection client
type Client struct {
	UserID  string
	IsAdmin bool
	Conn    *websocket.Conn
	Send    chan []byte
}

func NewClient(userID string, isAdmin bool, conn *websocket.Conn) *Client {
	return &Client{
		UserID:  userID,
		IsAdmin: isAdmin,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
	}
}

// Manager tracks every open connection. A user may hold several at once.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.add(client)
				logger.Debug("WebSocket client registered: %s (admin=%t)", client.UserID, client.IsAdmin)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("WebSocket client unregistered: %s", client.UserID)

			case <-ctx.Done():
				m.closeAll()
				return
			}
		}
	}()
}

func (m *Manager) add(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set, ok := m.clients[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		m.clients[client.UserID] = set
	}
	set[client] = struct{}{}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(m.clients, client.UserID)
	}
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for userID, set := range m.clients {
		for client := range set {
			close(client.Send)
		}
		delete(m.clients, userID)
	}
}

// SendToUser queues message on every connection of userID. Slow clients drop the message.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for client := range m.clients[userID] {
		m.enqueue(client, message)
	}
}

// SendToAdmins queues message on every admin connection.
func (m *Manager) SendToAdmins(message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, set := range m.clients {
		for client := range set {
			if client.IsAdmin {
				m.enqueue(client, message)
			}
		}
	}
}

func (m *Manager) enqueue(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		logger.Warn("WebSocket send buffer full for %s, dropping message", client.UserID)
	}
}

// Connections reports how many connections userID has open.
func (m *Manager) Connections(userID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID])
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write error for %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
