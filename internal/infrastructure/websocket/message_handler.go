package websocket

import (
	"encoding/json"
	"time"

	"valomarket/pkg/logger"
)

// WebSocket Message Types
const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeChatMessage = "chat_message"
	MessageTypeError       = "error"
)

// WebSocket Message Structure
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// Encode wraps data in the event envelope.
func Encode(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleClientMessage processes incoming WebSocket messages. Chat messages are
// sent over HTTP, so the socket only answers keepalives.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage
	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.sendToClient(client, MessageTypePong, map[string]string{"status": "alive"})
	default:
		m.sendErrorToClient(client, "Unknown message type")
	}
}

// NotifyUser pushes an event to every connection of userID.
func (m *Manager) NotifyUser(userID, eventType string, data interface{}) {
	payload, err := Encode(eventType, data)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s event: %v", eventType, err)
		return
	}
	m.SendToUser(userID, payload)
}

// NotifyAdmins pushes an event to every admin connection.
func (m *Manager) NotifyAdmins(eventType string, data interface{}) {
	payload, err := Encode(eventType, data)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s event: %v", eventType, err)
		return
	}
	m.SendToAdmins(payload)
}

func (m *Manager) sendToClient(client *Client, eventType string, data interface{}) {
	payload, err := Encode(eventType, data)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s event: %v", eventType, err)
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if _, ok := m.clients[client.UserID][client]; ok {
		m.enqueue(client, payload)
	}
}

func (m *Manager) sendErrorToClient(client *Client, message string) {
	m.sendToClient(client, MessageTypeError, ErrorData{Message: message})
}
