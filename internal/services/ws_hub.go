package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/models"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Online  *bool       `json:"online,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections, one per user
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a new WebSocket connection for a user, replacing any
// existing one
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a WebSocket connection for a user
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// NotifyPartnerStatus notifies partner about online/offline status
func (h *WSHub) NotifyPartnerStatus(partnerID string, online bool) {
	if partnerID == "" {
		return
	}

	message := WSMessage{
		Type:   "partner_status",
		Online: &online,
	}

	if err := h.SendToUser(partnerID, message); err != nil {
		log.Debug().
			Err(err).
			Str("user_id", partnerID).
			Msg("Failed to notify partner status")
	}
}

// NotifyMessage pushes a freshly sent chat message to a user
func (h *WSHub) NotifyMessage(userID string, m *models.Message) {
	message := WSMessage{
		Type: "chat_message",
		Data: m,
	}
	if err := h.SendToUser(userID, message); err != nil {
		log.Debug().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to deliver chat message over websocket")
	}
}

// NotifyCoupleJoined tells the first member that their invite code was
// redeemed and the couple is now active
func (h *WSHub) NotifyCoupleJoined(userID string, couple *models.Couple) {
	message := WSMessage{
		Type: "couple_joined",
		Data: map[string]interface{}{
			"couple_id": couple.ID,
			"user1_id":  couple.User1ID,
			"user2_id":  couple.User2ID,
			"status":    couple.Status,
		},
	}
	if err := h.SendToUser(userID, message); err != nil {
		log.Debug().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to notify couple joined")
	}
}
