package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/middleware"
	"couple-space-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub           *services.WSHub
	userService   *services.UserService
	coupleService *services.CoupleService
	chatService   *services.ChatService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	userService *services.UserService,
	coupleService *services.CoupleService,
	chatService *services.ChatService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		userService:   userService,
		coupleService: coupleService,
		chatService:   chatService,
	}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ValidateWebSocketToken(r.URL.Query().Get("token"), h.userService)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(userID, conn)
	defer func() {
		h.hub.Unregister(userID)
		h.notifyPartner(userID, false)
	}()

	ctx := r.Context()

	// Greet the client with its couple status and tell the partner we are
	// online.
	couple, err := h.coupleService.GetCoupleForUser(ctx, userID)
	status := services.WSMessage{
		Type: "couple_status",
		Data: map[string]interface{}{"has_couple": false},
	}
	if err == nil && couple != nil {
		status.Data = map[string]interface{}{
			"has_couple": true,
			"couple_id":  couple.ID,
			"status":     couple.Status,
		}
		if partner, err := h.coupleService.GetPartner(ctx, couple, userID); err == nil && partner != nil {
			h.hub.NotifyPartnerStatus(partner.ID, true)
		}
	}
	if err := h.hub.SendToUser(userID, status); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send couple status")
	}

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to parse WebSocket message")
			h.sendError(conn, "Invalid message format")
			continue
		}

		if err := h.handleMessage(r, userID, msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to handle message")
			h.sendError(conn, err.Error())
		}
	}
}

// handleMessage processes incoming WebSocket messages
func (h *WebSocketHandler) handleMessage(r *http.Request, userID string, msg services.WSMessage) error {
	switch msg.Type {
	case "chat_message":
		return h.handleChatMessage(r, userID, msg)
	case "ping":
		return h.hub.SendToUser(userID, services.WSMessage{Type: "pong"})
	default:
		return h.hub.SendToUser(userID, services.WSMessage{
			Type:    "error",
			Message: "Unknown message type",
		})
	}
}

// handleChatMessage stores a chat message sent over the socket; delivery to
// the partner happens inside the chat service
func (h *WebSocketHandler) handleChatMessage(r *http.Request, userID string, msg services.WSMessage) error {
	text, _ := msg.Data.(string)
	if text == "" {
		return h.hub.SendToUser(userID, services.WSMessage{
			Type:    "error",
			Message: "message text is required",
		})
	}

	ctx := r.Context()
	couple, err := h.coupleService.GetCoupleForUser(ctx, userID)
	if err != nil || couple == nil {
		return h.hub.SendToUser(userID, services.WSMessage{
			Type:    "error",
			Message: "you are not in a couple",
		})
	}

	_, err = h.chatService.SendMessage(ctx, couple, userID, text)
	return err
}

// notifyPartner reports this user's connection state to their partner.
// Uses a fresh context: the request context is already cancelled by the
// time the deferred offline notification runs.
func (h *WebSocketHandler) notifyPartner(userID string, online bool) {
	ctx := context.Background()
	couple, err := h.coupleService.GetCoupleForUser(ctx, userID)
	if err != nil || couple == nil {
		return
	}
	partner, err := h.coupleService.GetPartner(ctx, couple, userID)
	if err != nil || partner == nil {
		return
	}
	h.hub.NotifyPartnerStatus(partner.ID, online)
}

// sendError sends an error message to the WebSocket connection
func (h *WebSocketHandler) sendError(conn *websocket.Conn, message string) {
	msg := services.WSMessage{
		Type:    "error",
		Message: message,
	}
	data, _ := json.Marshal(msg)
	conn.WriteMessage(websocket.TextMessage, data)
}
