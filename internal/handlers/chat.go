package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/services"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	coupleResolver
	chatService *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(coupleService *services.CoupleService, chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		coupleResolver: coupleResolver{coupleService: coupleService},
		chatService:    chatService,
	}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Text string `json:"text"`
}

// Send handles POST /api/v1/messages
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	m, err := h.chatService.SendMessage(r.Context(), couple, userID, req.Text)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send message")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

// List handles GET /api/v1/messages
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.chatService.ListMessages(r.Context(), couple, userID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("couple_id", couple.ID).Msg("Failed to list messages")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// ReactRequest represents the request body for reacting to a message
type ReactRequest struct {
	Emoji string `json:"emoji"`
}

// React handles POST /api/v1/messages/{id}/reactions
func (h *ChatHandler) React(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.chatService.React(r.Context(), couple, userID, id, req.Emoji); err != nil {
		log.Error().Err(err).Str("message_id", id).Msg("Failed to react to message")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/messages/{id}
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.chatService.DeleteMessage(r.Context(), couple, userID, id); err != nil {
		log.Error().Err(err).Str("message_id", id).Msg("Failed to delete message")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
