package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/services"
)

// WishlistHandler handles wishlist-related HTTP requests
type WishlistHandler struct {
	coupleResolver
	wishlistService *services.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(coupleService *services.CoupleService, wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		coupleResolver:  coupleResolver{coupleService: coupleService},
		wishlistService: wishlistService,
	}
}

// Add handles POST /api/v1/wishlist
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var in services.WishItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.wishlistService.AddItem(r.Context(), couple, userID, in)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to add wish item")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	list, err := h.wishlistService.ListItems(r.Context(), couple, userID)
	if err != nil {
		log.Error().Err(err).Str("couple_id", couple.ID).Msg("Failed to list wish items")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// Toggle handles POST /api/v1/wishlist/{id}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	item, err := h.wishlistService.ToggleDone(r.Context(), couple, userID, id)
	if err != nil {
		log.Error().Err(err).Str("item_id", id).Msg("Failed to toggle wish item")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/wishlist/{id}
func (h *WishlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.wishlistService.DeleteItem(r.Context(), couple, userID, id); err != nil {
		log.Error().Err(err).Str("item_id", id).Msg("Failed to delete wish item")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
