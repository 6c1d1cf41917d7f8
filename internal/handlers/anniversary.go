package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/services"
)

// AnniversaryHandler handles anniversary-related HTTP requests
type AnniversaryHandler struct {
	coupleResolver
	anniversaryService *services.AnniversaryService
}

// NewAnniversaryHandler creates a new anniversary handler
func NewAnniversaryHandler(coupleService *services.CoupleService, anniversaryService *services.AnniversaryService) *AnniversaryHandler {
	return &AnniversaryHandler{
		coupleResolver:     coupleResolver{coupleService: coupleService},
		anniversaryService: anniversaryService,
	}
}

// Create handles POST /api/v1/anniversaries
func (h *AnniversaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var in services.AnniversaryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.anniversaryService.Create(r.Context(), couple, userID, in)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create anniversary")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("anniversary_id", a.ID).
		Msg("Anniversary created")

	respondJSON(w, http.StatusOK, a)
}

// List handles GET /api/v1/anniversaries
func (h *AnniversaryHandler) List(w http.ResponseWriter, r *http.Request) {
	_, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	list, err := h.anniversaryService.List(r.Context(), couple)
	if err != nil {
		log.Error().Err(err).Str("couple_id", couple.ID).Msg("Failed to list anniversaries")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// Get handles GET /api/v1/anniversaries/{id}
func (h *AnniversaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	a, err := h.anniversaryService.Get(r.Context(), couple, id)
	if err != nil {
		log.Error().Err(err).Str("anniversary_id", id).Msg("Failed to load anniversary")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// Today handles GET /api/v1/anniversaries/today
func (h *AnniversaryHandler) Today(w http.ResponseWriter, r *http.Request) {
	_, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	today, err := h.anniversaryService.GetTodayAnniversaries(r.Context(), couple)
	if err != nil {
		log.Error().Err(err).Str("couple_id", couple.ID).Msg("Failed to compute today's anniversaries")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, today)
}

// Upcoming handles GET /api/v1/anniversaries/upcoming
func (h *AnniversaryHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	_, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	upcoming, err := h.anniversaryService.GetUpcoming(r.Context(), couple, limit)
	if err != nil {
		log.Error().Err(err).Str("couple_id", couple.ID).Msg("Failed to compute upcoming anniversaries")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, upcoming)
}

// Update handles PATCH /api/v1/anniversaries/{id}
func (h *AnniversaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var in services.AnniversaryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.anniversaryService.Update(r.Context(), couple, userID, id, in)
	if err != nil {
		log.Error().Err(err).Str("anniversary_id", id).Msg("Failed to update anniversary")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// Delete handles DELETE /api/v1/anniversaries/{id}
func (h *AnniversaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.anniversaryService.Delete(r.Context(), couple, userID, id); err != nil {
		log.Error().Err(err).Str("anniversary_id", id).Msg("Failed to delete anniversary")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("anniversary_id", id).
		Msg("Anniversary deleted")

	w.WriteHeader(http.StatusNoContent)
}
