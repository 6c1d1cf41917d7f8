package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/middleware"
	"couple-space-backend/internal/models"
	"couple-space-backend/internal/services"
)

// CoupleHandler handles couple-related HTTP requests
type CoupleHandler struct {
	coupleService *services.CoupleService
	wsHub         *services.WSHub
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(coupleService *services.CoupleService, wsHub *services.WSHub) *CoupleHandler {
	return &CoupleHandler{
		coupleService: coupleService,
		wsHub:         wsHub,
	}
}

// CreateCoupleRequest represents the request body for creating a couple
type CreateCoupleRequest struct {
	RelationshipStart time.Time `json:"relationship_start"`
	AnniversaryDate   time.Time `json:"anniversary_date"`
}

// CreateCouple handles POST /api/v1/couples
func (h *CoupleHandler) CreateCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateCoupleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	couple, err := h.coupleService.CreateCouple(ctx, userID, req.RelationshipStart, req.AnniversaryDate)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to create couple")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Msg("Couple created")

	respondJSON(w, http.StatusOK, couple)
}

// JoinCoupleRequest represents the request body for joining a couple
type JoinCoupleRequest struct {
	InviteCode string `json:"invite_code"`
}

// JoinCouple handles POST /api/v1/couples/join
func (h *CoupleHandler) JoinCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req JoinCoupleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.InviteCode == "" {
		respondError(w, "invite_code is required", http.StatusBadRequest)
		return
	}

	couple, err := h.coupleService.JoinCouple(ctx, userID, req.InviteCode)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to join couple")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Msg("Couple joined")

	// Tell the first member their invite code was redeemed, if online.
	if h.wsHub.IsOnline(couple.User1ID) {
		h.wsHub.NotifyCoupleJoined(couple.User1ID, couple)
	}

	respondJSON(w, http.StatusOK, couple)
}

// GetMyCouple handles GET /api/v1/couples/me
func (h *CoupleHandler) GetMyCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.coupleService.GetCoupleForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load couple")
		respondServiceError(w, err)
		return
	}
	if couple == nil {
		respondError(w, "user has no couple", http.StatusNotFound)
		return
	}

	// Only the first member needs to see the outstanding invite code.
	if couple.Status == models.CoupleStatusActive || userID != couple.User1ID {
		couple.InviteCode = ""
	}

	respondJSON(w, http.StatusOK, couple)
}

// GetPartner handles GET /api/v1/couples/partner
func (h *CoupleHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.coupleService.GetCoupleForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load couple")
		respondServiceError(w, err)
		return
	}
	if couple == nil {
		respondError(w, "user has no couple", http.StatusNotFound)
		return
	}

	partner, err := h.coupleService.GetPartner(ctx, couple, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load partner")
		respondServiceError(w, err)
		return
	}
	if partner == nil {
		respondError(w, "couple has no second member yet", http.StatusNotFound)
		return
	}

	partner.Token = ""
	respondJSON(w, http.StatusOK, partner)
}
