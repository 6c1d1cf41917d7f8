package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/middleware"
	"couple-space-backend/internal/models"
	"couple-space-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondServiceError maps an error kind to its HTTP status and sends it
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, err.Error(), apperrors.HTTPStatus(err))
}

// coupleResolver loads the acting user's couple for handlers that operate
// on couple-owned resources
type coupleResolver struct {
	coupleService *services.CoupleService
}

// resolve returns the caller's user ID and couple, or writes the error
// response and reports false.
func (c coupleResolver) resolve(w http.ResponseWriter, r *http.Request) (string, *models.Couple, bool) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := c.coupleService.GetCoupleForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load couple")
		respondServiceError(w, err)
		return "", nil, false
	}
	if couple == nil {
		respondError(w, "user has no couple", http.StatusForbidden)
		return "", nil, false
	}
	return userID, couple, true
}
