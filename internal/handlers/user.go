package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/middleware"
	"couple-space-backend/internal/services"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if r.Body != nil {
		// The body is optional; an anonymous user needs no display name.
		json.NewDecoder(r.Body).Decode(&req)
	}

	user, err := h.userService.CreateUser(ctx, req.DisplayName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		respondError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Msg("User created")

	respondJSON(w, http.StatusOK, user)
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load user")
		respondServiceError(w, err)
		return
	}

	user.Token = ""
	respondJSON(w, http.StatusOK, user)
}

// UpdateSettingsRequest represents the request body for updating settings
type UpdateSettingsRequest struct {
	DisplayName *string `json:"display_name"`
	PushToken   *string `json:"push_token"`
}

// UpdateMe handles PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateSettings(ctx, userID, req.DisplayName, req.PushToken)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update settings")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Settings updated")

	user.Token = ""
	respondJSON(w, http.StatusOK, user)
}
