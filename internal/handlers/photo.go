package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"couple-space-backend/internal/services"
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	coupleResolver
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(coupleService *services.CoupleService, photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		coupleResolver: coupleResolver{coupleService: coupleService},
		photoService:   photoService,
	}
}

// UploadRequest represents the request body for requesting an upload URL
type UploadRequest struct {
	ContentType string `json:"content_type"`
}

// Upload handles POST /api/v1/photos/upload
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	resp, err := h.photoService.GetPreSignedURL(r.Context(), couple, userID, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create upload URL")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ConfirmRequest represents the request body for confirming an upload
type ConfirmRequest struct {
	PhotoID string `json:"photo_id"`
	S3URL   string `json:"s3_url"`
	Caption string `json:"caption"`
}

// Confirm handles POST /api/v1/photos/confirm
func (h *PhotoHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PhotoID == "" {
		respondError(w, "photo_id is required", http.StatusBadRequest)
		return
	}

	if err := h.photoService.ConfirmUpload(r.Context(), couple, userID, req.PhotoID, req.S3URL, req.Caption); err != nil {
		log.Error().Err(err).Str("photo_id", req.PhotoID).Msg("Failed to confirm upload")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", req.PhotoID).
		Msg("Photo uploaded")

	w.WriteHeader(http.StatusNoContent)
}

// PhotoListResponse represents a page of photos
type PhotoListResponse struct {
	Photos interface{} `json:"photos"`
	Total  int         `json:"total"`
}

// List handles GET /api/v1/photos
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	photos, total, err := h.photoService.GetPhotosByCouple(r.Context(), couple, userID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("couple_id", couple.ID).Msg("Failed to list photos")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, PhotoListResponse{Photos: photos, Total: total})
}

// Delete handles DELETE /api/v1/photos/{id}
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, couple, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.photoService.DeletePhoto(r.Context(), couple, userID, id); err != nil {
		log.Error().Err(err).Str("photo_id", id).Msg("Failed to delete photo")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", id).
		Msg("Photo deleted")

	w.WriteHeader(http.StatusNoContent)
}
