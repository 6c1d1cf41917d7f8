package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
)

// WishItemStore is the persistence contract the wishlist service depends on
type WishItemStore interface {
	Create(ctx context.Context, w *models.WishItem) error
	GetByID(ctx context.Context, id string) (*models.WishItem, error)
	ListByCouple(ctx context.Context, coupleID string) ([]*models.WishItem, error)
	SetDone(ctx context.Context, id string, done bool, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// WishItemInput carries the caller-editable fields of a wishlist item
type WishItemInput struct {
	Title string `json:"title"`
	Note  string `json:"note"`
	URL   string `json:"url"`
	Price string `json:"price"`
}

// WishlistService handles a couple's shared wishlist
type WishlistService struct {
	items WishItemStore
	now   func() time.Time
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(items WishItemStore) *WishlistService {
	return &WishlistService{
		items: items,
		now:   time.Now,
	}
}

// AddItem creates a wishlist item for the couple
func (s *WishlistService) AddItem(ctx context.Context, couple *models.Couple, userID string, in WishItemInput) (*models.WishItem, error) {
	if in.Title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if err := requireMember(couple, userID); err != nil {
		return nil, err
	}

	now := s.now()
	w := &models.WishItem{
		ID:        uuid.New().String(),
		CoupleID:  couple.ID,
		Title:     in.Title,
		Note:      in.Note,
		URL:       in.URL,
		Price:     in.Price,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.items.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to add wish item: %w", err)
	}
	return w, nil
}

// ListItems returns the couple's wishlist, newest first
func (s *WishlistService) ListItems(ctx context.Context, couple *models.Couple, userID string) ([]*models.WishItem, error) {
	if err := requireMember(couple, userID); err != nil {
		return nil, err
	}
	list, err := s.items.ListByCouple(ctx, couple.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wish items for couple %s: %w", couple.ID, err)
	}
	return list, nil
}

// ToggleDone flips the done flag of an item; either member may toggle
func (s *WishlistService) ToggleDone(ctx context.Context, couple *models.Couple, userID, itemID string) (*models.WishItem, error) {
	if err := requireMember(couple, userID); err != nil {
		return nil, err
	}

	w, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wish item %s: %w", itemID, err)
	}
	if w.CoupleID != couple.ID {
		return nil, apperrors.NotFound("wish item %s", itemID)
	}

	w.Done = !w.Done
	w.UpdatedAt = s.now()
	if err := s.items.SetDone(ctx, itemID, w.Done, w.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to toggle wish item %s: %w", itemID, err)
	}
	return w, nil
}

// DeleteItem removes an item; only its creator may delete it
func (s *WishlistService) DeleteItem(ctx context.Context, couple *models.Couple, userID, itemID string) error {
	if err := requireMember(couple, userID); err != nil {
		return err
	}

	w, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to load wish item %s: %w", itemID, err)
	}
	if w.CoupleID != couple.ID {
		return apperrors.NotFound("wish item %s", itemID)
	}
	if w.CreatedBy != userID {
		return apperrors.Validation("only the creator can delete a wish item")
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete wish item %s: %w", itemID, err)
	}
	return nil
}
