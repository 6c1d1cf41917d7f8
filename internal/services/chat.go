package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// MessageStore is the persistence contract the chat service depends on
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListByCouple(ctx context.Context, coupleID string, limit, offset int) ([]*models.Message, error)
	SetReaction(ctx context.Context, messageID, userID, emoji string) error
	Delete(ctx context.Context, id string) error
}

// ChatService handles chat messages between the members of a couple
type ChatService struct {
	messages MessageStore
	hub      *WSHub
	now      func() time.Time
}

// NewChatService creates a new chat service. hub may be nil in tests.
func NewChatService(messages MessageStore, hub *WSHub) *ChatService {
	return &ChatService{
		messages: messages,
		hub:      hub,
		now:      time.Now,
	}
}

// SendMessage stores a message from a couple member and pushes it to the
// partner's websocket when online
func (s *ChatService) SendMessage(ctx context.Context, couple *models.Couple, senderID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validation("message text is required")
	}
	if err := requireMember(couple, senderID); err != nil {
		return nil, err
	}

	m := &models.Message{
		ID:        uuid.New().String(),
		CoupleID:  couple.ID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: s.now(),
	}

	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if s.hub != nil {
		partnerID := couple.User1ID
		if partnerID == senderID {
			partnerID = couple.User2ID
		}
		if partnerID != "" && s.hub.IsOnline(partnerID) {
			s.hub.NotifyMessage(partnerID, m)
		}
	}

	return m, nil
}

// ListMessages returns the couple's messages, newest first
func (s *ChatService) ListMessages(ctx context.Context, couple *models.Couple, userID string, limit, offset int) ([]*models.Message, error) {
	if err := requireMember(couple, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.messages.ListByCouple(ctx, couple.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for couple %s: %w", couple.ID, err)
	}
	return list, nil
}

// React sets or replaces the user's emoji reaction on a message belonging
// to the couple
func (s *ChatService) React(ctx context.Context, couple *models.Couple, userID, messageID, emoji string) error {
	if emoji == "" {
		return apperrors.Validation("emoji is required")
	}
	if err := requireMember(couple, userID); err != nil {
		return err
	}

	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to load message %s: %w", messageID, err)
	}
	if m.CoupleID != couple.ID {
		return apperrors.NotFound("message %s", messageID)
	}

	if err := s.messages.SetReaction(ctx, messageID, userID, emoji); err != nil {
		return fmt.Errorf("failed to react to message %s: %w", messageID, err)
	}
	return nil
}

// DeleteMessage removes a message; only the sender may delete it
func (s *ChatService) DeleteMessage(ctx context.Context, couple *models.Couple, userID, messageID string) error {
	if err := requireMember(couple, userID); err != nil {
		return err
	}

	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to load message %s: %w", messageID, err)
	}
	if m.CoupleID != couple.ID {
		return apperrors.NotFound("message %s", messageID)
	}
	if m.SenderID != userID {
		return apperrors.Validation("only the sender can delete a message")
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}
