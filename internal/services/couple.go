package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
)

const (
	inviteCodeLength = 6
	inviteCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CoupleStore is the persistence contract the couple service depends on.
// Redeem must be conditional on the couple still being pending so that of
// two concurrent redemptions of one code at most one succeeds.
type CoupleStore interface {
	Create(ctx context.Context, couple *models.Couple) error
	GetByID(ctx context.Context, id string) (*models.Couple, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Couple, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Redeem(ctx context.Context, code, userID string) (*models.Couple, error)
}

// CoupleService handles the pairing lifecycle: a couple is created pending
// with a single-use invite code, and becomes active exactly once when a
// second user redeems the code. There is no transition out of active.
type CoupleService struct {
	couples CoupleStore
	users   UserStore
	now     func() time.Time
}

// NewCoupleService creates a new couple service
func NewCoupleService(couples CoupleStore, users UserStore) *CoupleService {
	return &CoupleService{
		couples: couples,
		users:   users,
		now:     time.Now,
	}
}

// CreateCouple creates a pending couple with the initiating user as first
// member and a fresh invite code, and binds the couple onto the user record
func (s *CoupleService) CreateCouple(ctx context.Context, userID string, relationshipStart, anniversaryDate time.Time) (*models.Couple, error) {
	if relationshipStart.IsZero() {
		return nil, apperrors.Validation("relationship start date is required")
	}
	if anniversaryDate.IsZero() {
		anniversaryDate = relationshipStart
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user.CoupleID != "" {
		return nil, apperrors.Conflict("user %s is already in a couple", userID)
	}

	code, err := s.generateInviteCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	now := s.now()
	couple := &models.Couple{
		ID:                uuid.New().String(),
		User1ID:           userID,
		RelationshipStart: relationshipStart,
		AnniversaryDate:   anniversaryDate,
		Status:            models.CoupleStatusPending,
		InviteCode:        code,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.couples.Create(ctx, couple); err != nil {
		return nil, fmt.Errorf("failed to create couple: %w", err)
	}

	if err := s.users.BindCouple(ctx, userID, couple.ID); err != nil {
		return nil, fmt.Errorf("failed to bind couple to user %s: %w", userID, err)
	}

	return couple, nil
}

// JoinCouple redeems an invite code, binding the joining user as second
// member and activating the couple. The status flip, the joining user's
// back-reference and the first member's back-reference commit atomically.
func (s *CoupleService) JoinCouple(ctx context.Context, userID, inviteCode string) (*models.Couple, error) {
	if len(inviteCode) != inviteCodeLength {
		return nil, apperrors.Validation("invite code must be %d characters", inviteCodeLength)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user.CoupleID != "" {
		return nil, apperrors.Conflict("user %s is already in a couple", userID)
	}

	couple, err := s.couples.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("invalid or expired invite code")
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if couple.User1ID == userID {
		return nil, apperrors.Validation("cannot join your own couple")
	}
	if couple.Status != models.CoupleStatusPending {
		return nil, apperrors.Conflict("invite code already redeemed")
	}

	// The redeem itself re-checks the pending status; a concurrent
	// redemption that slipped past the read above still loses here.
	joined, err := s.couples.Redeem(ctx, inviteCode, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to join couple: %w", err)
	}

	return joined, nil
}

// GetCoupleForUser resolves a user's bound couple. Returns nil without
// error when the user has none.
func (s *CoupleService) GetCoupleForUser(ctx context.Context, userID string) (*models.Couple, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user.CoupleID == "" {
		return nil, nil
	}

	couple, err := s.couples.GetByID(ctx, user.CoupleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load couple %s: %w", user.CoupleID, err)
	}
	return couple, nil
}

// GetPartner returns the record of the couple member that is not selfID.
// Returns nil without error while the couple is still pending.
func (s *CoupleService) GetPartner(ctx context.Context, couple *models.Couple, selfID string) (*models.User, error) {
	var partnerID string
	switch selfID {
	case couple.User1ID:
		partnerID = couple.User2ID
	case couple.User2ID:
		partnerID = couple.User1ID
	default:
		return nil, apperrors.Validation("user %s is not a member of couple %s", selfID, couple.ID)
	}

	if partnerID == "" {
		return nil, nil
	}

	partner, err := s.users.GetByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load partner %s: %w", partnerID, err)
	}
	return partner, nil
}

// generateInviteCode draws short random codes until one is free among the
// currently pending couples
func (s *CoupleService) generateInviteCode(ctx context.Context) (string, error) {
	maxAttempts := 10
	for i := 0; i < maxAttempts; i++ {
		code := randomInviteCode()
		exists, err := s.couples.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code existence: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique code after %d attempts", maxAttempts)
}

// randomInviteCode generates a random 6-character code
func randomInviteCode() string {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		code[i] = inviteCodeChars[n.Int64()]
	}
	return string(code)
}
