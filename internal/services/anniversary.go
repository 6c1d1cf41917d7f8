package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
	"couple-space-backend/internal/recurrence"
)

// AnniversaryStore is the persistence contract the anniversary service
// depends on
type AnniversaryStore interface {
	Create(ctx context.Context, a *models.Anniversary) error
	GetByID(ctx context.Context, id string) (*models.Anniversary, error)
	ListByCouple(ctx context.Context, coupleID string) ([]*models.Anniversary, error)
	Update(ctx context.Context, a *models.Anniversary) error
	Delete(ctx context.Context, id string) error
}

// AnniversaryInput carries the caller-editable fields of an anniversary
type AnniversaryInput struct {
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Recurring    bool      `json:"recurring"`
	ReminderDays int       `json:"reminder_days"`
}

// AnniversaryService handles anniversary CRUD and the derived today /
// upcoming views
type AnniversaryService struct {
	anniversaries AnniversaryStore
	now           func() time.Time
}

// NewAnniversaryService creates a new anniversary service
func NewAnniversaryService(anniversaries AnniversaryStore) *AnniversaryService {
	return &AnniversaryService{
		anniversaries: anniversaries,
		now:           time.Now,
	}
}

func validateInput(in AnniversaryInput) error {
	if in.Title == "" {
		return apperrors.Validation("title is required")
	}
	if in.Date.IsZero() {
		return apperrors.Validation("date is required")
	}
	if in.Type != "" && !models.ValidAnniversaryType(in.Type) {
		return apperrors.Validation("unknown anniversary type %q", in.Type)
	}
	if in.ReminderDays < 0 {
		return apperrors.Validation("reminder days cannot be negative")
	}
	return nil
}

// Create creates an anniversary for the couple on behalf of one of its
// members
func (s *AnniversaryService) Create(ctx context.Context, couple *models.Couple, userID string, in AnniversaryInput) (*models.Anniversary, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := requireMember(couple, userID); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = models.AnniversaryTypeAnniversary
	}

	now := s.now()
	a := &models.Anniversary{
		ID:           uuid.New().String(),
		CoupleID:     couple.ID,
		Title:        in.Title,
		Date:         in.Date,
		Description:  in.Description,
		Type:         in.Type,
		Recurring:    in.Recurring,
		ReminderDays: in.ReminderDays,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.anniversaries.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create anniversary: %w", err)
	}
	return a, nil
}

// Update rewrites the editable fields of an anniversary owned by the couple
func (s *AnniversaryService) Update(ctx context.Context, couple *models.Couple, userID, id string, in AnniversaryInput) (*models.Anniversary, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := requireMember(couple, userID); err != nil {
		return nil, err
	}

	a, err := s.anniversaries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load anniversary %s: %w", id, err)
	}
	if a.CoupleID != couple.ID {
		return nil, apperrors.NotFound("anniversary %s", id)
	}
	if in.Type == "" {
		in.Type = a.Type
	}

	a.Title = in.Title
	a.Date = in.Date
	a.Description = in.Description
	a.Type = in.Type
	a.Recurring = in.Recurring
	a.ReminderDays = in.ReminderDays
	a.UpdatedAt = s.now()

	if err := s.anniversaries.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update anniversary %s: %w", id, err)
	}
	return a, nil
}

// Delete removes an anniversary owned by the couple
func (s *AnniversaryService) Delete(ctx context.Context, couple *models.Couple, userID, id string) error {
	if err := requireMember(couple, userID); err != nil {
		return err
	}

	a, err := s.anniversaries.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load anniversary %s: %w", id, err)
	}
	if a.CoupleID != couple.ID {
		return apperrors.NotFound("anniversary %s", id)
	}

	if err := s.anniversaries.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete anniversary %s: %w", id, err)
	}
	return nil
}

// Get returns a single anniversary owned by the couple
func (s *AnniversaryService) Get(ctx context.Context, couple *models.Couple, id string) (*models.Anniversary, error) {
	a, err := s.anniversaries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load anniversary %s: %w", id, err)
	}
	if a.CoupleID != couple.ID {
		return nil, apperrors.NotFound("anniversary %s", id)
	}
	return a, nil
}

// List returns all of the couple's anniversaries, date-ordered
func (s *AnniversaryService) List(ctx context.Context, couple *models.Couple) ([]*models.Anniversary, error) {
	list, err := s.anniversaries.ListByCouple(ctx, couple.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list anniversaries for couple %s: %w", couple.ID, err)
	}
	return list, nil
}

// GetTodayAnniversaries returns the anniversaries falling on the current
// day: the relationship start when its month/day match (titled with the
// elapsed year count), then recurring anniversaries matching month/day,
// then non-recurring ones whose exact date is today. A store failure is
// surfaced, never folded into an empty list.
func (s *AnniversaryService) GetTodayAnniversaries(ctx context.Context, couple *models.Couple) ([]models.TodayAnniversary, error) {
	now := s.now()
	today := recurrence.Midnight(now)
	result := []models.TodayAnniversary{}

	if recurrence.IsToday(couple.RelationshipStart, now) {
		years := recurrence.YearsSince(couple.RelationshipStart, now)
		result = append(result, models.TodayAnniversary{
			Kind:      models.TodayKindRelationship,
			Title:     fmt.Sprintf("%d year anniversary", years),
			Date:      today,
			DaysUntil: 0,
			IsToday:   true,
		})
	}

	stored, err := s.anniversaries.ListByCouple(ctx, couple.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load anniversaries for couple %s: %w", couple.ID, err)
	}

	for _, a := range stored {
		matched := false
		if a.Recurring {
			matched = recurrence.IsToday(a.Date, now)
		} else {
			matched = recurrence.IsSameDate(a.Date, now)
		}
		if !matched {
			continue
		}
		result = append(result, models.TodayAnniversary{
			Kind:      models.TodayKindAnniversary,
			Title:     a.Title,
			Date:      today,
			DaysUntil: 0,
			IsToday:   true,
		})
	}

	return result, nil
}

// GetUpcoming returns the couple's anniversaries with their computed next
// occurrences, soonest first. Non-recurring anniversaries already past are
// skipped. A limit of 0 means no limit.
func (s *AnniversaryService) GetUpcoming(ctx context.Context, couple *models.Couple, limit int) ([]models.UpcomingAnniversary, error) {
	stored, err := s.anniversaries.ListByCouple(ctx, couple.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load anniversaries for couple %s: %w", couple.ID, err)
	}

	now := s.now()
	upcoming := []models.UpcomingAnniversary{}
	for _, a := range stored {
		next := recurrence.NextOccurrence(a.Date, a.Recurring, now)
		days := recurrence.DaysUntil(a.Date, a.Recurring, now)
		if days < 0 {
			continue
		}
		upcoming = append(upcoming, models.UpcomingAnniversary{
			Anniversary:    a,
			NextOccurrence: next,
			DaysUntil:      days,
		})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysUntil < upcoming[j].DaysUntil
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}

// requireMember checks that userID belongs to the couple
func requireMember(couple *models.Couple, userID string) error {
	if userID != couple.User1ID && userID != couple.User2ID {
		return apperrors.Validation("user %s is not a member of couple %s", userID, couple.ID)
	}
	return nil
}
