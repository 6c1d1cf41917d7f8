package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
)

var errStoreDown = apperrors.Unavailable("store down")

func newAnniversaryFixture(now time.Time) (*AnniversaryService, *fakeAnniversaryStore, *models.Couple) {
	store := newFakeAnniversaryStore()
	svc := NewAnniversaryService(store)
	svc.now = func() time.Time { return now }
	couple := &models.Couple{
		ID:                "c1",
		User1ID:           "u1",
		User2ID:           "u2",
		RelationshipStart: time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC),
		Status:            models.CoupleStatusActive,
	}
	return svc, store, couple
}

func TestAnniversaryCreate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, couple := newAnniversaryFixture(now)

	a, err := svc.Create(context.Background(), couple, "u2", AnniversaryInput{
		Title:        "first trip",
		Date:         time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC),
		Recurring:    true,
		ReminderDays: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "c1", a.CoupleID)
	assert.Equal(t, "u2", a.CreatedBy)
	assert.Equal(t, models.AnniversaryTypeAnniversary, a.Type, "type defaults when omitted")
	assert.Equal(t, now, a.CreatedAt)

	stored, err := store.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "first trip", stored.Title)

	got, err := svc.Get(context.Background(), couple, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "first trip", got.Title)

	// Invisible to another couple.
	other := &models.Couple{ID: "c2", User1ID: "u9", Status: models.CoupleStatusActive}
	_, err = svc.Get(context.Background(), other, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAnniversaryCreateValidation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, couple := newAnniversaryFixture(now)
	date := time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   AnniversaryInput
	}{
		{"missing title", AnniversaryInput{Date: date}},
		{"missing date", AnniversaryInput{Title: "x"}},
		{"unknown type", AnniversaryInput{Title: "x", Date: date, Type: "holiday"}},
		{"negative reminder days", AnniversaryInput{Title: "x", Date: date, ReminderDays: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), couple, "u1", tc.in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	_, err := svc.Create(context.Background(), couple, "stranger", AnniversaryInput{Title: "x", Date: date})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAnniversaryUpdateAndDelete(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, couple := newAnniversaryFixture(now)
	date := time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC)

	a, err := svc.Create(context.Background(), couple, "u1", AnniversaryInput{Title: "old", Date: date})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), couple, "u2", a.ID, AnniversaryInput{
		Title: "new",
		Date:  date,
		Type:  models.AnniversaryTypeBirthday,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, models.AnniversaryTypeBirthday, updated.Type)

	// Another couple cannot see or touch it.
	other := &models.Couple{ID: "c2", User1ID: "u9", Status: models.CoupleStatusActive}
	_, err = svc.Update(context.Background(), other, "u9", a.ID, AnniversaryInput{Title: "x", Date: date})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	err = svc.Delete(context.Background(), other, "u9", a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), couple, "u1", a.ID))
	_, err = store.GetByID(context.Background(), a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetTodayAnniversaries(t *testing.T) {
	// Two years to the day after the relationship start.
	now := time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC)
	svc, _, couple := newAnniversaryFixture(now)

	// Recurring with matching month/day in an earlier year: counts.
	_, err := svc.Create(context.Background(), couple, "u1", AnniversaryInput{
		Title:     "valentine dinner",
		Date:      time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC),
		Recurring: true,
	})
	require.NoError(t, err)

	// Non-recurring on today's exact date: counts.
	_, err = svc.Create(context.Background(), couple, "u1", AnniversaryInput{
		Title: "theatre tickets",
		Date:  time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Non-recurring with matching month/day in another year: does not count.
	_, err = svc.Create(context.Background(), couple, "u1", AnniversaryInput{
		Title: "one-off last year",
		Date:  time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Different day entirely: does not count.
	_, err = svc.Create(context.Background(), couple, "u1", AnniversaryInput{
		Title:     "some other day",
		Date:      time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC),
		Recurring: true,
	})
	require.NoError(t, err)

	today, err := svc.GetTodayAnniversaries(context.Background(), couple)
	require.NoError(t, err)
	require.Len(t, today, 3)

	assert.Equal(t, models.TodayKindRelationship, today[0].Kind)
	assert.Equal(t, "2 year anniversary", today[0].Title)
	assert.True(t, today[0].IsToday)
	assert.Zero(t, today[0].DaysUntil)

	assert.Equal(t, models.TodayKindAnniversary, today[1].Kind)
	assert.Equal(t, "valentine dinner", today[1].Title)
	assert.Equal(t, "theatre tickets", today[2].Title)

	// Same call, same day, same answer.
	again, err := svc.GetTodayAnniversaries(context.Background(), couple)
	require.NoError(t, err)
	assert.Equal(t, today, again)
}

func TestGetTodayAnniversariesEmpty(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, couple := newAnniversaryFixture(now)

	today, err := svc.GetTodayAnniversaries(context.Background(), couple)
	require.NoError(t, err)
	assert.NotNil(t, today)
	assert.Empty(t, today)
}

func TestGetTodayAnniversariesStoreError(t *testing.T) {
	now := time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC)
	svc, store, couple := newAnniversaryFixture(now)
	store.err = errStoreDown

	_, err := svc.GetTodayAnniversaries(context.Background(), couple)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable, "a store failure must surface, not become an empty list")
}

func TestGetUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, couple := newAnniversaryFixture(now)

	_, err := svc.Create(context.Background(), couple, "u1", AnniversaryInput{
		Title:     "far recurring",
		Date:      time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC),
		Recurring: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), couple, "u1", AnniversaryInput{
		Title:     "near recurring",
		Date:      time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC),
		Recurring: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), couple, "u1", AnniversaryInput{
		Title: "one-off in the past",
		Date:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), couple, "u1", AnniversaryInput{
		Title: "one-off ahead",
		Date:  time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	upcoming, err := svc.GetUpcoming(context.Background(), couple, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 3, "past non-recurring dates are skipped")

	assert.Equal(t, "near recurring", upcoming[0].Anniversary.Title)
	assert.Equal(t, 9, upcoming[0].DaysUntil)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), upcoming[0].NextOccurrence)

	assert.Equal(t, "one-off ahead", upcoming[1].Anniversary.Title)
	assert.Equal(t, 33, upcoming[1].DaysUntil)

	assert.Equal(t, "far recurring", upcoming[2].Anniversary.Title)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), upcoming[2].NextOccurrence)

	limited, err := svc.GetUpcoming(context.Background(), couple, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "near recurring", limited[0].Anniversary.Title)
	assert.Equal(t, "one-off ahead", limited[1].Anniversary.Title)
}
