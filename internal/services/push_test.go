package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couple-space-backend/internal/models"
)

// The scan tests run with a disabled client, so pushes are dropped while
// the selection and last-notified bookkeeping still run.
func newPushFixture(t *testing.T, now time.Time) (*PushService, *fakeAnniversaryStore) {
	t.Helper()

	token := "apns-token"
	userStore := newFakeUserStore(
		&models.User{ID: "u1", CoupleID: "c1", PartnerID: "u2", PushToken: &token},
		&models.User{ID: "u2", CoupleID: "c1", PartnerID: "u1"},
	)
	coupleStore := newFakeCoupleStore(userStore)
	require.NoError(t, coupleStore.Create(context.Background(), &models.Couple{
		ID:      "c1",
		User1ID: "u1",
		User2ID: "u2",
		Status:  models.CoupleStatusActive,
	}))
	annStore := newFakeAnniversaryStore()

	svc, err := NewPushService("", "", "", false, annStore, coupleStore, userStore)
	require.NoError(t, err)
	svc.now = func() time.Time { return now }
	return svc, annStore
}

func TestPushServiceDisabledWithoutCert(t *testing.T) {
	svc, _ := newPushFixture(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))

	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.NotifyAnniversary("apns-token", &models.Anniversary{Title: "x"}, 3))
}

func TestScanOnceMarksDueAnniversaries(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc, store := newPushFixture(t, now)

	due := &models.Anniversary{
		ID:           "a-due",
		CoupleID:     "c1",
		Title:        "due in three days",
		Date:         time.Date(2023, 6, 4, 0, 0, 0, 0, time.UTC),
		Recurring:    true,
		ReminderDays: 3,
	}
	notDue := &models.Anniversary{
		ID:           "a-not-due",
		CoupleID:     "c1",
		Title:        "still far off",
		Date:         time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC),
		Recurring:    true,
		ReminderDays: 3,
	}
	noReminder := &models.Anniversary{
		ID:        "a-silent",
		CoupleID:  "c1",
		Title:     "reminders off",
		Date:      time.Date(2023, 6, 4, 0, 0, 0, 0, time.UTC),
		Recurring: true,
	}
	for _, a := range []*models.Anniversary{due, notDue, noReminder} {
		require.NoError(t, store.Create(context.Background(), a))
	}

	require.NoError(t, svc.scanOnce(context.Background()))

	marked, err := store.GetByID(context.Background(), "a-due")
	require.NoError(t, err)
	require.NotNil(t, marked.LastNotified)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *marked.LastNotified)

	for _, id := range []string{"a-not-due", "a-silent"} {
		a, err := store.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, a.LastNotified, "%s should not be marked", id)
	}
}

func TestScanOnceRemindsOncePerDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc, store := newPushFixture(t, now)

	earlier := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Create(context.Background(), &models.Anniversary{
		ID:           "a-due",
		CoupleID:     "c1",
		Title:        "due in three days",
		Date:         time.Date(2023, 6, 4, 0, 0, 0, 0, time.UTC),
		Recurring:    true,
		ReminderDays: 3,
		LastNotified: &earlier,
	}))

	require.NoError(t, svc.scanOnce(context.Background()))

	a, err := store.GetByID(context.Background(), "a-due")
	require.NoError(t, err)
	require.NotNil(t, a.LastNotified)
	assert.Equal(t, earlier, *a.LastNotified, "an anniversary already notified today stays untouched")

	// The next day the guard no longer applies.
	svc.now = func() time.Time { return now.AddDate(0, 0, 1) }
	// Two days out now, so the three-day lead no longer matches either.
	require.NoError(t, svc.scanOnce(context.Background()))
	a, err = store.GetByID(context.Background(), "a-due")
	require.NoError(t, err)
	assert.Equal(t, earlier, *a.LastNotified)
}

func TestScanOnceSurfacesStoreError(t *testing.T) {
	svc, store := newPushFixture(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	store.err = errStoreDown

	assert.Error(t, svc.scanOnce(context.Background()))
}
