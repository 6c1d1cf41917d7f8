package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"

	"couple-space-backend/internal/models"
	"couple-space-backend/internal/recurrence"
)

// ReminderStore is the slice of anniversary persistence the reminder loop
// needs
type ReminderStore interface {
	ListWithReminders(ctx context.Context) ([]*models.Anniversary, error)
	SetLastNotified(ctx context.Context, id string, day time.Time) error
}

// PushService sends anniversary reminders over APNs. Disabled (nil client)
// when no certificate is configured.
type PushService struct {
	client        *apns2.Client
	topic         string
	anniversaries ReminderStore
	couples       CoupleStore
	users         UserStore
	now           func() time.Time
}

// NewPushService creates a push service from a p12 certificate. An empty
// certPath returns a disabled service that drops all notifications.
func NewPushService(certPath, certPassword, topic string, production bool,
	anniversaries ReminderStore, couples CoupleStore, users UserStore) (*PushService, error) {

	s := &PushService{
		topic:         topic,
		anniversaries: anniversaries,
		couples:       couples,
		users:         users,
		now:           time.Now,
	}
	if certPath == "" {
		return s, nil
	}

	cert, err := certificate.FromP12File(certPath, certPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}
	s.client = client
	return s, nil
}

// Enabled reports whether a certificate was configured
func (s *PushService) Enabled() bool {
	return s.client != nil
}

// NotifyAnniversary pushes a reminder for an anniversary to one device
func (s *PushService) NotifyAnniversary(deviceToken string, a *models.Anniversary, daysAway int) error {
	if !s.Enabled() || deviceToken == "" {
		return nil
	}

	body := fmt.Sprintf("%s is in %d days", a.Title, daysAway)
	if daysAway == 1 {
		body = fmt.Sprintf("%s is tomorrow", a.Title)
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload: payload.NewPayload().
			AlertTitle("Upcoming anniversary").
			AlertBody(body).
			Sound("default"),
	}

	res, err := s.client.Push(notification)
	if err != nil {
		return fmt.Errorf("failed to push reminder: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("APNs rejected reminder: %s", res.Reason)
	}
	return nil
}

// ReminderLoop periodically scans for anniversaries whose next occurrence
// is exactly their configured lead time away and pushes a reminder to both
// members. Runs until ctx is cancelled.
func (s *PushService) ReminderLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Reminder loop stopped")
			return
		case <-ticker.C:
			if err := s.scanOnce(ctx); err != nil {
				log.Error().Err(err).Msg("Reminder scan failed")
			}
		}
	}
}

// scanOnce runs a single reminder scan pass
func (s *PushService) scanOnce(ctx context.Context) error {
	list, err := s.anniversaries.ListWithReminders(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	today := recurrence.Midnight(now)

	for _, a := range list {
		days := recurrence.DaysUntil(a.Date, a.Recurring, now)
		if days != a.ReminderDays {
			continue
		}
		// At most one reminder per anniversary per day.
		if a.LastNotified != nil && recurrence.IsSameDate(*a.LastNotified, today) {
			continue
		}

		if err := s.remindCouple(ctx, a, days); err != nil {
			log.Error().
				Err(err).
				Str("anniversary_id", a.ID).
				Msg("Failed to send reminder")
			continue
		}

		if err := s.anniversaries.SetLastNotified(ctx, a.ID, today); err != nil {
			log.Error().
				Err(err).
				Str("anniversary_id", a.ID).
				Msg("Failed to record reminder")
		}
	}
	return nil
}

// remindCouple pushes one anniversary reminder to both members' devices
func (s *PushService) remindCouple(ctx context.Context, a *models.Anniversary, daysAway int) error {
	couple, err := s.couples.GetByID(ctx, a.CoupleID)
	if err != nil {
		return fmt.Errorf("failed to load couple %s: %w", a.CoupleID, err)
	}

	for _, memberID := range []string{couple.User1ID, couple.User2ID} {
		if memberID == "" {
			continue
		}
		user, err := s.users.GetByID(ctx, memberID)
		if err != nil {
			log.Error().Err(err).Str("user_id", memberID).Msg("Failed to load member for reminder")
			continue
		}
		if user.PushToken == nil {
			continue
		}
		if err := s.NotifyAnniversary(*user.PushToken, a, daysAway); err != nil {
			log.Error().Err(err).Str("user_id", memberID).Msg("Failed to push reminder")
		}
	}
	return nil
}
