package services

import (
	"context"
	"time"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
)

// In-memory stores backing the service tests. Each carries an optional err
// that, when set, is returned by every call, to exercise failure
// propagation.

type fakeUserStore struct {
	users map[string]*models.User
	err   error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user %s", id)
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) BindCouple(_ context.Context, userID, coupleID string) error {
	if s.err != nil {
		return s.err
	}
	u, ok := s.users[userID]
	if !ok {
		return apperrors.NotFound("user %s", userID)
	}
	u.CoupleID = coupleID
	return nil
}

func (s *fakeUserStore) UpdateSettings(_ context.Context, userID string, displayName, pushToken *string) error {
	if s.err != nil {
		return s.err
	}
	u, ok := s.users[userID]
	if !ok {
		return apperrors.NotFound("user %s", userID)
	}
	if displayName != nil {
		u.DisplayName = *displayName
	}
	if pushToken != nil {
		u.PushToken = pushToken
	}
	return nil
}

type fakeCoupleStore struct {
	couples map[string]*models.Couple
	users   *fakeUserStore
	err     error
}

func newFakeCoupleStore(users *fakeUserStore) *fakeCoupleStore {
	return &fakeCoupleStore{
		couples: make(map[string]*models.Couple),
		users:   users,
	}
}

func (s *fakeCoupleStore) Create(_ context.Context, couple *models.Couple) error {
	if s.err != nil {
		return s.err
	}
	copied := *couple
	s.couples[couple.ID] = &copied
	return nil
}

func (s *fakeCoupleStore) GetByID(_ context.Context, id string) (*models.Couple, error) {
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.couples[id]
	if !ok {
		return nil, apperrors.NotFound("couple %s", id)
	}
	copied := *c
	return &copied, nil
}

func (s *fakeCoupleStore) GetByInviteCode(_ context.Context, code string) (*models.Couple, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, c := range s.couples {
		if c.InviteCode == code {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("couple with invite code %s", code)
}

func (s *fakeCoupleStore) CodeExists(_ context.Context, code string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, c := range s.couples {
		if c.InviteCode == code && c.Status == models.CoupleStatusPending {
			return true, nil
		}
	}
	return false, nil
}

// Redeem mirrors the conditional-update semantics of the SQL
// implementation: the flip only happens if the couple is still pending.
func (s *fakeCoupleStore) Redeem(_ context.Context, code, userID string) (*models.Couple, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, c := range s.couples {
		if c.InviteCode != code {
			continue
		}
		if c.Status != models.CoupleStatusPending {
			return nil, apperrors.Conflict("invite code already redeemed")
		}
		c.User2ID = userID
		c.Status = models.CoupleStatusActive
		c.UpdatedAt = time.Now()

		if joiner, ok := s.users.users[userID]; ok {
			joiner.CoupleID = c.ID
			joiner.PartnerID = c.User1ID
		}
		if first, ok := s.users.users[c.User1ID]; ok {
			first.CoupleID = c.ID
			first.PartnerID = userID
		}

		copied := *c
		return &copied, nil
	}
	return nil, apperrors.Conflict("invite code already redeemed")
}

type fakeAnniversaryStore struct {
	items map[string]*models.Anniversary
	order []string
	err   error
}

func newFakeAnniversaryStore() *fakeAnniversaryStore {
	return &fakeAnniversaryStore{items: make(map[string]*models.Anniversary)}
}

func (s *fakeAnniversaryStore) Create(_ context.Context, a *models.Anniversary) error {
	if s.err != nil {
		return s.err
	}
	copied := *a
	s.items[a.ID] = &copied
	s.order = append(s.order, a.ID)
	return nil
}

func (s *fakeAnniversaryStore) GetByID(_ context.Context, id string) (*models.Anniversary, error) {
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.items[id]
	if !ok {
		return nil, apperrors.NotFound("anniversary %s", id)
	}
	copied := *a
	return &copied, nil
}

func (s *fakeAnniversaryStore) ListByCouple(_ context.Context, coupleID string) ([]*models.Anniversary, error) {
	if s.err != nil {
		return nil, s.err
	}
	var list []*models.Anniversary
	for _, id := range s.order {
		a := s.items[id]
		if a.CoupleID == coupleID {
			copied := *a
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (s *fakeAnniversaryStore) ListWithReminders(_ context.Context) ([]*models.Anniversary, error) {
	if s.err != nil {
		return nil, s.err
	}
	var list []*models.Anniversary
	for _, id := range s.order {
		a := s.items[id]
		if a.ReminderDays > 0 {
			copied := *a
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (s *fakeAnniversaryStore) SetLastNotified(_ context.Context, id string, day time.Time) error {
	if s.err != nil {
		return s.err
	}
	a, ok := s.items[id]
	if !ok {
		return apperrors.NotFound("anniversary %s", id)
	}
	d := day
	a.LastNotified = &d
	return nil
}

func (s *fakeAnniversaryStore) Update(_ context.Context, a *models.Anniversary) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[a.ID]; !ok {
		return apperrors.NotFound("anniversary %s", a.ID)
	}
	copied := *a
	s.items[a.ID] = &copied
	return nil
}

func (s *fakeAnniversaryStore) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[id]; !ok {
		return apperrors.NotFound("anniversary %s", id)
	}
	delete(s.items, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeMessageStore struct {
	items map[string]*models.Message
	order []string
	err   error
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{items: make(map[string]*models.Message)}
}

func (s *fakeMessageStore) Create(_ context.Context, m *models.Message) error {
	if s.err != nil {
		return s.err
	}
	copied := *m
	s.items[m.ID] = &copied
	s.order = append(s.order, m.ID)
	return nil
}

func (s *fakeMessageStore) GetByID(_ context.Context, id string) (*models.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.items[id]
	if !ok {
		return nil, apperrors.NotFound("message %s", id)
	}
	copied := *m
	return &copied, nil
}

func (s *fakeMessageStore) ListByCouple(_ context.Context, coupleID string, limit, offset int) ([]*models.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	var all []*models.Message
	// Newest first, like the SQL implementation.
	for i := len(s.order) - 1; i >= 0; i-- {
		m := s.items[s.order[i]]
		if m.CoupleID == coupleID {
			copied := *m
			all = append(all, &copied)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *fakeMessageStore) SetReaction(_ context.Context, messageID, userID, emoji string) error {
	if s.err != nil {
		return s.err
	}
	m, ok := s.items[messageID]
	if !ok {
		return apperrors.NotFound("message %s", messageID)
	}
	if m.Reactions == nil {
		m.Reactions = make(map[string]string)
	}
	m.Reactions[userID] = emoji
	return nil
}

func (s *fakeMessageStore) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[id]; !ok {
		return apperrors.NotFound("message %s", id)
	}
	delete(s.items, id)
	return nil
}

type fakeWishItemStore struct {
	items map[string]*models.WishItem
	order []string
	err   error
}

func newFakeWishItemStore() *fakeWishItemStore {
	return &fakeWishItemStore{items: make(map[string]*models.WishItem)}
}

func (s *fakeWishItemStore) Create(_ context.Context, w *models.WishItem) error {
	if s.err != nil {
		return s.err
	}
	copied := *w
	s.items[w.ID] = &copied
	s.order = append(s.order, w.ID)
	return nil
}

func (s *fakeWishItemStore) GetByID(_ context.Context, id string) (*models.WishItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	w, ok := s.items[id]
	if !ok {
		return nil, apperrors.NotFound("wish item %s", id)
	}
	copied := *w
	return &copied, nil
}

func (s *fakeWishItemStore) ListByCouple(_ context.Context, coupleID string) ([]*models.WishItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	var list []*models.WishItem
	for i := len(s.order) - 1; i >= 0; i-- {
		w := s.items[s.order[i]]
		if w.CoupleID == coupleID {
			copied := *w
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (s *fakeWishItemStore) SetDone(_ context.Context, id string, done bool, updatedAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	w, ok := s.items[id]
	if !ok {
		return apperrors.NotFound("wish item %s", id)
	}
	w.Done = done
	w.UpdatedAt = updatedAt
	return nil
}

func (s *fakeWishItemStore) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[id]; !ok {
		return apperrors.NotFound("wish item %s", id)
	}
	delete(s.items, id)
	return nil
}
