package models

import "time"

// Couple statuses
const (
	CoupleStatusPending = "pending"
	CoupleStatusActive  = "active"
)

// Anniversary type tags
const (
	AnniversaryTypeAnniversary = "anniversary"
	AnniversaryTypeBirthday    = "birthday"
	AnniversaryTypeFirstDate   = "first_date"
	AnniversaryTypeEngagement  = "engagement"
	AnniversaryTypeWedding     = "wedding"
	AnniversaryTypeCustom      = "custom"
)

// User represents a user account in the system
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name,omitempty"`
	Token       string    `json:"token,omitempty"`
	PushToken   *string   `json:"push_token,omitempty"`
	CoupleID    string    `json:"couple_id,omitempty"`
	PartnerID   string    `json:"partner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Couple binds exactly two user accounts. Status is "pending" while the
// invite code is outstanding and "active" once a second member has joined;
// User2ID is empty iff the status is "pending".
type Couple struct {
	ID                string    `json:"id"`
	User1ID           string    `json:"user1_id"`
	User2ID           string    `json:"user2_id,omitempty"`
	RelationshipStart time.Time `json:"relationship_start"`
	AnniversaryDate   time.Time `json:"anniversary_date"`
	Status            string    `json:"status"`
	InviteCode        string    `json:"invite_code,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Anniversary is a named calendar event for a couple. For recurring entries
// the year of Date is only the anchor year; matching uses month and day.
type Anniversary struct {
	ID           string     `json:"id"`
	CoupleID     string     `json:"couple_id"`
	Title        string     `json:"title"`
	Date         time.Time  `json:"date"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type"`
	Recurring    bool       `json:"recurring"`
	ReminderDays int        `json:"reminder_days"`
	CreatedBy    string     `json:"created_by"`
	LastNotified *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TodayAnniversary kinds
const (
	TodayKindRelationship = "relationship"
	TodayKindAnniversary  = "anniversary"
)

// TodayAnniversary is a computed view of an anniversary that falls on the
// reference day. It is produced fresh on each query and never persisted.
type TodayAnniversary struct {
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	DaysUntil int       `json:"days_until"`
	IsToday   bool      `json:"is_today"`
}

// UpcomingAnniversary pairs a stored anniversary with its computed next
// occurrence relative to the reference day.
type UpcomingAnniversary struct {
	Anniversary    *Anniversary `json:"anniversary"`
	NextOccurrence time.Time    `json:"next_occurrence"`
	DaysUntil      int          `json:"days_until"`
}

// Message represents a chat message between the members of a couple.
// Reactions maps a user id to a single emoji.
type Message struct {
	ID        string            `json:"id"`
	CoupleID  string            `json:"couple_id"`
	SenderID  string            `json:"sender_id"`
	Text      string            `json:"text"`
	Reactions map[string]string `json:"reactions,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// WishItem represents an entry on a couple's shared wishlist
type WishItem struct {
	ID        string    `json:"id"`
	CoupleID  string    `json:"couple_id"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	URL       string    `json:"url,omitempty"`
	Price     string    `json:"price,omitempty"`
	Done      bool      `json:"done"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Photo represents a photo in a couple's shared album
type Photo struct {
	ID        string    `json:"id"`
	CoupleID  string    `json:"couple_id"`
	UserID    string    `json:"user_id"`
	S3Key     string    `json:"-"`
	S3URL     string    `json:"s3_url"`
	Caption   string    `json:"caption,omitempty"`
	TakenAt   time.Time `json:"taken_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidAnniversaryType reports whether t is one of the known type tags
func ValidAnniversaryType(t string) bool {
	switch t {
	case AnniversaryTypeAnniversary, AnniversaryTypeBirthday, AnniversaryTypeFirstDate,
		AnniversaryTypeEngagement, AnniversaryTypeWedding, AnniversaryTypeCustom:
		return true
	}
	return false
}
