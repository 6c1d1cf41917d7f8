package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"couple-space-backend/internal/models"
)

// MessageRepository handles database operations for chat messages.
// Reactions are stored as a jsonb map of user id to emoji.
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.CoupleID, &m.SenderID, &m.Text, &m.Reactions, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, couple_id, sender_id, text, reactions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, m.ID, m.CoupleID, m.SenderID, m.Text, m.Reactions, m.CreatedAt)
	if err != nil {
		return dbErr(err, "create message %s", m.ID)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `
		SELECT id, couple_id, sender_id, text, reactions, created_at
		FROM messages
		WHERE id = $1
	`
	m, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dbErr(err, "message %s", id)
	}
	return m, nil
}

// ListByCouple retrieves messages for a couple, newest first
func (r *MessageRepository) ListByCouple(ctx context.Context, coupleID string, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT id, couple_id, sender_id, text, reactions, created_at
		FROM messages
		WHERE couple_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, coupleID, limit, offset)
	if err != nil {
		return nil, dbErr(err, "list messages for couple %s", coupleID)
	}
	defer rows.Close()

	var list []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, dbErr(err, "list messages for couple %s", coupleID)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list messages for couple %s", coupleID)
	}
	return list, nil
}

// SetReaction sets or replaces a user's emoji reaction on a message
func (r *MessageRepository) SetReaction(ctx context.Context, messageID, userID, emoji string) error {
	query := `
		UPDATE messages
		SET reactions = jsonb_set(COALESCE(reactions, '{}'::jsonb), ARRAY[$1], to_jsonb($2::text))
		WHERE id = $3
	`
	result, err := r.db.Exec(ctx, query, userID, emoji, messageID)
	if err != nil {
		return dbErr(err, "react to message %s", messageID)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "message %s", messageID)
	}
	return nil
}

// Delete removes a message by ID
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete message %s", id)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "message %s", id)
	}
	return nil
}
