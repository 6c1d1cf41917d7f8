package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"couple-space-backend/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, display_name, token, push_token, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.DisplayName, user.Token, user.PushToken, user.CreatedAt)
	if err != nil {
		return dbErr(err, "create user %s", user.ID)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, display_name, token, push_token,
		       COALESCE(couple_id, ''), COALESCE(partner_id, ''), created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.DisplayName, &user.Token, &user.PushToken,
		&user.CoupleID, &user.PartnerID, &user.CreatedAt,
	)
	if err != nil {
		return nil, dbErr(err, "user %s", id)
	}
	return &user, nil
}

// BindCouple stores the couple back-reference on a user record
func (r *UserRepository) BindCouple(ctx context.Context, userID, coupleID string) error {
	query := `UPDATE users SET couple_id = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, coupleID, userID)
	if err != nil {
		return dbErr(err, "bind couple for user %s", userID)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "user %s", userID)
	}
	return nil
}

// UpdateSettings updates the mutable profile fields. Nil fields are left
// untouched.
func (r *UserRepository) UpdateSettings(ctx context.Context, userID string, displayName, pushToken *string) error {
	query := `
		UPDATE users
		SET display_name = COALESCE($1, display_name),
		    push_token   = COALESCE($2, push_token)
		WHERE id = $3
	`
	result, err := r.db.Exec(ctx, query, displayName, pushToken, userID)
	if err != nil {
		return dbErr(err, "update settings for user %s", userID)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "user %s", userID)
	}
	return nil
}
