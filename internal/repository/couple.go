package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
)

const coupleColumns = `id, user1_id, COALESCE(user2_id, ''), relationship_start,
	anniversary_date, status, invite_code, created_at, updated_at`

// CoupleRepository handles database operations for couples
type CoupleRepository struct {
	db *pgxpool.Pool
}

// NewCoupleRepository creates a new couple repository
func NewCoupleRepository(db *pgxpool.Pool) *CoupleRepository {
	return &CoupleRepository{db: db}
}

func scanCouple(row pgx.Row) (*models.Couple, error) {
	var c models.Couple
	err := row.Scan(
		&c.ID, &c.User1ID, &c.User2ID, &c.RelationshipStart,
		&c.AnniversaryDate, &c.Status, &c.InviteCode, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create creates a new couple in pending state
func (r *CoupleRepository) Create(ctx context.Context, couple *models.Couple) error {
	query := `
		INSERT INTO couples (id, user1_id, relationship_start, anniversary_date,
		                     status, invite_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		couple.ID, couple.User1ID, couple.RelationshipStart, couple.AnniversaryDate,
		couple.Status, couple.InviteCode, couple.CreatedAt, couple.UpdatedAt,
	)
	if err != nil {
		return dbErr(err, "create couple %s", couple.ID)
	}
	return nil
}

// GetByID retrieves a couple by ID
func (r *CoupleRepository) GetByID(ctx context.Context, id string) (*models.Couple, error) {
	query := `SELECT ` + coupleColumns + ` FROM couples WHERE id = $1`
	couple, err := scanCouple(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dbErr(err, "couple %s", id)
	}
	return couple, nil
}

// GetByInviteCode retrieves a couple by its invite code, any status
func (r *CoupleRepository) GetByInviteCode(ctx context.Context, code string) (*models.Couple, error) {
	query := `SELECT ` + coupleColumns + ` FROM couples WHERE invite_code = $1`
	couple, err := scanCouple(r.db.QueryRow(ctx, query, code))
	if err != nil {
		return nil, dbErr(err, "couple with invite code %s", code)
	}
	return couple, nil
}

// CodeExists checks whether an invite code is already held by a pending
// couple. Redeemed codes do not count; they can never be redeemed again
// regardless.
func (r *CoupleRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM couples WHERE invite_code = $1 AND status = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, code, models.CoupleStatusPending).Scan(&exists)
	if err != nil {
		return false, dbErr(err, "check invite code")
	}
	return exists, nil
}

// Redeem binds userID as the second member of the pending couple holding
// the invite code and flips it to active, writing both members' user-record
// back-references in the same transaction.
//
// The status flip is a conditional update: the WHERE clause requires the
// couple to still be pending, so of two concurrent redemptions of the same
// code exactly one sees a row updated and the loser gets ErrConflict.
func (r *CoupleRepository) Redeem(ctx context.Context, code, userID string) (*models.Couple, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, dbErr(err, "redeem invite code")
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE couples
		SET user2_id = $1, status = $2, updated_at = $3
		WHERE invite_code = $4 AND status = $5
		RETURNING ` + coupleColumns
	couple, err := scanCouple(tx.QueryRow(ctx, query,
		userID, models.CoupleStatusActive, time.Now(), code, models.CoupleStatusPending,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.Conflict("invite code already redeemed")
		}
		return nil, dbErr(err, "redeem invite code")
	}

	backRef := `UPDATE users SET couple_id = $1, partner_id = $2 WHERE id = $3`
	if _, err := tx.Exec(ctx, backRef, couple.ID, couple.User1ID, userID); err != nil {
		return nil, dbErr(err, "bind joining user %s", userID)
	}
	if _, err := tx.Exec(ctx, backRef, couple.ID, userID, couple.User1ID); err != nil {
		return nil, dbErr(err, "bind first member %s", couple.User1ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, dbErr(err, "redeem invite code")
	}
	return couple, nil
}
