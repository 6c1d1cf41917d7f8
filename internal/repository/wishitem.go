package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"couple-space-backend/internal/models"
)

const wishItemColumns = `id, couple_id, title, note, url, price, done, created_by, created_at, updated_at`

// WishItemRepository handles database operations for wishlist items
type WishItemRepository struct {
	db *pgxpool.Pool
}

// NewWishItemRepository creates a new wishlist item repository
func NewWishItemRepository(db *pgxpool.Pool) *WishItemRepository {
	return &WishItemRepository{db: db}
}

func scanWishItem(row pgx.Row) (*models.WishItem, error) {
	var w models.WishItem
	err := row.Scan(
		&w.ID, &w.CoupleID, &w.Title, &w.Note, &w.URL, &w.Price,
		&w.Done, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create creates a new wishlist item
func (r *WishItemRepository) Create(ctx context.Context, w *models.WishItem) error {
	query := `
		INSERT INTO wish_items (id, couple_id, title, note, url, price, done, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		w.ID, w.CoupleID, w.Title, w.Note, w.URL, w.Price,
		w.Done, w.CreatedBy, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return dbErr(err, "create wish item %s", w.ID)
	}
	return nil
}

// GetByID retrieves a wishlist item by ID
func (r *WishItemRepository) GetByID(ctx context.Context, id string) (*models.WishItem, error) {
	query := `SELECT ` + wishItemColumns + ` FROM wish_items WHERE id = $1`
	w, err := scanWishItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dbErr(err, "wish item %s", id)
	}
	return w, nil
}

// ListByCouple retrieves all wishlist items for a couple, newest first
func (r *WishItemRepository) ListByCouple(ctx context.Context, coupleID string) ([]*models.WishItem, error) {
	query := `SELECT ` + wishItemColumns + ` FROM wish_items WHERE couple_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, coupleID)
	if err != nil {
		return nil, dbErr(err, "list wish items for couple %s", coupleID)
	}
	defer rows.Close()

	var list []*models.WishItem
	for rows.Next() {
		w, err := scanWishItem(rows)
		if err != nil {
			return nil, dbErr(err, "list wish items for couple %s", coupleID)
		}
		list = append(list, w)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list wish items for couple %s", coupleID)
	}
	return list, nil
}

// SetDone updates the done flag of a wishlist item
func (r *WishItemRepository) SetDone(ctx context.Context, id string, done bool, updatedAt time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE wish_items SET done = $1, updated_at = $2 WHERE id = $3`,
		done, updatedAt, id,
	)
	if err != nil {
		return dbErr(err, "toggle wish item %s", id)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "wish item %s", id)
	}
	return nil
}

// Delete removes a wishlist item by ID
func (r *WishItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM wish_items WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete wish item %s", id)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "wish item %s", id)
	}
	return nil
}
