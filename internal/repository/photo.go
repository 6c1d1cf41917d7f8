package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"couple-space-backend/internal/models"
)

const photoColumns = `id, couple_id, user_id, s3_key, s3_url, caption, taken_at, created_at`

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var p models.Photo
	err := row.Scan(
		&p.ID, &p.CoupleID, &p.UserID, &p.S3Key, &p.S3URL,
		&p.Caption, &p.TakenAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new photo record
func (r *PhotoRepository) Create(ctx context.Context, p *models.Photo) error {
	query := `
		INSERT INTO photos (id, couple_id, user_id, s3_key, s3_url, caption, taken_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.CoupleID, p.UserID, p.S3Key, p.S3URL, p.Caption, p.TakenAt, p.CreatedAt,
	)
	if err != nil {
		return dbErr(err, "create photo %s", p.ID)
	}
	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	p, err := scanPhoto(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dbErr(err, "photo %s", id)
	}
	return p, nil
}

// ListByCouple retrieves photos for a couple with pagination, newest first.
// Also returns the total count for the couple.
func (r *PhotoRepository) ListByCouple(ctx context.Context, coupleID string, limit, offset int) ([]*models.Photo, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM photos WHERE couple_id = $1`, coupleID).Scan(&total)
	if err != nil {
		return nil, 0, dbErr(err, "count photos for couple %s", coupleID)
	}

	query := `
		SELECT ` + photoColumns + `
		FROM photos
		WHERE couple_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, coupleID, limit, offset)
	if err != nil {
		return nil, 0, dbErr(err, "list photos for couple %s", coupleID)
	}
	defer rows.Close()

	var list []*models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, 0, dbErr(err, "list photos for couple %s", coupleID)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbErr(err, "list photos for couple %s", coupleID)
	}
	return list, total, nil
}

// UpdateAfterUpload records the final URL and caption once the client
// confirms the S3 upload completed.
func (r *PhotoRepository) UpdateAfterUpload(ctx context.Context, id, s3URL, caption string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE photos SET s3_url = $1, caption = $2 WHERE id = $3`,
		s3URL, caption, id,
	)
	if err != nil {
		return dbErr(err, "confirm photo %s", id)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "photo %s", id)
	}
	return nil
}

// Delete removes a photo record by ID
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete photo %s", id)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "photo %s", id)
	}
	return nil
}
