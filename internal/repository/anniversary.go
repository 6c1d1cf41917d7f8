package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"couple-space-backend/internal/models"
)

const anniversaryColumns = `id, couple_id, title, date, description, type,
	recurring, reminder_days, created_by, last_notified, created_at, updated_at`

// AnniversaryRepository handles database operations for anniversaries
type AnniversaryRepository struct {
	db *pgxpool.Pool
}

// NewAnniversaryRepository creates a new anniversary repository
func NewAnniversaryRepository(db *pgxpool.Pool) *AnniversaryRepository {
	return &AnniversaryRepository{db: db}
}

func scanAnniversary(row pgx.Row) (*models.Anniversary, error) {
	var a models.Anniversary
	err := row.Scan(
		&a.ID, &a.CoupleID, &a.Title, &a.Date, &a.Description, &a.Type,
		&a.Recurring, &a.ReminderDays, &a.CreatedBy, &a.LastNotified,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create creates a new anniversary
func (r *AnniversaryRepository) Create(ctx context.Context, a *models.Anniversary) error {
	query := `
		INSERT INTO anniversaries (id, couple_id, title, date, description, type,
		                           recurring, reminder_days, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.CoupleID, a.Title, a.Date, a.Description, a.Type,
		a.Recurring, a.ReminderDays, a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return dbErr(err, "create anniversary %s", a.ID)
	}
	return nil
}

// GetByID retrieves an anniversary by ID
func (r *AnniversaryRepository) GetByID(ctx context.Context, id string) (*models.Anniversary, error) {
	query := `SELECT ` + anniversaryColumns + ` FROM anniversaries WHERE id = $1`
	a, err := scanAnniversary(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dbErr(err, "anniversary %s", id)
	}
	return a, nil
}

// ListByCouple retrieves all anniversaries for a couple, date-ordered
func (r *AnniversaryRepository) ListByCouple(ctx context.Context, coupleID string) ([]*models.Anniversary, error) {
	query := `SELECT ` + anniversaryColumns + ` FROM anniversaries WHERE couple_id = $1 ORDER BY date, created_at`
	rows, err := r.db.Query(ctx, query, coupleID)
	if err != nil {
		return nil, dbErr(err, "list anniversaries for couple %s", coupleID)
	}
	defer rows.Close()

	var list []*models.Anniversary
	for rows.Next() {
		a, err := scanAnniversary(rows)
		if err != nil {
			return nil, dbErr(err, "list anniversaries for couple %s", coupleID)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list anniversaries for couple %s", coupleID)
	}
	return list, nil
}

// Update rewrites the mutable fields of an anniversary
func (r *AnniversaryRepository) Update(ctx context.Context, a *models.Anniversary) error {
	query := `
		UPDATE anniversaries
		SET title = $1, date = $2, description = $3, type = $4,
		    recurring = $5, reminder_days = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.db.Exec(ctx, query,
		a.Title, a.Date, a.Description, a.Type,
		a.Recurring, a.ReminderDays, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return dbErr(err, "update anniversary %s", a.ID)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "anniversary %s", a.ID)
	}
	return nil
}

// Delete removes an anniversary by ID
func (r *AnniversaryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM anniversaries WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete anniversary %s", id)
	}
	if result.RowsAffected() == 0 {
		return dbErr(pgx.ErrNoRows, "anniversary %s", id)
	}
	return nil
}

// ListWithReminders retrieves every anniversary with a reminder configured,
// across all couples. Used by the reminder scan loop.
func (r *AnniversaryRepository) ListWithReminders(ctx context.Context) ([]*models.Anniversary, error) {
	query := `SELECT ` + anniversaryColumns + ` FROM anniversaries WHERE reminder_days > 0`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, dbErr(err, "list anniversaries with reminders")
	}
	defer rows.Close()

	var list []*models.Anniversary
	for rows.Next() {
		a, err := scanAnniversary(rows)
		if err != nil {
			return nil, dbErr(err, "list anniversaries with reminders")
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list anniversaries with reminders")
	}
	return list, nil
}

// SetLastNotified records the day a reminder was last sent for an
// anniversary, so the scan loop fires at most once per day.
func (r *AnniversaryRepository) SetLastNotified(ctx context.Context, id string, day time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE anniversaries SET last_notified = $1 WHERE id = $2`, day, id)
	if err != nil {
		return dbErr(err, "set last notified for anniversary %s", id)
	}
	return nil
}
