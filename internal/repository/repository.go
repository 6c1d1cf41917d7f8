// Package repository implements the persistence layer on PostgreSQL via
// pgx. Driver errors are translated into the abstract kinds from apperrors
// here so the service layer never sees pgx types.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"couple-space-backend/internal/apperrors"
)

// dbErr translates a pgx error into an abstract error kind, prefixed with
// the failing operation.
func dbErr(err error, format string, args ...any) error {
	op := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NotFound("%s", op)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("%s: %v", op, err)
	case errors.Is(err, context.Canceled):
		return apperrors.Unavailable("%s: %v", op, err)
	default:
		return apperrors.Unavailable("%s: %v", op, err)
	}
}
