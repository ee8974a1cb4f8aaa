package txn

import (
	"context"
	stderrors "errors"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// Run executes fn inside one database transaction. Any error or panic rolls
// everything back. Application errors reach the caller untouched; store
// errors become TRANSACTION_FAILED so no driver detail leaks out.
func Run(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}
	return errors.NewTransactionFailedError(err)
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
