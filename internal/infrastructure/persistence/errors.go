package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/shiptrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes for integrity violations
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// translateError maps driver and GORM errors to domain errors.
// Unknown errors are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrReferenceNotFound.Wrap(err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return shared.ErrConstraintViolation.Wrap(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return withDetail(shared.ErrReferenceNotFound, pgErr.Detail).Wrap(err)
		case pgNotNullViolation, pgUniqueViolation, pgCheckViolation:
			return withDetail(shared.ErrConstraintViolation, pgErr.Detail).Wrap(err)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		if liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return shared.ErrReferenceNotFound.Wrap(err)
		}
		return shared.ErrConstraintViolation.Wrap(err)
	}

	if isUnavailable(err) {
		return shared.ErrStoreUnavailable.Wrap(err)
	}
	return err
}

// isUnavailable reports connection-level failures, including running out of
// time while waiting for a pooled connection.
func isUnavailable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, gorm.ErrInvalidDB)
}

func withDetail(base *shared.DomainError, detail string) *shared.DomainError {
	if detail == "" {
		return base
	}
	return base.WithMessage(fmt.Sprintf("%s: %s", base.Message, detail))
}
