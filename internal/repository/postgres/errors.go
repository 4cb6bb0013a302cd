package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"

	constraintUserEmail       = "users_email_key"
	constraintUserFirebaseUID = "users_firebase_uid_key"
)

// classify maps PostgreSQL constraint violations onto model errors.
// Any other error is returned unchanged.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintUserEmail:
			return model.ErrDuplicateEmail
		case constraintUserFirebaseUID:
			return model.ErrDuplicateExternalUID
		default:
			return model.ErrPersistenceConflict
		}
	case codeForeignKeyViolation:
		return model.ErrNotFound
	}
	return err
}
