package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

var _ model.RevocationStore = (*RevocationRepository)(nil)

// RevocationRepository keeps the per-subject token revocation cut-off.
type RevocationRepository struct {
	db DBTX
}

func NewRevocationRepository(db DBTX) *RevocationRepository {
	return &RevocationRepository{
		db: db,
	}
}

func (r *RevocationRepository) RevokedAt(ctx context.Context, externalUID string) (time.Time, error) {
	query := `SELECT revoked_at FROM token_revocations WHERE firebase_uid = $1`

	var revokedAt time.Time
	err := r.db.QueryRowContext(ctx, query, externalUID).Scan(&revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get revocation: %w", err)
	}

	return revokedAt, nil
}

func (r *RevocationRepository) Revoke(ctx context.Context, externalUID string, at time.Time) error {
	query := `INSERT INTO token_revocations (firebase_uid, revoked_at) VALUES ($1, $2)
			  ON CONFLICT (firebase_uid) DO UPDATE SET revoked_at = GREATEST(token_revocations.revoked_at, EXCLUDED.revoked_at)`

	if _, err := r.db.ExecContext(ctx, query, externalUID, at); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	return nil
}
