package postgres

import (
	"context"
	"database/sql"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

var _ model.Transactor = (*Store)(nil)

// Store hands out repositories bound either to the pool or to a transaction.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) Users() model.UserStore {
	return NewUserRepository(s.db)
}

func (s *Store) Profiles() model.ProfileStore {
	return NewProfileRepository(s.db)
}

func (s *Store) Revocations() *RevocationRepository {
	return NewRevocationRepository(s.db)
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, users model.UserStore, profiles model.ProfileStore) error) error {
	return withTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, NewUserRepository(tx), NewProfileRepository(tx))
	})
}
