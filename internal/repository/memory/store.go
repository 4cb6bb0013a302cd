// Package memory provides an in-process store that enforces the same
// uniqueness rules as the PostgreSQL schema. It backs local runs without a
// database and the service tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

var (
	_ model.Transactor      = (*Store)(nil)
	_ model.UserStore       = (*userStore)(nil)
	_ model.ProfileStore    = (*profileStore)(nil)
	_ model.RevocationStore = (*Store)(nil)
	_ model.Pinger          = (*Store)(nil)
)

type state struct {
	users       map[uuid.UUID]model.User
	profiles    map[uuid.UUID]model.Profile
	revocations map[string]time.Time
}

func (s *state) clone() *state {
	c := &state{
		users:       make(map[uuid.UUID]model.User, len(s.users)),
		profiles:    make(map[uuid.UUID]model.Profile, len(s.profiles)),
		revocations: make(map[string]time.Time, len(s.revocations)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.revocations {
		c.revocations[k] = v
	}
	return c
}

// Store is safe for concurrent use. Transactions are serialized.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{
		state: &state{
			users:       make(map[uuid.UUID]model.User),
			profiles:    make(map[uuid.UUID]model.Profile),
			revocations: make(map[string]time.Time),
		},
	}
}

func (s *Store) Users() model.UserStore {
	return &userStore{store: s}
}

func (s *Store) Profiles() model.ProfileStore {
	return &profileStore{store: s}
}

// InTx runs fn with exclusive access. Every change made through the handed
// out stores is discarded when fn fails or panics.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, users model.UserStore, profiles model.ProfileStore) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			panic(p)
		}
		if err != nil {
			s.state = snapshot
		}
	}()

	return fn(ctx, &userStore{store: s, inTx: true}, &profileStore{store: s, inTx: true})
}

func (s *Store) RevokedAt(_ context.Context, externalUID string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.revocations[externalUID], nil
}

func (s *Store) Revoke(_ context.Context, externalUID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if at.After(s.state.revocations[externalUID]) {
		s.state.revocations[externalUID] = at
	}
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// run executes fn under the store lock unless the caller already holds it.
func (s *Store) run(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.state)
}

type userStore struct {
	store *Store
	inTx  bool
}

func (u *userStore) find(match func(model.User) bool) (model.User, error) {
	var found model.User
	err := u.store.run(u.inTx, func(st *state) error {
		for _, user := range st.users {
			if match(user) {
				found = user
				return nil
			}
		}
		return model.ErrNotFound
	})
	return found, err
}

func (u *userStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	return u.find(func(user model.User) bool { return user.ID == id })
}

func (u *userStore) GetByExternalUID(_ context.Context, externalUID string) (model.User, error) {
	return u.find(func(user model.User) bool {
		return user.ExternalUID != nil && *user.ExternalUID == externalUID
	})
}

func (u *userStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	return u.find(func(user model.User) bool {
		return user.Email != "" && strings.EqualFold(user.Email, email)
	})
}

func (u *userStore) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := u.find(func(user model.User) bool { return user.Username == username })
	return err == nil, nil
}

func (u *userStore) EmailTaken(_ context.Context, email string, exceptID uuid.UUID) (bool, error) {
	_, err := u.find(func(user model.User) bool {
		return user.ID != exceptID && user.Email != "" && strings.EqualFold(user.Email, email)
	})
	return err == nil, nil
}

func (u *userStore) Create(_ context.Context, user model.User) (model.User, error) {
	err := u.store.run(u.inTx, func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return model.ErrPersistenceConflict
		}
		if err := checkUnique(st, user); err != nil {
			return err
		}
		st.users[user.ID] = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (u *userStore) Update(_ context.Context, user model.User) (model.User, error) {
	err := u.store.run(u.inTx, func(st *state) error {
		existing, ok := st.users[user.ID]
		if !ok {
			return model.ErrNotFound
		}
		if err := checkUnique(st, user); err != nil {
			return err
		}
		user.Username = existing.Username
		user.CreatedAt = existing.CreatedAt
		st.users[user.ID] = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func checkUnique(st *state, user model.User) error {
	for id, other := range st.users {
		if id == user.ID {
			continue
		}
		if user.ExternalUID != nil && other.ExternalUID != nil && *user.ExternalUID == *other.ExternalUID {
			return model.ErrDuplicateExternalUID
		}
		if user.Email != "" && strings.EqualFold(user.Email, other.Email) {
			return model.ErrDuplicateEmail
		}
		if user.Username == other.Username {
			return model.ErrPersistenceConflict
		}
	}
	return nil
}

type profileStore struct {
	store *Store
	inTx  bool
}

func (p *profileStore) GetByUserID(_ context.Context, userID uuid.UUID) (model.Profile, error) {
	var profile model.Profile
	err := p.store.run(p.inTx, func(st *state) error {
		found, ok := st.profiles[userID]
		if !ok {
			return model.ErrNotFound
		}
		profile = found
		return nil
	})
	return profile, err
}

func (p *profileStore) Create(_ context.Context, profile model.Profile) (model.Profile, error) {
	err := p.store.run(p.inTx, func(st *state) error {
		if _, ok := st.users[profile.UserID]; !ok {
			return model.ErrNotFound
		}
		if _, ok := st.profiles[profile.UserID]; ok {
			return model.ErrPersistenceConflict
		}
		now := time.Now().UTC()
		profile.CreatedAt, profile.UpdatedAt = now, now
		st.profiles[profile.UserID] = profile
		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

func (p *profileStore) Update(_ context.Context, profile model.Profile) (model.Profile, error) {
	err := p.store.run(p.inTx, func(st *state) error {
		existing, ok := st.profiles[profile.UserID]
		if !ok {
			return model.ErrNotFound
		}
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		profile.UpdatedAt = time.Now().UTC()
		st.profiles[profile.UserID] = profile
		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}
