// Package accounttest provides an in-memory account.Store for tests.
package accounttest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/huzzdev/sincrolab-backend/account"
)

// Store is a concurrency-safe in-memory account.Store. Set Err to make
// every call fail with it.
type Store struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*account.Account
	order    []uuid.UUID
	Err      error
	Creates  int
	ByEmails int
}

var _ account.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[uuid.UUID]*account.Account)}
}

func (s *Store) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ByEmails++
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, account.ErrNotFound
}

func (s *Store) FindByID(_ context.Context, id string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, account.ErrNotFound
	}
	a, ok := s.byID[uid]
	if !ok {
		return nil, account.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) Create(_ context.Context, email, passwordHash string, role account.Role) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.byID {
		if a.Email == email {
			return nil, account.ErrEmailTaken
		}
	}
	now := time.Now()
	a := &account.Account{Email: email, PasswordHash: passwordHash, Role: role}
	a.ID = uuid.New()
	a.CreatedAt, a.UpdatedAt = now, now
	s.byID[a.ID] = a
	s.order = append(s.order, a.ID)
	s.Creates++
	cp := *a
	return &cp, nil
}

func (s *Store) List(_ context.Context, page account.Page) ([]account.Account, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	all := make([]account.Account, 0, len(s.byID))
	for _, id := range s.order {
		if a, ok := s.byID[id]; ok {
			all = append(all, *a)
		}
	}

	start := min(page.Offset(), len(all))
	end := min(start+page.Size, len(all))
	return all[start:end], int64(len(all)), nil
}

func (s *Store) UpdateRole(_ context.Context, id string, role account.Role) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, account.ErrNotFound
	}
	a, ok := s.byID[uid]
	if !ok {
		return nil, account.ErrNotFound
	}
	a.Role = role
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return account.ErrNotFound
	}
	if _, ok := s.byID[uid]; !ok {
		return account.ErrNotFound
	}
	delete(s.byID, uid)
	return nil
}

// Count returns the number of stored accounts.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
