package subscriptions

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local demos.
// A single mutex stands in for per-row locking; mutations are atomic
// per record just like the Postgres-backed store.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	byUser map[uint]*Subscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, byUser: make(map[uint]*Subscription)}
}

func (s *MemoryStore) FindByUserID(_ context.Context, userID uint) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byUser[userID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *MemoryStore) FindByExternalID(_ context.Context, externalID string) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.lookupExternal(externalID)
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *MemoryStore) ListExpired(_ context.Context, before time.Time) ([]Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []Subscription
	for _, sub := range s.byUser {
		if sub.Status == StatusActive && sub.ExpiresAt != nil && sub.ExpiresAt.Before(before) {
			expired = append(expired, *sub)
		}
	}
	return expired, nil
}

func (s *MemoryStore) Upsert(_ context.Context, userID uint, mutate func(*Subscription) error) (*Subscription, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byUser[userID]
	created := false
	if !ok {
		sub = &Subscription{ID: s.nextID, UserID: userID, Tier: TierFree, Status: StatusActive, CreatedAt: time.Now()}
		s.nextID++
		created = true
	}

	work := *sub
	if err := mutate(&work); err != nil {
		return nil, false, err
	}
	if s.externalIDTaken(&work) {
		return nil, false, ErrExternalIDConflict
	}
	work.UpdatedAt = time.Now()
	s.byUser[userID] = &work

	cp := work
	return &cp, created, nil
}

func (s *MemoryStore) UpdateByExternalID(_ context.Context, externalID string, mutate func(*Subscription) error) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.lookupExternal(externalID)
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	work := *sub
	if err := mutate(&work); err != nil {
		return nil, err
	}
	if s.externalIDTaken(&work) {
		return nil, ErrExternalIDConflict
	}
	work.UpdatedAt = time.Now()
	s.byUser[work.UserID] = &work

	cp := work
	return &cp, nil
}

// externalIDTaken reports whether another user already holds the
// record's external id, mirroring the Postgres unique index.
func (s *MemoryStore) externalIDTaken(work *Subscription) bool {
	if work.StripeSubscriptionID == nil || *work.StripeSubscriptionID == "" {
		return false
	}
	owner := s.lookupExternal(*work.StripeSubscriptionID)
	return owner != nil && owner.UserID != work.UserID
}

func (s *MemoryStore) lookupExternal(externalID string) *Subscription {
	if externalID == "" {
		return nil
	}
	for _, sub := range s.byUser {
		if sub.StripeSubscriptionID != nil && *sub.StripeSubscriptionID == externalID {
			return sub
		}
	}
	return nil
}
