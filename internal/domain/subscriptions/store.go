package subscriptions

import (
	"context"
	"time"
)

// Store is the durable record store for subscriptions. One record per
// user; stripe_subscription_id unique when present.
//
// Upsert and UpdateByExternalID are the only mutation paths. Both run
// mutate inside a single atomic read-modify-write per record, so
// concurrent events for the same subscription can never interleave into
// an inconsistent (tier, status) pair.
type Store interface {
	FindByUserID(ctx context.Context, userID uint) (*Subscription, error)
	FindByExternalID(ctx context.Context, externalID string) (*Subscription, error)
	ListExpired(ctx context.Context, before time.Time) ([]Subscription, error)

	// Upsert locks the record for userID, creating a fresh free/active
	// record if none exists, applies mutate and persists the result.
	// Reports whether the record was newly created.
	Upsert(ctx context.Context, userID uint, mutate func(*Subscription) error) (*Subscription, bool, error)

	// UpdateByExternalID locks the record matching externalID, applies
	// mutate and persists the result. Returns ErrSubscriptionNotFound
	// if no record matches.
	UpdateByExternalID(ctx context.Context, externalID string, mutate func(*Subscription) error) (*Subscription, error)
}
