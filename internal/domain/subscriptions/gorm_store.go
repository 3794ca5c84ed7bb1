package subscriptions

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists subscriptions in Postgres. Mutations take a row
// lock (SELECT ... FOR UPDATE) inside a transaction so that two
// concurrent webhook events for the same record serialize.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByUserID(ctx context.Context, userID uint) (*Subscription, error) {
	var sub Subscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) FindByExternalID(ctx context.Context, externalID string) (*Subscription, error) {
	var sub Subscription
	err := s.db.WithContext(ctx).Where("stripe_subscription_id = ?", externalID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) ListExpired(ctx context.Context, before time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := s.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", StatusActive, before).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *GormStore) Upsert(ctx context.Context, userID uint, mutate func(*Subscription) error) (*Subscription, bool, error) {
	var sub Subscription
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sub = Subscription{UserID: userID, Tier: TierFree, Status: StatusActive}
			created = true
		} else if err != nil {
			return err
		}

		if err := mutate(&sub); err != nil {
			return err
		}
		return tx.Save(&sub).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Unique index on stripe_subscription_id: a racing bind of the
		// same external id by another user loses here.
		return nil, false, ErrExternalIDConflict
	}
	if err != nil {
		return nil, false, err
	}
	return &sub, created, nil
}

func (s *GormStore) UpdateByExternalID(ctx context.Context, externalID string, mutate func(*Subscription) error) (*Subscription, error) {
	var sub Subscription

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("stripe_subscription_id = ?", externalID).
			First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		if err != nil {
			return err
		}

		if err := mutate(&sub); err != nil {
			return err
		}
		return tx.Save(&sub).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrExternalIDConflict
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
