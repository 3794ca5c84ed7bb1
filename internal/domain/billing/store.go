package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EventLog tracks Stripe event ids that were already processed.
type EventLog interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, eventID, eventType string) error
}

// PaymentStore is the payments ledger.
type PaymentStore interface {
	Create(ctx context.Context, p *Payment) error
	// Complete marks the payment for a checkout session as completed.
	// Unknown session ids are ignored: one-time payments may be created
	// elsewhere or the pending row may have been pruned.
	Complete(ctx context.Context, sessionID string, amount float64) error
	ListByUser(ctx context.Context, userID uint) ([]Payment, error)
}

type GormEventLog struct {
	db *gorm.DB
}

func NewGormEventLog(db *gorm.DB) *GormEventLog {
	return &GormEventLog{db: db}
}

func (l *GormEventLog) Seen(ctx context.Context, eventID string) (bool, error) {
	var ev ProcessedEvent
	err := l.db.WithContext(ctx).Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *GormEventLog) Record(ctx context.Context, eventID, eventType string) error {
	ev := ProcessedEvent{EventID: eventID, Type: eventType}
	return l.db.WithContext(ctx).Create(&ev).Error
}

type GormPaymentStore struct {
	db *gorm.DB
}

func NewGormPaymentStore(db *gorm.DB) *GormPaymentStore {
	return &GormPaymentStore{db: db}
}

func (s *GormPaymentStore) Create(ctx context.Context, p *Payment) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormPaymentStore) Complete(ctx context.Context, sessionID string, amount float64) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&Payment{}).
		Where("stripe_session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":       PaymentCompleted,
			"amount":       amount,
			"completed_at": now,
		}).Error
}

func (s *GormPaymentStore) ListByUser(ctx context.Context, userID uint) ([]Payment, error) {
	var payments []Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
