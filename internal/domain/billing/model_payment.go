package billing

import "time"

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

type Payment struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	UserID          uint    `gorm:"not null;index:idx_payments_user_id" json:"user_id"`
	StripeSessionID string  `gorm:"column:stripe_session_id;not null;uniqueIndex:idx_payments_stripe_session_id" json:"stripe_session_id"`
	Amount          float64 `gorm:"not null" json:"amount"`
	Currency        string  `gorm:"type:varchar(3);default:'usd'" json:"currency"`
	Status          string  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ProcessedEvent records a handled Stripe event id so redelivered
// events are acknowledged without reapplying their effects.
type ProcessedEvent struct {
	EventID   string    `gorm:"primaryKey;column:event_id" json:"event_id"`
	Type      string    `gorm:"not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
