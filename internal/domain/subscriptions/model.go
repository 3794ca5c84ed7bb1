package subscriptions

import "time"

// Tier constants (single source of truth)
const (
	TierFree    = "free"
	TierPremium = "premium"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

type Subscription struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_subscriptions_user_id" json:"user_id"`
	Tier   string `gorm:"type:varchar(20);not null;default:'free'" json:"tier"`
	Status string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	// Billing-provider subscription id. Unique when present; never
	// reassigned across users.
	StripeSubscriptionID *string `gorm:"column:stripe_subscription_id;uniqueIndex:idx_subscriptions_stripe_id" json:"stripe_subscription_id,omitempty"`

	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasPremium reports whether the record grants premium content access.
func (s *Subscription) HasPremium() bool {
	return s.Tier == TierPremium && s.Status == StatusActive
}

func (s *Subscription) ExternalID() string {
	if s.StripeSubscriptionID == nil {
		return ""
	}
	return *s.StripeSubscriptionID
}
