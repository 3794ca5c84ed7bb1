// Package notify is the boundary to the notification dispatcher:
// accept a request and return immediately; delivery and its retries
// are the dispatcher's concern.
package notify

// Kind is a notification template selector.
type Kind string

const (
	KindWelcome               Kind = "welcome"
	KindSubscriptionConfirmed Kind = "subscription_confirmed"
	KindPaymentFailed         Kind = "payment_failed"
	KindCancelled             Kind = "cancelled"
)

// Request is one fire-and-forget notification for a user.
type Request struct {
	Kind   Kind
	UserID uint
	Data   map[string]string
}

// Dispatcher accepts notification requests without blocking the caller.
type Dispatcher interface {
	Notify(kind Kind, userID uint, data map[string]string)
}
