package subscriptions

import "errors"

var (
	// ErrSubscriptionNotFound means no local record matched the lookup.
	// Webhook callers recover it as a no-op: the event may reference an
	// entity that was never activated here, or raced its own activation.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrExternalIDConflict means a stripe subscription id already belongs
	// to a different user. Ownership is never silently reassigned.
	ErrExternalIDConflict = errors.New("stripe subscription id already assigned to another user")

	ErrUnknownCommand = errors.New("unknown subscription command")
)
