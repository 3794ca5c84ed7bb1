package stripewebhooks

import "github.com/stripe/stripe-go/v75"

// Stripe-ish normalization used ONLY for subscription.updated routing.
func normalizeStatus(s stripe.SubscriptionStatus) string {
	switch s {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return "active"
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return "past_due"
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return "canceled"
	default:
		return string(s)
	}
}
