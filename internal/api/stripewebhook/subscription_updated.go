package stripewebhooks

import (
	"encoding/json"
	"fmt"

	"newsletter-app/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
)

func interpretSubscriptionUpdated(event stripe.Event) (Interpretation, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return Interpretation{}, fmt.Errorf("%w: subscription: %v", ErrMalformedPayload, err)
	}
	if sub.ID == "" {
		return Interpretation{}, fmt.Errorf("%w: subscription missing id", ErrMalformedPayload)
	}

	switch normalizeStatus(sub.Status) {
	case "active":
		return Interpretation{
			Directives: []Directive{{
				Command: subscriptions.Command{Kind: subscriptions.CmdReactivate, ExternalID: sub.ID},
			}},
		}, nil
	case "past_due", "canceled":
		return Interpretation{
			Directives: []Directive{{
				Command: subscriptions.Command{Kind: subscriptions.CmdDowngrade, ExternalID: sub.ID},
			}},
		}, nil
	default:
		// incomplete, paused and friends carry no transition for us.
		return Interpretation{}, nil
	}
}
