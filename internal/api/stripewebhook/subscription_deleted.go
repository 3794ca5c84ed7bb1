package stripewebhooks

import (
	"encoding/json"
	"fmt"

	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/notify"

	"github.com/stripe/stripe-go/v75"
)

func interpretSubscriptionDeleted(event stripe.Event) (Interpretation, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return Interpretation{}, fmt.Errorf("%w: subscription: %v", ErrMalformedPayload, err)
	}
	if sub.ID == "" {
		return Interpretation{}, fmt.Errorf("%w: subscription missing id", ErrMalformedPayload)
	}

	return Interpretation{
		Directives: []Directive{{
			Command: subscriptions.Command{Kind: subscriptions.CmdCancel, ExternalID: sub.ID},
			Notify:  []notify.Kind{notify.KindCancelled},
		}},
	}, nil
}
