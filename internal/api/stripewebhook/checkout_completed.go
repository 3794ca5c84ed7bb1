package stripewebhooks

import (
	"encoding/json"
	"fmt"

	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/notify"

	"github.com/stripe/stripe-go/v75"
)

func interpretCheckoutCompleted(event stripe.Event) (Interpretation, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return Interpretation{}, fmt.Errorf("%w: checkout session: %v", ErrMalformedPayload, err)
	}

	var out Interpretation
	if session.ID != "" {
		out.Checkouts = append(out.Checkouts, CheckoutCompletion{
			SessionID: session.ID,
			Amount:    float64(session.AmountTotal) / 100.0,
		})
	}

	// One-time payments settle the ledger only; subscriptions come in
	// through mode=subscription.
	if session.Mode != stripe.CheckoutSessionModeSubscription {
		return out, nil
	}

	userID, err := parseUserID(session.ClientReferenceID)
	if err != nil {
		return Interpretation{}, err
	}
	if session.Subscription == nil || session.Subscription.ID == "" {
		return Interpretation{}, fmt.Errorf("%w: checkout session missing subscription", ErrMalformedPayload)
	}

	out.Directives = append(out.Directives, Directive{
		Command: subscriptions.Command{
			Kind:       subscriptions.CmdActivate,
			UserID:     userID,
			ExternalID: session.Subscription.ID,
		},
		Notify: []notify.Kind{notify.KindSubscriptionConfirmed},
	})
	return out, nil
}
