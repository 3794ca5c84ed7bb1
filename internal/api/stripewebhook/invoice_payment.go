package stripewebhooks

import (
	"encoding/json"
	"fmt"

	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/notify"

	"github.com/stripe/stripe-go/v75"
)

func interpretInvoice(event stripe.Event) (Interpretation, error) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return Interpretation{}, fmt.Errorf("%w: invoice: %v", ErrMalformedPayload, err)
	}

	// Invoices without a subscription (one-off charges) carry nothing
	// for the subscription lifecycle.
	if invoice.Subscription == nil || invoice.Subscription.ID == "" {
		return Interpretation{}, nil
	}
	externalID := invoice.Subscription.ID

	if event.Type == "invoice.payment_failed" {
		return Interpretation{
			Directives: []Directive{{
				Command: subscriptions.Command{Kind: subscriptions.CmdMarkAtRisk, ExternalID: externalID},
				Notify:  []notify.Kind{notify.KindPaymentFailed},
			}},
		}, nil
	}

	return Interpretation{
		Directives: []Directive{{
			Command: subscriptions.Command{Kind: subscriptions.CmdRenew, ExternalID: externalID},
			Notify:  []notify.Kind{notify.KindSubscriptionConfirmed},
		}},
	}, nil
}
