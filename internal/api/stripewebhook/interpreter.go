package stripewebhooks

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/notify"

	"github.com/stripe/stripe-go/v75"
)

// ErrMalformedPayload marks an event body that parsed as JSON but is
// missing the correlation fields a known event type requires.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// Directive pairs a subscription command with the notifications to
// queue once the command has effectively applied.
type Directive struct {
	Command subscriptions.Command
	Notify  []notify.Kind
}

// CheckoutCompletion closes out a pending payments-ledger row.
type CheckoutCompletion struct {
	SessionID string
	Amount    float64
}

// Interpretation is everything a verified event asks the system to do.
type Interpretation struct {
	Directives []Directive
	Checkouts  []CheckoutCompletion
}

// Interpret classifies a verified Stripe event into subscription
// commands and side-effect requests. It touches no state: applying the
// commands is the caller's job. Unknown event types are tolerated and
// produce an empty interpretation.
func Interpret(event stripe.Event) (Interpretation, error) {
	switch event.Type {
	case "checkout.session.completed":
		return interpretCheckoutCompleted(event)
	case "invoice.payment_succeeded", "invoice.payment_failed":
		return interpretInvoice(event)
	case "customer.subscription.updated":
		return interpretSubscriptionUpdated(event)
	case "customer.subscription.deleted":
		return interpretSubscriptionDeleted(event)
	default:
		log.Printf("stripe webhook: ignoring event type %s", event.Type)
		return Interpretation{}, nil
	}
}

func parseUserID(ref string) (uint, error) {
	if ref == "" {
		return 0, fmt.Errorf("%w: missing client_reference_id", ErrMalformedPayload)
	}
	uid, err := strconv.ParseUint(ref, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid client_reference_id %q", ErrMalformedPayload, ref)
	}
	return uint(uid), nil
}
