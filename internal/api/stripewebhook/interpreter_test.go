package stripewebhooks

import (
	"encoding/json"
	"testing"

	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

func event(eventType string, object string) stripe.Event {
	return stripe.Event{
		ID:   "evt_test",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(object)},
	}
}

func TestInterpretCheckoutCompletedSubscription(t *testing.T) {
	ev := event("checkout.session.completed",
		`{"id":"cs_1","mode":"subscription","client_reference_id":"42","subscription":"sub_1","amount_total":999}`)

	interp, err := Interpret(ev)
	require.NoError(t, err)

	require.Len(t, interp.Directives, 1)
	cmd := interp.Directives[0].Command
	assert.Equal(t, subscriptions.CmdActivate, cmd.Kind)
	assert.Equal(t, uint(42), cmd.UserID)
	assert.Equal(t, "sub_1", cmd.ExternalID)
	assert.Equal(t, []notify.Kind{notify.KindSubscriptionConfirmed}, interp.Directives[0].Notify)

	require.Len(t, interp.Checkouts, 1)
	assert.Equal(t, "cs_1", interp.Checkouts[0].SessionID)
	assert.InDelta(t, 9.99, interp.Checkouts[0].Amount, 0.001)
}

func TestInterpretCheckoutCompletedOneTimePayment(t *testing.T) {
	ev := event("checkout.session.completed",
		`{"id":"cs_2","mode":"payment","client_reference_id":"42","amount_total":500}`)

	interp, err := Interpret(ev)
	require.NoError(t, err)
	assert.Empty(t, interp.Directives)
	require.Len(t, interp.Checkouts, 1)
	assert.Equal(t, "cs_2", interp.Checkouts[0].SessionID)
}

func TestInterpretCheckoutCompletedMissingReference(t *testing.T) {
	ev := event("checkout.session.completed",
		`{"id":"cs_3","mode":"subscription","subscription":"sub_1"}`)

	_, err := Interpret(ev)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestInterpretCheckoutCompletedMissingSubscription(t *testing.T) {
	ev := event("checkout.session.completed",
		`{"id":"cs_4","mode":"subscription","client_reference_id":"42"}`)

	_, err := Interpret(ev)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestInterpretInvoicePaymentSucceeded(t *testing.T) {
	ev := event("invoice.payment_succeeded", `{"id":"in_1","subscription":"sub_1"}`)

	interp, err := Interpret(ev)
	require.NoError(t, err)
	require.Len(t, interp.Directives, 1)
	assert.Equal(t, subscriptions.CmdRenew, interp.Directives[0].Command.Kind)
	assert.Equal(t, "sub_1", interp.Directives[0].Command.ExternalID)
	assert.Equal(t, []notify.Kind{notify.KindSubscriptionConfirmed}, interp.Directives[0].Notify)
}

func TestInterpretInvoicePaymentFailed(t *testing.T) {
	ev := event("invoice.payment_failed", `{"id":"in_2","subscription":"sub_1"}`)

	interp, err := Interpret(ev)
	require.NoError(t, err)
	require.Len(t, interp.Directives, 1)
	assert.Equal(t, subscriptions.CmdMarkAtRisk, interp.Directives[0].Command.Kind)
	assert.Equal(t, []notify.Kind{notify.KindPaymentFailed}, interp.Directives[0].Notify)
}

func TestInterpretInvoiceWithoutSubscription(t *testing.T) {
	ev := event("invoice.payment_succeeded", `{"id":"in_3"}`)

	interp, err := Interpret(ev)
	require.NoError(t, err)
	assert.Empty(t, interp.Directives)
}

func TestInterpretSubscriptionDeleted(t *testing.T) {
	ev := event("customer.subscription.deleted", `{"id":"sub_1","status":"canceled"}`)

	interp, err := Interpret(ev)
	require.NoError(t, err)
	require.Len(t, interp.Directives, 1)
	assert.Equal(t, subscriptions.CmdCancel, interp.Directives[0].Command.Kind)
	assert.Equal(t, []notify.Kind{notify.KindCancelled}, interp.Directives[0].Notify)
}

func TestInterpretSubscriptionUpdated(t *testing.T) {
	tests := []struct {
		status string
		kind   subscriptions.CommandKind
		none   bool
	}{
		{status: "active", kind: subscriptions.CmdReactivate},
		{status: "trialing", kind: subscriptions.CmdReactivate},
		{status: "past_due", kind: subscriptions.CmdDowngrade},
		{status: "unpaid", kind: subscriptions.CmdDowngrade},
		{status: "canceled", kind: subscriptions.CmdDowngrade},
		{status: "incomplete", none: true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			ev := event("customer.subscription.updated",
				`{"id":"sub_1","status":"`+tt.status+`"}`)

			interp, err := Interpret(ev)
			require.NoError(t, err)
			if tt.none {
				assert.Empty(t, interp.Directives)
				return
			}
			require.Len(t, interp.Directives, 1)
			assert.Equal(t, tt.kind, interp.Directives[0].Command.Kind)
			assert.Empty(t, interp.Directives[0].Notify)
		})
	}
}

func TestInterpretUnknownEventType(t *testing.T) {
	ev := event("charge.refunded", `{"id":"ch_1"}`)

	interp, err := Interpret(ev)
	require.NoError(t, err)
	assert.Empty(t, interp.Directives)
	assert.Empty(t, interp.Checkouts)
}

func TestInterpretMalformedBody(t *testing.T) {
	ev := event("customer.subscription.deleted", `{"id":`)

	_, err := Interpret(ev)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
