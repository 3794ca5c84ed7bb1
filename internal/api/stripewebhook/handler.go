package stripewebhooks

import (
	"errors"
	"io"
	"log"
	"net/http"

	"newsletter-app/internal/domain/billing"
	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxBodyBytes = 65536

// Handler owns the webhook ingestion path: verify the signature over
// the raw body, drop redelivered event ids, interpret the event into
// commands, apply them, then queue notifications.
type Handler struct {
	secret   string
	machine  *subscriptions.Machine
	notifier notify.Dispatcher
	events   billing.EventLog
	payments billing.PaymentStore
}

func New(secret string, machine *subscriptions.Machine, notifier notify.Dispatcher, events billing.EventLog, payments billing.PaymentStore) *Handler {
	return &Handler{
		secret:   secret,
		machine:  machine,
		notifier: notifier,
		events:   events,
		payments: payments,
	}
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	// Fail closed: nothing is touched before the signature checks out.
	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Println("❌ Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	ctx := c.Request.Context()

	seen, err := h.events.Seen(ctx, event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Event store unavailable"})
		return
	}
	if seen {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	interp, err := Interpret(event)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, directive := range interp.Directives {
		transition, err := h.machine.Apply(ctx, directive.Command)
		if errors.Is(err, subscriptions.ErrSubscriptionNotFound) {
			// Benign race: the event references an entity never
			// activated here. Drop the command, keep the event.
			log.Printf("stripe webhook: no subscription for %s, dropping %s",
				directive.Command.ExternalID, directive.Command.Kind)
			continue
		}
		if err != nil {
			// Conflicts and store failures must surface as a server
			// error so the provider retries and operators see it.
			log.Println("❌ Failed to apply subscription command:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply subscription update"})
			return
		}

		h.queueNotifications(directive, transition)
	}

	for _, checkout := range interp.Checkouts {
		if err := h.payments.Complete(ctx, checkout.SessionID, checkout.Amount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment record"})
			return
		}
	}

	if err := h.events.Record(ctx, event.ID, string(event.Type)); err != nil {
		// Commands are idempotent, so a lost dedupe record only costs a
		// harmless replay.
		log.Println("stripe webhook: failed to record event id:", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (h *Handler) queueNotifications(directive Directive, transition subscriptions.Transition) {
	userID := transition.Subscription.UserID

	if transition.Created {
		h.notifier.Notify(notify.KindWelcome, userID, nil)
	}
	for _, kind := range directive.Notify {
		var data map[string]string
		if kind == notify.KindSubscriptionConfirmed {
			data = map[string]string{"tier": transition.Subscription.Tier}
		}
		h.notifier.Notify(kind, userID, data)
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
