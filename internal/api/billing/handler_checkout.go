package billing

import (
	"fmt"
	"net/http"
	"os"

	"newsletter-app/internal/domain/billing"
	"newsletter-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		UserID     uint   `json:"user_id"`
		PriceID    string `json:"price_id"`
		SuccessURL string `json:"success_url"`
		CancelURL  string `json:"cancel_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User ID is required"})
		return
	}
	if body.PriceID == "" {
		body.PriceID = "price_premium_monthly"
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Stripe key not configured"})
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), body.UserID)
	if err != nil {
		if err == users.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load user"})
		return
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:5173"
	}
	if body.SuccessURL == "" {
		body.SuccessURL = appURL + "/subscription/success"
	}
	if body.CancelURL == "" {
		body.CancelURL = appURL + "/subscription/cancel"
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(body.SuccessURL),
		CancelURL:  stripe.String(body.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(body.PriceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
			},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	// Pending ledger row; the webhook completes it.
	payment := billing.Payment{
		UserID:          user.ID,
		StripeSessionID: s.ID,
		Amount:          0,
		Status:          billing.PaymentPending,
	}
	if err := h.payments.Create(c.Request.Context(), &payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store payment record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": s.ID, "url": s.URL})
}
