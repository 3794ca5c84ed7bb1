package billing

import (
	"net/http"

	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/domain/users"
	"newsletter-app/internal/notify"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSubscriptionStatus(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	sub, err := h.subs.FindByUserID(c.Request.Context(), userID)
	if err == subscriptions.ErrSubscriptionNotFound {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"subscription": gin.H{
				"tier":        subscriptions.TierFree,
				"status":      "none",
				"has_premium": false,
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"subscription": gin.H{
			"tier":                   sub.Tier,
			"status":                 sub.Status,
			"has_premium":            sub.HasPremium(),
			"stripe_subscription_id": sub.StripeSubscriptionID,
			"expires_at":             sub.ExpiresAt,
		},
	})
}

// UpgradeToPremium activates a premium subscription directly, without
// a billing event. Demo/administrative shortcut.
func (h *Handler) UpgradeToPremium(c *gin.Context) {
	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User ID is required"})
		return
	}

	if _, err := h.users.FindByID(c.Request.Context(), body.UserID); err != nil {
		if err == users.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load user"})
		return
	}

	transition, err := h.machine.Activate(c.Request.Context(), body.UserID, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to upgrade subscription"})
		return
	}

	if transition.Created {
		h.notifier.Notify(notify.KindWelcome, body.UserID, nil)
	}
	h.notifier.Notify(notify.KindSubscriptionConfirmed, body.UserID,
		map[string]string{"tier": transition.Subscription.Tier})

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "User upgraded to premium successfully",
		"subscription": transition.Subscription,
	})
}
