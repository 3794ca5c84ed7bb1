package billing

import (
	"context"
	"net/http"
	"strconv"

	"newsletter-app/internal/domain/billing"
	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/domain/users"
	"newsletter-app/internal/notify"

	"github.com/gin-gonic/gin"
)

// UserStore is the slice of the users store the billing API needs.
type UserStore interface {
	FindByID(ctx context.Context, userID uint) (*users.User, error)
}

type Handler struct {
	users    UserStore
	subs     subscriptions.Store
	machine  *subscriptions.Machine
	payments billing.PaymentStore
	notifier notify.Dispatcher
}

func NewHandler(users UserStore, subs subscriptions.Store, machine *subscriptions.Machine, payments billing.PaymentStore, notifier notify.Dispatcher) *Handler {
	return &Handler{
		users:    users,
		subs:     subs,
		machine:  machine,
		payments: payments,
		notifier: notifier,
	}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user id"})
		return 0, false
	}
	return uint(id), true
}
