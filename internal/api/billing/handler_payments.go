package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPaymentHistory(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	payments, err := h.payments.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments, "total": len(payments)})
}
