package newsletters

import (
	"net/http"
	"strconv"

	"newsletter-app/internal/domain/newsletters"
	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// StatsHandler reports how much of the catalog a user can reach.
type StatsHandler struct {
	handler *Handler
	subs    subscriptions.Store
}

func NewStatsHandler(h *Handler, subs subscriptions.Store) *StatsHandler {
	return &StatsHandler{handler: h, subs: subs}
}

func (s *StatsHandler) GetUserContentStats(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user id"})
		return
	}
	userID := uint(id)
	db := s.handler.db

	var user users.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	counts := map[string]int64{}
	for _, v := range []string{newsletters.VisibilityPublic, newsletters.VisibilityPrivate, newsletters.VisibilityPremium} {
		var n int64
		if err := db.Model(&newsletters.Newsletter{}).Where("visibility = ?", v).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count newsletters"})
			return
		}
		counts[v] = n
	}

	var ownCount int64
	if err := db.Model(&newsletters.Newsletter{}).Where("creator_id = ?", userID).Count(&ownCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count newsletters"})
		return
	}

	tier := subscriptions.TierFree
	status := "none"
	hasPremium := false
	if sub, err := s.subs.FindByUserID(c.Request.Context(), userID); err == nil {
		tier = sub.Tier
		status = sub.Status
		hasPremium = sub.HasPremium()
	}

	accessible := counts[newsletters.VisibilityPublic] + counts[newsletters.VisibilityPrivate]
	if hasPremium {
		accessible += counts[newsletters.VisibilityPremium]
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"user_id":                  userID,
			"subscription_tier":        tier,
			"subscription_status":      status,
			"has_premium_access":       hasPremium,
			"total_newsletters":        counts[newsletters.VisibilityPublic] + counts[newsletters.VisibilityPrivate] + counts[newsletters.VisibilityPremium],
			"accessible_newsletters":   accessible,
			"public_newsletters":       counts[newsletters.VisibilityPublic],
			"private_newsletters":      counts[newsletters.VisibilityPrivate],
			"premium_newsletters":      counts[newsletters.VisibilityPremium],
			"user_created_newsletters": ownCount,
		},
	})
}
