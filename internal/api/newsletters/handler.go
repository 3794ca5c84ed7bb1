package newsletters

import (
	"errors"
	"net/http"
	"strconv"

	"newsletter-app/internal/domain/access"
	"newsletter-app/internal/domain/newsletters"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db   *gorm.DB
	gate *access.Gate
}

func NewHandler(db *gorm.DB, gate *access.Gate) *Handler {
	return &Handler{db: db, gate: gate}
}

// requesterID reads the optional user_id query param. Nil means
// anonymous. The boundary assumes the id was validated upstream.
func requesterID(c *gin.Context) *uint {
	raw := c.Query("user_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	uid := uint(id)
	return &uid
}

func (h *Handler) load(c *gin.Context) (*newsletters.Newsletter, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid newsletter id"})
		return nil, false
	}

	var n newsletters.Newsletter
	if err := h.db.Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Newsletter not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load newsletter"})
		}
		return nil, false
	}
	return &n, true
}

// ListNewsletters returns every newsletter the requester may see,
// optionally narrowed to one visibility class. Premium items the
// requester cannot read in full come back as summary previews.
func (h *Handler) ListNewsletters(c *gin.Context) {
	query := h.db.Model(&newsletters.Newsletter{})
	if v := c.Query("visibility"); v != "" && v != "all" {
		query = query.Where("visibility = ?", v)
	}

	var items []newsletters.Newsletter
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load newsletters"})
		return
	}

	uid := requesterID(c)
	accessible := h.gate.FilterByAccess(c.Request.Context(), items, uid)

	c.JSON(http.StatusOK, gin.H{
		"newsletters": accessible,
		"total":       len(accessible),
		"user_id":     uid,
	})
}

func (h *Handler) GetNewsletter(c *gin.Context) {
	n, ok := h.load(c)
	if !ok {
		return
	}

	decision := h.gate.CanAccess(c.Request.Context(), n, requesterID(c))

	switch {
	case decision.CanAccess:
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"newsletter":  decision.Newsletter,
			"access_type": decision.ContentType,
		})
	case decision.ContentType == access.ContentSummary:
		c.JSON(http.StatusOK, gin.H{
			"success":          false,
			"newsletter":       decision.Newsletter,
			"access_type":      decision.ContentType,
			"reason":           decision.Reason,
			"upgrade_required": decision.UpgradeRequired,
		})
	default:
		c.JSON(http.StatusForbidden, gin.H{
			"success":          false,
			"reason":           decision.Reason,
			"upgrade_required": decision.UpgradeRequired,
		})
	}
}

// CheckAccess exposes the raw access decision for a newsletter.
func (h *Handler) CheckAccess(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid newsletter id"})
		return
	}

	var n newsletters.Newsletter
	findErr := h.db.Where("id = ?", id).First(&n).Error
	var target *newsletters.Newsletter
	if findErr == nil {
		target = &n
	}

	decision := h.gate.CanAccess(c.Request.Context(), target, requesterID(c))
	c.JSON(http.StatusOK, decision)
}

func (h *Handler) CreateNewsletter(c *gin.Context) {
	var body struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Summary    string `json:"summary"`
		Visibility string `json:"visibility"`
		CreatorID  uint   `json:"creator_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Title == "" || body.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	if body.Visibility == "" {
		body.Visibility = newsletters.VisibilityPublic
	}
	if !newsletters.ValidVisibility(body.Visibility) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visibility. Must be one of: public, private, premium"})
		return
	}
	if body.CreatorID == 0 {
		body.CreatorID = 1
	}

	n := newsletters.Newsletter{
		Title:      body.Title,
		Content:    body.Content,
		Summary:    body.Summary,
		Visibility: body.Visibility,
		CreatorID:  body.CreatorID,
	}
	if err := h.db.Create(&n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create newsletter"})
		return
	}

	c.JSON(http.StatusCreated, n)
}

func (h *Handler) UpdateNewsletter(c *gin.Context) {
	n, ok := h.load(c)
	if !ok {
		return
	}

	var body struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		Summary    *string `json:"summary"`
		Visibility *string `json:"visibility"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if body.Title != nil {
		n.Title = *body.Title
	}
	if body.Content != nil {
		n.Content = *body.Content
	}
	if body.Summary != nil {
		n.Summary = *body.Summary
	}
	if body.Visibility != nil {
		if !newsletters.ValidVisibility(*body.Visibility) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visibility. Must be one of: public, private, premium"})
			return
		}
		n.Visibility = *body.Visibility
	}

	if err := h.db.Save(n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update newsletter"})
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNewsletter(c *gin.Context) {
	n, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.Delete(n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete newsletter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Newsletter deleted successfully"})
}

// SetVisibility changes a newsletter's visibility class. Creator only.
func (h *Handler) SetVisibility(c *gin.Context) {
	n, ok := h.load(c)
	if !ok {
		return
	}

	var body struct {
		UserID     uint   `json:"user_id"`
		Visibility string `json:"visibility"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == 0 || body.Visibility == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "visibility and user_id are required"})
		return
	}

	if n.CreatorID != body.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only the creator can change visibility"})
		return
	}
	if !newsletters.ValidVisibility(body.Visibility) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid visibility. Must be one of: public, private, premium"})
		return
	}

	n.Visibility = body.Visibility
	if err := h.db.Save(n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update visibility"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Newsletter visibility updated to " + body.Visibility,
		"newsletter": n,
	})
}
