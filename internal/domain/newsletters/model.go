package newsletters

import "time"

// Visibility classes for a newsletter. Validated on write; the access
// gate treats anything else as deny.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
	VisibilityPremium = "premium"
)

func ValidVisibility(v string) bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityPremium:
		return true
	}
	return false
}

type Newsletter struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Summary    string `gorm:"type:text" json:"summary,omitempty"`
	Visibility string `gorm:"type:varchar(20);not null;default:'public'" json:"visibility"`
	CreatorID  uint   `gorm:"not null;index:idx_newsletters_creator_id" json:"creator_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Preview marks a returned view whose content was replaced by the
	// summary teaser. Never persisted.
	Preview bool `gorm:"-" json:"is_preview,omitempty"`
}
