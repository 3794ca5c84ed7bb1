package access

import "newsletter-app/internal/domain/newsletters"

// ContentType is what the requester is allowed to see.
type ContentType string

const (
	ContentFull    ContentType = "full"
	ContentSummary ContentType = "summary"
	ContentNone    ContentType = "none"
)

// Decision is the outcome of an access check. Newsletter carries the
// view the requester may see (full body or summary teaser); nil when
// ContentType is none.
type Decision struct {
	CanAccess       bool                    `json:"can_access"`
	ContentType     ContentType             `json:"content_type"`
	Reason          string                  `json:"reason"`
	UpgradeRequired bool                    `json:"upgrade_required,omitempty"`
	Newsletter      *newsletters.Newsletter `json:"newsletter,omitempty"`
}
