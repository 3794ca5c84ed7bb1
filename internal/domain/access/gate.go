package access

import (
	"context"
	"unicode/utf8"

	"newsletter-app/internal/domain/newsletters"
	"newsletter-app/internal/domain/subscriptions"
)

const upgradePrompt = "\n\n**Upgrade to Premium to read the full newsletter!**"

const teaserLength = 200

// SubscriptionSource is the single store lookup the gate performs.
type SubscriptionSource interface {
	FindByUserID(ctx context.Context, userID uint) (*subscriptions.Subscription, error)
}

// UserSource resolves whether a requester id maps to a real user.
type UserSource interface {
	Exists(ctx context.Context, userID uint) (bool, error)
}

// Gate decides what a requester may see of a newsletter. It is total:
// every (visibility, requester) combination yields exactly one decision
// and lookup failures degrade to denial, never a panic or error.
type Gate struct {
	users UserSource
	subs  SubscriptionSource
}

func NewGate(users UserSource, subs SubscriptionSource) *Gate {
	return &Gate{users: users, subs: subs}
}

// CanAccess evaluates the visibility rules for one newsletter. userID
// is nil for anonymous requests.
func (g *Gate) CanAccess(ctx context.Context, n *newsletters.Newsletter, userID *uint) Decision {
	if n == nil {
		return Decision{CanAccess: false, ContentType: ContentNone, Reason: "Newsletter not found"}
	}

	switch n.Visibility {
	case newsletters.VisibilityPublic:
		return Decision{CanAccess: true, ContentType: ContentFull, Reason: "Public content", Newsletter: n}

	case newsletters.VisibilityPrivate:
		if userID == nil {
			return Decision{CanAccess: false, ContentType: ContentNone, Reason: "Login required for private content"}
		}
		ok, err := g.users.Exists(ctx, *userID)
		if err != nil || !ok {
			return Decision{CanAccess: false, ContentType: ContentNone, Reason: "Invalid user"}
		}
		return Decision{CanAccess: true, ContentType: ContentFull, Reason: "Authenticated user access", Newsletter: n}

	case newsletters.VisibilityPremium:
		if userID == nil {
			return Decision{
				CanAccess:       false,
				ContentType:     ContentSummary,
				Reason:          "Login required for premium content",
				UpgradeRequired: true,
				Newsletter:      SummaryView(n),
			}
		}
		sub, err := g.subs.FindByUserID(ctx, *userID)
		if err != nil || !sub.HasPremium() {
			return Decision{
				CanAccess:       false,
				ContentType:     ContentSummary,
				Reason:          "Premium subscription required",
				UpgradeRequired: true,
				Newsletter:      SummaryView(n),
			}
		}
		return Decision{CanAccess: true, ContentType: ContentFull, Reason: "Premium subscriber access", Newsletter: n}

	default:
		return Decision{CanAccess: false, ContentType: ContentNone, Reason: "Unknown content visibility type"}
	}
}

// FilterByAccess applies the single-item decision to each newsletter
// and returns the permitted views. Items allowed in full or as a
// summary are included; fully denied items are omitted.
func (g *Gate) FilterByAccess(ctx context.Context, items []newsletters.Newsletter, userID *uint) []newsletters.Newsletter {
	accessible := make([]newsletters.Newsletter, 0, len(items))
	for i := range items {
		decision := g.CanAccess(ctx, &items[i], userID)
		if decision.CanAccess || decision.ContentType == ContentSummary {
			accessible = append(accessible, *decision.Newsletter)
		}
	}
	return accessible
}

// SummaryView returns a copy of the newsletter with its content
// replaced by the summary (or a teaser cut from the body) plus an
// upgrade prompt. The stored entity is never mutated.
func SummaryView(n *newsletters.Newsletter) *newsletters.Newsletter {
	view := *n
	if n.Summary != "" {
		view.Content = n.Summary + upgradePrompt
	} else {
		teaser := n.Content
		// Cut on rune boundaries so multi-byte content never yields a
		// torn UTF-8 sequence.
		if utf8.RuneCountInString(teaser) > teaserLength {
			teaser = string([]rune(teaser)[:teaserLength]) + "..."
		}
		view.Content = teaser + upgradePrompt
	}
	view.Preview = true
	return &view
}
