package subscriptions

// CommandKind identifies a state-machine transition request.
type CommandKind string

const (
	CmdActivate   CommandKind = "activate"
	CmdRenew      CommandKind = "renew"
	CmdMarkAtRisk CommandKind = "mark_at_risk"
	CmdCancel     CommandKind = "cancel"
	CmdReactivate CommandKind = "reactivate"
	CmdDowngrade  CommandKind = "downgrade"
)

// Command is a single subscription-state transition request, produced
// by the webhook interpreter or the manual upgrade endpoint. Activate
// correlates by UserID; everything else by ExternalID. The target tier
// is implied by the kind: Activate grants premium, Cancel and
// Downgrade drop to free, the rest leave it alone.
type Command struct {
	Kind       CommandKind
	UserID     uint
	ExternalID string
}

// Transition is the effective outcome of applying a command.
type Transition struct {
	Subscription *Subscription
	// Created is true when Activate had no prior record for the user.
	Created bool
	// Changed is false for signal-only commands (MarkAtRisk) and for
	// renewals that found the expiry already covered.
	Changed bool
}
