package subscriptions

import (
	"context"
	"fmt"
	"time"
)

// RenewalPeriod is how far a successful invoice payment extends a
// subscription.
const RenewalPeriod = 30 * 24 * time.Hour

// Machine applies subscription commands against a Store. Every
// transition is one atomic read-modify-write; tier and status are
// always updated together so that tier=premium implies status=active
// and cancelled/expired records are always free.
type Machine struct {
	store Store
	now   func() time.Time
}

func NewMachine(store Store) *Machine {
	return &Machine{store: store, now: time.Now}
}

// NewMachineAt builds a machine with a fixed clock, for tests.
func NewMachineAt(store Store, now func() time.Time) *Machine {
	return &Machine{store: store, now: now}
}

// Apply dispatches a command to its transition.
func (m *Machine) Apply(ctx context.Context, cmd Command) (Transition, error) {
	switch cmd.Kind {
	case CmdActivate:
		return m.Activate(ctx, cmd.UserID, cmd.ExternalID)
	case CmdRenew:
		return m.Renew(ctx, cmd.ExternalID)
	case CmdMarkAtRisk:
		return m.MarkAtRisk(ctx, cmd.ExternalID)
	case CmdCancel:
		return m.Cancel(ctx, cmd.ExternalID)
	case CmdReactivate:
		return m.Reactivate(ctx, cmd.ExternalID)
	case CmdDowngrade:
		return m.Downgrade(ctx, cmd.ExternalID)
	default:
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
}

// Activate creates or updates the user's record to premium/active and
// binds the external subscription id. Allowed from any state. Fails
// with ErrExternalIDConflict if the external id already belongs to a
// different user.
func (m *Machine) Activate(ctx context.Context, userID uint, externalID string) (Transition, error) {
	// Pre-check for the readable error message. A bind racing past it
	// is caught by the store's unique index on the external id, which
	// both implementations surface as ErrExternalIDConflict.
	if externalID != "" {
		existing, err := m.store.FindByExternalID(ctx, externalID)
		if err != nil && err != ErrSubscriptionNotFound {
			return Transition{}, err
		}
		if existing != nil && existing.UserID != userID {
			return Transition{}, fmt.Errorf("%w: %s (user %d vs %d)",
				ErrExternalIDConflict, externalID, existing.UserID, userID)
		}
	}

	sub, created, err := m.store.Upsert(ctx, userID, func(s *Subscription) error {
		s.Tier = TierPremium
		s.Status = StatusActive
		if externalID != "" {
			s.StripeSubscriptionID = &externalID
		}
		return nil
	})
	if err != nil {
		return Transition{}, err
	}
	return Transition{Subscription: sub, Created: created, Changed: true}, nil
}

// Renew reactivates the record and extends its expiry. Idempotent at a
// fixed clock: once the expiry already covers a full renewal period
// from now, replays leave it untouched rather than stacking extensions.
func (m *Machine) Renew(ctx context.Context, externalID string) (Transition, error) {
	now := m.now()
	extended := false

	sub, err := m.store.UpdateByExternalID(ctx, externalID, func(s *Subscription) error {
		s.Status = StatusActive
		if s.ExpiresAt == nil || s.ExpiresAt.Before(now.Add(RenewalPeriod)) {
			base := now
			if s.ExpiresAt != nil && s.ExpiresAt.After(now) {
				base = *s.ExpiresAt
			}
			expiry := base.Add(RenewalPeriod)
			s.ExpiresAt = &expiry
			extended = true
		}
		return nil
	})
	if err != nil {
		return Transition{}, err
	}
	return Transition{Subscription: sub, Changed: extended}, nil
}

// MarkAtRisk is a notification-only signal for a failed payment. A
// single failed invoice does not downgrade the tier; the grace period
// runs until the expiry sweep catches the record.
func (m *Machine) MarkAtRisk(ctx context.Context, externalID string) (Transition, error) {
	sub, err := m.store.FindByExternalID(ctx, externalID)
	if err != nil {
		return Transition{}, err
	}
	return Transition{Subscription: sub, Changed: false}, nil
}

// Cancel sets status=cancelled and drops the tier to free.
func (m *Machine) Cancel(ctx context.Context, externalID string) (Transition, error) {
	sub, err := m.store.UpdateByExternalID(ctx, externalID, func(s *Subscription) error {
		s.Status = StatusCancelled
		s.Tier = TierFree
		return nil
	})
	if err != nil {
		return Transition{}, err
	}
	return Transition{Subscription: sub, Changed: true}, nil
}

// Reactivate sets status=active. The tier is left as-is: a record that
// was already free does not become premium just because the provider
// reports the subscription object active again.
func (m *Machine) Reactivate(ctx context.Context, externalID string) (Transition, error) {
	sub, err := m.store.UpdateByExternalID(ctx, externalID, func(s *Subscription) error {
		s.Status = StatusActive
		return nil
	})
	if err != nil {
		return Transition{}, err
	}
	return Transition{Subscription: sub, Changed: true}, nil
}

// Downgrade sets status=cancelled and tier=free, mirroring a provider
// subscription that went canceled/unpaid/past_due.
func (m *Machine) Downgrade(ctx context.Context, externalID string) (Transition, error) {
	return m.Cancel(ctx, externalID)
}

// ExpireSweep expires every active record whose expiry has passed,
// dropping it to the free tier. Each record is updated independently
// with the same atomic discipline as webhook-driven transitions, so
// the sweep is safe to run concurrently with webhook processing.
// Returns the records that were actually expired by this run.
func (m *Machine) ExpireSweep(ctx context.Context) ([]Subscription, error) {
	now := m.now()
	candidates, err := m.store.ListExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	var swept []Subscription
	for _, candidate := range candidates {
		sub, _, err := m.store.Upsert(ctx, candidate.UserID, func(s *Subscription) error {
			// Re-check under lock: a renewal may have landed since the list.
			if s.Status != StatusActive || s.ExpiresAt == nil || !s.ExpiresAt.Before(now) {
				return errSweepSkip
			}
			s.Status = StatusExpired
			s.Tier = TierFree
			return nil
		})
		if err == errSweepSkip {
			continue
		}
		if err != nil {
			return swept, err
		}
		swept = append(swept, *sub)
	}
	return swept, nil
}

var errSweepSkip = fmt.Errorf("expire sweep: record no longer eligible")
