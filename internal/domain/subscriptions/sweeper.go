package subscriptions

import (
	"context"
	"log"
	"time"
)

// RunExpirySweeper runs ExpireSweep on a fixed interval until ctx is
// cancelled. onExpired is invoked once per expired record (used to
// queue the lapse notification); it must not block.
func RunExpirySweeper(ctx context.Context, m *Machine, interval time.Duration, onExpired func(Subscription)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := m.ExpireSweep(ctx)
			if err != nil {
				log.Println("expiry sweep error:", err)
				continue
			}
			for _, sub := range swept {
				if onExpired != nil {
					onExpired(sub)
				}
			}
			if len(swept) > 0 {
				log.Printf("expiry sweep: downgraded %d subscriptions", len(swept))
			}
		}
	}
}
