package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncDispatcherDelivers(t *testing.T) {
	var mu sync.Mutex
	var delivered []Request

	d := NewAsyncDispatcher(func(req Request) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, req)
		return nil
	}, 8)

	d.Notify(KindWelcome, 1, nil)
	d.Notify(KindSubscriptionConfirmed, 1, map[string]string{"tier": "premium"})
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 2)
	assert.Equal(t, KindWelcome, delivered[0].Kind)
	assert.Equal(t, "premium", delivered[1].Data["tier"])
}

func TestAsyncDispatcherNeverBlocksCaller(t *testing.T) {
	block := make(chan struct{})
	d := NewAsyncDispatcher(func(Request) error {
		<-block
		return nil
	}, 1)

	done := make(chan struct{})
	go func() {
		// Far more requests than the buffer holds; overflow is dropped.
		for i := 0; i < 100; i++ {
			d.Notify(KindPaymentFailed, uint(i), nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a saturated queue")
	}
	close(block)
}

func TestRenderEmailKinds(t *testing.T) {
	tests := []struct {
		kind    Kind
		subject string
	}{
		{KindWelcome, "Welcome to the newsletter platform!"},
		{KindSubscriptionConfirmed, "Subscription Confirmed"},
		{KindPaymentFailed, "Payment Failed"},
		{KindCancelled, "Subscription Cancelled"},
	}

	for _, tt := range tests {
		subject, body := renderEmail(Request{Kind: tt.kind, UserID: 1, Data: map[string]string{"tier": "premium"}}, "alice")
		assert.Equal(t, tt.subject, subject)
		assert.Contains(t, body, "alice")
	}
}
