package notify

import (
	"log"
	"sync"
)

// Sender delivers a single notification. Slow or failing delivery is
// absorbed here; callers never wait on it.
type Sender func(Request) error

// AsyncDispatcher queues requests on a buffered channel drained by one
// worker goroutine. Notify never blocks: when the buffer is full the
// request is dropped with a log line rather than stalling webhook
// processing.
type AsyncDispatcher struct {
	ch     chan Request
	sender Sender

	closeOnce sync.Once
	done      chan struct{}
}

func NewAsyncDispatcher(sender Sender, buffer int) *AsyncDispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &AsyncDispatcher{
		ch:     make(chan Request, buffer),
		sender: sender,
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *AsyncDispatcher) Notify(kind Kind, userID uint, data map[string]string) {
	req := Request{Kind: kind, UserID: userID, Data: data}
	select {
	case d.ch <- req:
	default:
		log.Printf("notify: queue full, dropping %s for user %d", kind, userID)
	}
}

// Close stops the worker after draining queued requests.
func (d *AsyncDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.ch)
		<-d.done
	})
}

func (d *AsyncDispatcher) run() {
	defer close(d.done)
	for req := range d.ch {
		if err := d.sender(req); err != nil {
			log.Printf("notify: failed to deliver %s to user %d: %v", req.Kind, req.UserID, err)
		}
	}
}
