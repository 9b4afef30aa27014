package queuegw

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// entry is one in-flight-or-waiting message in a MemBackend queue.
type entry struct {
	body      string
	receipt   string
	visibleAt time.Time
}

// MemBackend is an in-memory Backend fake, generalized from the teacher's
// infra/queue.go MemQueue (a mutex-guarded FIFO slice) to additionally
// track per-message visibility windows so that S5-style crash scenarios
// (a message never deleted, reappearing after its worker's timeout) are
// observable in tests.
type MemBackend struct {
	mu     sync.Mutex
	queues map[string][]entry
	now    func() time.Time
}

// NewMemBackend builds an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{queues: make(map[string][]entry), now: time.Now}
}

func (b *MemBackend) Send(ctx context.Context, queue string, body string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queues[queue] = append(b.queues[queue], entry{body: body, visibleAt: b.now()})
	return nil
}

func (b *MemBackend) ReceiveOne(ctx context.Context, queue string, visibilityTimeout, waitTime time.Duration) (*Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	q := b.queues[queue]
	for i := range q {
		if q[i].visibleAt.After(now) {
			continue
		}
		q[i].receipt = uuid.NewString()
		q[i].visibleAt = now.Add(visibilityTimeout)
		return &Message{Body: q[i].body, Receipt: q[i].receipt}, nil
	}
	return nil, nil
}

func (b *MemBackend) Delete(ctx context.Context, queue string, receipt string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.queues[queue]
	for i := range q {
		if q[i].receipt == receipt {
			b.queues[queue] = append(q[:i], q[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("receipt not found in queue %s", queue)
}

func (b *MemBackend) ApproximateDepth(ctx context.Context, queue string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queues[queue]), nil
}

// Peek returns a snapshot of every message body in a queue, visible or
// in flight, useful for assertions in tests without consuming them.
func (b *MemBackend) Peek(queue string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.queues[queue]))
	for _, e := range b.queues[queue] {
		out = append(out, e.body)
	}
	return out
}
