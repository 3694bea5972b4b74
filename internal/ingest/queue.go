// Package ingest loads company registry data into the store through a
// bounded queue and a pool of workers.
package ingest

import (
	"context"
	"sync"

	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/metrics"
)

const defaultQueueCapacity = 10000

// Record is one parsed company row flowing through the pipeline.
type Record struct {
	OrgNr       string
	Name        string
	Lat         float64
	Lon         float64
	SizeBucket  model.SizeBucket
	Industry    string
	RevenueKSEK float64
	Employees   int
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a record to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, r Record) bool

	// Dequeue returns a channel receiving records as they become available.
	// The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Record

	// Len returns the current number of queued records.
	Len(ctx context.Context) int

	// Close stops accepting new records. Queued records remain consumable.
	Close() error
}

// MemoryQueue implements Queue using a buffered channel.
type MemoryQueue struct {
	records  chan Record
	capacity int

	mu     sync.RWMutex
	closed bool
}

// QueueOption applies a configuration option to the MemoryQueue.
type QueueOption func(*MemoryQueue)

// WithCapacity sets the maximum number of buffered records.
func WithCapacity(capacity int) QueueOption {
	return func(q *MemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// NewMemoryQueue creates a bounded in-memory queue.
func NewMemoryQueue(opts ...QueueOption) *MemoryQueue {
	q := &MemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.records = make(chan Record, q.capacity)
	metrics.UpdateIngestQueueSize(0)
	return q
}

// Enqueue adds a record to the queue.
func (q *MemoryQueue) Enqueue(ctx context.Context, r Record) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.records <- r:
		metrics.UpdateIngestQueueSize(len(q.records))
		return true
	case <-ctx.Done():
		return false
	default:
		return false // queue is full
	}
}

// Dequeue returns the consumer channel.
func (q *MemoryQueue) Dequeue(ctx context.Context) <-chan Record {
	out := make(chan Record)
	go func() {
		defer close(out)
		for r := range q.records {
			select {
			case out <- r:
				metrics.UpdateIngestQueueSize(len(q.records))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued records.
func (q *MemoryQueue) Len(_ context.Context) int {
	return len(q.records)
}

// Close stops accepting new records.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.records)
	q.closed = true
	return nil
}
