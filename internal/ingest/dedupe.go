package ingest

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen organization numbers so a company is ingested
// at most once per run, whatever order rows arrive in.
type Deduper interface {
	// SeenAndRecord atomically checks if orgNr was seen and records it if
	// not. Returns true if orgNr was already seen.
	SeenAndRecord(ctx context.Context, orgNr string) bool

	// Size returns the number of recorded organization numbers.
	Size() int64
}

// orgNrDeduper implements Deduper with a plain map. Ingest runs are
// finite, so no eviction is needed.
type orgNrDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewOrgNrDeduper creates an empty deduper.
func NewOrgNrDeduper() Deduper {
	return &orgNrDeduper{seen: make(map[string]struct{})}
}

func (d *orgNrDeduper) SeenAndRecord(_ context.Context, orgNr string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[orgNr]; ok {
		return true
	}
	d.seen[orgNr] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *orgNrDeduper) Size() int64 {
	return d.size.Load()
}
