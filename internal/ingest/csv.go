package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/logger"
	"github.com/goldengoal/sponsormatch/pkg/metrics"
)

// enqueueRetryDelay is how long the reader backs off when the queue is full.
const enqueueRetryDelay = 10 * time.Millisecond

// Required company CSV columns. Extra columns are ignored.
var requiredColumns = []string{"org_nr", "name", "lat", "lon", "size_bucket"}

// Reader parses company CSV files and feeds the queue. Malformed rows
// are counted and skipped; only I/O and header problems abort the load.
type Reader struct {
	queue  Queue
	logger logger.Logger
}

// NewReader creates a Reader feeding the given queue.
func NewReader(queue Queue) *Reader {
	return &Reader{
		queue:  queue,
		logger: logger.Get().Named("ingest-reader"),
	}
}

// Load reads CSV rows from r and enqueues them until EOF or ctx
// cancellation. It returns the number of enqueued and skipped rows.
func (rd *Reader) Load(ctx context.Context, r io.Reader) (enqueued, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return 0, 0, err
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return enqueued, skipped, nil
		}
		if err != nil {
			return enqueued, skipped, fmt.Errorf("read csv line %d: %w", line, err)
		}

		rec, err := parseRecord(row, cols)
		if err != nil {
			skipped++
			metrics.RecordIngestError()
			rd.logger.Warn(ctx, "skipping malformed row",
				logger.Int("line", line),
				logger.Error(err))
			continue
		}

		if !rd.enqueue(ctx, rec) {
			return enqueued, skipped, fmt.Errorf("enqueue line %d: %w", line, ctx.Err())
		}
		enqueued++
	}
}

// enqueue blocks on a full queue, retrying until accepted or ctx ends.
func (rd *Reader) enqueue(ctx context.Context, rec Record) bool {
	for {
		if rd.queue.Enqueue(ctx, rec) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(enqueueRetryDelay):
		}
	}
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrMissingColumn)
		}
	}
	return cols, nil
}

func parseRecord(row []string, cols map[string]int) (Record, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := Record{
		OrgNr:    field("org_nr"),
		Name:     field("name"),
		Industry: field("industry"),
	}
	if rec.OrgNr == "" {
		return Record{}, fmt.Errorf("empty org_nr: %w", ErrBadRow)
	}
	if rec.Name == "" {
		return Record{}, fmt.Errorf("empty name: %w", ErrBadRow)
	}

	var err error
	if rec.Lat, err = strconv.ParseFloat(field("lat"), 64); err != nil {
		return Record{}, fmt.Errorf("lat %q: %w", field("lat"), ErrBadRow)
	}
	if rec.Lon, err = strconv.ParseFloat(field("lon"), 64); err != nil {
		return Record{}, fmt.Errorf("lon %q: %w", field("lon"), ErrBadRow)
	}
	if rec.SizeBucket, err = model.ParseSizeBucket(field("size_bucket")); err != nil {
		return Record{}, fmt.Errorf("size_bucket: %w", ErrBadRow)
	}

	// Optional numeric columns default to zero.
	if v := field("revenue_ksek"); v != "" {
		if rec.RevenueKSEK, err = strconv.ParseFloat(v, 64); err != nil {
			return Record{}, fmt.Errorf("revenue_ksek %q: %w", v, ErrBadRow)
		}
	}
	if v := field("employees"); v != "" {
		if rec.Employees, err = strconv.Atoi(v); err != nil {
			return Record{}, fmt.Errorf("employees %q: %w", v, ErrBadRow)
		}
	}
	return rec, nil
}
