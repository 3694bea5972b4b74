package ingest

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/logger"
	"github.com/goldengoal/sponsormatch/pkg/metrics"
)

// Writer persists ingested companies. Satisfied by the repository stores.
type Writer interface {
	UpsertCompany(ctx context.Context, company model.Company) error
}

// Assigner precomputes the preferred cluster for a company location.
// Satisfied by the cluster registry.
type Assigner interface {
	AssignPoint(ctx context.Context, lat, lon float64, bucket model.SizeBucket) (int, bool)
}

// Pool drains the queue with a fixed set of workers, deduplicating by
// organization number, labeling each company with its cluster and
// writing it to the store.
type Pool struct {
	queue    Queue
	writer   Writer
	assigner Assigner
	deduper  Deduper

	workerCount int
	wg          sync.WaitGroup
	logger      logger.Logger
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) PoolOption {
	return func(p *Pool) {
		if count > 0 {
			p.workerCount = count
		}
	}
}

// WithPoolLogger sets a custom logger for the pool.
func WithPoolLogger(log logger.Logger) PoolOption {
	return func(p *Pool) {
		if log != nil {
			p.logger = log
		}
	}
}

// NewPool creates a worker pool over the queue.
func NewPool(queue Queue, writer Writer, assigner Assigner, opts ...PoolOption) *Pool {
	p := &Pool{
		queue:       queue,
		writer:      writer,
		assigner:    assigner,
		deduper:     NewOrgNrDeduper(),
		workerCount: runtime.NumCPU(),
		logger:      logger.Get().Named("ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers. They run until the queue closes and drains
// or ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateIngestWorkerCount(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.run(ctx, p.logger.Named("worker-"+strconv.Itoa(i)))
	}
}

// Wait blocks until every worker has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
	metrics.UpdateIngestWorkerCount(0)
}

func (p *Pool) run(ctx context.Context, log logger.Logger) {
	defer p.wg.Done()

	for r := range p.queue.Dequeue(ctx) {
		if err := p.process(ctx, r); err != nil {
			metrics.RecordIngestError()
			log.Error(ctx, "failed to ingest company",
				logger.String("org_nr", r.OrgNr),
				logger.Error(err))
		}
	}
}

func (p *Pool) process(ctx context.Context, r Record) error {
	if p.deduper.SeenAndRecord(ctx, r.OrgNr) {
		metrics.RecordIngestDuplicate()
		return nil
	}

	company := model.Company{
		OrgNr:       r.OrgNr,
		Name:        r.Name,
		Lat:         r.Lat,
		Lon:         r.Lon,
		SizeBucket:  r.SizeBucket,
		Industry:    r.Industry,
		RevenueKSEK: r.RevenueKSEK,
		Employees:   r.Employees,
	}

	if p.assigner != nil {
		if label, ok := p.assigner.AssignPoint(ctx, r.Lat, r.Lon, r.SizeBucket); ok {
			company.PreferredCluster = &label
		}
	}

	if err := p.writer.UpsertCompany(ctx, company); err != nil {
		return err
	}
	metrics.RecordIngestRecord()
	return nil
}
