package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

type job struct {
	actor   merchant.Actor
	catalog *domain.TradeCatalog
	kind    domain.WindowKind
}

// Pool delivers trade windows on a fixed set of worker goroutines.
// Dispatch never blocks: when the queue is full the job waits on its own
// goroutine until a worker is free. There is no ordering between jobs.
type Pool struct {
	jobs chan job
	log  *zap.Logger

	mu      sync.RWMutex
	closed  bool
	workers sync.WaitGroup
	pending sync.WaitGroup

	delivered atomic.Int64
	failed    atomic.Int64
	overflow  atomic.Int64
}

func NewPool(workers, queueSize int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize < 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}

	p := &Pool{
		jobs: make(chan job, queueSize),
		log:  log,
	}

	p.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}

	return p
}

func (p *Pool) Dispatch(actor merchant.Actor, catalog *domain.TradeCatalog, kind domain.WindowKind) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.log.Warn("window dispatch after shutdown, dropping", zap.String("actor", actor.Name()))
		return
	}

	j := job{actor: actor, catalog: catalog, kind: kind}

	select {
	case p.jobs <- j:
	default:
		p.overflow.Add(1)
		p.pending.Add(1)
		go func() {
			defer p.pending.Done()
			p.jobs <- j
		}()
	}
}

func (p *Pool) work() {
	defer p.workers.Done()

	for j := range p.jobs {
		if err := merchant.DeliverWindow(j.actor, j.catalog, j.kind); err != nil {
			p.failed.Add(1)
			p.log.Warn("failed to deliver merchant window",
				zap.String("actor", j.actor.Name()),
				zap.Stringer("window", j.kind),
				zap.Error(err),
			)
			continue
		}
		p.delivered.Add(1)
	}
}

// Shutdown stops accepting jobs, delivers everything already submitted and
// waits for the workers to exit or ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(p.jobs)
		p.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Stats struct {
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
	Overflow  int64 `json:"overflow"`
	Queued    int   `json:"queued"`
}

func (p *Pool) Stats() Stats {
	return Stats{
		Delivered: p.delivered.Load(),
		Failed:    p.failed.Load(),
		Overflow:  p.overflow.Load(),
		Queued:    len(p.jobs),
	}
}
