package worker

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/talentscout/internal/logger"
)

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	jobs     chan Job
	wg       sync.WaitGroup
	workers  int
	queue    int
	cancel   context.CancelFunc
	log      *logger.Logger
	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

func NewPool(name string, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix(name + "-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case job, ok := <-p.jobs:
					if !ok {
						workerLog.Debug("worker shutting down (queue closed)")
						return
					}
					p.run(ctx, workerLog, job)
				}
			}
		}(i + 1)
	}
}

// run executes one job. A panicking job is logged and does not take the
// worker down with it.
func (p *Pool) run(ctx context.Context, workerLog *logger.Logger, job Job) {
	jobLog := workerLog.WithField("job", job.Name())
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			jobLog.Error("job panicked after %v: %v", time.Since(start), r)
		}
	}()

	jobCtx := logger.NewContext(ctx, jobLog)
	if err := job.Run(jobCtx); err != nil {
		jobLog.Error("job failed after %v: %v", time.Since(start), err)
		return
	}
	jobLog.Debug("job completed in %v", time.Since(start))
}

// Stop refuses new jobs, lets the workers finish what is already queued and
// waits for them.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.log.Info("stopping worker pool")
		p.mu.Lock()
		p.stopped = true
		close(p.jobs)
		p.mu.Unlock()

		p.wg.Wait()
		if p.cancel != nil {
			p.cancel()
		}
		p.log.Info("worker pool stopped")
	})
}

// TrySubmit queues job only if there is room right now.
func (p *Pool) TrySubmit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}

	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Warn("queue full (%d), dropping job: %s", p.queue, job.Name())
		return false
	}
}
