// internal/app/system/tasks/pool.go
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Func is the body of a task. The context carries the per-task timeout and
// is not tied to any request.
type Func func(ctx context.Context) error

type job struct {
	name string
	run  Func
}

// Pool runs best-effort background tasks (notification emails, file
// cleanup) on a fixed number of workers fed by a bounded queue.
type Pool struct {
	log     *zap.Logger
	jobs    chan job
	workers int
	timeout time.Duration

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// Default sizing used when configuration leaves values at zero.
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
	DefaultTimeout   = 30 * time.Second
)

// NewPool creates a pool. Call Start before submitting.
func NewPool(workers, queueSize int, timeout time.Duration, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pool{
		log:     logger,
		jobs:    make(chan job, queueSize),
		workers: workers,
		timeout: timeout,
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	p.log.Info("task pool started",
		zap.Int("workers", p.workers),
		zap.Int("queue_size", cap(p.jobs)),
		zap.Duration("task_timeout", p.timeout))
}

// Submit enqueues fn without blocking. It returns false when the queue is
// full or the pool has been stopped.
func (p *Pool) Submit(name string, fn Func) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		metrics.Tasks.WithLabelValues(name, "rejected").Inc()
		return false
	}
	select {
	case p.jobs <- job{name: name, run: fn}:
		return true
	default:
		metrics.Tasks.WithLabelValues(name, "rejected").Inc()
		p.log.Warn("task queue full, dropping task", zap.String("task", name))
		return false
	}
}

// Stop refuses new work and waits for queued tasks to finish or for ctx to
// expire, whichever comes first.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.jobs)
	started := p.started
	p.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info("task pool drained")
		return nil
	case <-ctx.Done():
		p.log.Warn("task pool drain interrupted", zap.Int("pending", len(p.jobs)))
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				metrics.Tasks.WithLabelValues(j.name, "panic").Inc()
			}
		}()
		return j.run(ctx)
	}()

	if err != nil {
		metrics.Tasks.WithLabelValues(j.name, "error").Inc()
		p.log.Error("task failed", zap.String("task", j.name), zap.Error(err))
		return
	}
	metrics.Tasks.WithLabelValues(j.name, "ok").Inc()
}
