// Package worker provides an asynchronous worker pool for persisting history
// records using the provided history.Driver.
//
// The pool keeps storage off the request path so a slow or failing history
// store never delays a translation.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/logger"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for persisting records.
	Driver history.Driver

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided slog logger
	Logger *slog.Logger
}

// Pool processes history records asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan *history.Record
	wg     sync.WaitGroup
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, fmt.Errorf("worker pool requires a history driver")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan *history.Record, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a record for persistence.
// Returns true if enqueued, false if the queue is full or the pool is closed,
// resulting in the record being dropped.
func (p *Pool) Enqueue(rec *history.Record) bool {
	if rec == nil {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("record not queued, pool closed", "id", rec.ID)
		return false
	}

	select {
	case p.queue <- rec:
		p.logger.Debug("record queued",
			"id", rec.ID,
			"kind", rec.Kind,
		)
		return true
	default:
		p.logger.Error("record not queued, queue full, record dropped",
			"id", rec.ID,
			"kind", rec.Kind,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight records to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
// Close is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls records off the queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for rec := range p.queue {
		p.processRecord(rec)
	}

	p.logger.Debug("history worker stopped", "worker_id", id)
}

func (p *Pool) processRecord(rec *history.Record) {
	if err := p.config.Driver.Put(context.Background(), rec); err != nil {
		p.logger.Error("async history storage failed",
			"id", rec.ID,
			"error", err,
		)
		return
	}

	p.logger.Debug("record stored",
		"id", rec.ID,
		"kind", rec.Kind,
		"backend", rec.Backend,
	)
}
