// Package worker provides an asynchronous worker pool for publishing review
// events using the provided eventstream.Publisher.
//
// The pool decouples event publishing from the API's HTTP hot path so that
// review requests return as soon as the engine snapshot is persisted.
package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/quizfolkco/rote/pkg/eventstream"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Event *eventstream.ReviewRecordedEvent
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Publisher is the eventstream backend review events are published to.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool publishes review events asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Publisher == nil {
		return nil, errors.New("publisher is required")
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

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			zap.String("kb", job.Event.KnowledgeBase),
			zap.String("item_id", job.Event.ItemID),
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			zap.String("kb", job.Event.KnowledgeBase),
			zap.String("item_id", job.Event.ItemID),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the API HTTP server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("publish worker stopped", zap.Uint("worker_id", id))
}

// processJob publishes a single review event. Errors are logged but not
// surfaced; a failed publish never affects the already-persisted review.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	if err := p.config.Publisher.PublishReview(ctx, job.Event); err != nil {
		p.logger.Error("async event publish failed",
			zap.String("kb", job.Event.KnowledgeBase),
			zap.String("item_id", job.Event.ItemID),
			zap.Error(err),
		)
		return
	}

	p.logger.Info("review event published",
		zap.String("kb", job.Event.KnowledgeBase),
		zap.String("item_id", job.Event.ItemID),
		zap.String("event_id", job.Event.EventID),
	)
}
