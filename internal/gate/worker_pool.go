package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// WorkItem represents a generic work item for processing
type WorkItem interface {
	ID() string
}

// Processor defines the function signature for processing work items
type Processor[T WorkItem, R any] func(context.Context, T) (R, error)

// WorkerPool evaluates items concurrently and returns results in input order.
type WorkerPool[T WorkItem, R any] struct {
	workers int
	timeout time.Duration
	logger  *slog.Logger
}

// WorkerPoolOption allows customization of worker pool behavior
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workers int
	timeout time.Duration
	logger  *slog.Logger
}

// WithWorkers sets the number of concurrent workers
func WithWorkers(workers int) WorkerPoolOption {
	return func(c *workerPoolConfig) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithItemTimeout sets the timeout for individual work items
func WithItemTimeout(timeout time.Duration) WorkerPoolOption {
	return func(c *workerPoolConfig) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithPoolLogger routes pool logging to logger
func WithPoolLogger(logger *slog.Logger) WorkerPoolOption {
	return func(c *workerPoolConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool[T WorkItem, R any](options ...WorkerPoolOption) *WorkerPool[T, R] {
	config := workerPoolConfig{
		workers: 1,
		timeout: 30 * time.Second,
		logger:  slog.Default(),
	}

	for _, option := range options {
		option(&config)
	}

	return &WorkerPool[T, R]{
		workers: config.workers,
		timeout: config.timeout,
		logger:  config.logger,
	}
}

type indexed[T any] struct {
	index int
	item  T
}

// Process runs processor over items with errgroup coordination. The first
// error cancels the remaining work.
func (p *WorkerPool[T, R]) Process(ctx context.Context, items []T, processor Processor[T, R]) ([]R, error) {
	if len(items) == 0 {
		p.logger.Debug("No items to process in worker pool")
		return []R{}, nil
	}

	p.logger.Debug("Starting worker pool processing",
		"worker_count", p.workers,
		"item_count", len(items),
		"timeout", p.timeout,
	)

	workCh := make(chan indexed[T])
	results := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < p.workers; i++ {
		workerID := i
		g.Go(func() error {
			processedCount := 0
			for work := range workCh {
				if err := ctx.Err(); err != nil {
					p.logger.Warn("Worker cancelled by context",
						"worker_id", workerID,
						"processed_count", processedCount,
					)
					return err
				}

				itemCtx, cancel := context.WithTimeout(ctx, p.timeout)
				result, err := processor(itemCtx, work.item)
				cancel()
				if err != nil {
					p.logger.Error("Worker failed to process item",
						"worker_id", workerID,
						"item_id", work.item.ID(),
						"error", err,
					)
					return fmt.Errorf("worker %d failed processing item %s: %w", workerID, work.item.ID(), err)
				}

				// Each index is written by exactly one worker
				results[work.index] = result
				processedCount++
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(workCh)
		for i, item := range items {
			select {
			case workCh <- indexed[T]{index: i, item: item}:
			case <-ctx.Done():
				p.logger.Warn("Work distribution cancelled",
					"distributed_count", i,
					"total_items", len(items),
				)
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Debug("Worker pool processing completed",
		"result_count", len(results),
	)
	return results, nil
}
