// Package workpool runs blocking ledger I/O on a bounded set of workers so that
// slow round-trips never occupy the request-accepting path.
package workpool

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/pushchain/svm-faucet/faucet/metrics"
)

// DefaultSize is used when the configured worker count is not positive
const DefaultSize = 16

// Pool bounds the number of concurrently running blocking tasks
type Pool struct {
	size   int64
	sem    *semaphore.Weighted
	logger zerolog.Logger
}

// New creates a pool with size workers
func New(size int, logger zerolog.Logger) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{
		size:   int64(size),
		sem:    semaphore.NewWeighted(int64(size)),
		logger: logger.With().Str("component", "workpool").Logger(),
	}
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return int(p.size)
}

// Do waits for a free worker, runs fn on it and returns its result.
// ctx only bounds the wait for a worker: once fn has started it runs to completion.
func (p *Pool) Do(ctx context.Context, name string, fn func() error) error {
	metrics.PoolQueued.Inc()
	err := p.sem.Acquire(ctx, 1)
	metrics.PoolQueued.Dec()
	if err != nil {
		return fmt.Errorf("no worker available for %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error().
					Str("task", name).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("blocking task panicked")
				done <- fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		done <- fn()
	}()

	return <-done
}

// Run is Do for tasks that produce a value.
func Run[T any](ctx context.Context, p *Pool, name string, fn func() (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, name, func() error {
		var innerErr error
		result, innerErr = fn()
		return innerErr
	})
	return result, err
}
