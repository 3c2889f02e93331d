// Package fanout runs per-source fetches concurrently under a bounded worker
// pool, converting individual failures and timeouts into absent results.
package fanout

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

const (
	defaultMaxWorkers = 6
	defaultTimeout    = 30 * time.Second
)

// Executor is the shared worker pool for source fetches. Build one per
// process and drain it before exit.
type Executor struct {
	maxWorkers int
	timeout    time.Duration
	inflight   sync.WaitGroup
}

// New creates an executor with the given worker count and per-source timeout.
// Non-positive values fall back to the defaults (6 workers, 30s).
func New(maxWorkers int, timeout time.Duration) *Executor {
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log.Printf("[FANOUT] executor initialized with %d workers, %s timeout", maxWorkers, timeout)
	return &Executor{maxWorkers: maxWorkers, timeout: timeout}
}

// FetchAll invokes every source concurrently and returns once each one has
// completed, errored, or timed out. A source that errored or ran past the
// timeout is absent from the map; it never fails the combined call. Each
// source gets its own timeout, so a slow source delays only its own result.
func (e *Executor) FetchAll(ctx context.Context, sources []domain.Source, query string) map[string][]domain.RawProduct {
	e.inflight.Add(1)
	defer e.inflight.Done()

	results := make(map[string][]domain.RawProduct, len(sources))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(e.maxWorkers)

	for _, src := range sources {
		g.Go(func() error {
			start := time.Now()
			fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			type outcome struct {
				products []domain.RawProduct
				err      error
			}
			done := make(chan outcome, 1)
			go func() {
				products, err := src.Fetch(fetchCtx, query)
				done <- outcome{products, err}
			}()

			// A fetch that ignores its context keeps running in the
			// background; its worker slot is released and the result dropped.
			select {
			case <-fetchCtx.Done():
				log.Printf("[FANOUT] ✗ %s gave up after %s: %v", src.Name(), time.Since(start).Round(time.Millisecond), fetchCtx.Err())
			case out := <-done:
				if out.err != nil {
					log.Printf("[FANOUT] ✗ %s failed after %s: %v", src.Name(), time.Since(start).Round(time.Millisecond), out.err)
					return nil
				}
				mu.Lock()
				results[src.Name()] = out.products
				mu.Unlock()
				log.Printf("[FANOUT] ✓ %s returned %d products in %s", src.Name(), len(out.products), time.Since(start).Round(time.Millisecond))
			}
			return nil
		})
	}

	// Workers never return errors; failures are absorbed above
	_ = g.Wait()
	return results
}

// Drain blocks until every in-flight FetchAll call has settled. Call during
// graceful shutdown before the process exits.
func (e *Executor) Drain() {
	log.Printf("[FANOUT] draining executor")
	e.inflight.Wait()
}
