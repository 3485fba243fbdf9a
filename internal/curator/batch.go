package curator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"foley/internal/config"
	"foley/internal/logging"
	"foley/internal/services"
)

// BatchItem pairs one request with its outcome. Err is set when that key
// failed; other keys in the batch proceed regardless.
type BatchItem struct {
	Request Request
	Result  Result
	Err     error
}

// RequestsFromPlan expands the configured curation plan into concrete
// requests, resolving each entry's scoring profile.
func RequestsFromPlan(cfg *config.Config) []Request {
	requests := make([]Request, 0, len(cfg.Curation.Plan))
	for _, entry := range cfg.Curation.Plan {
		profile, name := cfg.PlanProfile(entry)
		requests = append(requests, Request{
			Category:    entry.AssetCategory(),
			Key:         entry.Key,
			Character:   entry.Character,
			Prompt:      entry.Prompt,
			Duration:    entry.DurationSeconds,
			Profile:     profile,
			ProfileName: name,
		})
	}
	return requests
}

// CurateBatch curates every request with a bounded worker pool. The library
// directory is locked for the duration so two batch runs cannot interleave.
// Results are returned in request order.
func (c *Curator) CurateBatch(ctx context.Context, requests []Request) ([]BatchItem, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	lock := flock.New(filepath.Join(c.cfg.Paths.LibraryDir, ".curation.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire curation lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "curator", "batch",
			"another curation run holds the library lock", nil)
	}
	defer func() { _ = lock.Unlock() }()

	workers := c.cfg.Curation.Parallelism
	if workers < 1 {
		workers = 1
	}
	if workers > len(requests) {
		workers = len(requests)
	}

	started := time.Now()
	c.logger.Info("starting curation batch",
		logging.Args(
			logging.Int("requests", len(requests)),
			logging.Int("workers", workers),
		)...)

	items := make([]BatchItem, len(requests))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				req := requests[i]
				result, err := c.Curate(ctx, req)
				items[i] = BatchItem{Request: req, Result: result, Err: err}
			}
		}()
	}

feed:
	for i := range requests {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return items, err
	}

	var curated, skipped, failed int
	for _, item := range items {
		switch {
		case item.Err != nil:
			failed++
		case item.Result.Skipped:
			skipped++
		default:
			curated++
		}
	}
	c.logger.Info("curation batch finished",
		logging.Args(
			logging.Int("curated", curated),
			logging.Int("skipped", skipped),
			logging.Int("failed", failed),
			logging.Duration("elapsed", time.Since(started)),
		)...)

	return items, nil
}
