// Package crawl drives a full run: discovery, per-URL fetch and extraction
// with politeness delays, and aggregation of the surviving records.
package crawl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
	"github.com/minkyu-dev/blogcrawl/internal/platform"
)

// Config configures an Orchestrator.
type Config struct {
	// Delay is the politeness pause before each article fetch. With a
	// worker pool the delay applies per worker, never bypassed by
	// concurrency.
	Delay time.Duration
	// Workers is the fetch concurrency. Values below 2 mean strictly
	// sequential fetching. Callers are expected to clamp this to the
	// per-platform ceiling from configuration.
	Workers int
}

// defaultDelay is the politeness pause when unset.
const defaultDelay = time.Second

// Orchestrator runs discovery and fetch-extract over one platform adapter.
// A failed fetch or an empty extraction skips that URL; nothing a target
// page does is fatal to the run.
type Orchestrator struct {
	adapter platform.Adapter
	log     logger.Interface
	delay   time.Duration
	workers int
}

// New creates an orchestrator for the given adapter.
func New(adapter platform.Adapter, cfg Config, log logger.Interface) *Orchestrator {
	if cfg.Delay <= 0 {
		cfg.Delay = defaultDelay
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &Orchestrator{
		adapter: adapter,
		log:     log.WithComponent("orchestrator"),
		delay:   cfg.Delay,
		workers: cfg.Workers,
	}
}

// Run executes one crawl: discover candidate URLs, then fetch and extract
// each, returning every record with a title or content. The returned slice
// never exceeds query.MaxArticles.
func (o *Orchestrator) Run(ctx context.Context, query domain.SearchQuery) ([]domain.ArticleRecord, error) {
	log := o.log.With(
		"run_id", uuid.NewString(),
		"platform", o.adapter.Name(),
		"keyword", query.Keyword,
	)

	log.Info("starting crawl",
		"max_pages", query.MaxPages, "max_articles", query.MaxArticles)

	candidates, err := o.adapter.Discover(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	log.Info("discovery complete", "urls", len(candidates))

	if listing, ok := o.adapter.(platform.ListingAdapter); ok {
		return o.runListing(ctx, log, listing, candidates, query)
	}
	if o.workers > 1 {
		return o.runPool(ctx, log, candidates, query)
	}
	return o.runSequential(ctx, log, candidates, query)
}

// runSequential fetches one URL at a time with a politeness pause before
// each request.
func (o *Orchestrator) runSequential(
	ctx context.Context,
	log logger.Interface,
	candidates []domain.CandidateURL,
	query domain.SearchQuery,
) ([]domain.ArticleRecord, error) {
	records := make([]domain.ArticleRecord, 0, len(candidates))

	for _, cand := range candidates {
		if err := sleepCtx(ctx, o.delay); err != nil {
			return records, err
		}

		rec, ok := o.fetchOne(ctx, log, cand)
		if !ok {
			continue
		}

		records = append(records, rec)
		if len(records) >= query.MaxArticles {
			break
		}
	}

	log.Info("crawl complete", "records", len(records))
	return records, nil
}

// runPool fetches with a bounded worker pool. Aggregation order follows
// completion, not discovery; only discovery order is deterministic.
func (o *Orchestrator) runPool(
	ctx context.Context,
	log logger.Interface,
	candidates []domain.CandidateURL,
	query domain.SearchQuery,
) ([]domain.ArticleRecord, error) {
	jobs := make(chan domain.CandidateURL)

	var (
		mu      sync.Mutex
		records []domain.ArticleRecord
		wg      sync.WaitGroup
	)

	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for cand := range jobs {
				if err := sleepCtx(ctx, o.delay); err != nil {
					return
				}

				rec, ok := o.fetchOne(ctx, log.With("worker_id", workerID), cand)
				if !ok {
					continue
				}

				mu.Lock()
				if len(records) < query.MaxArticles {
					records = append(records, rec)
				}
				mu.Unlock()
			}
		}(i)
	}

feed:
	for _, cand := range candidates {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- cand:
		}
	}
	close(jobs)
	wg.Wait()

	log.Info("crawl complete", "records", len(records))
	return records, ctx.Err()
}

// runListing handles platforms whose candidate URLs are listing pages with
// several records each. An empty page terminates the remaining listing
// URLs: the results are exhausted.
func (o *Orchestrator) runListing(
	ctx context.Context,
	log logger.Interface,
	listing platform.ListingAdapter,
	candidates []domain.CandidateURL,
	query domain.SearchQuery,
) ([]domain.ArticleRecord, error) {
	var records []domain.ArticleRecord

	for _, cand := range candidates {
		if err := sleepCtx(ctx, o.delay); err != nil {
			return records, err
		}

		recs, err := listing.FetchAll(ctx, cand)
		if err != nil {
			log.Warn("listing fetch failed, skipping", "url", cand.URL, "error", err.Error())
			continue
		}
		if len(recs) == 0 {
			log.Info("listing page empty, stopping", "url", cand.URL)
			break
		}

		for _, rec := range recs {
			if rec.Empty() {
				continue
			}
			records = append(records, rec)
			if len(records) >= query.MaxArticles {
				log.Info("crawl complete", "records", len(records))
				return records, nil
			}
		}

		log.Info("listing page processed", "url", cand.URL, "records", len(records))
	}

	log.Info("crawl complete", "records", len(records))
	return records, nil
}

// fetchOne fetches and extracts a single candidate. It reports false when
// the URL should be skipped: fetch failure or nothing extracted.
func (o *Orchestrator) fetchOne(
	ctx context.Context,
	log logger.Interface,
	cand domain.CandidateURL,
) (domain.ArticleRecord, bool) {
	rec, err := o.adapter.Fetch(ctx, cand)
	if err != nil {
		log.Warn("fetch failed, skipping", "url", cand.URL, "error", err.Error())
		return domain.ArticleRecord{}, false
	}
	if rec.Empty() {
		log.Debug("nothing extracted, dropping", "url", cand.URL)
		return domain.ArticleRecord{}, false
	}
	return rec, true
}

// sleepCtx pauses for the politeness delay, honoring cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
