package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"noticias.lat/hub/internal/content"
	"noticias.lat/hub/internal/enrich"
	"noticias.lat/hub/internal/globaltime"
	"noticias.lat/hub/internal/langdetect"
)

// Source yields candidate records plus a list of per-category failures that
// did not abort the fetch.
type Source interface {
	ID() string
	Fetch(ctx context.Context) ([]content.Candidate, []content.CategoryError)
}

// Enricher produces optional supplementary text; "" means no enrichment and
// is a normal outcome.
type Enricher interface {
	Enrich(ctx context.Context, in enrich.Input) string
}

// Store is the collection the pipeline writes to.
type Store interface {
	ExistingKeys(ctx context.Context, keys []string) (map[string]struct{}, error)
	Upsert(ctx context.Context, batch []content.Candidate) (content.UpsertResult, error)
}

// TextFetcher fills in body text for candidates that arrived without any,
// typically by fetching the source page through the readability extractor.
type TextFetcher func(ctx context.Context, sourceURL, title string) (string, error)

// Options tune one pipeline instance.
type Options struct {
	// EnrichWorkers bounds concurrent enrichment calls; clamped to 1..4 to
	// stay inside third-party rate limits.
	EnrichWorkers int
	// FetchFullText is optional; nil skips body-text fetching.
	FetchFullText TextFetcher
}

// Pipeline runs one sync: fetch -> dedup -> enrich -> bulk upsert.
type Pipeline struct {
	source   Source
	store    Store
	enricher Enricher
	opts     Options
	logger   zerolog.Logger
}

func NewPipeline(source Source, store Store, enricher Enricher, opts Options, logger zerolog.Logger) (*Pipeline, error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	if opts.EnrichWorkers < 1 {
		opts.EnrichWorkers = 1
	}
	if opts.EnrichWorkers > 4 {
		opts.EnrichWorkers = 4
	}

	return &Pipeline{
		source:   source,
		store:    store,
		enricher: enricher,
		opts:     opts,
		logger:   logger.With().Str("pipeline", source.ID()).Logger(),
	}, nil
}

// Run executes one sync end to end. Per-category fetch failures and
// enrichment failures are absorbed into the summary; only store errors are
// returned, because without the store nothing was accomplished.
func (p *Pipeline) Run(ctx context.Context) (*content.Summary, error) {
	start := globaltime.Now()

	candidates, fetchErrors := p.source.Fetch(ctx)
	p.logger.Info().
		Int("fetched", len(candidates)).
		Int("failed_categories", len(fetchErrors)).
		Msg("source fetch finished")

	summary := &content.Summary{
		Source:  p.source.ID(),
		Fetched: len(candidates),
		Errors:  fetchErrors,
	}

	existing, err := p.store.ExistingKeys(ctx, Keys(candidates))
	if err != nil {
		return nil, fmt.Errorf("query existing keys: %w", err)
	}

	fresh := FilterNew(candidates, existing)
	summary.Known = len(candidates) - len(fresh)

	if len(fresh) == 0 {
		summary.Duration = globaltime.Now().Sub(start)
		p.logger.Info().Msg("no new candidates, sync finished")
		return summary, nil
	}

	p.enrichBatch(ctx, fresh)
	for i := range fresh {
		if strings.TrimSpace(fresh[i].EnrichedBody) != "" {
			summary.Enriched++
		}
	}

	result, err := p.store.Upsert(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("bulk upsert: %w", err)
	}
	summary.Inserted = result.InsertedCount()
	summary.Updated = result.UpdatedCount()
	summary.Duration = globaltime.Now().Sub(start)

	p.logger.Info().
		Int("known", summary.Known).
		Int("enriched", summary.Enriched).
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Dur("duration", summary.Duration).
		Msg("sync finished")

	return summary, nil
}

// enrichBatch runs enrichment over the fresh candidates with a bounded
// worker count. Failures inside a worker degrade that one candidate, never
// the batch.
func (p *Pipeline) enrichBatch(ctx context.Context, fresh []content.Candidate) {
	if p.enricher == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.EnrichWorkers)

	for i := range fresh {
		g.Go(func() error {
			c := &fresh[i]

			if strings.TrimSpace(c.BodyText) == "" && p.opts.FetchFullText != nil && c.SourceURL != "" {
				text, err := p.opts.FetchFullText(gctx, c.SourceURL, c.Title)
				if err != nil {
					p.logger.Debug().Err(err).Str("key", c.Key).Msg("full-text fetch failed")
				} else {
					c.BodyText = text
				}
			}

			if c.Language == "" {
				c.Language = langdetect.DetectISO6391(c.BodyText)
			}

			c.EnrichedBody = p.enricher.Enrich(gctx, enrich.Input{
				Title:    c.Title,
				Category: c.Category,
				BodyText: c.BodyText,
			})
			return nil
		})
	}

	// Workers never return errors; Wait only orders completion.
	_ = g.Wait()
}
