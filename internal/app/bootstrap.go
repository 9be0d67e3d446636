package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"noticias.lat/hub/internal/cli"
	"noticias.lat/hub/internal/config"
	"noticias.lat/hub/internal/db"
	"noticias.lat/hub/internal/enrich"
	"noticias.lat/hub/internal/httpapi"
	"noticias.lat/hub/internal/ingest"
	"noticias.lat/hub/internal/logging"
	"noticias.lat/hub/internal/reader"
	"noticias.lat/hub/internal/source/games"
	"noticias.lat/hub/internal/source/gnews"
	"noticias.lat/hub/internal/source/rss"
)

// runtime bundles the pieces nearly every command needs.
type runtime struct {
	cfg    *config.Config
	logger zerolog.Logger
	pool   *db.Pool
}

func (r *runtime) close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}

// bootstrap loads env + config + logger and connects the pool.
func bootstrap(envLoader *cli.EnvLoader) (*runtime, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	pool, err := db.NewPool(dbCtx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, pool: pool}, nil
}

// buildEnricher returns nil when no AI endpoint is configured; syncs then run
// without enrichment.
func buildEnricher(cfg *config.Config, logger zerolog.Logger) (ingest.Enricher, error) {
	if cfg.AIBaseURL == "" {
		return nil, nil
	}

	client, err := enrich.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel,
		enrich.WithHTTPClient(&http.Client{Timeout: cfg.AITimeout}))
	if err != nil {
		return nil, fmt.Errorf("build enrichment client: %w", err)
	}
	return enrich.NewService(client, cfg.AIMinInputChars, logger), nil
}

// buildSyncers registers one pipeline per configured source. Sources without
// configuration are simply absent from the map.
func buildSyncers(rt *runtime) (map[string]httpapi.SyncFunc, error) {
	enricher, err := buildEnricher(rt.cfg, rt.logger)
	if err != nil {
		return nil, err
	}

	fetchText := func(ctx context.Context, sourceURL, title string) (string, error) {
		return reader.FetchText(ctx, sourceURL, title)
	}

	syncers := make(map[string]httpapi.SyncFunc, 3)

	if rt.cfg.GNewsAPIKey != "" {
		source, err := gnews.NewSource(gnews.Config{
			BaseURL:    rt.cfg.GNewsBaseURL,
			APIKey:     rt.cfg.GNewsAPIKey,
			Categories: rt.cfg.GNewsCategoryList(),
			Lang:       rt.cfg.GNewsLang,
			Country:    rt.cfg.GNewsCountry,
			MaxPerCat:  rt.cfg.GNewsMaxPerCat,
			SiteTag:    rt.cfg.DefaultSiteTag,
		}, rt.logger)
		if err != nil {
			return nil, fmt.Errorf("build gnews source: %w", err)
		}
		pipeline, err := ingest.NewPipeline(source, ingest.NewArticleStore(rt.pool), enricher, ingest.Options{
			EnrichWorkers: rt.cfg.SyncEnrichWorkers,
			FetchFullText: fetchText,
		}, rt.logger)
		if err != nil {
			return nil, fmt.Errorf("build gnews pipeline: %w", err)
		}
		syncers["gnews"] = pipeline.Run
	}

	if rt.cfg.GamesBaseURL != "" {
		scraper, err := games.NewScraper(games.Config{
			BaseURL:       rt.cfg.GamesBaseURL,
			ProxyURL:      rt.cfg.GamesProxyURL,
			ItemSelector:  rt.cfg.GamesSelector,
			PlayerBaseURL: rt.cfg.GamesPlayerURL,
		}, rt.logger)
		if err != nil {
			return nil, fmt.Errorf("build games scraper: %w", err)
		}
		pipeline, err := ingest.NewPipeline(scraper, ingest.NewGameStore(rt.pool), enricher, ingest.Options{
			EnrichWorkers: rt.cfg.SyncEnrichWorkers,
		}, rt.logger)
		if err != nil {
			return nil, fmt.Errorf("build games pipeline: %w", err)
		}
		syncers["games"] = pipeline.Run
	}

	if feeds := rt.cfg.RSSFeedList(); len(feeds) > 0 {
		source, err := rss.NewSource(feeds, rt.cfg.DefaultSiteTag, rt.logger)
		if err != nil {
			return nil, fmt.Errorf("build rss source: %w", err)
		}
		pipeline, err := ingest.NewPipeline(source, ingest.NewArticleStore(rt.pool), enricher, ingest.Options{
			EnrichWorkers: rt.cfg.SyncEnrichWorkers,
			FetchFullText: fetchText,
		}, rt.logger)
		if err != nil {
			return nil, fmt.Errorf("build rss pipeline: %w", err)
		}
		syncers["rss"] = pipeline.Run
	}

	return syncers, nil
}
