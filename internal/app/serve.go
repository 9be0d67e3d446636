package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"noticias.lat/hub/internal/auth"
	"noticias.lat/hub/internal/cache"
	"noticias.lat/hub/internal/cli"
	"noticias.lat/hub/internal/httpapi"
	"noticias.lat/hub/internal/scheduler"
	"noticias.lat/hub/internal/source/radio"
	"noticias.lat/hub/internal/telegram"
	"noticias.lat/hub/internal/video"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "", "Host interface to bind (overrides HTTP_HOST)")
	port := fs.Int("port", 0, "HTTP port (overrides HTTP_PORT)")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	syncInterval := fs.Duration("sync-interval", 0, "Run sync + autopost on this interval (0 disables)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rt, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer rt.close()

	syncers, err := buildSyncers(rt)
	if err != nil {
		rt.logger.Error().Err(err).Msg("serve failed to build sync pipelines")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	deps := httpapi.Dependencies{
		Verifier: auth.NewVerifier(rt.cfg.AdminAPIKey, rt.cfg.AdminAPIKeyHash),
		Cache:    cache.New(rt.cfg.CacheTTL),
		Syncers:  syncers,
	}

	radioClient, err := radio.NewClient(rt.cfg.RadioBaseURL)
	if err != nil {
		rt.logger.Warn().Err(err).Msg("radio directory disabled")
	} else {
		deps.Radio = radioClient
	}

	var matcher *video.Matcher
	if rt.cfg.VideoSearchURL != "" {
		matcher = video.NewMatcher(rt.pool, video.NewHTTPSearcher(rt.cfg.VideoSearchURL, nil), rt.logger)
		deps.Matcher = matcher
	}

	serveHost := *host
	if serveHost == "" {
		serveHost = rt.cfg.HTTPHost
	}
	servePort := *port
	if servePort == 0 {
		servePort = rt.cfg.HTTPPort
	}
	if servePort <= 0 || servePort > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	srv := httpapi.NewServer(rt.pool, rt.logger, deps, httpapi.Options{
		Host:                serveHost,
		Port:                servePort,
		ReadTimeout:         *readTimeout,
		WriteTimeout:        *writeTimeout,
		ShutdownTimeout:     *shutdownTimeout,
		DefaultSiteTag:      rt.cfg.DefaultSiteTag,
		RadioDefaultCountry: rt.cfg.RadioDefaultCountry,
		SitemapBaseURL:      rt.cfg.SitemapBaseURL,
		SitemapPageSize:     rt.cfg.SitemapPageSize,
		PlaylistMediaDir:    rt.cfg.PlaylistMediaDir,
		PlaylistPublicBase:  rt.cfg.PlaylistPublicBase,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})

	if *syncInterval > 0 {
		sched := buildSchedule(rt, syncers, matcher, deps.Cache, *syncInterval)
		g.Go(func() error {
			sched.Start(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		rt.logger.Error().Err(err).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}
	return 0
}

// buildSchedule registers the periodic jobs: one per configured sync source,
// a video-match pass, and the Telegram autopost pass.
func buildSchedule(rt *runtime, syncers map[string]httpapi.SyncFunc, matcher *video.Matcher, responseCache *cache.TTLCache, interval time.Duration) *scheduler.Scheduler {
	sched := scheduler.New(interval, rt.logger)

	for name, run := range syncers {
		sched.Add(scheduler.Job{
			Name: "sync-" + name,
			Run: func(ctx context.Context) error {
				if _, err := run(ctx); err != nil {
					return err
				}
				responseCache.Reset()
				return nil
			},
		})
	}

	if matcher != nil {
		sched.Add(scheduler.Job{
			Name: "video-match",
			Run: func(ctx context.Context) error {
				_, err := matcher.Run(ctx, 20)
				return err
			},
		})
	}

	if rt.cfg.TelegramBotToken != "" && rt.cfg.TelegramChatID != "" {
		sender := telegram.NewClient(rt.cfg.TelegramBotToken, rt.cfg.TelegramChatID,
			telegram.WithBaseURL(rt.cfg.TelegramAPIBaseURL))
		poster := telegram.NewAutoposter(rt.pool, sender, rt.cfg.DefaultSiteTag, rt.logger)
		sched.Add(scheduler.Job{
			Name: "autopost",
			Run: func(ctx context.Context) error {
				_, err := poster.PostNext(ctx)
				return err
			},
		})
	}

	return sched
}
