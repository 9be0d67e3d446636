package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"noticias.lat/hub/internal/cli"
	"noticias.lat/hub/internal/source/radio"
)

func runSync(args []string) int {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Overall sync timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hub sync [flags] <gnews|games|rss|radios>")
		return 2
	}
	source := fs.Arg(0)

	rt, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer rt.close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if source == "radios" {
		return runSyncRadios(ctx, rt)
	}

	syncers, err := buildSyncers(rt)
	if err != nil {
		rt.logger.Error().Err(err).Msg("failed to build sync pipelines")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	run, registered := syncers[source]
	if !registered {
		fmt.Fprintf(os.Stderr, "source %q is unknown or not configured\n", source)
		return 2
	}

	summary, err := run(ctx)
	if err != nil {
		rt.logger.Error().Err(err).Str("source", source).Msg("sync failed")
		fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
		return 1
	}

	printJSON(summary)
	return 0
}

func runSyncRadios(ctx context.Context, rt *runtime) int {
	client, err := radio.NewClient(rt.cfg.RadioBaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Radio directory is not configured: %v\n", err)
		return 1
	}

	stations, err := client.Search(ctx, radio.SearchParams{
		CountryCode: rt.cfg.RadioDefaultCountry,
		Limit:       200,
	})
	if err != nil {
		rt.logger.Error().Err(err).Msg("radio directory fetch failed")
		fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
		return 1
	}

	inserted, updated, err := rt.pool.UpsertStations(ctx, stations)
	if err != nil {
		rt.logger.Error().Err(err).Msg("station snapshot upsert failed")
		fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
		return 1
	}

	printJSON(map[string]any{
		"source":   "radios",
		"fetched":  len(stations),
		"inserted": inserted,
		"updated":  updated,
	})
	return 0
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}
