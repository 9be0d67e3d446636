package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"noticias.lat/hub/internal/auth"
	"noticias.lat/hub/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var one int
	if err := rt.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		rt.logger.Error().Err(err).Msg("health check query failed")
		fmt.Fprintf(os.Stderr, "Database check failed: %v\n", err)
		return 1
	}

	fmt.Println("database ok")
	return 0
}

// runHashKey prints the bcrypt hash for ADMIN_API_KEY_HASH. The key is read
// from the first positional arg so it never touches shell history via flags.
func runHashKey(args []string) int {
	fs := flag.NewFlagSet("hash-key", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hub hash-key <api-key>")
		return 2
	}

	hash, err := auth.HashAPIKey(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash key: %v\n", err)
		return 1
	}

	fmt.Println(hash)
	return 0
}
