package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"noticias.lat/hub/internal/cli"
	"noticias.lat/hub/internal/telegram"
)

func runAutopost(args []string) int {
	fs := flag.NewFlagSet("autopost", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", time.Minute, "Overall autopost timeout")

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

	if rt.cfg.TelegramBotToken == "" || rt.cfg.TelegramChatID == "" {
		fmt.Fprintln(os.Stderr, "TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sender := telegram.NewClient(rt.cfg.TelegramBotToken, rt.cfg.TelegramChatID,
		telegram.WithBaseURL(rt.cfg.TelegramAPIBaseURL))
	poster := telegram.NewAutoposter(rt.pool, sender, rt.cfg.DefaultSiteTag, rt.logger)

	posted, err := poster.PostNext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Autopost failed: %v\n", err)
		return 1
	}

	if posted {
		fmt.Println("posted 1 article")
	} else {
		fmt.Println("nothing to post")
	}
	return 0
}
