package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"noticias.lat/hub/internal/db"
)

// Sender is satisfied by Client; the autoposter only needs sendMessage.
type Sender interface {
	SendMessage(ctx context.Context, text string) error
}

// Autoposter publishes the newest unposted article of one site to a Telegram
// channel. At most one article is posted per run; send failures leave the
// article unposted so the next run retries it.
type Autoposter struct {
	pool    *db.Pool
	sender  Sender
	siteTag string
	logger  zerolog.Logger
}

func NewAutoposter(pool *db.Pool, sender Sender, siteTag string, logger zerolog.Logger) *Autoposter {
	return &Autoposter{
		pool:    pool,
		sender:  sender,
		siteTag: siteTag,
		logger:  logger.With().Str("component", "autopost").Logger(),
	}
}

// PostNext sends one pending article. Returns (false, nil) when there is
// nothing to post.
func (a *Autoposter) PostNext(ctx context.Context) (bool, error) {
	article, err := a.pool.NextUnpostedArticle(ctx, a.siteTag)
	if errors.Is(err, db.ErrNoRows) {
		a.logger.Debug().Msg("no unposted articles")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("pick unposted article: %w", err)
	}

	if err := a.sender.SendMessage(ctx, FormatArticle(article)); err != nil {
		return false, fmt.Errorf("post article %d: %w", article.ID, err)
	}

	if err := a.pool.MarkArticlePosted(ctx, article.ID); err != nil {
		// The message went out; log loudly because the next run would
		// post the same article again.
		a.logger.Error().Err(err).Int64("article_id", article.ID).Msg("posted but could not mark article")
		return true, fmt.Errorf("mark article %d posted: %w", article.ID, err)
	}

	a.logger.Info().Int64("article_id", article.ID).Str("title", article.Title).Msg("article posted to telegram")
	return true, nil
}

// FormatArticle renders the channel message: bold title, short description,
// source link. All user-sourced text is HTML-escaped.
func FormatArticle(a *db.Article) string {
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(html.EscapeString(strings.TrimSpace(a.Title)))
	b.WriteString("</b>")

	if desc := strings.TrimSpace(a.ShortDescription); desc != "" {
		b.WriteString("\n\n")
		b.WriteString(html.EscapeString(desc))
	}
	if a.SourceURL != "" {
		b.WriteString("\n\n")
		b.WriteString(html.EscapeString(a.SourceURL))
	}
	return b.String()
}
