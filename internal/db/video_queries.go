package db

import (
	"context"
	"fmt"

	"noticias.lat/hub/internal/globaltime"
)

// VideoCandidate is the projection the video matcher works on.
type VideoCandidate struct {
	ID    int64
	Title string
}

// ListPendingVideoArticles returns articles still waiting for a video match.
func (p *Pool) ListPendingVideoArticles(ctx context.Context, limit int) ([]VideoCandidate, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1")
	}

	const q = `
SELECT id, title
FROM articles
WHERE video_status = $1
ORDER BY published_at DESC, id DESC
LIMIT $2
`
	rows, err := p.Query(ctx, q, VideoStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending video articles: %w", err)
	}
	defer rows.Close()

	candidates := make([]VideoCandidate, 0, limit)
	for rows.Next() {
		var c VideoCandidate
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("scan video candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video candidates: %w", err)
	}
	return candidates, nil
}

// ClaimVideoProcessing moves one article pending -> processing. Returns
// ErrNoRows when the article is not in pending, so two overlapping matcher
// runs cannot both claim it.
func (p *Pool) ClaimVideoProcessing(ctx context.Context, id int64) error {
	return p.transitionVideoStatus(ctx, id, VideoStatusPending, VideoStatusProcessing, nil)
}

// CompleteVideoMatch moves processing -> complete and records the video URL.
// There is no transition out of complete.
func (p *Pool) CompleteVideoMatch(ctx context.Context, id int64, videoURL string) error {
	return p.transitionVideoStatus(ctx, id, VideoStatusProcessing, VideoStatusComplete, &videoURL)
}

// FailVideoMatch moves processing -> failed after a lookup error or an empty
// match result.
func (p *Pool) FailVideoMatch(ctx context.Context, id int64) error {
	return p.transitionVideoStatus(ctx, id, VideoStatusProcessing, VideoStatusFailed, nil)
}

func (p *Pool) transitionVideoStatus(ctx context.Context, id int64, from, to string, videoURL *string) error {
	const q = `
UPDATE articles
SET video_status = $1,
	video_url = COALESCE($2, video_url),
	updated_at = $3
WHERE id = $4
  AND video_status = $5
`
	tag, err := p.Exec(ctx, q, to, videoURL, globaltime.UTC(), id, from)
	if err != nil {
		return fmt.Errorf("transition video status %s -> %s: %w", from, to, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %d is not in %s status: %w", id, from, ErrNoRows)
	}
	return nil
}

// NextUnpostedArticle picks the newest article not yet posted to Telegram.
func (p *Pool) NextUnpostedArticle(ctx context.Context, siteTag string) (*Article, error) {
	q := fmt.Sprintf(`
SELECT %s
FROM articles
WHERE site_tag = $1
  AND telegram_posted_at IS NULL
ORDER BY published_at DESC, id DESC
LIMIT 1
`, articleColumns)

	a, err := scanArticle(p.QueryRow(ctx, q, siteTag))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (p *Pool) MarkArticlePosted(ctx context.Context, id int64) error {
	tag, err := p.Exec(ctx,
		"UPDATE articles SET telegram_posted_at = $1 WHERE id = $2 AND telegram_posted_at IS NULL",
		globaltime.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark article posted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
