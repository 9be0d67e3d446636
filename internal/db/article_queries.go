package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"noticias.lat/hub/internal/content"
	"noticias.lat/hub/internal/globaltime"
)

const articleColumns = `
	id,
	article_uuid,
	natural_key,
	title,
	short_description,
	category,
	site_tag,
	country,
	source_url,
	image_url,
	enriched_body,
	language,
	video_status,
	video_url,
	telegram_posted_at,
	published_at,
	created_at,
	updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner) (Article, error) {
	var a Article
	err := s.Scan(
		&a.ID,
		&a.ArticleUUID,
		&a.NaturalKey,
		&a.Title,
		&a.ShortDescription,
		&a.Category,
		&a.SiteTag,
		&a.Country,
		&a.SourceURL,
		&a.ImageURL,
		&a.EnrichedBody,
		&a.Language,
		&a.VideoStatus,
		&a.VideoURL,
		&a.TelegramPostedAt,
		&a.PublishedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// ListArticles returns one page of articles plus the total matching count.
// The page rows and the count are independent reads and run in parallel.
func (p *Pool) ListArticles(ctx context.Context, opts ArticleListOptions) (int64, []Article, error) {
	if strings.TrimSpace(opts.SiteTag) == "" {
		return 0, nil, fmt.Errorf("site tag is required")
	}
	if opts.Page < 1 || opts.PageSize < 1 {
		return 0, nil, fmt.Errorf("page and page size must be >= 1")
	}

	plan := planArticleList(opts)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM articles %s", plan.Where)
	rowsQuery := fmt.Sprintf(
		"SELECT %s FROM articles %s %s LIMIT $%d OFFSET $%d",
		articleColumns, plan.Where, plan.OrderBy, len(plan.Args)+1, len(plan.Args)+2,
	)
	rowsArgs := append(append([]any{}, plan.Args...), opts.PageSize, pageOffset(opts.Page, opts.PageSize))

	var (
		total int64
		items []Article
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := p.QueryRow(gctx, countQuery, plan.Args...).Scan(&total); err != nil {
			return fmt.Errorf("count articles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := p.Query(gctx, rowsQuery, rowsArgs...)
		if err != nil {
			return fmt.Errorf("query articles: %w", err)
		}
		defer rows.Close()

		page := make([]Article, 0, opts.PageSize)
		for rows.Next() {
			a, err := scanArticle(rows)
			if err != nil {
				return fmt.Errorf("scan article row: %w", err)
			}
			page = append(page, a)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate article rows: %w", err)
		}
		items = page
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (p *Pool) GetArticleByID(ctx context.Context, id int64) (*Article, error) {
	q := fmt.Sprintf("SELECT %s FROM articles WHERE id = $1", articleColumns)
	a, err := scanArticle(p.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (p *Pool) GetArticleByUUID(ctx context.Context, articleUUID string) (*Article, error) {
	q := fmt.Sprintf("SELECT %s FROM articles WHERE article_uuid = $1::uuid", articleColumns)
	a, err := scanArticle(p.QueryRow(ctx, q, strings.TrimSpace(articleUUID)))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ExistingArticleKeys returns the subset of keys already present, in one
// batched query rather than one round-trip per candidate.
func (p *Pool) ExistingArticleKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(keys))
	if len(keys) == 0 {
		return existing, nil
	}

	rows, err := p.Query(ctx, "SELECT natural_key FROM articles WHERE natural_key = ANY($1)", keys)
	if err != nil {
		return nil, fmt.Errorf("query existing article keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan existing article key: %w", err)
		}
		existing[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate existing article keys: %w", err)
	}
	return existing, nil
}

// UpsertArticles performs one bulk insert-or-update keyed by natural_key and
// reports a tagged per-record outcome. Enrichment and video fields are never
// clobbered by a refresh that lacks them.
func (p *Pool) UpsertArticles(ctx context.Context, batch []content.Candidate) (content.UpsertResult, error) {
	result := content.UpsertResult{}
	if len(batch) == 0 {
		return result, nil
	}

	now := globaltime.UTC()
	const cols = 14
	placeholders := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*cols)

	for i, c := range batch {
		base := i * cols
		marks := make([]string, cols)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")

		publishedAt := now
		if c.PublishedAt != nil {
			publishedAt = c.PublishedAt.UTC()
		}
		var enriched *string
		if strings.TrimSpace(c.EnrichedBody) != "" {
			body := c.EnrichedBody
			enriched = &body
		}

		args = append(args,
			uuid.NewString(),
			c.Key,
			c.Title,
			c.ShortDescription,
			strings.ToLower(strings.TrimSpace(c.Category)),
			c.SiteTag,
			strings.ToUpper(strings.TrimSpace(c.Country)),
			c.SourceURL,
			c.ImageURL,
			enriched,
			c.Language,
			publishedAt,
			now,
			now,
		)
	}

	query := fmt.Sprintf(`
INSERT INTO articles (
	article_uuid, natural_key, title, short_description, category, site_tag,
	country, source_url, image_url, enriched_body, language, published_at, created_at, updated_at
)
VALUES %s
ON CONFLICT (natural_key) DO UPDATE SET
	title = EXCLUDED.title,
	short_description = EXCLUDED.short_description,
	category = EXCLUDED.category,
	country = EXCLUDED.country,
	source_url = EXCLUDED.source_url,
	image_url = EXCLUDED.image_url,
	enriched_body = COALESCE(EXCLUDED.enriched_body, articles.enriched_body),
	language = CASE WHEN EXCLUDED.language <> '' THEN EXCLUDED.language ELSE articles.language END,
	updated_at = EXCLUDED.updated_at
RETURNING natural_key, (xmax = 0) AS inserted
`, strings.Join(placeholders, ",\n"))

	rows, err := p.Query(ctx, query, args...)
	if err != nil {
		return result, fmt.Errorf("bulk upsert articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key      string
			inserted bool
		)
		if err := rows.Scan(&key, &inserted); err != nil {
			return result, fmt.Errorf("scan upsert outcome: %w", err)
		}
		kind := content.OutcomeUpdated
		if inserted {
			kind = content.OutcomeInserted
		}
		result.Outcomes = append(result.Outcomes, content.RecordOutcome{Key: key, Kind: kind})
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("iterate upsert outcomes: %w", err)
	}
	return result, nil
}

// InsertArticle is the manual-entry path. A natural-key collision surfaces
// ErrDuplicateKey so callers can answer 409 instead of retrying.
func (p *Pool) InsertArticle(ctx context.Context, a *Article) error {
	if a == nil {
		return fmt.Errorf("article is nil")
	}

	now := globaltime.UTC()
	if a.ArticleUUID == "" {
		a.ArticleUUID = uuid.NewString()
	}
	if a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	if a.VideoStatus == "" {
		a.VideoStatus = VideoStatusPending
	}

	const q = `
INSERT INTO articles (
	article_uuid, natural_key, title, short_description, category, site_tag,
	country, source_url, image_url, enriched_body, language, video_status, published_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id
`
	err := p.QueryRow(ctx, q,
		a.ArticleUUID,
		a.NaturalKey,
		a.Title,
		a.ShortDescription,
		a.Category,
		a.SiteTag,
		a.Country,
		a.SourceURL,
		a.ImageURL,
		a.EnrichedBody,
		a.Language,
		a.VideoStatus,
		a.PublishedAt,
		now,
		now,
	).Scan(&a.ID)
	if err != nil {
		if IsDuplicateKey(err) {
			return fmt.Errorf("article %q: %w", a.NaturalKey, ErrDuplicateKey)
		}
		return fmt.Errorf("insert article: %w", err)
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// SitemapEntry is the minimal projection the sitemap builder needs.
type SitemapEntry struct {
	ID        int64
	UpdatedAt time.Time
}

func (p *Pool) CountArticlesBySite(ctx context.Context, siteTag string) (int64, error) {
	var total int64
	err := p.QueryRow(ctx, "SELECT COUNT(*) FROM articles WHERE site_tag = $1", siteTag).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return total, nil
}

func (p *Pool) ListArticlesForSitemap(ctx context.Context, siteTag string, offset, limit int) ([]SitemapEntry, error) {
	const q = `
SELECT id, updated_at
FROM articles
WHERE site_tag = $1
ORDER BY id ASC
LIMIT $2
OFFSET $3
`
	rows, err := p.Query(ctx, q, siteTag, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query sitemap articles: %w", err)
	}
	defer rows.Close()

	entries := make([]SitemapEntry, 0, limit)
	for rows.Next() {
		var e SitemapEntry
		if err := rows.Scan(&e.ID, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sitemap article: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sitemap articles: %w", err)
	}
	return entries, nil
}
