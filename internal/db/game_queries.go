package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"noticias.lat/hub/internal/content"
	"noticias.lat/hub/internal/globaltime"
)

const gameColumns = `
	id,
	game_uuid,
	slug,
	title,
	short_description,
	category,
	thumbnail_url,
	play_url,
	enriched_body,
	published_at,
	created_at,
	updated_at`

func scanGame(s scanner) (Game, error) {
	var g Game
	err := s.Scan(
		&g.ID,
		&g.GameUUID,
		&g.Slug,
		&g.Title,
		&g.ShortDescription,
		&g.Category,
		&g.ThumbnailURL,
		&g.PlayURL,
		&g.EnrichedBody,
		&g.PublishedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

// ListGames returns one page of games plus the total matching count.
func (p *Pool) ListGames(ctx context.Context, opts GameListOptions) (int64, []Game, error) {
	if opts.Page < 1 || opts.PageSize < 1 {
		return 0, nil, fmt.Errorf("page and page size must be >= 1")
	}

	plan := planGameList(opts)

	countQuery := strings.TrimSpace(fmt.Sprintf("SELECT COUNT(*) FROM games %s", plan.Where))
	rowsQuery := fmt.Sprintf(
		"SELECT %s FROM games %s %s LIMIT $%d OFFSET $%d",
		gameColumns, plan.Where, plan.OrderBy, len(plan.Args)+1, len(plan.Args)+2,
	)
	rowsArgs := append(append([]any{}, plan.Args...), opts.PageSize, pageOffset(opts.Page, opts.PageSize))

	var (
		total int64
		items []Game
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := p.QueryRow(gctx, countQuery, plan.Args...).Scan(&total); err != nil {
			return fmt.Errorf("count games: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := p.Query(gctx, rowsQuery, rowsArgs...)
		if err != nil {
			return fmt.Errorf("query games: %w", err)
		}
		defer rows.Close()

		page := make([]Game, 0, opts.PageSize)
		for rows.Next() {
			game, err := scanGame(rows)
			if err != nil {
				return fmt.Errorf("scan game row: %w", err)
			}
			page = append(page, game)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate game rows: %w", err)
		}
		items = page
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (p *Pool) GetGameBySlug(ctx context.Context, slug string) (*Game, error) {
	q := fmt.Sprintf("SELECT %s FROM games WHERE slug = $1", gameColumns)
	g, err := scanGame(p.QueryRow(ctx, q, strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ExistingGameKeys returns the subset of slugs already present, batched.
func (p *Pool) ExistingGameKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(keys))
	if len(keys) == 0 {
		return existing, nil
	}

	rows, err := p.Query(ctx, "SELECT slug FROM games WHERE slug = ANY($1)", keys)
	if err != nil {
		return nil, fmt.Errorf("query existing game keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan existing game key: %w", err)
		}
		existing[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate existing game keys: %w", err)
	}
	return existing, nil
}

// UpsertGames performs one bulk insert-or-update keyed by slug.
func (p *Pool) UpsertGames(ctx context.Context, batch []content.Candidate) (content.UpsertResult, error) {
	result := content.UpsertResult{}
	if len(batch) == 0 {
		return result, nil
	}

	now := globaltime.UTC()
	const cols = 11
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
			c.ImageURL,
			c.PlayURL,
			enriched,
			publishedAt,
			now,
			now,
		)
	}

	query := fmt.Sprintf(`
INSERT INTO games (
	game_uuid, slug, title, short_description, category,
	thumbnail_url, play_url, enriched_body, published_at, created_at, updated_at
)
VALUES %s
ON CONFLICT (slug) DO UPDATE SET
	title = EXCLUDED.title,
	short_description = EXCLUDED.short_description,
	category = EXCLUDED.category,
	thumbnail_url = EXCLUDED.thumbnail_url,
	play_url = EXCLUDED.play_url,
	enriched_body = COALESCE(EXCLUDED.enriched_body, games.enriched_body),
	updated_at = EXCLUDED.updated_at
RETURNING slug, (xmax = 0) AS inserted
`, strings.Join(placeholders, ",\n"))

	rows, err := p.Query(ctx, query, args...)
	if err != nil {
		return result, fmt.Errorf("bulk upsert games: %w", err)
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
