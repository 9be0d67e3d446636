package ingest

import (
	"context"

	"noticias.lat/hub/internal/content"
	"noticias.lat/hub/internal/db"
)

// ArticleStore adapts the articles table to the pipeline Store interface.
type ArticleStore struct {
	pool *db.Pool
}

func NewArticleStore(pool *db.Pool) *ArticleStore {
	return &ArticleStore{pool: pool}
}

func (s *ArticleStore) ExistingKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	return s.pool.ExistingArticleKeys(ctx, keys)
}

func (s *ArticleStore) Upsert(ctx context.Context, batch []content.Candidate) (content.UpsertResult, error) {
	return s.pool.UpsertArticles(ctx, batch)
}

// GameStore adapts the games table to the pipeline Store interface.
type GameStore struct {
	pool *db.Pool
}

func NewGameStore(pool *db.Pool) *GameStore {
	return &GameStore{pool: pool}
}

func (s *GameStore) ExistingKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	return s.pool.ExistingGameKeys(ctx, keys)
}

func (s *GameStore) Upsert(ctx context.Context, batch []content.Candidate) (content.UpsertResult, error) {
	return s.pool.UpsertGames(ctx, batch)
}
