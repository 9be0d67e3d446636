package ingest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noticias.lat/hub/internal/content"
	"noticias.lat/hub/internal/enrich"
)

type fakeSource struct {
	id         string
	candidates []content.Candidate
	errors     []content.CategoryError
}

func (s *fakeSource) ID() string { return s.id }

func (s *fakeSource) Fetch(context.Context) ([]content.Candidate, []content.CategoryError) {
	return s.candidates, s.errors
}

type fakeStore struct {
	mu       sync.Mutex
	existing map[string]struct{}
	upserted [][]content.Candidate
	fail     bool
}

func (s *fakeStore) ExistingKeys(_ context.Context, keys []string) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	for _, key := range keys {
		if _, ok := s.existing[key]; ok {
			found[key] = struct{}{}
		}
	}
	return found, nil
}

func (s *fakeStore) Upsert(_ context.Context, batch []content.Candidate) (content.UpsertResult, error) {
	if s.fail {
		return content.UpsertResult{}, fmt.Errorf("store unavailable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, batch)

	result := content.UpsertResult{}
	for _, c := range batch {
		kind := content.OutcomeInserted
		if _, known := s.existing[c.Key]; known {
			kind = content.OutcomeUpdated
		}
		if s.existing == nil {
			s.existing = make(map[string]struct{})
		}
		s.existing[c.Key] = struct{}{}
		result.Outcomes = append(result.Outcomes, content.RecordOutcome{Key: c.Key, Kind: kind})
	}
	return result, nil
}

type fakeEnricher struct {
	mu    sync.Mutex
	calls []string
	text  string
}

func (e *fakeEnricher) Enrich(_ context.Context, in enrich.Input) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, in.Title)
	return e.text
}

func TestPipelineRunSkipsKnownCandidates(t *testing.T) {
	source := &fakeSource{
		id: "gnews",
		candidates: []content.Candidate{
			{Key: "https://example.com/new", Title: "Nueva nota", BodyText: "texto"},
			{Key: "https://example.com/known", Title: "Vieja nota", BodyText: "texto"},
		},
	}
	store := &fakeStore{existing: map[string]struct{}{"https://example.com/known": {}}}
	enricher := &fakeEnricher{text: "resumen generado"}

	p, err := NewPipeline(source, store, enricher, Options{EnrichWorkers: 2}, zerolog.Nop())
	require.NoError(t, err)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 1, summary.Known)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 1, summary.Enriched)

	require.Len(t, store.upserted, 1)
	require.Len(t, store.upserted[0], 1)
	assert.Equal(t, "https://example.com/new", store.upserted[0][0].Key)
	assert.Equal(t, "resumen generado", store.upserted[0][0].EnrichedBody)

	assert.Equal(t, []string{"Nueva nota"}, enricher.calls)
}

func TestPipelineRunIsIdempotent(t *testing.T) {
	source := &fakeSource{
		id: "rss",
		candidates: []content.Candidate{
			{Key: "k1", Title: "uno", BodyText: "texto uno"},
			{Key: "k2", Title: "dos", BodyText: "texto dos"},
		},
	}
	store := &fakeStore{}

	p, err := NewPipeline(source, store, nil, Options{}, zerolog.Nop())
	require.NoError(t, err)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Known)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 0, second.Updated)
}

func TestPipelineRunRecordsCategoryFailures(t *testing.T) {
	source := &fakeSource{
		id:         "gnews",
		candidates: []content.Candidate{{Key: "k1", Title: "uno"}},
		errors: []content.CategoryError{
			{Category: "deportes", Message: "feed status 500"},
		},
	}
	store := &fakeStore{}

	p, err := NewPipeline(source, store, nil, Options{}, zerolog.Nop())
	require.NoError(t, err)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "deportes", summary.Errors[0].Category)
	assert.Equal(t, 1, summary.Inserted)
}

func TestPipelineRunReturnsStoreError(t *testing.T) {
	source := &fakeSource{
		id:         "gnews",
		candidates: []content.Candidate{{Key: "k1", Title: "uno"}},
	}
	store := &fakeStore{fail: true}

	p, err := NewPipeline(source, store, nil, Options{}, zerolog.Nop())
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bulk upsert")
}

func TestPipelineRunEmptySourceShortCircuits(t *testing.T) {
	source := &fakeSource{id: "games"}
	store := &fakeStore{}

	p, err := NewPipeline(source, store, nil, Options{}, zerolog.Nop())
	require.NoError(t, err)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Fetched)
	assert.Empty(t, store.upserted)
}

func TestNewPipelineClampsWorkers(t *testing.T) {
	source := &fakeSource{id: "gnews"}
	store := &fakeStore{}

	p, err := NewPipeline(source, store, nil, Options{EnrichWorkers: 99}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, p.opts.EnrichWorkers)

	p, err = NewPipeline(source, store, nil, Options{EnrichWorkers: -1}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, p.opts.EnrichWorkers)
}

func TestNewPipelineRequiresSourceAndStore(t *testing.T) {
	if _, err := NewPipeline(nil, &fakeStore{}, nil, Options{}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for nil source")
	}
	if _, err := NewPipeline(&fakeSource{id: "x"}, nil, nil, Options{}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for nil store")
	}
}
