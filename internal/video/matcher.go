package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"noticias.lat/hub/internal/db"
)

// Searcher looks up a video URL for an article title. An empty result with a
// nil error means the search ran but found nothing.
type Searcher interface {
	Search(ctx context.Context, title string) (string, error)
}

// HTTPSearcher queries an external video search endpoint:
// GET {base}?q={title} returning {"url": "..."} with an empty url on no match.
type HTTPSearcher struct {
	baseURL string
	http    *http.Client
}

func NewHTTPSearcher(baseURL string, hc *http.Client) *HTTPSearcher {
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTTPSearcher{baseURL: strings.TrimSuffix(baseURL, "/"), http: hc}
}

type searchResponse struct {
	URL string `json:"url"`
}

func (s *HTTPSearcher) Search(ctx context.Context, title string) (string, error) {
	endpoint := s.baseURL + "?q=" + url.QueryEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build video search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("video search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("video search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read video search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode video search response: %w", err)
	}
	return strings.TrimSpace(parsed.URL), nil
}

// Matcher walks pending articles through the video status machine:
// pending -> processing -> complete on a hit, failed on a lookup error or an
// empty result. Claiming via the status transition keeps overlapping runs
// from working the same article.
type Matcher struct {
	pool     *db.Pool
	searcher Searcher
	logger   zerolog.Logger
}

func NewMatcher(pool *db.Pool, searcher Searcher, logger zerolog.Logger) *Matcher {
	return &Matcher{
		pool:     pool,
		searcher: searcher,
		logger:   logger.With().Str("component", "video-match").Logger(),
	}
}

// RunResult summarizes one matcher pass.
type RunResult struct {
	Processed int `json:"procesados"`
	Matched   int `json:"coincidencias"`
	Failed    int `json:"fallidos"`
}

// Run matches up to limit pending articles. Per-article failures are counted,
// not returned; only listing errors abort the pass.
func (m *Matcher) Run(ctx context.Context, limit int) (*RunResult, error) {
	candidates, err := m.pool.ListPendingVideoArticles(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending video articles: %w", err)
	}

	result := &RunResult{}
	for _, c := range candidates {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		if err := m.pool.ClaimVideoProcessing(ctx, c.ID); err != nil {
			m.logger.Debug().Err(err).Int64("article_id", c.ID).Msg("could not claim article, skipping")
			continue
		}
		result.Processed++

		videoURL, err := m.searcher.Search(ctx, c.Title)
		if err != nil || videoURL == "" {
			if err != nil {
				m.logger.Warn().Err(err).Int64("article_id", c.ID).Msg("video search failed")
			}
			if failErr := m.pool.FailVideoMatch(ctx, c.ID); failErr != nil {
				m.logger.Error().Err(failErr).Int64("article_id", c.ID).Msg("could not mark video match failed")
			}
			result.Failed++
			continue
		}

		if err := m.pool.CompleteVideoMatch(ctx, c.ID, videoURL); err != nil {
			m.logger.Error().Err(err).Int64("article_id", c.ID).Msg("could not record video match")
			result.Failed++
			continue
		}
		result.Matched++
	}

	m.logger.Info().
		Int("processed", result.Processed).
		Int("matched", result.Matched).
		Int("failed", result.Failed).
		Msg("video match pass finished")
	return result, nil
}

// MatchOne runs the state machine for a single article and reports the final
// status. The article must currently be pending.
func (m *Matcher) MatchOne(ctx context.Context, id int64) (status string, videoURL string, err error) {
	article, err := m.pool.GetArticleByID(ctx, id)
	if err != nil {
		return "", "", err
	}

	if err := m.pool.ClaimVideoProcessing(ctx, id); err != nil {
		return article.VideoStatus, "", err
	}

	videoURL, searchErr := m.searcher.Search(ctx, article.Title)
	if searchErr != nil || videoURL == "" {
		if searchErr != nil {
			m.logger.Warn().Err(searchErr).Int64("article_id", id).Msg("video search failed")
		}
		if failErr := m.pool.FailVideoMatch(ctx, id); failErr != nil {
			return db.VideoStatusProcessing, "", failErr
		}
		return db.VideoStatusFailed, "", nil
	}

	if err := m.pool.CompleteVideoMatch(ctx, id, videoURL); err != nil {
		return db.VideoStatusProcessing, "", err
	}
	return db.VideoStatusComplete, videoURL, nil
}
