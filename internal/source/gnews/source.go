package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"noticias.lat/hub/internal/content"
)

const (
	defaultTimeout   = 20 * time.Second
	maxResponseBytes = 4 * 1024 * 1024
)

// Config describes one feed-API source instance.
type Config struct {
	BaseURL    string
	APIKey     string
	Categories []string
	Lang       string
	Country    string
	MaxPerCat  int
	SiteTag    string
}

// Source fetches candidate articles from the feed API, one request per
// category. A failed category is recorded and skipped, never fatal.
type Source struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

func NewSource(cfg Config, logger zerolog.Logger) (*Source, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("feed API base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("feed API key is required")
	}
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("at least one category is required")
	}
	if cfg.MaxPerCat < 1 {
		cfg.MaxPerCat = 10
	}

	return &Source{
		cfg:    cfg,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: logger.With().Str("source", "gnews").Logger(),
	}, nil
}

func (s *Source) ID() string {
	return "gnews"
}

// Fetch walks every configured category. Per-category failures land in the
// returned error list and do not abort the remaining categories.
func (s *Source) Fetch(ctx context.Context) ([]content.Candidate, []content.CategoryError) {
	var (
		candidates []content.Candidate
		failures   []content.CategoryError
	)

	for _, category := range s.cfg.Categories {
		batch, err := s.fetchCategory(ctx, category)
		if err != nil {
			s.logger.Warn().Err(err).Str("category", category).Msg("category fetch failed")
			failures = append(failures, content.CategoryError{
				Category: category,
				Message:  err.Error(),
			})
			continue
		}
		candidates = append(candidates, batch...)
	}

	return candidates, failures
}

// feedResponse mirrors the feed API's wire format.
type feedResponse struct {
	TotalArticles int           `json:"totalArticles"`
	Articles      []feedArticle `json:"articles"`
}

type feedArticle struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	URL         string     `json:"url"`
	Image       string     `json:"image"`
	PublishedAt *time.Time `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

func (s *Source) fetchCategory(ctx context.Context, category string) ([]content.Candidate, error) {
	values := url.Values{}
	values.Set("category", strings.ToLower(strings.TrimSpace(category)))
	values.Set("lang", s.cfg.Lang)
	values.Set("max", strconv.Itoa(s.cfg.MaxPerCat))
	values.Set("apikey", s.cfg.APIKey)
	if country := strings.TrimSpace(s.cfg.Country); country != "" {
		values.Set("country", strings.ToLower(country))
	}

	endpoint := s.cfg.BaseURL + "/top-headlines?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch category: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed response: %w", err)
	}

	var payload feedResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	return s.mapArticles(category, payload.Articles), nil
}

// mapArticles turns raw feed items into candidates. The canonical article
// URL is the natural dedup key; items without one are dropped.
func (s *Source) mapArticles(category string, articles []feedArticle) []content.Candidate {
	candidates := make([]content.Candidate, 0, len(articles))
	for _, a := range articles {
		key := strings.TrimSpace(a.URL)
		title := strings.TrimSpace(a.Title)
		if key == "" || title == "" {
			continue
		}

		body := strings.TrimSpace(a.Content)
		if body == "" {
			body = strings.TrimSpace(a.Description)
		}

		candidates = append(candidates, content.Candidate{
			Key:              key,
			Title:            title,
			ShortDescription: strings.TrimSpace(a.Description),
			Category:         strings.ToLower(strings.TrimSpace(category)),
			SiteTag:          s.cfg.SiteTag,
			Country:          s.cfg.Country,
			SourceURL:        key,
			ImageURL:         strings.TrimSpace(a.Image),
			BodyText:         body,
			PublishedAt:      a.PublishedAt,
		})
	}
	return candidates
}
