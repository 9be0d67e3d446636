package games

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"noticias.lat/hub/internal/content"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "noticias.lat-hub/1.0"
	maxResponseBytes = 8 * 1024 * 1024
)

// Config describes the scraped gaming site.
type Config struct {
	BaseURL string
	// ProxyURL, when set, is a rendering proxy the page is fetched through
	// (for markup that only exists after client-side rendering).
	ProxyURL string
	// ItemSelector matches one element per game card.
	ItemSelector string
	// PlayerBaseURL prefixes the play URL built from each game slug.
	PlayerBaseURL string
}

// Scraper extracts game candidates from the site's listing markup. When the
// page structure no longer matches the selectors the result is empty, not an
// error: the sync simply reports zero new items.
type Scraper struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

func NewScraper(cfg Config, logger zerolog.Logger) (*Scraper, error) {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("games base URL is required")
	}
	if strings.TrimSpace(cfg.ItemSelector) == "" {
		cfg.ItemSelector = "div.game-card"
	}

	return &Scraper{
		cfg:    cfg,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: logger.With().Str("source", "games").Logger(),
	}, nil
}

func (s *Scraper) ID() string {
	return "games"
}

func (s *Scraper) Fetch(ctx context.Context) ([]content.Candidate, []content.CategoryError) {
	target := s.cfg.BaseURL
	if proxy := strings.TrimSpace(s.cfg.ProxyURL); proxy != "" {
		target = proxy + "?url=" + url.QueryEscape(s.cfg.BaseURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, []content.CategoryError{{Category: "games", Message: err.Error()}}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, []content.CategoryError{{Category: "games", Message: err.Error()}}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, []content.CategoryError{{
			Category: "games",
			Message:  fmt.Sprintf("scrape status %d", resp.StatusCode),
		}}
	}

	candidates, err := s.Parse(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, []content.CategoryError{{Category: "games", Message: err.Error()}}
	}

	s.logger.Info().Int("found", len(candidates)).Msg("games page scraped")
	return candidates, nil
}

// Parse extracts one candidate per matched element. Missing sub-elements in
// an item mean that item is skipped; zero matches is a valid empty result.
func (s *Scraper) Parse(markup io.Reader) ([]content.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, fmt.Errorf("parse games markup: %w", err)
	}

	var candidates []content.Candidate
	doc.Find(s.cfg.ItemSelector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find("h2, h3, .title").First().Text())
		href, _ := sel.Find("a").First().Attr("href")
		slug := slugFromHref(href)
		if title == "" || slug == "" {
			return
		}

		thumb, _ := sel.Find("img").First().Attr("src")
		category := strings.ToLower(strings.TrimSpace(sel.Find(".category, .genre").First().Text()))
		description := strings.TrimSpace(sel.Find("p, .description").First().Text())
		if description == "" {
			description = title
		}

		playURL := strings.TrimSpace(href)
		if base := strings.TrimRight(strings.TrimSpace(s.cfg.PlayerBaseURL), "/"); base != "" {
			playURL = base + "/" + slug
		}

		candidates = append(candidates, content.Candidate{
			Key:              slug,
			Title:            title,
			ShortDescription: description,
			Category:         category,
			ImageURL:         strings.TrimSpace(thumb),
			PlayURL:          playURL,
			SourceURL:        strings.TrimSpace(href),
			BodyText:         description,
		})
	})

	return candidates, nil
}

// slugFromHref takes the last non-empty path segment as the natural key.
func slugFromHref(href string) string {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}

	segment := path.Base(strings.TrimRight(parsed.Path, "/"))
	if segment == "." || segment == "/" {
		return ""
	}
	return strings.ToLower(segment)
}
