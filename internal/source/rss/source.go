package rss

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"noticias.lat/hub/internal/content"
)

// Source fetches candidate articles from a list of RSS/Atom feeds. Each feed
// plays the role a category plays for the feed API: one fetch per feed, and
// a broken feed is recorded without aborting the rest.
type Source struct {
	feeds   []string
	siteTag string
	parser  *gofeed.Parser
	logger  zerolog.Logger
}

func NewSource(feeds []string, siteTag string, logger zerolog.Logger) (*Source, error) {
	if len(feeds) == 0 {
		return nil, fmt.Errorf("at least one feed URL is required")
	}

	return &Source{
		feeds:   feeds,
		siteTag: strings.TrimSpace(siteTag),
		parser:  gofeed.NewParser(),
		logger:  logger.With().Str("source", "rss").Logger(),
	}, nil
}

func (s *Source) ID() string {
	return "rss"
}

func (s *Source) Fetch(ctx context.Context) ([]content.Candidate, []content.CategoryError) {
	var (
		candidates []content.Candidate
		failures   []content.CategoryError
	)

	for _, feedURL := range s.feeds {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			s.logger.Warn().Err(err).Str("feed", feedURL).Msg("feed fetch failed")
			failures = append(failures, content.CategoryError{
				Category: feedURL,
				Message:  err.Error(),
			})
			continue
		}
		candidates = append(candidates, s.mapItems(feed)...)
	}

	return candidates, failures
}

func (s *Source) mapItems(feed *gofeed.Feed) []content.Candidate {
	if feed == nil {
		return nil
	}

	candidates := make([]content.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		key := strings.TrimSpace(item.Link)
		title := strings.TrimSpace(item.Title)
		if key == "" || title == "" {
			continue
		}

		category := ""
		if len(item.Categories) > 0 {
			category = strings.ToLower(strings.TrimSpace(item.Categories[0]))
		}

		imageURL := ""
		if item.Image != nil {
			imageURL = strings.TrimSpace(item.Image.URL)
		}

		body := strings.TrimSpace(item.Content)
		if body == "" {
			body = strings.TrimSpace(item.Description)
		}

		candidates = append(candidates, content.Candidate{
			Key:              key,
			Title:            title,
			ShortDescription: strings.TrimSpace(item.Description),
			Category:         category,
			SiteTag:          s.siteTag,
			SourceURL:        key,
			ImageURL:         imageURL,
			BodyText:         body,
			PublishedAt:      item.PublishedParsed,
		})
	}
	return candidates
}
