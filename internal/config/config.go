package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"HUB_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"HUB_DB_MAX_CONNS" default:"8"`

	HTTPHost string `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`

	// AdminAPIKeyHash takes precedence over AdminAPIKey when both are set.
	AdminAPIKey     string `envconfig:"ADMIN_API_KEY" default:""`
	AdminAPIKeyHash string `envconfig:"ADMIN_API_KEY_HASH" default:""`

	GNewsBaseURL    string `envconfig:"GNEWS_BASE_URL" default:"https://gnews.io/api/v4"`
	GNewsAPIKey     string `envconfig:"GNEWS_API_KEY" default:""`
	GNewsCategories string `envconfig:"GNEWS_CATEGORIES" default:"general,world,business,technology,entertainment,sports"`
	GNewsLang       string `envconfig:"GNEWS_LANG" default:"es"`
	GNewsCountry    string `envconfig:"GNEWS_COUNTRY" default:""`
	GNewsMaxPerCat  int    `envconfig:"GNEWS_MAX_PER_CATEGORY" default:"10"`
	DefaultSiteTag  string `envconfig:"DEFAULT_SITE_TAG" default:"noticias.lat"`

	RSSFeeds string `envconfig:"RSS_FEEDS" default:""`

	GamesBaseURL   string `envconfig:"GAMES_BASE_URL" default:""`
	GamesProxyURL  string `envconfig:"GAMES_RENDER_PROXY_URL" default:""`
	GamesSelector  string `envconfig:"GAMES_ITEM_SELECTOR" default:"div.game-card"`
	GamesPlayerURL string `envconfig:"GAMES_PLAYER_BASE_URL" default:""`

	RadioBaseURL        string `envconfig:"RADIO_BASE_URL" default:"https://de1.api.radio-browser.info"`
	RadioDefaultCountry string `envconfig:"RADIO_DEFAULT_COUNTRY" default:"MX"`

	AIBaseURL       string        `envconfig:"AI_BASE_URL" default:""`
	AIAPIKey        string        `envconfig:"AI_API_KEY" default:""`
	AIModel         string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	AIMinInputChars int           `envconfig:"AI_MIN_INPUT_CHARS" default:"120"`
	AITimeout       time.Duration `envconfig:"AI_TIMEOUT" default:"45s"`

	SyncEnrichWorkers int `envconfig:"SYNC_ENRICH_WORKERS" default:"2"`

	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	TelegramAPIBaseURL string `envconfig:"TELEGRAM_API_BASE_URL" default:"https://api.telegram.org"`
	TelegramBotToken   string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	TelegramChatID     string `envconfig:"TELEGRAM_CHAT_ID" default:""`

	VideoSearchURL string `envconfig:"VIDEO_SEARCH_URL" default:""`

	SitemapBaseURL  string `envconfig:"SITEMAP_BASE_URL" default:"https://noticias.lat"`
	SitemapPageSize int    `envconfig:"SITEMAP_PAGE_SIZE" default:"5000"`

	PlaylistMediaDir   string `envconfig:"PLAYLIST_MEDIA_DIR" default:"./media"`
	PlaylistPublicBase string `envconfig:"PLAYLIST_PUBLIC_BASE" default:"/media"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("HUB_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("HUB_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("HUB_DB_MIN_CONNS (%d) cannot exceed HUB_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if strings.TrimSpace(c.AdminAPIKey) == "" && strings.TrimSpace(c.AdminAPIKeyHash) == "" {
		return fmt.Errorf("one of ADMIN_API_KEY or ADMIN_API_KEY_HASH is required")
	}
	if c.AIMinInputChars < 0 {
		return fmt.Errorf("AI_MIN_INPUT_CHARS must be >= 0")
	}
	if c.SyncEnrichWorkers < 1 || c.SyncEnrichWorkers > 4 {
		return fmt.Errorf("SYNC_ENRICH_WORKERS must be between 1 and 4")
	}
	if c.SitemapPageSize < 1 {
		return fmt.Errorf("SITEMAP_PAGE_SIZE must be >= 1")
	}
	return nil
}

// GNewsCategoryList splits GNEWS_CATEGORIES into trimmed, deduplicated names.
func (c *Config) GNewsCategoryList() []string {
	return splitCSV(c.GNewsCategories)
}

// RSSFeedList splits RSS_FEEDS into trimmed, deduplicated URLs.
func (c *Config) RSSFeedList() []string {
	return splitCSV(c.RSSFeeds)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}
