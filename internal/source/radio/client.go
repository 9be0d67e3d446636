package radio

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
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "noticias.lat-hub/1.0"
	maxResponseBytes = 4 * 1024 * 1024
)

// Station is a normalized radio directory entry. StationUUID is the natural
// key assigned by the directory.
type Station struct {
	StationUUID string `json:"stationUuid"`
	Name        string `json:"nombre"`
	CountryCode string `json:"pais"`
	Genre       string `json:"genero"`
	StreamURL   string `json:"streamUrl"`
	FaviconURL  string `json:"favicon"`
	Bitrate     int    `json:"bitrate"`
}

// SearchParams filter a directory search.
type SearchParams struct {
	CountryCode string
	Genre       string
	Limit       int
}

type Client struct {
	base string
	http *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("radio directory base URL is required")
	}

	client := &Client{
		base: trimmed,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// directoryStation mirrors the directory's wire format.
type directoryStation struct {
	StationUUID string `json:"stationuuid"`
	Name        string `json:"name"`
	CountryCode string `json:"countrycode"`
	Tags        string `json:"tags"`
	URLResolved string `json:"url_resolved"`
	URL         string `json:"url"`
	Favicon     string `json:"favicon"`
	Bitrate     int    `json:"bitrate"`
}

// Search queries the directory and returns normalized stations. Entries
// without a stream URL or UUID are dropped.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Station, error) {
	limit := params.Limit
	if limit < 1 {
		limit = 50
	}

	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("hidebroken", "true")
	values.Set("order", "clickcount")
	values.Set("reverse", "true")
	if country := strings.TrimSpace(params.CountryCode); country != "" {
		values.Set("countrycode", strings.ToUpper(country))
	}
	if genre := strings.TrimSpace(params.Genre); genre != "" {
		values.Set("tag", strings.ToLower(genre))
	}

	endpoint := c.base + "/json/stations/search?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("directory status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read directory response: %w", err)
	}

	var raw []directoryStation
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}

	return normalizeStations(raw), nil
}

func normalizeStations(raw []directoryStation) []Station {
	stations := make([]Station, 0, len(raw))
	for _, entry := range raw {
		streamURL := strings.TrimSpace(entry.URLResolved)
		if streamURL == "" {
			streamURL = strings.TrimSpace(entry.URL)
		}
		if strings.TrimSpace(entry.StationUUID) == "" || streamURL == "" {
			continue
		}

		stations = append(stations, Station{
			StationUUID: strings.TrimSpace(entry.StationUUID),
			Name:        strings.TrimSpace(entry.Name),
			CountryCode: strings.ToUpper(strings.TrimSpace(entry.CountryCode)),
			Genre:       firstTag(entry.Tags),
			StreamURL:   streamURL,
			FaviconURL:  strings.TrimSpace(entry.Favicon),
			Bitrate:     entry.Bitrate,
		})
	}
	return stations
}

func firstTag(tags string) string {
	for _, tag := range strings.Split(tags, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(tag)); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
