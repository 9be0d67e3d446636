package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noticias.lat/hub/internal/db"
)

type fakeSitemapStore struct {
	total      int64
	lastOffset int
	lastLimit  int
}

func (f *fakeSitemapStore) CountArticlesBySite(_ context.Context, _ string) (int64, error) {
	return f.total, nil
}

func (f *fakeSitemapStore) ListArticlesForSitemap(_ context.Context, _ string, offset, limit int) ([]db.SitemapEntry, error) {
	f.lastOffset = offset
	f.lastLimit = limit

	if int64(offset) >= f.total {
		return nil, nil
	}
	remaining := f.total - int64(offset)
	if remaining > int64(limit) {
		remaining = int64(limit)
	}

	entries := make([]db.SitemapEntry, remaining)
	for i := range entries {
		entries[i] = db.SitemapEntry{
			ID:        int64(offset + i + 1),
			UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return entries, nil
}

func newSitemapServer(total int64) (*Server, *fakeSitemapStore) {
	store := &fakeSitemapStore{total: total}
	s := newTestServer(Dependencies{})
	s.opts.SitemapBaseURL = "https://noticias.lat"
	s.sitemaps = store
	return s, store
}

func TestSitemapIndexPaging(t *testing.T) {
	tests := []struct {
		total     int64
		wantPages int
	}{
		{0, 0},
		{1, 1},
		{5000, 1},
		{5001, 2},
		{10001, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%d", tt.total), func(t *testing.T) {
			s, _ := newSitemapServer(tt.total)
			rec := doRequest(s.buildEcho(), http.MethodGet, "/sitemap.xml", "")

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "https://noticias.lat/sitemap-static.xml")
			assert.Equal(t, tt.wantPages, strings.Count(body, "sitemap-noticias-"))
			if tt.wantPages > 0 {
				assert.Contains(t, body, fmt.Sprintf("sitemap-noticias-%d.xml", tt.wantPages))
			}
			assert.NotContains(t, body, fmt.Sprintf("sitemap-noticias-%d.xml", tt.wantPages+1))
		})
	}
}

func TestSitemapStatic(t *testing.T) {
	s, _ := newSitemapServer(0)
	rec := doRequest(s.buildEcho(), http.MethodGet, "/sitemap-static.xml", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://noticias.lat/</loc>")
	assert.Contains(t, body, "<loc>https://noticias.lat/juegos</loc>")
	assert.Contains(t, body, "<loc>https://noticias.lat/radio</loc>")
}

func TestSitemapNewsPage(t *testing.T) {
	s, store := newSitemapServer(10001)
	rec := doRequest(s.buildEcho(), http.MethodGet, "/sitemap-noticias-2.xml", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5000, store.lastOffset, "page 2 must read from offset 5000")
	assert.Equal(t, 5000, store.lastLimit)

	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://noticias.lat/noticia/5001</loc>")
	assert.Contains(t, body, "<loc>https://noticias.lat/noticia/10000</loc>")
	assert.Contains(t, body, "<lastmod>2025-06-01T12:00:00Z</lastmod>")
	assert.NotContains(t, body, "/noticia/10001", "page 2 must stop at the page boundary")
}

func TestSitemapNewsLastPartialPage(t *testing.T) {
	s, _ := newSitemapServer(10001)
	rec := doRequest(s.buildEcho(), http.MethodGet, "/sitemap-noticias-3.xml", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, "<url>"))
	assert.Contains(t, body, "<loc>https://noticias.lat/noticia/10001</loc>")
}

func TestSitemapNewsPageNotFound(t *testing.T) {
	s, _ := newSitemapServer(10)
	e := s.buildEcho()

	for _, target := range []string{
		"/sitemap-noticias-0.xml",
		"/sitemap-noticias--3.xml",
		"/sitemap-noticias-abc.xml",
		"/sitemap-noticias-2.xml",
	} {
		rec := doRequest(e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "expected 404 for %s", target)
	}
}
