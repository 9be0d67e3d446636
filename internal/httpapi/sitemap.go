package httpapi

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"noticias.lat/hub/internal/db"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	Xmlns    string         `xml:"xmlns,attr"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// staticPages are the crawlable non-article routes of the public site.
var staticPages = []string{"/", "/juegos", "/radio"}

func (s *Server) handleSitemapIndex(c echo.Context) error {
	total, err := s.sitemaps.CountArticlesBySite(c.Request().Context(), s.opts.DefaultSiteTag)
	if err != nil {
		s.logger.Error().Err(err).Msg("count sitemap articles failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "sitemap unavailable")
	}

	base := strings.TrimSuffix(s.opts.SitemapBaseURL, "/")
	index := sitemapIndex{
		Xmlns: sitemapNamespace,
		Sitemaps: []sitemapEntry{
			{Loc: base + "/sitemap-static.xml"},
		},
	}
	for page := 1; page <= db.TotalPages(total, s.opts.SitemapPageSize); page++ {
		index.Sitemaps = append(index.Sitemaps, sitemapEntry{
			Loc: fmt.Sprintf("%s/sitemap-noticias-%d.xml", base, page),
		})
	}

	return writeXML(c, index)
}

func (s *Server) handleSitemapStatic(c echo.Context) error {
	base := strings.TrimSuffix(s.opts.SitemapBaseURL, "/")
	set := urlSet{Xmlns: sitemapNamespace}
	for _, page := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + page})
	}
	return writeXML(c, set)
}

// handleSitemapNews serves one 5000-URL page of article locations. The page
// number rides in the path as sitemap-noticias-<n>.xml.
func (s *Server) handleSitemapNews(c echo.Context) error {
	raw := strings.TrimSuffix(strings.TrimSpace(c.Param("page")), ".xml")
	page := parseLenientInt(raw, 0, 1, 1_000_000)
	if page == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "sitemap page not found")
	}

	offset := (page - 1) * s.opts.SitemapPageSize
	entries, err := s.sitemaps.ListArticlesForSitemap(c.Request().Context(), s.opts.DefaultSiteTag, offset, s.opts.SitemapPageSize)
	if err != nil {
		s.logger.Error().Err(err).Int("page", page).Msg("query sitemap page failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "sitemap unavailable")
	}
	if len(entries) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "sitemap page not found")
	}

	base := strings.TrimSuffix(s.opts.SitemapBaseURL, "/")
	set := urlSet{Xmlns: sitemapNamespace}
	for _, entry := range entries {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/noticia/%d", base, entry.ID),
			LastMod: entry.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeXML(c, set)
}

func writeXML(c echo.Context, payload any) error {
	body, err := xml.MarshalIndent(payload, "", "  ")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "sitemap unavailable")
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}
