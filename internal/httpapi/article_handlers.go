package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"noticias.lat/hub/internal/db"
	payloadschema "noticias.lat/hub/schema"
)

type articleListResponse struct {
	TotalArticles int64        `json:"totalArticulos"`
	TotalPages    int          `json:"totalPaginas"`
	CurrentPage   int          `json:"paginaActual"`
	Articles      []db.Article `json:"articulos"`
}

func (s *Server) handleListArticles(c echo.Context) error {
	siteTag := strings.TrimSpace(c.QueryParam("sitio"))
	if siteTag == "" {
		return failValidation(c, map[string]string{"sitio": "is required"})
	}

	opts := db.ArticleListOptions{
		SiteTag:  siteTag,
		Category: c.QueryParam("categoria"),
		Country:  c.QueryParam("pais"),
		Query:    c.QueryParam("query"),
		Page:     parsePageParam(c.QueryParam("pagina")),
		PageSize: parsePageSizeParam(c.QueryParam("limite")),
	}

	total, items, err := s.pool.ListArticles(c.Request().Context(), opts)
	if err != nil {
		s.logger.Error().Err(err).Str("sitio", siteTag).Msg("query articles failed")
		return internalError(c, "Failed to load articles")
	}

	return success(c, articleListResponse{
		TotalArticles: total,
		TotalPages:    db.TotalPages(total, opts.PageSize),
		CurrentPage:   opts.Page,
		Articles:      items,
	})
}

// handleGetArticle resolves :id as a numeric row id first, then as an
// article UUID.
func (s *Server) handleGetArticle(c echo.Context) error {
	raw := strings.TrimSpace(c.Param("id"))
	if raw == "" {
		return failValidation(c, map[string]string{"id": "is required"})
	}

	var (
		article *db.Article
		err     error
	)
	if id, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
		article, err = s.pool.GetArticleByID(c.Request().Context(), id)
	} else if _, parseErr := uuid.Parse(raw); parseErr == nil {
		article, err = s.pool.GetArticleByUUID(c.Request().Context(), raw)
	} else {
		return failValidation(c, map[string]string{"id": "must be a numeric id or a UUID"})
	}

	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return failNotFound(c, "Article not found")
		}
		s.logger.Error().Err(err).Str("id", raw).Msg("query article failed")
		return internalError(c, "Failed to load article")
	}

	return success(c, article)
}

// handleCreateArticle is the manual-entry path: schema-validated payload,
// direct insert, 409 on a natural-key collision.
func (s *Server) handleCreateArticle(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxJSONBodyBytes))
	if err != nil {
		return failValidation(c, map[string]string{"body": "could not read request body"})
	}

	entry, err := payloadschema.ValidateArticleEntry(json.RawMessage(body))
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	article := &db.Article{
		NaturalKey:       strings.TrimSpace(entry.SourceURL),
		Title:            strings.TrimSpace(entry.Title),
		ShortDescription: strings.TrimSpace(entry.ShortDescription),
		Category:         strings.ToLower(strings.TrimSpace(entry.Category)),
		SiteTag:          strings.TrimSpace(entry.SiteTag),
		Country:          strings.ToUpper(strings.TrimSpace(entry.Country)),
		SourceURL:        strings.TrimSpace(entry.SourceURL),
		ImageURL:         strings.TrimSpace(entry.ImageURL),
		EnrichedBody:     entry.Body,
		Language:         strings.ToLower(strings.TrimSpace(entry.Language)),
	}
	if entry.PublishedAt != nil {
		if publishedAt, parseErr := time.Parse(time.RFC3339, strings.TrimSpace(*entry.PublishedAt)); parseErr == nil {
			article.PublishedAt = publishedAt.UTC()
		}
	}

	if err := s.pool.InsertArticle(c.Request().Context(), article); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return fail(c, http.StatusConflict, "Article already exists", map[string]any{
				"naturalKey": article.NaturalKey,
			})
		}
		s.logger.Error().Err(err).Str("natural_key", article.NaturalKey).Msg("insert article failed")
		return internalError(c, "Failed to create article")
	}

	return successWithStatus(c, http.StatusCreated, article)
}

// handleVideoMatch runs the video state machine for one pending article.
func (s *Server) handleVideoMatch(c echo.Context) error {
	if s.matcher == nil {
		return fail(c, http.StatusServiceUnavailable, "Video matching is not configured", nil)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		return failValidation(c, map[string]string{"id": "must be a numeric id"})
	}

	status, videoURL, err := s.matcher.MatchOne(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			if status != "" {
				return fail(c, http.StatusConflict, "Article is not pending video match", map[string]any{
					"videoStatus": status,
				})
			}
			return failNotFound(c, "Article not found")
		}
		s.logger.Error().Err(err).Int64("article_id", id).Msg("video match failed")
		return internalError(c, "Failed to run video match")
	}

	data := map[string]any{"videoStatus": status}
	if videoURL != "" {
		data["videoUrl"] = videoURL
	}
	return success(c, data)
}
