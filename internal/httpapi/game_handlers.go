package httpapi

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"noticias.lat/hub/internal/db"
)

type gameListResponse struct {
	TotalGames  int64     `json:"totalJuegos"`
	TotalPages  int       `json:"totalPaginas"`
	CurrentPage int       `json:"paginaActual"`
	Games       []db.Game `json:"juegos"`
}

func (s *Server) handleListGames(c echo.Context) error {
	opts := db.GameListOptions{
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("query"),
		Page:     parsePageParam(c.QueryParam("pagina")),
		PageSize: parsePageSizeParam(c.QueryParam("limite")),
	}

	total, items, err := s.pool.ListGames(c.Request().Context(), opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("query games failed")
		return internalError(c, "Failed to load games")
	}

	return success(c, gameListResponse{
		TotalGames:  total,
		TotalPages:  db.TotalPages(total, opts.PageSize),
		CurrentPage: opts.Page,
		Games:       items,
	})
}

func (s *Server) handleGetGame(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return failValidation(c, map[string]string{"slug": "is required"})
	}

	game, err := s.pool.GetGameBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return failNotFound(c, "Game not found")
		}
		s.logger.Error().Err(err).Str("slug", slug).Msg("query game failed")
		return internalError(c, "Failed to load game")
	}

	return success(c, game)
}
