package httpapi

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"noticias.lat/hub/internal/db"
	"noticias.lat/hub/internal/playlist"
)

const maxUploadBytes = 64 << 20

func (s *Server) handleListPlaylist(c echo.Context) error {
	activeOnly := strings.EqualFold(strings.TrimSpace(c.QueryParam("activo")), "true")

	items, err := s.pool.ListPlaylistItems(c.Request().Context(), activeOnly)
	if err != nil {
		s.logger.Error().Err(err).Msg("query playlist failed")
		return internalError(c, "Failed to load playlist")
	}

	return success(c, map[string]any{
		"total": len(items),
		"items": items,
	})
}

// handlePlaylistUpload stores an uploaded audio file under the media dir and
// appends a playlist row pointing at its public URL. Duration is supplied by
// the caller; the server does not probe audio.
func (s *Server) handlePlaylistUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		return failValidation(c, map[string]string{"archivo": "audio file is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return failValidation(c, map[string]string{"archivo": "file is too large"})
	}

	title := strings.TrimSpace(c.FormValue("titulo"))
	if title == "" {
		title = fileHeader.Filename
	}
	duration := parseLenientInt(c.FormValue("duracionSegundos"), 0, 0, 24*3600)
	kind := strings.ToLower(strings.TrimSpace(c.FormValue("tipo")))
	switch kind {
	case "", db.PlaylistKindSong, db.PlaylistKindJingle, db.PlaylistKindAd:
	default:
		return failValidation(c, map[string]string{"tipo": "must be one of song, jingle, ad"})
	}

	fileName, err := playlist.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		return failValidation(c, map[string]string{"archivo": "invalid file name"})
	}

	if err := os.MkdirAll(s.opts.PlaylistMediaDir, 0o755); err != nil {
		s.logger.Error().Err(err).Str("dir", s.opts.PlaylistMediaDir).Msg("create media dir failed")
		return internalError(c, "Failed to store file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return failValidation(c, map[string]string{"archivo": "could not read uploaded file"})
	}
	defer src.Close()

	destPath := filepath.Join(s.opts.PlaylistMediaDir, fileName)
	dest, err := os.Create(destPath)
	if err != nil {
		s.logger.Error().Err(err).Str("path", destPath).Msg("create media file failed")
		return internalError(c, "Failed to store file")
	}
	defer dest.Close()

	if _, err := io.Copy(dest, io.LimitReader(src, maxUploadBytes)); err != nil {
		s.logger.Error().Err(err).Str("path", destPath).Msg("write media file failed")
		return internalError(c, "Failed to store file")
	}

	item := &db.PlaylistItem{
		Title:           title,
		MediaURL:        playlist.PublicURL(s.opts.PlaylistPublicBase, fileName),
		DurationSeconds: duration,
		Kind:            kind,
	}
	if err := s.pool.CreatePlaylistItem(c.Request().Context(), item); err != nil {
		s.logger.Error().Err(err).Str("title", title).Msg("insert playlist item failed")
		return internalError(c, "Failed to create playlist item")
	}

	return successWithStatus(c, http.StatusCreated, item)
}

func (s *Server) handlePlaylistReorder(c echo.Context) error {
	var changes []db.PlaylistReorder
	if err := decodeJSONBody(c, &changes); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}
	if len(changes) == 0 {
		return failValidation(c, map[string]string{"body": "at least one {id, orden} pair is required"})
	}

	if err := s.pool.ReorderPlaylistItems(c.Request().Context(), changes); err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return failNotFound(c, "Playlist item not found")
		}
		s.logger.Error().Err(err).Msg("reorder playlist failed")
		return internalError(c, "Failed to reorder playlist")
	}

	return success(c, map[string]any{"reordered": len(changes)})
}

func (s *Server) handlePlaylistDelete(c echo.Context) error {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		return failValidation(c, map[string]string{"id": "must be a numeric id"})
	}

	if err := s.pool.SoftDeletePlaylistItem(c.Request().Context(), id); err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return failNotFound(c, "Playlist item not found")
		}
		s.logger.Error().Err(err).Int64("id", id).Msg("soft delete playlist item failed")
		return internalError(c, "Failed to delete playlist item")
	}

	return success(c, map[string]any{"deleted": id})
}

// handlePlaylistManifest is the live manifest the stream player polls.
func (s *Server) handlePlaylistManifest(c echo.Context) error {
	items, err := s.pool.ListPlaylistItems(c.Request().Context(), true)
	if err != nil {
		s.logger.Error().Err(err).Msg("query playlist manifest failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "manifest unavailable")
	}

	return c.String(http.StatusOK, playlist.BuildManifest(items))
}
