package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"noticias.lat/hub/internal/source/radio"
)

const (
	defaultStationLimit = 50
	maxStationLimit     = 200
)

// handleRadioSearch proxies the live station directory. The directory is the
// system of record for radios; the TTL cache in front keeps the rate at one
// upstream call per filter combination per TTL window.
func (s *Server) handleRadioSearch(c echo.Context) error {
	if s.radio == nil {
		return fail(c, http.StatusServiceUnavailable, "Radio directory is not configured", nil)
	}

	country := strings.TrimSpace(c.QueryParam("pais"))
	if country == "" {
		return failValidation(c, map[string]string{"pais": "is required"})
	}

	limit := parseLenientInt(c.QueryParam("limite"), defaultStationLimit, 1, maxStationLimit)
	stations, err := s.radio.Search(c.Request().Context(), radio.SearchParams{
		CountryCode: country,
		Genre:       c.QueryParam("genero"),
		Limit:       limit,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("pais", country).Msg("radio directory search failed")
		return internalError(c, "Failed to search radio stations")
	}

	return success(c, map[string]any{
		"total":     len(stations),
		"emisoras":  stations,
		"pais":      strings.ToUpper(country),
	})
}

// handleRadioSnapshot serves the persisted station snapshot written by the
// radios sync.
func (s *Server) handleRadioSnapshot(c echo.Context) error {
	country := strings.TrimSpace(c.QueryParam("pais"))
	if country == "" {
		country = s.opts.RadioDefaultCountry
	}
	limit := parseLenientInt(c.QueryParam("limite"), defaultStationLimit, 1, maxStationLimit)

	stations, err := s.pool.ListStations(c.Request().Context(), country, c.QueryParam("genero"), limit)
	if err != nil {
		s.logger.Error().Err(err).Str("pais", country).Msg("query station snapshot failed")
		return internalError(c, "Failed to load radio stations")
	}

	return success(c, map[string]any{
		"total":    len(stations),
		"emisoras": stations,
	})
}
