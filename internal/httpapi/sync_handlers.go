package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"noticias.lat/hub/internal/globaltime"
	"noticias.lat/hub/internal/source/radio"
)

// syncHandler runs the registered pipeline for one source. Per-category
// fetch failures ride inside the 200 summary; only a store failure is a 5xx.
func (s *Server) syncHandler(source string) echo.HandlerFunc {
	return func(c echo.Context) error {
		run, registered := s.syncers[source]
		if !registered || run == nil {
			return fail(c, http.StatusServiceUnavailable, "Source is not configured", map[string]any{
				"source": source,
			})
		}

		summary, err := run(c.Request().Context())
		if err != nil {
			s.logger.Error().Err(err).Str("source", source).Msg("sync failed")
			return internalError(c, "Sync failed")
		}

		// Stale pages must not outlive fresh data by a full TTL window.
		s.cache.Reset()

		return success(c, summary)
	}
}

// handleSyncRadios snapshots the default country's stations from the live
// directory into radio_stations.
func (s *Server) handleSyncRadios(c echo.Context) error {
	if s.radio == nil {
		return fail(c, http.StatusServiceUnavailable, "Radio directory is not configured", nil)
	}

	start := globaltime.Now()
	stations, err := s.radio.Search(c.Request().Context(), radio.SearchParams{
		CountryCode: s.opts.RadioDefaultCountry,
		Limit:       maxStationLimit,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("radio directory fetch failed")
		return internalError(c, "Sync failed")
	}

	inserted, updated, err := s.pool.UpsertStations(c.Request().Context(), stations)
	if err != nil {
		s.logger.Error().Err(err).Msg("station snapshot upsert failed")
		return internalError(c, "Sync failed")
	}

	s.cache.Reset()

	return success(c, map[string]any{
		"source":     "radios",
		"fetched":    len(stations),
		"inserted":   inserted,
		"updated":    updated,
		"durationMs": globaltime.Now().Sub(start).Milliseconds(),
	})
}
