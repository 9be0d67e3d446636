package httpapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
)

// requireAdminKey gates mutating routes behind the X-API-Key header.
func (s *Server) requireAdminKey() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.verifier == nil || !s.verifier.Verify(c.Request().Header.Get("X-API-Key")) {
				return fail(c, http.StatusUnauthorized, "Authentication required", nil)
			}
			return next(c)
		}
	}
}

// cached serves GET responses from the TTL cache, keyed by the full request
// URI so distinct filter combinations cache independently. Only 200 responses
// are stored.
func (s *Server) cached() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.cache == nil || c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := c.Request().URL.RequestURI()
			if body, hit := s.cache.Get(key); hit {
				return c.JSONBlob(http.StatusOK, body)
			}

			recorder := &responseRecorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = recorder

			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status == http.StatusOK {
				s.cache.Set(key, recorder.buf.Bytes())
			}
			return nil
		}
	}
}

type responseRecorder struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}
