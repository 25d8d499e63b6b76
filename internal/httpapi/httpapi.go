// Package httpapi holds the glue shared by all handlers: mapping domain
// error kinds onto status codes and parsing common query parameters.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/questbay/questbay/internal/domain"
)

// Error writes err as a JSON error response. Expected kinds surface their
// message; anything internal is logged in full and returned opaque.
func Error(c echo.Context, log zerolog.Logger, err error) error {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(statusOf(kind), echo.Map{"error": err.Error()})
}

func statusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindMalformed, domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Page reads skip/limit query parameters. Defaults are skip 0, limit 100;
// a larger limit clamps to 100.
func Page(c echo.Context) (skip, limit int) {
	skip, limit = 0, 100
	if v := c.QueryParam("skip"); v != "" {
		if n, err := parseNonNegative(v); err == nil {
			skip = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := parseNonNegative(v); err == nil && n > 0 {
			if n > 100 {
				n = 100
			}
			limit = n
		}
	}
	return skip, limit
}

func parseNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
