package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/questbay/questbay/internal/domain"
	"github.com/questbay/questbay/internal/httpapi"
)

const (
	// HeaderTelegramData carries the raw signed payload from the mini-app.
	HeaderTelegramData = "X-Telegram-Data"

	userIDKey = "user_id"
)

// CallerID returns the authenticated user id set by Require, or "" on
// unauthenticated routes.
func CallerID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

// Require authenticates the request before any handler that mutates state
// runs. It accepts either a Bearer session token or a raw X-Telegram-Data
// payload; the latter is verified from scratch on every request.
func Require(svc *Service, tokens *TokenIssuer, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if h := c.Request().Header.Get("Authorization"); h != "" {
				tokenStr, ok := strings.CutPrefix(h, "Bearer ")
				if !ok {
					return httpapi.Error(c, log, domain.Unauthenticated("malformed authorization header"))
				}
				userID, err := tokens.Parse(tokenStr)
				if err != nil {
					return httpapi.Error(c, log, err)
				}
				c.Set(userIDKey, userID)
				return next(c)
			}

			if raw := c.Request().Header.Get(HeaderTelegramData); raw != "" {
				u, err := svc.Authenticate(c.Request().Context(), []byte(raw))
				if err != nil {
					return httpapi.Error(c, log, err)
				}
				c.Set(userIDKey, u.ID)
				return next(c)
			}

			return httpapi.Error(c, log, domain.Unauthenticated("no authentication data provided"))
		}
	}
}
