package auth

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/questbay/questbay/internal/domain"
	"github.com/questbay/questbay/internal/httpapi"
)

type UserGetter interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

type Handler struct {
	svc   *Service
	users UserGetter
	log   zerolog.Logger
}

func NewHandler(svc *Service, users UserGetter, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, users: users, log: log}
}

// Login handles POST /auth/telegram. The signed payload rides in the
// X-Telegram-Data header; the body is accepted as a fallback for clients
// that POST the payload directly.
func (h *Handler) Login(c echo.Context) error {
	raw := c.Request().Header.Get(HeaderTelegramData)
	if raw == "" {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil || len(body) == 0 {
			return httpapi.Error(c, h.log, domain.Unauthenticated("no Telegram authentication data provided"))
		}
		raw = string(body)
	}

	u, token, err := h.svc.Login(c.Request().Context(), []byte(raw))
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":    u,
		"token":   token,
		"message": "Successfully authenticated",
	})
}

// Me returns the authenticated caller's account.
func (h *Handler) Me(c echo.Context) error {
	u, err := h.users.GetUser(c.Request().Context(), CallerID(c))
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, u)
}
