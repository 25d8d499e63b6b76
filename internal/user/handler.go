package user

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/questbay/questbay/internal/domain"
	"github.com/questbay/questbay/internal/httpapi"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) List(c echo.Context) error {
	skip, limit := httpapi.Page(c)
	users, err := h.svc.List(c.Request().Context(), skip, limit)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) Get(c echo.Context) error {
	u, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) GetByTelegramID(c echo.Context) error {
	telegramID, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		return httpapi.Error(c, h.log, domain.Invalid("telegram id must be numeric"))
	}
	u, err := h.svc.GetByTelegramID(c.Request().Context(), telegramID)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, u)
}

type updateRequest struct {
	Name httpapi.Optional[string] `json:"name"`
}

func (h *Handler) Update(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, domain.Malformed("invalid request body"))
	}

	var p Patch
	if req.Name.Set {
		if req.Name.Null {
			return httpapi.Error(c, h.log, domain.Invalid("name cannot be null"))
		}
		p.Name = &req.Name.Value
	}

	u, err := h.svc.Update(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
