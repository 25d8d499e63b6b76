package review

import (
	"net/http"

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

type createRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, domain.Malformed("invalid request body"))
	}

	r, err := h.svc.Create(c.Request().Context(), CreateInput{
		DealID:  c.Param("id"),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetByDeal(c echo.Context) error {
	r, err := h.svc.GetByDeal(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, r)
}

type updateRequest struct {
	Rating  httpapi.Optional[int]    `json:"rating"`
	Comment httpapi.Optional[string] `json:"comment"`
}

func (h *Handler) Update(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, domain.Malformed("invalid request body"))
	}

	var p Patch
	if req.Rating.Set {
		if req.Rating.Null {
			return httpapi.Error(c, h.log, domain.Invalid("rating cannot be null"))
		}
		p.Rating = &req.Rating.Value
	}
	if req.Comment.Set && !req.Comment.Null {
		p.Comment = &req.Comment.Value
	}

	r, err := h.svc.Update(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, r)
}
