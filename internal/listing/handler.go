package listing

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/questbay/questbay/internal/auth"
	"github.com/questbay/questbay/internal/domain"
	"github.com/questbay/questbay/internal/httpapi"
)

// UserStore resolves the authenticated caller so new listings carry a
// seller summary.
type UserStore interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

type Handler struct {
	svc   *Service
	users UserStore
	log   zerolog.Logger
}

func NewHandler(svc *Service, users UserStore, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, users: users, log: log}
}

type createRequest struct {
	Title       string  `json:"title"`
	Game        string  `json:"game"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, domain.Malformed("invalid request body"))
	}

	ctx := c.Request().Context()
	seller, err := h.users.GetUser(ctx, auth.CallerID(c))
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}

	l, err := h.svc.Create(ctx, CreateInput{
		Title:       req.Title,
		Game:        req.Game,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Seller:      domain.SellerInfo{ID: seller.ID, Name: seller.Name, Rating: seller.Rating},
	})
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) List(c echo.Context) error {
	skip, limit := httpapi.Page(c)
	listings, err := h.svc.List(c.Request().Context(), skip, limit)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, listings)
}

func (h *Handler) Get(c echo.Context) error {
	l, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, l)
}

type updateRequest struct {
	Title       httpapi.Optional[string]  `json:"title"`
	Game        httpapi.Optional[string]  `json:"game"`
	Description httpapi.Optional[string]  `json:"description"`
	Price       httpapi.Optional[float64] `json:"price"`
	ImageURL    httpapi.Optional[string]  `json:"image_url"`
}

func (h *Handler) Update(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, domain.Malformed("invalid request body"))
	}

	var p Patch
	if req.Title.Set {
		if req.Title.Null {
			return httpapi.Error(c, h.log, domain.Invalid("title cannot be null"))
		}
		p.Title = &req.Title.Value
	}
	if req.Game.Set {
		if req.Game.Null {
			return httpapi.Error(c, h.log, domain.Invalid("game cannot be null"))
		}
		p.Game = &req.Game.Value
	}
	if req.Description.Set && !req.Description.Null {
		p.Description = &req.Description.Value
	}
	if req.Price.Set {
		if req.Price.Null {
			return httpapi.Error(c, h.log, domain.Invalid("price cannot be null"))
		}
		p.Price = &req.Price.Value
	}
	if req.ImageURL.Set {
		if req.ImageURL.Null {
			p.ClearImage = true
		} else {
			p.ImageURL = &req.ImageURL.Value
		}
	}

	l, err := h.svc.Update(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
