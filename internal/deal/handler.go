package deal

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/questbay/questbay/internal/auth"
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
	ListingID string `json:"account_id"`
	SellerID  string `json:"seller_id"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, domain.Malformed("invalid request body"))
	}
	if req.ListingID == "" {
		return httpapi.Error(c, h.log, domain.Invalid("account_id is required"))
	}
	if req.SellerID == "" {
		return httpapi.Error(c, h.log, domain.Invalid("seller_id is required"))
	}

	d, err := h.svc.Create(c.Request().Context(), CreateInput{
		SellerID:  req.SellerID,
		BuyerID:   auth.CallerID(c),
		ListingID: req.ListingID,
	})
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, d)
}

type updateRequest struct {
	Status domain.DealStatus `json:"status"`
}

func (h *Handler) Update(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, domain.Malformed("invalid request body"))
	}
	if req.Status == "" {
		return httpapi.Error(c, h.log, domain.Invalid("status is required"))
	}

	d, err := h.svc.Transition(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Get(c echo.Context) error {
	d, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) List(c echo.Context) error {
	skip, limit := httpapi.Page(c)

	var status *domain.DealStatus
	if v := c.QueryParam("status"); v != "" {
		st := domain.DealStatus(v)
		if !st.Valid() {
			return httpapi.Error(c, h.log, domain.Invalid("unknown deal status"))
		}
		status = &st
	}

	deals, err := h.svc.List(c.Request().Context(), skip, limit, status)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, deals)
}
