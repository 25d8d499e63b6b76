package listing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questbay/questbay/internal/domain"
	"github.com/questbay/questbay/internal/store/memory"
)

const userIDKey = "user_id"

// fakeAuth plays the part of auth.Require for handler tests.
func fakeAuth(userID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

func newTestServer(t *testing.T) (*echo.Echo, *memory.Store, domain.User) {
	t.Helper()
	st := memory.New()
	caller := domain.User{ID: uuid.New().String(), TelegramID: 111, Name: "testuser1", Rating: 4.5}
	require.NoError(t, st.CreateUser(context.Background(), caller))

	h := NewHandler(NewService(st), st, zerolog.Nop())

	e := echo.New()
	e.GET("/accounts", h.List)
	e.GET("/accounts/:id", h.Get)
	g := e.Group("", fakeAuth(caller.ID))
	g.POST("/accounts", h.Create)
	g.PATCH("/accounts/:id", h.Update)
	g.DELETE("/accounts/:id", h.Delete)
	return e, st, caller
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create(t *testing.T) {
	e, _, caller := newTestServer(t)

	t.Run("creates a listing with the caller as seller", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/accounts",
			`{"title":"Dota 2 Immortal account","game":"Dota 2","price":15000,"image_url":"https://example.com/d.jpg"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var l domain.Listing
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
		assert.True(t, l.Available)
		assert.Equal(t, caller.ID, l.Seller.ID)
		assert.Equal(t, caller.Rating, l.Seller.Rating)
	})

	t.Run("validation errors are 400", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/accounts", `{"title":"","game":"Dota 2","price":15000}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(e, http.MethodPost, "/accounts", `{"title":"x","game":"Dota 2","price":-3}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetAndList(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/accounts", `{"title":"A","game":"CS:GO","price":100}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodGet, "/accounts/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/accounts/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/accounts?skip=0&limit=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var listings []domain.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listings))
	assert.Len(t, listings, 1)
}

func TestHandler_Update(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/accounts",
		`{"title":"A","game":"CS:GO","price":100,"image_url":"https://example.com/a.jpg"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	t.Run("absent fields stay untouched, null clears the image", func(t *testing.T) {
		rec := doJSON(e, http.MethodPatch, "/accounts/"+created.ID, `{"price":90,"image_url":null}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.Listing
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 90.0, got.Price)
		assert.Equal(t, "A", got.Title)
		assert.Empty(t, got.ImageURL)
	})

	t.Run("null on a required field is 400", func(t *testing.T) {
		rec := doJSON(e, http.MethodPatch, "/accounts/"+created.ID, `{"title":null}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(e, http.MethodPatch, "/accounts/"+created.ID, `{"price":null}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing listing is 404", func(t *testing.T) {
		rec := doJSON(e, http.MethodPatch, "/accounts/"+uuid.New().String(), `{"price":90}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	e, st, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/accounts", `{"title":"A","game":"CS:GO","price":100}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	t.Run("refuses when the listing has deals", func(t *testing.T) {
		d := domain.Deal{ID: uuid.New().String(), ListingID: created.ID, Status: domain.DealStatusPending}
		require.NoError(t, st.CreateDeal(context.Background(), d))

		rec := doJSON(e, http.MethodDelete, "/accounts/"+created.ID, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
