package portfolio

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/db"
	"github.com/ranihwanifactory/mya/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store Store) http.Handler {
	cat := catalog.Default()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(NewService(store, nil, time.Minute), cat, validation.New(cat), log)

	r := chi.NewRouter()
	r.Get("/portfolio", h.Gallery)
	r.Get("/admin/portfolio", h.AdminList)
	r.Post("/admin/portfolio", h.AdminCreate)
	r.Patch("/admin/portfolio/{id}", h.AdminUpdate)
	r.Delete("/admin/portfolio/{id}", h.AdminDelete)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerGallery(t *testing.T) {
	a := Item{ID: "a", Title: "Shop", Category: "E-Commerce", Tags: []string{}}
	b := Item{ID: "b", Title: "Game", Category: "Unknown Kind", Tags: []string{}, IsFeatured: true}
	h := newTestRouter(newMemStore(a, b))

	rec := do(t, h, http.MethodGet, "/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Featured *View  `json:"featured"`
		Items    []View `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Featured)
	assert.Equal(t, "b", body.Featured.ID)
	assert.Equal(t, "Unknown Kind", body.Featured.CategoryLabel)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "이커머스", body.Items[0].CategoryLabel)

	rec = do(t, h, http.MethodGet, "/portfolio?q=shop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"featured":null`)
}

func TestHandlerGalleryStoreErrors(t *testing.T) {
	store := newMemStore()
	h := newTestRouter(store)

	store.listErr = fmt.Errorf("%w: code 13", db.ErrPermissionDenied)
	rec := do(t, h, http.MethodGet, "/portfolio", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "permission denied")

	store.listErr = fmt.Errorf("%w: timeout", db.ErrUnavailable)
	rec = do(t, h, http.MethodGet, "/portfolio", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerAdminCreate(t *testing.T) {
	h := newTestRouter(newMemStore())

	rec := do(t, h, http.MethodPost, "/admin/portfolio",
		`{"title":"Kiosk","description":"Order kiosk","image_url":"https://img.example.com/k.png","category":"Order System","tags":"Flutter, , Firebase"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.ID)
	require.Len(t, body.Items, 1)
	assert.Equal(t, []string{"Flutter", "Firebase"}, body.Items[0].Tags)
	assert.Equal(t, "주문 시스템", body.Items[0].CategoryLabel)

	rec = do(t, h, http.MethodPost, "/admin/portfolio", `{"title":"","description":"x","category":"Nope"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"required"`)
	assert.Contains(t, rec.Body.String(), `"category":"category"`)

	rec = do(t, h, http.MethodPost, "/admin/portfolio", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerAdminUpdateAndDelete(t *testing.T) {
	store := newMemStore(Item{ID: "a", Title: "Old", Description: "d", Category: "Startup", Tags: []string{}})
	h := newTestRouter(store)

	rec := do(t, h, http.MethodPatch, "/admin/portfolio/a", `{"title":"New"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New", store.items[0].Title)
	assert.Equal(t, "d", store.items[0].Description)

	rec = do(t, h, http.MethodPatch, "/admin/portfolio/zzz", `{"title":"New"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPatch, "/admin/portfolio/a", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/admin/portfolio/a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.items)

	rec = do(t, h, http.MethodDelete, "/admin/portfolio/a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerAdminWriteWithStaleRefresh(t *testing.T) {
	store := newMemStore()
	h := newTestRouter(store)
	store.listErr = fmt.Errorf("%w: timeout", db.ErrUnavailable)

	rec := do(t, h, http.MethodPost, "/admin/portfolio",
		`{"title":"Kiosk","description":"Order kiosk","category":"Order System"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Stale)
	assert.NotEmpty(t, body.ID)
}

func TestHandlerRejectsBlankText(t *testing.T) {
	store := newMemStore(Item{ID: "a", Title: "Old", Description: "d", Category: "Startup", Tags: []string{}})
	h := newTestRouter(store)

	rec := do(t, h, http.MethodPost, "/admin/portfolio", `{"title":"   ","description":"  ","category":"Startup"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"notblank"`)
	assert.Contains(t, rec.Body.String(), `"description":"notblank"`)
	assert.Len(t, store.items, 1)

	for _, body := range []string{`{"title":"  "}`, `{"title":""}`, `{"description":"\t"}`} {
		rec = do(t, h, http.MethodPatch, "/admin/portfolio/a", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, "Old", store.items[0].Title)
	assert.Equal(t, "d", store.items[0].Description)
}

func TestHandlerUpdateValidatesProjectURL(t *testing.T) {
	store := newMemStore(Item{ID: "a", Title: "Old", Description: "d", Category: "Startup", Tags: []string{}, ProjectURL: "https://old.example.com"})
	h := newTestRouter(store)

	rec := do(t, h, http.MethodPatch, "/admin/portfolio/a", `{"project_url":"not a link"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"project_url":"url"`)
	assert.Equal(t, "https://old.example.com", store.items[0].ProjectURL)

	rec = do(t, h, http.MethodPatch, "/admin/portfolio/a", `{"project_url":"https://app.example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", store.items[0].ProjectURL)

	rec = do(t, h, http.MethodPatch, "/admin/portfolio/a", `{"project_url":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.items[0].ProjectURL)
}
