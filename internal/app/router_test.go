package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ranihwanifactory/mya/internal/auth"
	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/config"
	"github.com/ranihwanifactory/mya/internal/metrics"
	"github.com/ranihwanifactory/mya/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores, err := openSQLite(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close(context.Background()) })

	ctx := context.Background()
	for email, pw := range map[string]string{"owner@example.com": "owner-pw", "friend@example.com": "friend-pw"} {
		hash, err := auth.HashPassword(pw)
		require.NoError(t, err)
		require.NoError(t, stores.Users.Upsert(ctx, email, hash))
	}

	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	cfg := &config.Config{
		FrontendOrigins:    []string{"http://localhost:3000"},
		StoreDriver:        config.StoreSQLite,
		CacheTTLSeconds:    60,
		RateLimitEstimates: 100,
		RateLimitLogin:     100,
		RateLimitWindowSec: 60,
		AdminEmail:         "owner@example.com",
		JWTSecret:          "test-secret",
		AccessTTLMinutes:   15,
		RefreshTTLMinutes:  60,
	}
	srv := httptest.NewServer(NewRouter(Deps{
		Config:   cfg,
		Catalog:  catalog.Default(),
		Stores:   stores,
		Gatherer: reg,
		Log:      log,
	}))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, t: t}
}

func (s *testServer) do(method, path, body string, cookies ...*http.Cookie) (*http.Response, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(s.t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, raw
}

func (s *testServer) login(email, password string) *http.Cookie {
	s.t.Helper()
	resp, _ := s.do(http.MethodPost, "/api/v1/admin/login", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == middleware.AccessCookie {
			return c
		}
	}
	s.t.Fatal("no access cookie")
	return nil
}

func TestAdminAreaStates(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(http.MethodGet, "/api/v1/admin/portfolio", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	friend := s.login("friend@example.com", "friend-pw")
	resp, _ = s.do(http.MethodGet, "/api/v1/admin/portfolio", "", friend)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	owner := s.login("owner@example.com", "owner-pw")
	resp, _ = s.do(http.MethodGet, "/api/v1/admin/portfolio", "", owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPortfolioLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := s.login("owner@example.com", "owner-pw")

	var created struct {
		ID    string `json:"id"`
		Items []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
	}
	for _, title := range []string{"Older", "Newer"} {
		resp, raw := s.do(http.MethodPost, "/api/v1/admin/portfolio",
			`{"title":"`+title+`","description":"d","category":"Startup","tags":["go"]}`, owner)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
		require.NoError(t, json.Unmarshal(raw, &created))
	}
	require.Len(t, created.Items, 2)
	assert.Equal(t, created.ID, created.Items[0].ID)
	assert.Equal(t, "Newer", created.Items[0].Title)

	resp, raw := s.do(http.MethodPatch, "/api/v1/admin/portfolio/"+created.Items[1].ID, `{"is_featured":true}`, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = s.do(http.MethodGet, "/api/v1/portfolio", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var gallery struct {
		Featured *struct {
			Title         string `json:"title"`
			CategoryLabel string `json:"category_label"`
		} `json:"featured"`
		Items []struct {
			Title string `json:"title"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &gallery))
	require.NotNil(t, gallery.Featured)
	assert.Equal(t, "Older", gallery.Featured.Title)
	assert.Equal(t, "MVP 스타트업", gallery.Featured.CategoryLabel)
	require.Len(t, gallery.Items, 1)

	resp, _ = s.do(http.MethodDelete, "/api/v1/admin/portfolio/"+created.ID, "", owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(http.MethodDelete, "/api/v1/admin/portfolio/"+created.ID, "", owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEstimateSubmission(t *testing.T) {
	s := newTestServer(t)

	resp, raw := s.do(http.MethodPost, "/api/v1/estimates/preview", `{"category":"Startup","selected_features":["auth"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "6500000")

	resp, _ = s.do(http.MethodPost, "/api/v1/estimates", `{"category":"Startup","client_email":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = s.do(http.MethodPost, "/api/v1/estimates",
		`{"app_name":"Bakery","category":"Startup","selected_features":["auth","chat"],"client_email":"client@example.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	owner := s.login("owner@example.com", "owner-pw")
	resp, raw = s.do(http.MethodGet, "/api/v1/admin/leads", "", owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Items []struct {
			Status         string `json:"status"`
			EstimatedPrice int64  `json:"estimated_price"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "pending", list.Items[0].Status)
	assert.Equal(t, int64(9_500_000), list.Items[0].EstimatedPrice)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/catalog", "")

	resp, raw := s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `route="/api/v1/catalog"`)
}
