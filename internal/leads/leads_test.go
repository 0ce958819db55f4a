package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/db"
	"github.com/ranihwanifactory/mya/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	created []ProjectRequest
	err     error
}

func (s *fakeStore) Create(ctx context.Context, req ProjectRequest) (ProjectRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return ProjectRequest{}, s.err
	}
	req.ID = fmt.Sprintf("lead-%d", len(s.created)+1)
	req.CreatedAt = time.Now().UTC()
	s.created = append(s.created, req)
	return req, nil
}

func (s *fakeStore) List(ctx context.Context) ([]ProjectRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]ProjectRequest, 0, len(s.created))
	for i := len(s.created) - 1; i >= 0; i-- {
		out = append(out, s.created[i])
	}
	return out, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

type fakeNotifier struct {
	mu            sync.Mutex
	notified      []string
	confirmations []string
}

func (n *fakeNotifier) SendLeadNotification(ctx context.Context, req ProjectRequest) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, req.ID)
	return "msg-1", nil
}

func (n *fakeNotifier) SendLeadConfirmation(ctx context.Context, req ProjectRequest) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, req.ClientEmail)
	return "msg-2", nil
}

func newTestHandler(store Store, notifier Notifier, report bool) *Handler {
	cat := catalog.Default()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(NewService(store, cat, notifier), validation.New(cat), log, report)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/estimates", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSubmitPricesFromCatalog(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, catalog.Default(), nil)

	lead, err := svc.Submit(context.Background(), Draft{
		AppName:     "Bakery",
		Category:    "Startup",
		Features:    []string{"auth", "auth", "unknown", "push"},
		ClientEmail: "client@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, lead.Status)
	assert.Equal(t, []string{"auth", "push"}, lead.SelectedFeatures)
	assert.Equal(t, int64(5_000_000+1_500_000+1_000_000), lead.EstimatedPrice)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, 1, store.count())
}

func TestSubmitRefusesIncompleteDraft(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, catalog.Default(), nil)

	_, err := svc.Submit(context.Background(), Draft{Category: "Startup", ClientEmail: "  "})
	assert.ErrorIs(t, err, ErrIncomplete)
	_, err = svc.Submit(context.Background(), Draft{ClientEmail: "client@example.com"})
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Zero(t, store.count())
}

func TestHandlerRejectsInvalidLeadsBeforeStore(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(store, nil, false)

	bodies := []string{
		`{"category":"Startup","client_email":""}`,
		`{"category":"Startup"}`,
		`{"category":"","client_email":"client@example.com"}`,
		`{"category":"Spaceship","client_email":"client@example.com"}`,
		`{"category":"Startup","client_email":"not-an-email"}`,
		`{"category":"Startup","client_email":"client@example.com","selected_features":["teleport"]}`,
		`{"category":"Startup","client_email":"client@example.com","estimated_price":1}`,
	}
	for _, body := range bodies {
		rec := post(h.Submit, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Zero(t, store.count())
}

func TestHandlerSubmitNotifies(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	h := newTestHandler(store, notifier, false)

	var wg sync.WaitGroup
	wg.Add(1)
	h.notifyDone = wg.Done

	rec := post(h.Submit, `{"app_name":"Bakery","category":"Startup","selected_features":["auth"],"client_name":"Kim","client_email":"client@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "lead-1", body.ID)
	assert.Equal(t, int64(6_500_000), body.EstimatedPrice)

	wg.Wait()
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"lead-1"}, notifier.notified)
	assert.Equal(t, []string{"client@example.com"}, notifier.confirmations)
}

func TestHandlerStoreFailurePolicy(t *testing.T) {
	body := `{"category":"Startup","client_email":"client@example.com"}`

	concealed := newTestHandler(&fakeStore{err: fmt.Errorf("%w: timeout", db.ErrUnavailable)}, nil, false)
	rec := post(concealed.Submit, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.NotContains(t, rec.Body.String(), `"id"`)

	reported := newTestHandler(&fakeStore{err: fmt.Errorf("%w: timeout", db.ErrUnavailable)}, nil, true)
	rec = post(reported.Submit, body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	denied := newTestHandler(&fakeStore{err: fmt.Errorf("%w: code 13", db.ErrPermissionDenied)}, nil, true)
	rec = post(denied.Submit, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerAdminList(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(store, nil, false)
	svc := h.service
	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := svc.Submit(context.Background(), Draft{Category: "Homepage", ClientEmail: email})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	h.AdminList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/leads", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []ProjectRequest `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "b@example.com", body.Items[0].ClientEmail)
}

func TestSQLRepository(t *testing.T) {
	gdb, err := db.OpenSQLite(":memory:", nil, &Row{})
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := NewSQLRepository(gdb).WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	})
	ctx := context.Background()

	first, err := repo.Create(ctx, ProjectRequest{Category: "Startup", ClientEmail: "a@example.com", SelectedFeatures: []string{"auth"}, Status: StatusPending})
	require.NoError(t, err)
	second, err := repo.Create(ctx, ProjectRequest{Category: "Etc", ClientEmail: "b@example.com", Status: StatusPending})
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	assert.Equal(t, []string{"auth"}, items[1].SelectedFeatures)
	assert.Equal(t, []string{}, items[0].SelectedFeatures)
	assert.Equal(t, StatusPending, items[0].Status)
}
