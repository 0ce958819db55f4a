package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/leads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatKRW(t *testing.T) {
	assert.Equal(t, "6,500,000원", FormatKRW(6_500_000))
	assert.Equal(t, "0원", FormatKRW(0))
}

func TestNewBrevoClientDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewBrevoClient("", "studio@example.com", "", false))
	assert.Nil(t, NewBrevoClient("key", " ", "", false))
}

func TestLeadMailerSends(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<m1@brevo>"}`))
	}))
	defer srv.Close()

	client := NewBrevoClient("key-123", "studio@example.com", "Studio", true).WithEndpoint(srv.URL)
	seoul := time.FixedZone("KST", 9*60*60)
	mailer := NewLeadMailer(client, "owner@example.com", catalog.Default(), seoul)

	lead := leads.ProjectRequest{
		ID:               "lead-1",
		AppName:          "Bakery",
		Category:         "Startup",
		SelectedFeatures: []string{"auth", "push"},
		EstimatedPrice:   7_500_000,
		ClientName:       "Kim",
		ClientEmail:      "client@example.com",
		CreatedAt:        time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC),
	}

	id, err := mailer.SendLeadNotification(context.Background(), lead)
	require.NoError(t, err)
	assert.Equal(t, "<m1@brevo>", id)
	assert.Equal(t, "key-123", apiKey)
	require.Len(t, got.To, 1)
	assert.Equal(t, "owner@example.com", got.To[0].Email)
	assert.Contains(t, got.HTMLContent, "7,500,000원")
	assert.Contains(t, got.HTMLContent, "MVP 스타트업")
	assert.Contains(t, got.HTMLContent, "2024-05-02 00:30")
	assert.Equal(t, "drop", got.Headers["X-Sib-Sandbox"])
	assert.Equal(t, []string{"lead-notification"}, got.Tags)

	_, err = mailer.SendLeadConfirmation(context.Background(), lead)
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", got.To[0].Email)
	assert.Contains(t, got.HTMLContent, "Kim님")
}

func TestLeadMailerReportsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	client := NewBrevoClient("bad", "studio@example.com", "", false).WithEndpoint(srv.URL)
	mailer := NewLeadMailer(client, "owner@example.com", catalog.Default(), nil)

	_, err := mailer.SendLeadNotification(context.Background(), leads.ProjectRequest{Category: "Etc", ClientEmail: "c@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")

	_, err = NewLeadMailer(client, "", catalog.Default(), nil).SendLeadNotification(context.Background(), leads.ProjectRequest{})
	assert.Error(t, err)

	var disabled *BrevoClient
	_, err = disabled.Send(context.Background(), Email{To: "a@example.com", Subject: "s", HTML: "h"})
	assert.ErrorIs(t, err, ErrNoClient)
	_, err = client.Send(context.Background(), Email{Subject: "s", HTML: "h"})
	assert.ErrorIs(t, err, ErrMissingRecipient)
}
