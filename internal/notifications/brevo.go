// Package notifications emails project requests through Brevo.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

var (
	ErrNoClient         = errors.New("brevo client not configured")
	ErrMissingRecipient = errors.New("missing recipient email")
	ErrEmptyMessage     = errors.New("missing subject or body")
)

// Email is one transactional message.
type Email struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Tags    []string
}

func (e Email) check() error {
	if strings.TrimSpace(e.To) == "" {
		return ErrMissingRecipient
	}
	if strings.TrimSpace(e.Subject) == "" || strings.TrimSpace(e.HTML) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// BrevoClient sends transactional email through the Brevo HTTP API.
type BrevoClient struct {
	apiKey   string
	sender   brevoContact
	sandbox  bool
	endpoint string
	http     *http.Client
}

// NewBrevoClient returns nil when the API key or the sender is missing, which
// disables email.
func NewBrevoClient(apiKey, senderEmail, senderName string, sandbox bool) *BrevoClient {
	apiKey = strings.TrimSpace(apiKey)
	senderEmail = strings.TrimSpace(senderEmail)
	if apiKey == "" || senderEmail == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &BrevoClient{
		apiKey:   apiKey,
		sender:   brevoContact{Email: senderEmail, Name: senderName},
		sandbox:  sandbox,
		endpoint: defaultBrevoEndpoint,
		http:     &http.Client{Timeout: 8 * time.Second},
	}
}

// WithEndpoint points the client at another API URL, e.g. a test server.
func (c *BrevoClient) WithEndpoint(endpoint string) *BrevoClient {
	c.endpoint = endpoint
	return c
}

// Send delivers e and returns the message id assigned by Brevo.
func (c *BrevoClient) Send(ctx context.Context, e Email) (string, error) {
	if c == nil {
		return "", ErrNoClient
	}
	if err := e.check(); err != nil {
		return "", err
	}

	body := brevoPayload{
		Sender:      c.sender,
		To:          []brevoContact{{Email: e.To, Name: e.ToName}},
		Subject:     e.Subject,
		HTMLContent: e.HTML,
		Tags:        e.Tags,
	}
	if c.sandbox {
		body.Headers = map[string]string{"X-Sib-Sandbox": "drop"}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("brevo: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("brevo: send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out struct {
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo: decode response: %w", err)
	}
	if out.MessageID == "" {
		return "", errors.New("brevo: response without messageId")
	}
	return out.MessageID, nil
}

type brevoPayload struct {
	Sender      brevoContact      `json:"sender"`
	To          []brevoContact    `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Headers     map[string]string `json:"headers,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
