package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPSender posts email requests as JSON to a relay service endpoint.
type HTTPSender struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewHTTPSender creates a relay-backed EmailSender.
func NewHTTPSender(endpoint, apiKey, from string) *HTTPSender {
	return &HTTPSender{
		endpoint:   endpoint,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type emailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts the email to the relay.
func (s *HTTPSender) Send(ctx context.Context, to, subject, html string) error {
	body, err := json.Marshal(emailPayload{From: s.from, To: to, Subject: subject, HTML: html})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email relay returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}

// LogSender writes emails to the process log instead of sending them.
// Used when no relay is configured.
type LogSender struct{}

// Send logs the email.
func (LogSender) Send(ctx context.Context, to, subject, html string) error {
	log.Printf("email (unconfigured relay) to=%s subject=%q", to, subject)
	return nil
}
