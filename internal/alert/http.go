package alert

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPSink posts fall events to the receiver's /fall_event endpoint.
type HTTPSink struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// NewHTTPSink creates a sink posting to the given URL. Certificate
// verification is on unless insecure is set; the reference firmware
// disabled it, so the knob exists, but verification is the default.
func NewHTTPSink(url string, timeout time.Duration, insecure bool, log *zap.Logger) *HTTPSink {
	transport := http.DefaultTransport
	if insecure {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		log.Warn("certificate verification disabled for alert delivery")
	}

	return &HTTPSink{
		url: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		log: log,
	}
}

// Deliver posts the event and checks for an acknowledging status.
func (s *HTTPSink) Deliver(ctx context.Context, event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post alert: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alert rejected: %s", resp.Status)
	}
	return nil
}

// Close is a no-op; the HTTP client holds no connection state worth
// tearing down explicitly.
func (s *HTTPSink) Close() error {
	return nil
}
