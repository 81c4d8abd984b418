package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Notifier sends an out-of-band alert to the emergency contact.
type Notifier interface {
	Notify(ctx context.Context, deviceID, alertType string) error
}

// SMSConfig holds the Twilio-compatible gateway credentials.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

// Configured reports whether all credentials are present.
func (c SMSConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != "" && c.To != ""
}

// SMSNotifier sends a text message through the Twilio messages API. The API
// is a single form-encoded POST; no SDK needed.
type SMSNotifier struct {
	cfg      SMSConfig
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

// NewSMSNotifier creates a notifier for the given credentials.
func NewSMSNotifier(cfg SMSConfig, log *zap.Logger) *SMSNotifier {
	return &SMSNotifier{
		cfg:      cfg,
		endpoint: fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", cfg.AccountSID),
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Notify sends the emergency SMS.
func (n *SMSNotifier) Notify(ctx context.Context, deviceID, alertType string) error {
	body := fmt.Sprintf(
		"ALERT: A person may have fallen! Device ID: %s, Alert type: %s. Please check immediately.",
		deviceID, alertType,
	)

	form := url.Values{
		"Body": {body},
		"From": {n.cfg.From},
		"To":   {n.cfg.To},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(n.cfg.AccountSID, n.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway: %s", resp.Status)
	}

	n.log.Info("sms alert sent", zap.String("device_id", deviceID))
	return nil
}

// Notification records one Notify call on the fake.
type Notification struct {
	DeviceID  string
	AlertType string
}

// FakeNotifier records notifications for test assertions.
type FakeNotifier struct {
	Notifications []Notification

	// NotifyError, if set, will be returned by Notify.
	NotifyError error
}

// Notify records the notification.
func (f *FakeNotifier) Notify(_ context.Context, deviceID, alertType string) error {
	if f.NotifyError != nil {
		return f.NotifyError
	}
	f.Notifications = append(f.Notifications, Notification{DeviceID: deviceID, AlertType: alertType})
	return nil
}
