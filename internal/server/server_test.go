package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestReceiver(t *testing.T, notifier Notifier) (*httptest.Server, *Store) {
	t.Helper()
	store := newTestStore(t)
	srv := New(":0", store, notifier, zaptest.NewLogger(t))
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, store
}

func postEvent(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/fall_event", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestFallEventRealAlertSendsSMS(t *testing.T) {
	notifier := &FakeNotifier{}
	ts, store := newTestReceiver(t, notifier)

	resp := postEvent(t, ts.URL, `{"detect":true,"type":"real alert","device_id":"wearable-01"}`)
	require.Equal(t, 200, resp.StatusCode)

	var ack map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	require.Equal(t, "success", ack["status"])
	require.Equal(t, "Yes", ack["sms_alert"])

	require.Len(t, notifier.Notifications, 1)
	require.Equal(t, "wearable-01", notifier.Notifications[0].DeviceID)

	events, err := store.RecentEvents(recentLimit)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Yes", events[0].SMSSent)
}

func TestFallEventFalseAlertSkipsSMS(t *testing.T) {
	notifier := &FakeNotifier{}
	ts, store := newTestReceiver(t, notifier)

	resp := postEvent(t, ts.URL, `{"detect":true,"type":"false alert","device_id":"wearable-01"}`)
	require.Equal(t, 200, resp.StatusCode)

	require.Empty(t, notifier.Notifications)

	events, err := store.RecentEvents(recentLimit)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "No", events[0].SMSSent)
}

func TestFallEventSMSFailureStillRecords(t *testing.T) {
	notifier := &FakeNotifier{NotifyError: io.ErrUnexpectedEOF}
	ts, store := newTestReceiver(t, notifier)

	resp := postEvent(t, ts.URL, `{"detect":true,"type":"real alert","device_id":"wearable-01"}`)
	require.Equal(t, 200, resp.StatusCode, "sms failure must not reject the event")

	var ack map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	require.Equal(t, "Failed", ack["sms_alert"])

	events, err := store.RecentEvents(recentLimit)
	require.NoError(t, err)
	require.Equal(t, "Failed", events[0].SMSSent)
}

func TestFallEventDefaultsMissingFields(t *testing.T) {
	ts, store := newTestReceiver(t, nil)

	resp := postEvent(t, ts.URL, `{"detect":true}`)
	require.Equal(t, 200, resp.StatusCode)

	events, err := store.RecentEvents(recentLimit)
	require.NoError(t, err)
	require.Equal(t, "unknown", events[0].DeviceID)
	require.Equal(t, "unknown", events[0].AlertType)
}

func TestFallEventBadJSON(t *testing.T) {
	ts, _ := newTestReceiver(t, nil)

	resp := postEvent(t, ts.URL, `{detect:`)
	require.Equal(t, 400, resp.StatusCode)
}

func TestFallEventMethodNotAllowed(t *testing.T) {
	ts, _ := newTestReceiver(t, nil)

	resp, err := http.Get(ts.URL + "/fall_event")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 405, resp.StatusCode)
}

func TestEventsEndpoint(t *testing.T) {
	ts, _ := newTestReceiver(t, nil)

	postEvent(t, ts.URL, `{"detect":true,"type":"real alert","device_id":"a"}`)
	postEvent(t, ts.URL, `{"detect":true,"type":"false alert","device_id":"b"}`)

	resp, err := http.Get(ts.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	var events []Event
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 2)
	require.Equal(t, "b", events[0].DeviceID, "newest first")
}

func TestStatusEndpoint(t *testing.T) {
	ts, _ := newTestReceiver(t, &FakeNotifier{})
	postEvent(t, ts.URL, `{"detect":true,"type":"false alert","device_id":"a"}`)

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var st map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	require.Equal(t, "online", st["status"])
	require.Equal(t, float64(1), st["records_count"])
	require.Equal(t, "sqlite", st["database"])
	require.Equal(t, "configured", st["sms"])
}

func TestConfigEndpoint(t *testing.T) {
	ts, _ := newTestReceiver(t, nil)

	resp, err := http.Get(ts.URL + "/config")
	require.NoError(t, err)
	defer resp.Body.Close()

	var cfg map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	require.True(t, strings.HasSuffix(cfg["api_endpoint"], "/fall_event"))
}

func TestDashboard(t *testing.T) {
	ts, _ := newTestReceiver(t, nil)
	postEvent(t, ts.URL, `{"detect":true,"type":"real alert","device_id":"wearable-01"}`)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "wearable-01")
	require.Contains(t, string(body), "real alert")
}
