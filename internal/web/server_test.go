package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CodeWithAlvin/fallDetection/internal/detect"
	"github.com/CodeWithAlvin/fallDetection/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:      10,
		DeviceID:    "wearable-01",
		SerialPort:  "/dev/ttyUSB0",
		ServerURL:   "https://care.example/fall_event",
		Broker:      "tcp://192.168.1.200:1883",
		HeartbeatMs: 900000,
		HTTPAddr:    ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(detect.StateMonitoring, true, detect.Counts{Freefalls: 2, Confirmed: 1})
	tr.SetSinkConnected(true)
	tr.SetQueueDepth(1)

	resp, err := http.Get(ts.URL + "/index.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var sj status.StatusJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sj))

	require.Equal(t, "MONITORING", sj.Status.State)
	require.True(t, sj.Status.Calibrated)
	require.True(t, sj.Status.SinkConnected)
	require.Equal(t, 1, sj.Status.QueueDepth)
	require.Equal(t, 2, sj.Status.Counts.Freefalls)
	require.Equal(t, 1, sj.Status.Counts.Confirmed)
	require.Equal(t, "wearable-01", sj.Status.Config.DeviceID)
}

func TestIndexPage(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(detect.StateConfirmed, true, detect.Counts{Confirmed: 3})
	tr.SetBaseline(detect.Vec3{Z: 1})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(body)

	require.Contains(t, html, "wearable-01")
	require.Contains(t, html, "CONFIRMED")
	require.Contains(t, html, "tcp://192.168.1.200:1883")
}

func TestUnknownPathIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 404, resp.StatusCode)
}
