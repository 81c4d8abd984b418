package alert

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatPayloadRealAlert(t *testing.T) {
	payload, err := FormatPayload(Event{
		Time:     time.Now(),
		Detected: true,
		DeviceID: "wearable-01",
	})
	require.NoError(t, err)

	var p Payload
	require.NoError(t, json.Unmarshal(payload, &p))
	require.True(t, p.Detect)
	require.Equal(t, "real alert", p.Type)
	require.Equal(t, "wearable-01", p.DeviceID)
}

func TestFormatPayloadFalseAlert(t *testing.T) {
	payload, err := FormatPayload(Event{
		Detected:   true,
		FalseAlert: true,
		DeviceID:   "wearable-01",
	})
	require.NoError(t, err)

	var p Payload
	require.NoError(t, json.Unmarshal(payload, &p))
	require.Equal(t, "false alert", p.Type)
}

func TestFormatPayloadFieldNames(t *testing.T) {
	// The receiver keys on these exact field names.
	payload, err := FormatPayload(Event{Detected: true, DeviceID: "d"})
	require.NoError(t, err)
	require.JSONEq(t, `{"detect":true,"type":"real alert","device_id":"d"}`, string(payload))
}

func TestFormatSystemPayload(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: ts,
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	require.NoError(t, err)
	require.JSONEq(t,
		`{"system":{"timestamp":"2026-01-02T03:04:05Z","event":"SHUTDOWN","reason":"SIGTERM"}}`,
		string(payload))
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"system":{"custom":true}}`)
	payload, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	require.NoError(t, err)
	require.Equal(t, raw, payload)
}
