package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	State         string     `json:"state"`
	Calibrated    bool       `json:"calibrated"`
	Baseline      [3]float64 `json:"baseline"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	QueueDepth    int        `json:"queue_depth"`
	SinkConnected bool       `json:"sink_connected"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of detection outcome counts.
type CountsJSON struct {
	Freefalls   int `json:"freefalls"`
	Confirmed   int `json:"confirmed"`
	FalseAlerts int `json:"false_alerts"`
	Timeouts    int `json:"timeouts"`
	Suppressed  int `json:"suppressed"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DeviceID    string `json:"device_id"`
	SerialPort  string `json:"serial_port"`
	ServerURL   string `json:"server_url"`
	Broker      string `json:"broker,omitempty"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		State:         string(snap.State),
		Calibrated:    snap.Calibrated,
		Baseline:      [3]float64{snap.Baseline.X, snap.Baseline.Y, snap.Baseline.Z},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		QueueDepth:    snap.QueueDepth,
		SinkConnected: snap.SinkConnected,
		Counts: CountsJSON{
			Freefalls:   snap.Counts.Freefalls,
			Confirmed:   snap.Counts.Confirmed,
			FalseAlerts: snap.Counts.FalseAlerts,
			Timeouts:    snap.Counts.Timeouts,
			Suppressed:  snap.Counts.Suppressed,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DeviceID:    snap.Config.DeviceID,
			SerialPort:  snap.Config.SerialPort,
			ServerURL:   snap.Config.ServerURL,
			Broker:      snap.Config.Broker,
			HeartbeatMs: snap.Config.HeartbeatMs,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
