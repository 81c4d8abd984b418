// Package alert carries classified fall events to the receiving server,
// with transport decoupled from the sampling loop and abstracted for
// testing.
package alert

import (
	"context"
	"encoding/json"
	"time"
)

// TopicFall is the MQTT topic for fall alert events.
const TopicFall = "care/fall/events"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "care/fall/system"

// Alert type strings on the wire, matching what the receiver accepts.
const (
	TypeReal  = "real alert"
	TypeFalse = "false alert"
)

// Event is a classified fall bound for a sink.
type Event struct {
	Time       time.Time
	Detected   bool
	FalseAlert bool
	DeviceID   string
}

// Type returns the wire alert type for the event.
func (e Event) Type() string {
	if e.FalseAlert {
		return TypeFalse
	}
	return TypeReal
}

// Sink delivers fall events to the outside world.
type Sink interface {
	// Deliver sends one event. Returns error if delivery fails; the caller
	// drops the event rather than retrying it (fall state is re-derivable
	// from ongoing monitoring).
	Deliver(ctx context.Context, event Event) error

	// Close releases the transport.
	Close() error
}

// ConnectionStatus reports whether the sink's connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Payload is the wire representation of a fall event.
type Payload struct {
	Detect   bool   `json:"detect"`
	Type     string `json:"type"`
	DeviceID string `json:"device_id"`
}

// FormatPayload creates the JSON payload for a fall event.
func FormatPayload(event Event) ([]byte, error) {
	return json.Marshal(Payload{
		Detect:   event.Detected,
		Type:     event.Type(),
		DeviceID: event.DeviceID,
	})
}

// SystemEvent represents a daemon lifecycle event (startup, shutdown,
// heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // pre-formatted JSON; if set, FormatSystemPayload returns it directly
	Retained   bool   // whether the broker should retain the message
}

// SystemPayload is the wire envelope for simple system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
