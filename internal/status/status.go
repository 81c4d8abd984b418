// Package status provides a thread-safe status tracker for the fall-sensor
// daemon. It is read by the HTTP status server and folded into MQTT
// lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/CodeWithAlvin/fallDetection/internal/detect"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DeviceID    string
	SerialPort  string
	ServerURL   string
	Broker      string
	HeartbeatMs int64
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State         detect.State
	Calibrated    bool
	Baseline      detect.Vec3
	Counts        detect.Counts
	QueueDepth    int
	SinkConnected bool
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     detect.StateIdle,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets detection state, calibration status, and outcome counts.
// Called from the sampling loop on every tick.
func (t *Tracker) Update(state detect.State, calibrated bool, counts detect.Counts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Calibrated = calibrated
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetBaseline records the calibrated rest vector.
func (t *Tracker) SetBaseline(b detect.Vec3) {
	t.mu.Lock()
	t.snap.Baseline = b
	t.mu.Unlock()
}

// SetQueueDepth records the alert dispatch queue depth.
func (t *Tracker) SetQueueDepth(n int) {
	t.mu.Lock()
	t.snap.QueueDepth = n
	t.mu.Unlock()
}

// SetSinkConnected records the alert sink connection status.
func (t *Tracker) SetSinkConnected(connected bool) {
	t.mu.Lock()
	t.snap.SinkConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
