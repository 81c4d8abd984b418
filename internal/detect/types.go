// Package detect contains the pure fall-detection pipeline: sample history,
// calibration, freefall/impact predicates, fall validation, and the state
// machine that ties them together. This package has NO external dependencies
// (no sensors, network, logging, or time.Sleep). Time is always injectable
// via time.Time parameters, and nothing here allocates after construction.
package detect

import "time"

// Detection thresholds and windows, expressed in g, rad/s, and samples at
// the 100 Hz sampling rate.
const (
	// SampleRate is the expected input sample rate in Hz.
	SampleRate = 100

	// FreefallThreshold is the accel magnitude below which a sample counts
	// toward a freefall window.
	FreefallThreshold = 0.6 // g

	// FreefallWindow is how many consecutive sub-threshold samples are
	// required before freefall is declared. Filters single-sample noise at
	// a cost of ~30 ms latency.
	FreefallWindow = 3

	// ImpactThreshold is the accel magnitude an impact spike must cross.
	ImpactThreshold = 3.5 // g

	// MinFallDuration and MaxFallDuration bound the freefall-to-impact
	// interval, in samples (~150-500 ms).
	MinFallDuration = 15
	MaxFallDuration = 50

	// GyroThreshold is the peak rotation rate a genuine fall must exceed
	// somewhere in the freefall-to-impact window.
	GyroThreshold = 3.0 // rad/s

	// OrientationOffset is how many samples before freefall onset and after
	// impact the orientation probes are taken.
	OrientationOffset = 5

	// OrientationDotMax is the maximum dot product between the two unit
	// orientation probes for a fall to validate (< 0.7 is a change of more
	// than ~45 degrees).
	OrientationDotMax = 0.7

	// ImpactWindow is how many samples after entering Monitoring an impact
	// may arrive before the candidate is abandoned.
	ImpactWindow = 100
)

const (
	// ConfirmedHold is how long the machine dwells in Confirmed before
	// accepting new candidates.
	ConfirmedHold = 5 * time.Second

	// ReportCooldown is the minimum interval between outbound dispatches.
	ReportCooldown = 10 * time.Second
)

// Sample is one IMU reading: acceleration in g, rotation rate in rad/s.
type Sample struct {
	Accel Vec3
	Gyro  Vec3
}

// State is the detection state of the machine.
type State string

const (
	StateIdle       State = "IDLE"
	StateMonitoring State = "MONITORING"
	StateConfirmed  State = "CONFIRMED"
)

// Event is a classified fall emitted toward the alert sink. Detected is
// always true for emitted events; FalseAlert distinguishes a rejected
// candidate from a confirmed fall.
type Event struct {
	Time       time.Time
	Detected   bool
	FalseAlert bool
}

// Counts tracks detection outcomes since startup.
type Counts struct {
	Freefalls   int
	Confirmed   int
	FalseAlerts int
	Timeouts    int
	Suppressed  int
}

// HeartbeatData carries the periodic liveness report.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	State     State
	Counts    Counts
}
