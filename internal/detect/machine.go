package detect

import "time"

// Monitor owns the sample history and drives the Idle / Monitoring /
// Confirmed state machine across the sample stream. One Process call per
// sensor tick; events come back already gated by the report cooldown.
type Monitor struct {
	history    *History
	calibrator Calibrator

	state         State
	freefallStart int // absolute index where freefall was declared
	sinceFreefall int // samples elapsed in Monitoring
	impactIdx     int // absolute impact index, -1 while none pending
	sinceImpact   int // samples elapsed since the pending impact
	confirmedAt   time.Time

	lastDispatch  time.Time
	counts        Counts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewMonitor creates a Monitor with a neutral-filled history. The startTime
// seeds uptime and heartbeat bookkeeping.
func NewMonitor(startTime time.Time) *Monitor {
	return &Monitor{
		history:       NewHistory(),
		state:         StateIdle,
		impactIdx:     -1,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process ingests one sample and returns any event to dispatch (at most
// one). Detection stays inert until calibration completes; the history ring
// fills either way.
func (m *Monitor) Process(s Sample, now time.Time) []Event {
	idx := m.history.Push(s)

	if !m.calibrator.Calibrated() {
		m.calibrator.Observe(s)
		return nil
	}

	switch m.state {
	case StateConfirmed:
		if now.Sub(m.confirmedAt) >= ConfirmedHold {
			m.state = StateIdle
		}
		return nil

	case StateMonitoring:
		m.sinceFreefall++

		if m.impactIdx >= 0 {
			// Impact seen; wait for the post-impact orientation window to
			// land in the ring before validating.
			m.sinceImpact++
			if m.sinceImpact < OrientationOffset {
				return nil
			}
			return m.finish(now)
		}

		if Impact(m.history) {
			m.impactIdx = idx
			m.sinceImpact = 0
			return nil
		}

		if m.sinceFreefall >= ImpactWindow {
			// No impact followed the freefall; quietly stand down.
			m.state = StateIdle
			m.counts.Timeouts++
		}
		return nil

	default: // StateIdle
		if Freefall(m.history) {
			m.state = StateMonitoring
			m.freefallStart = idx
			m.sinceFreefall = 0
			m.impactIdx = -1
			m.counts.Freefalls++
		}
		return nil
	}
}

// finish runs the validator on the pending candidate and transitions out of
// Monitoring.
func (m *Monitor) finish(now time.Time) []Event {
	v := Validate(m.history, m.freefallStart, m.impactIdx)
	m.impactIdx = -1

	if v.Valid {
		m.state = StateConfirmed
		m.confirmedAt = now
		m.counts.Confirmed++
		return m.dispatch(Event{Time: now, Detected: true}, now)
	}

	m.state = StateIdle
	m.counts.FalseAlerts++
	return m.dispatch(Event{Time: now, Detected: true, FalseAlert: true}, now)
}

// dispatch applies the report cooldown. Suppression only swallows the
// outbound event; the state transition and counts above have already
// happened.
func (m *Monitor) dispatch(ev Event, now time.Time) []Event {
	if !m.lastDispatch.IsZero() && now.Sub(m.lastDispatch) < ReportCooldown {
		m.counts.Suppressed++
		return nil
	}
	m.lastDispatch = now
	return []Event{ev}
}

// State returns the current detection state.
func (m *Monitor) State() State {
	return m.state
}

// Calibrated reports whether the rest baseline is established.
func (m *Monitor) Calibrated() bool {
	return m.calibrator.Calibrated()
}

// Baseline returns the calibrated rest acceleration vector.
func (m *Monitor) Baseline() Vec3 {
	return m.calibrator.Baseline()
}

// CountsSnapshot returns the detection outcome counters.
func (m *Monitor) CountsSnapshot() Counts {
	return m.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil before calibration, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (m *Monitor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if !m.calibrator.Calibrated() {
		return nil
	}
	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		State:     m.state,
		Counts:    m.counts,
	}
}
