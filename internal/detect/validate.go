package detect

// Validation is the outcome of checking a freefall-impact candidate, with
// the measurements that drove the decision kept for logging.
type Validation struct {
	Valid          bool
	Duration       int     // samples from freefall onset to impact
	MaxGyro        float64 // rad/s, peak over the duration window
	OrientationDot float64 // dot of the pre-fall and post-impact unit vectors
}

// Validate decides whether the motion between freefallIdx and impactIdx is
// a genuine fall. The caller must have pushed at least OrientationOffset
// samples past impactIdx so the post-impact orientation probe reads real
// data. Indices are absolute; duration wraps modulo the ring size.
func Validate(h *History, freefallIdx, impactIdx int) Validation {
	v := Validation{}

	v.Duration = ((impactIdx-freefallIdx)%HistorySize + HistorySize) % HistorySize
	if v.Duration < MinFallDuration || v.Duration > MaxFallDuration {
		return v
	}

	for i := freefallIdx; i <= freefallIdx+v.Duration; i++ {
		if g := h.GyroMagAt(i); g > v.MaxGyro {
			v.MaxGyro = g
		}
	}

	before, okBefore := h.AccelAt(freefallIdx - OrientationOffset).Unit()
	after, okAfter := h.AccelAt(impactIdx + OrientationOffset).Unit()
	if !okBefore || !okAfter {
		// Degenerate zero-magnitude orientation: reject rather than divide.
		return v
	}
	v.OrientationDot = before.Dot(after)

	v.Valid = v.MaxGyro > GyroThreshold && v.OrientationDot < OrientationDotMax
	return v
}
