package detect

// CalibrationSamples is how many initial samples feed the rest baseline.
const CalibrationSamples = 100

// Calibrator accumulates a running-mean rest acceleration over the first
// CalibrationSamples readings. Once the count is reached the calibrated
// flag is permanent and further observations are no-ops.
type Calibrator struct {
	mean       Vec3
	count      int
	calibrated bool
}

// Observe folds one sample into the running mean and reports whether
// calibration is complete. The mean update is incremental:
// mean' = (mean*count + sample) / (count+1).
func (c *Calibrator) Observe(s Sample) bool {
	if c.calibrated {
		return true
	}
	n := float64(c.count)
	c.mean = Vec3{
		X: (c.mean.X*n + s.Accel.X) / (n + 1),
		Y: (c.mean.Y*n + s.Accel.Y) / (n + 1),
		Z: (c.mean.Z*n + s.Accel.Z) / (n + 1),
	}
	c.count++
	if c.count >= CalibrationSamples {
		c.calibrated = true
	}
	return c.calibrated
}

// Calibrated reports whether the baseline is established.
func (c *Calibrator) Calibrated() bool {
	return c.calibrated
}

// Baseline returns the mean rest acceleration observed so far. It is a
// diagnostic observable; thresholds are absolute and do not consume it.
func (c *Calibrator) Baseline() Vec3 {
	return c.mean
}
