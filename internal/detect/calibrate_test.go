package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalibrationConvergesExactlyAtRest(t *testing.T) {
	var c Calibrator
	rest := Sample{Accel: Vec3{Z: 1}}

	for i := 0; i < CalibrationSamples-1; i++ {
		require.False(t, c.Observe(rest), "calibrated after %d samples", i+1)
	}
	require.True(t, c.Observe(rest))
	require.True(t, c.Calibrated())

	// Identical inputs must yield the input exactly, not approximately.
	require.Equal(t, Vec3{Z: 1}, c.Baseline())
}

func TestCalibrationConvergesToMean(t *testing.T) {
	var c Calibrator

	// Half the samples tilted one way, half the other.
	for i := 0; i < CalibrationSamples/2; i++ {
		c.Observe(Sample{Accel: Vec3{X: 0.2, Z: 1}})
	}
	for i := 0; i < CalibrationSamples/2; i++ {
		c.Observe(Sample{Accel: Vec3{X: -0.2, Z: 1}})
	}

	require.True(t, c.Calibrated())
	b := c.Baseline()
	require.InDelta(t, 0.0, b.X, 1e-9)
	require.InDelta(t, 0.0, b.Y, 1e-9)
	require.InDelta(t, 1.0, b.Z, 1e-9)
}

func TestCalibrationIdempotentWhenDone(t *testing.T) {
	var c Calibrator
	for i := 0; i < CalibrationSamples; i++ {
		c.Observe(Sample{Accel: Vec3{Z: 1}})
	}
	baseline := c.Baseline()

	// Further observations must not disturb the baseline.
	require.True(t, c.Observe(Sample{Accel: Vec3{X: 9, Y: 9, Z: 9}}))
	require.Equal(t, baseline, c.Baseline())
}
