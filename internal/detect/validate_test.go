package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildCandidate fills a history with a synthetic fall: rest, freefall
// onset, `between` low-g samples carrying the given gyro rate, an impact
// sample, then OrientationOffset post-impact samples with the given accel
// vector. Returns the freefall and impact indices.
func buildCandidate(between int, gyro float64, after Vec3) (*History, int, int) {
	h := NewHistory()
	rest := Sample{Accel: Vec3{Z: 1}}
	low := Vec3{Z: 0.3}

	for i := 0; i < 20; i++ {
		h.Push(rest)
	}
	ff := h.Push(Sample{Accel: low})
	for i := 0; i < between; i++ {
		h.Push(Sample{Accel: low, Gyro: Vec3{X: gyro}})
	}
	imp := h.Push(Sample{Accel: after.Scale(4.0)})
	for i := 0; i < OrientationOffset; i++ {
		h.Push(Sample{Accel: after})
	}
	return h, ff, imp
}

func TestValidateAcceptsMinimumDuration(t *testing.T) {
	h, ff, imp := buildCandidate(MinFallDuration-1, 4.0, Vec3{X: 1})

	v := Validate(h, ff, imp)
	require.Equal(t, MinFallDuration, v.Duration)
	require.True(t, v.Valid)
	require.InDelta(t, 4.0, v.MaxGyro, 1e-12)
	require.InDelta(t, 0.0, v.OrientationDot, 1e-12)
}

func TestValidateAcceptsMaximumDuration(t *testing.T) {
	h, ff, imp := buildCandidate(MaxFallDuration-1, 4.0, Vec3{X: 1})

	v := Validate(h, ff, imp)
	require.Equal(t, MaxFallDuration, v.Duration)
	require.True(t, v.Valid)
}

func TestValidateRejectsTooShort(t *testing.T) {
	h, ff, imp := buildCandidate(MinFallDuration-2, 9.0, Vec3{X: 1})

	v := Validate(h, ff, imp)
	require.Equal(t, MinFallDuration-1, v.Duration)
	require.False(t, v.Valid, "14-sample fall must reject regardless of gyro and orientation")
}

func TestValidateRejectsTooLong(t *testing.T) {
	h, ff, imp := buildCandidate(MaxFallDuration, 9.0, Vec3{X: 1})

	v := Validate(h, ff, imp)
	require.Equal(t, MaxFallDuration+1, v.Duration)
	require.False(t, v.Valid)
}

func TestValidateRejectsLowRotation(t *testing.T) {
	h, ff, imp := buildCandidate(20, 1.5, Vec3{X: 1})

	v := Validate(h, ff, imp)
	require.False(t, v.Valid)
	require.InDelta(t, 1.5, v.MaxGyro, 1e-12)
}

func TestValidateRejectsUnchangedOrientation(t *testing.T) {
	// Post-impact orientation matches the pre-fall one: dot product 1.
	h, ff, imp := buildCandidate(20, 5.0, Vec3{Z: 1})

	v := Validate(h, ff, imp)
	require.False(t, v.Valid)
	require.InDelta(t, 1.0, v.OrientationDot, 1e-12)
}

func TestValidateRejectsZeroMagnitudeOrientation(t *testing.T) {
	// A dead post-impact signal must reject, not divide by zero.
	h, ff, imp := buildCandidate(20, 5.0, Vec3{})

	v := Validate(h, ff, imp)
	require.False(t, v.Valid)
	require.Equal(t, 0.0, v.OrientationDot)
}

func TestValidateDurationWrapsAroundRing(t *testing.T) {
	h := NewHistory()
	low := Sample{Accel: Vec3{Z: 0.3}, Gyro: Vec3{X: 5}}

	// Push enough rest that the candidate straddles the write cursor wrap.
	for i := 0; i < HistorySize-10; i++ {
		h.Push(Sample{Accel: Vec3{Z: 1}})
	}
	ff := h.Push(low)
	for i := 0; i < 19; i++ {
		h.Push(low)
	}
	imp := h.Push(Sample{Accel: Vec3{X: 4}})
	for i := 0; i < OrientationOffset; i++ {
		h.Push(Sample{Accel: Vec3{X: 1}})
	}

	v := Validate(h, ff, imp)
	require.Equal(t, 20, v.Duration)
	require.True(t, v.Valid)
}
