package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryPrefill(t *testing.T) {
	h := NewHistory()

	require.Equal(t, 0, h.Len())
	require.Equal(t, -1, h.Head())

	// Untouched slots read as the neutral resting sample.
	for _, idx := range []int{0, 42, HistorySize - 1, -7} {
		require.Equal(t, neutralAccel, h.AccelAt(idx))
		require.Equal(t, 1.0, h.AccelMagAt(idx))
		require.Equal(t, 0.0, h.GyroMagAt(idx))
	}
}

func TestHistoryPushAdvancesCursor(t *testing.T) {
	h := NewHistory()

	for i := 0; i < 10; i++ {
		idx := h.Push(Sample{Accel: Vec3{X: float64(i)}})
		require.Equal(t, i, idx)
		require.Equal(t, i, h.Head())
	}
	require.Equal(t, 10, h.Len())
}

func TestHistoryRingInvariant(t *testing.T) {
	h := NewHistory()

	// After k >= HistorySize pushes the head always reads the most recent
	// sample and length never exceeds capacity.
	for i := 0; i < 3*HistorySize; i++ {
		s := Sample{Accel: Vec3{X: float64(i), Z: 1}, Gyro: Vec3{Y: float64(i)}}
		h.Push(s)
		require.Equal(t, s.Accel, h.AccelAt(h.Head()))
		require.LessOrEqual(t, h.Len(), HistorySize)
	}

	// The slot HistorySize back is the same slot as the head.
	head := h.Head()
	require.Equal(t, h.AccelAt(head), h.AccelAt(head-HistorySize))

	// The oldest retained sample is head-HistorySize+1.
	oldest := head - HistorySize + 1
	require.Equal(t, Vec3{X: float64(oldest), Z: 1}, h.AccelAt(oldest))
}

func TestHistoryDerivedMagnitudes(t *testing.T) {
	h := NewHistory()
	idx := h.Push(Sample{Accel: Vec3{X: 3, Y: 4}, Gyro: Vec3{Z: 2}})

	require.InDelta(t, 5.0, h.AccelMagAt(idx), 1e-12)
	require.InDelta(t, 2.0, h.GyroMagAt(idx), 1e-12)
}
