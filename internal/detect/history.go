package detect

// HistorySize is the ring capacity: 2 seconds of samples at 100 Hz.
const HistorySize = 200

// neutralAccel is the resting vector the ring is pre-filled with, so that
// windows probed before HistorySize pushes read a plausible at-rest signal
// instead of zeros.
var neutralAccel = Vec3{X: 0, Y: 0, Z: 1}

// History is a fixed-capacity ring of recent samples and their derived
// magnitudes. Slots are addressed by a monotonically advancing sample index;
// all wraparound arithmetic lives here so callers index freely in either
// direction. Not safe for concurrent use — the machine is the only writer.
type History struct {
	accel    [HistorySize]Vec3
	accelMag [HistorySize]float64
	gyroMag  [HistorySize]float64
	cursor   int // index of the next write
}

// NewHistory returns a ring pre-filled with the neutral resting sample.
func NewHistory() *History {
	h := &History{}
	for i := range h.accel {
		h.accel[i] = neutralAccel
		h.accelMag[i] = 1.0
	}
	return h
}

// Push stores the sample in the oldest slot and returns the absolute index
// it was written at. O(1), no allocation.
func (h *History) Push(s Sample) int {
	idx := h.cursor
	slot := idx % HistorySize
	h.accel[slot] = s.Accel
	h.accelMag[slot] = s.Accel.Magnitude()
	h.gyroMag[slot] = s.Gyro.Magnitude()
	h.cursor++
	return idx
}

// Head returns the absolute index of the most recently pushed sample, or -1
// before the first push.
func (h *History) Head() int {
	return h.cursor - 1
}

// Len returns the number of samples pushed, capped at HistorySize.
func (h *History) Len() int {
	if h.cursor > HistorySize {
		return HistorySize
	}
	return h.cursor
}

func slotFor(idx int) int {
	return ((idx % HistorySize) + HistorySize) % HistorySize
}

// AccelAt returns the raw accel vector at the given absolute index.
func (h *History) AccelAt(idx int) Vec3 {
	return h.accel[slotFor(idx)]
}

// AccelMagAt returns the accel magnitude at the given absolute index.
func (h *History) AccelMagAt(idx int) float64 {
	return h.accelMag[slotFor(idx)]
}

// GyroMagAt returns the gyro magnitude at the given absolute index.
func (h *History) GyroMagAt(idx int) float64 {
	return h.gyroMag[slotFor(idx)]
}
