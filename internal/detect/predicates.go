package detect

// Freefall reports whether the newest FreefallWindow samples all sit below
// FreefallThreshold. Requiring three consecutive sub-threshold magnitudes
// filters single-sample noise for ~30 ms of added latency.
func Freefall(h *History) bool {
	head := h.Head()
	for i := 0; i < FreefallWindow; i++ {
		if h.AccelMagAt(head-i) >= FreefallThreshold {
			return false
		}
	}
	return true
}

// Impact reports whether the newest sample crosses ImpactThreshold from
// below. Detecting the rising edge rather than the sustained level keeps a
// prolonged spike from re-triggering every tick.
func Impact(h *History) bool {
	head := h.Head()
	return h.AccelMagAt(head) > ImpactThreshold && h.AccelMagAt(head-1) < ImpactThreshold
}
