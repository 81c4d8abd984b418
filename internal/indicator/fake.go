package indicator

// FakeIndicator records LED state changes for test assertions.
type FakeIndicator struct {
	// On is the current LED state.
	On bool

	// Sets records every state passed to Set.
	Sets []bool

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeIndicator creates a FakeIndicator for testing.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// Set records the LED state.
func (f *FakeIndicator) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.On = on
	f.Sets = append(f.Sets, on)
	return nil
}

// Close marks the indicator as closed and the LED off.
func (f *FakeIndicator) Close() error {
	f.On = false
	f.Closed = true
	return nil
}
