package alert

import "context"

// FakeSink records delivered events for test assertions.
type FakeSink struct {
	// Events contains all delivered events.
	Events []Event

	// Payloads contains the JSON payloads that were formatted.
	Payloads [][]byte

	// DeliverError, if set, will be returned by Deliver.
	DeliverError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Deliver records the event.
func (f *FakeSink) Deliver(_ context.Context, event Event) error {
	if f.DeliverError != nil {
		return f.DeliverError
	}

	f.Events = append(f.Events, event)

	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake sink is "connected".
func (f *FakeSink) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakeSink) Reset() {
	f.Events = nil
	f.Payloads = nil
	f.Closed = false
	f.DeliverError = nil
	f.Connected = false
}
