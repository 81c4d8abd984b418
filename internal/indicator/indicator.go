// Package indicator drives the local alarm LED with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package indicator

// Indicator sets the alarm LED state.
type Indicator interface {
	// Set turns the LED on or off.
	Set(on bool) error

	// Close releases GPIO resources, leaving the LED off.
	Close() error
}

// DefaultPin is the BCM pin number the alarm LED is wired to.
const DefaultPin = 17
