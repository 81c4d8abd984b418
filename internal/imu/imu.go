// Package imu provides IMU sample acquisition with hardware abstraction.
// The real implementation reads a serial-attached sensor hub.
// The fake implementation allows testing without hardware.
package imu

import "github.com/CodeWithAlvin/fallDetection/internal/detect"

// Reader produces IMU samples at the caller's polling cadence.
type Reader interface {
	// Read returns the next sample, accel in g and gyro in rad/s. It must
	// not block beyond a small bounded latency at the configured sample
	// rate.
	Read() (detect.Sample, error)

	// Close releases the underlying transport.
	Close() error
}

// DefaultBaudRate is the sensor hub's serial line rate.
const DefaultBaudRate = 115200
