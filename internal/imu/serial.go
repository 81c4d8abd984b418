package imu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/CodeWithAlvin/fallDetection/internal/detect"
)

// SerialReader reads samples from a serial-attached IMU hub that emits one
// line per sample: "ax,ay,az,gx,gy,gz" with accel in g and gyro in rad/s.
type SerialReader struct {
	port    serial.Port
	scanner *bufio.Scanner
	log     *zap.Logger
}

// NewSerialReader opens the named port. Failure here is fatal to the
// daemon: there is no detection without a sample source.
func NewSerialReader(portName string, baud int, log *zap.Logger) (*SerialReader, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	return &SerialReader{
		port:    port,
		scanner: bufio.NewScanner(port),
		log:     log,
	}, nil
}

// Read returns the next well-formed sample. Malformed lines (partial
// writes, boot banners from the hub) are logged and skipped rather than
// surfaced as errors.
func (r *SerialReader) Read() (detect.Sample, error) {
	for r.scanner.Scan() {
		s, err := ParseLine(r.scanner.Text())
		if err != nil {
			r.log.Warn("discarding sample line", zap.Error(err))
			continue
		}
		return s, nil
	}
	if err := r.scanner.Err(); err != nil {
		return detect.Sample{}, fmt.Errorf("read serial: %w", err)
	}
	return detect.Sample{}, io.EOF
}

// Close closes the serial port.
func (r *SerialReader) Close() error {
	return r.port.Close()
}

// ParseLine parses one "ax,ay,az,gx,gy,gz" sample line.
func ParseLine(line string) (detect.Sample, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 6 {
		return detect.Sample{}, fmt.Errorf("want 6 fields, got %d in %q", len(fields), line)
	}

	var vals [6]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return detect.Sample{}, fmt.Errorf("field %d of %q: %w", i, line, err)
		}
		vals[i] = v
	}

	return detect.Sample{
		Accel: detect.Vec3{X: vals[0], Y: vals[1], Z: vals[2]},
		Gyro:  detect.Vec3{X: vals[3], Y: vals[4], Z: vals[5]},
	}, nil
}
