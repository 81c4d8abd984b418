// Command fall-sensor samples a wearable IMU at 100 Hz, runs the fall
// detection pipeline, and dispatches alerts to the fall-server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/CodeWithAlvin/fallDetection/internal/alert"
	"github.com/CodeWithAlvin/fallDetection/internal/detect"
	"github.com/CodeWithAlvin/fallDetection/internal/imu"
	"github.com/CodeWithAlvin/fallDetection/internal/indicator"
	"github.com/CodeWithAlvin/fallDetection/internal/logging"
	"github.com/CodeWithAlvin/fallDetection/internal/status"
	"github.com/CodeWithAlvin/fallDetection/internal/web"
)

func main() {
	poll := flag.Duration("poll", 10*time.Millisecond, "IMU polling interval (10ms = 100 Hz)")
	port := flag.String("port", "/dev/ttyUSB0", "Serial port of the IMU hub")
	baud := flag.Int("baud", imu.DefaultBaudRate, "Serial baud rate")
	deviceID := flag.String("device-id", "wearable-01", "Device identifier sent with alerts")
	server := flag.String("server", "", "Fall-server URL for HTTP alert delivery (e.g. https://host:5000/fall_event)")
	broker := flag.String("broker", "", "MQTT broker address for alert delivery and lifecycle events (empty to disable)")
	insecure := flag.Bool("insecure", false, "Disable TLS certificate verification for alert delivery")
	deliverTimeout := flag.Duration("deliver-timeout", 15*time.Second, "Per-alert delivery timeout")
	queueSize := flag.Int("queue", 16, "Alert dispatch queue capacity")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	ledPin := flag.Int("led-pin", indicator.DefaultPin, "BCM pin of the alarm LED (-1 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "console", "Log format (console or json)")

	flag.Parse()

	log, err := logging.New(*logLevel, *logFormat, "fall-sensor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*poll, *port, *baud, *deviceID, *server, *broker, *insecure,
		*deliverTimeout, *queueSize, *heartbeat, *ledPin, *httpAddr, log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}

// systemPublisher is the slice of the MQTT sink used for lifecycle events.
type systemPublisher interface {
	PublishSystem(event alert.SystemEvent) error
}

func run(poll time.Duration, port string, baud int, deviceID, server, broker string,
	insecure bool, deliverTimeout time.Duration, queueSize int, heartbeat time.Duration,
	ledPin int, httpAddr string, log *zap.Logger) error {

	// No sample source, no detection: startup failure here is fatal.
	reader, err := imu.NewSerialReader(port, baud, log)
	if err != nil {
		return fmt.Errorf("init imu: %w", err)
	}
	defer reader.Close()

	// Alert transport: HTTP to the fall-server, or MQTT when only a broker
	// is configured.
	var (
		sink       alert.Sink
		system     systemPublisher
		sinkStatus alert.ConnectionStatus
	)
	switch {
	case server != "":
		sink = alert.NewHTTPSink(server, deliverTimeout, insecure, log)
	case broker != "":
		// Alerts ride MQTT when no HTTP server is configured.
	default:
		return errors.New("no alert sink configured: set -server or -broker")
	}

	if broker != "" {
		mqttSink, err := alert.NewMQTTSink(broker, "fall-sensor-"+deviceID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		system = mqttSink
		sinkStatus = mqttSink
		if sink == nil {
			sink = mqttSink
		} else {
			defer mqttSink.Close()
		}
	}

	dispatcher := alert.NewDispatcher(sink, queueSize, deliverTimeout, log)
	defer dispatcher.Close()

	var led indicator.Indicator
	if ledPin >= 0 {
		realLED, err := indicator.NewRealIndicator(ledPin)
		if err != nil {
			// The LED is a convenience, not a requirement.
			log.Warn("alarm LED unavailable", zap.Error(err))
		} else {
			led = realLED
			defer realLED.Close()
		}
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		DeviceID:    deviceID,
		SerialPort:  port,
		ServerURL:   server,
		Broker:      broker,
		HeartbeatMs: heartbeat.Milliseconds(),
		HTTPAddr:    httpAddr,
	})

	if system != nil {
		snap := tracker.Snapshot()
		startup := alert.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := system.PublishSystem(startup); err != nil {
			log.Warn("failed to publish startup event", zap.Error(err))
		}
	}

	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("http server error", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("http status server listening", zap.String("addr", httpAddr))
	}

	log.Info("started",
		zap.Duration("poll", poll),
		zap.String("port", port),
		zap.String("device_id", deviceID),
		zap.String("server", server),
		zap.String("broker", broker))

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, dispatcher, system, sinkStatus, tracker, led,
		deviceID, heartbeat, log, time.Now, ticker.C, sigCh)
}

// runLoop is the sampling tick. All detection happens synchronously here;
// only alert delivery leaves the goroutine (via the dispatcher).
func runLoop(reader imu.Reader, dispatcher *alert.Dispatcher, system systemPublisher,
	sinkStatus alert.ConnectionStatus, tracker *status.Tracker, led indicator.Indicator,
	deviceID string, heartbeat time.Duration, log *zap.Logger,
	now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {

	monitor := detect.NewMonitor(now())
	var lastState detect.State = detect.StateIdle

	for {
		select {
		case s := <-sig:
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			log.Info("shutting down", zap.String("signal", signalName))

			if system != nil {
				refreshTracker(tracker, monitor, dispatcher, sinkStatus)
				snap := tracker.Snapshot()
				event := alert.SystemEvent{
					Timestamp:  snap.Now,
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := system.PublishSystem(event); err != nil {
					log.Warn("failed to publish shutdown event", zap.Error(err))
				}
			}
			return nil

		case <-tick:
			t := now()
			sample, err := reader.Read()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return fmt.Errorf("sample source closed: %w", err)
				}
				log.Warn("imu read error", zap.Error(err))
				continue
			}

			wasCalibrated := monitor.Calibrated()
			events := monitor.Process(sample, t)

			if !wasCalibrated && monitor.Calibrated() {
				b := monitor.Baseline()
				log.Info("calibration complete",
					zap.Float64("x", b.X), zap.Float64("y", b.Y), zap.Float64("z", b.Z))
				tracker.SetBaseline(b)
			}

			for _, ev := range events {
				log.Info("fall classified",
					zap.Bool("false_alert", ev.FalseAlert),
					zap.Time("at", ev.Time))
				dispatcher.Enqueue(alert.Event{
					Time:       ev.Time,
					Detected:   ev.Detected,
					FalseAlert: ev.FalseAlert,
					DeviceID:   deviceID,
				})
			}

			if state := monitor.State(); state != lastState {
				log.Info("detection state changed",
					zap.String("from", string(lastState)),
					zap.String("to", string(state)))
				if led != nil {
					if err := led.Set(state == detect.StateConfirmed); err != nil {
						log.Warn("alarm LED set failed", zap.Error(err))
					}
				}
				lastState = state
			}

			if hb := monitor.CheckHeartbeat(t, heartbeat); hb != nil {
				log.Info("heartbeat",
					zap.Duration("uptime", hb.Uptime),
					zap.String("state", string(hb.State)),
					zap.Int("confirmed", hb.Counts.Confirmed),
					zap.Int("false_alerts", hb.Counts.FalseAlerts))
				if system != nil {
					refreshTracker(tracker, monitor, dispatcher, sinkStatus)
					snap := tracker.Snapshot()
					event := alert.SystemEvent{
						Timestamp:  hb.Timestamp,
						Event:      "HEARTBEAT",
						RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
					}
					if err := system.PublishSystem(event); err != nil {
						log.Warn("heartbeat publish error", zap.Error(err))
					}
				}
			}

			refreshTracker(tracker, monitor, dispatcher, sinkStatus)
		}
	}
}

func refreshTracker(tracker *status.Tracker, monitor *detect.Monitor,
	dispatcher *alert.Dispatcher, sinkStatus alert.ConnectionStatus) {
	tracker.Update(monitor.State(), monitor.Calibrated(), monitor.CountsSnapshot())
	tracker.SetQueueDepth(dispatcher.Depth())
	if sinkStatus != nil {
		tracker.SetSinkConnected(sinkStatus.IsConnected())
	}
}
