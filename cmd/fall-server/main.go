// Command fall-server receives fall alerts from wearable sensors, logs them
// to SQLite, serves a monitoring dashboard, and relays confirmed falls to a
// caregiver by SMS.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/CodeWithAlvin/fallDetection/internal/logging"
	"github.com/CodeWithAlvin/fallDetection/internal/server"
)

// SMS credentials come from the environment so they stay out of process
// listings and shell history.
const (
	envTwilioSID   = "TWILIO_ACCOUNT_SID"
	envTwilioToken = "TWILIO_AUTH_TOKEN"
	envTwilioFrom  = "TWILIO_FROM_NUMBER"
	envAlertTo     = "EMERGENCY_CONTACT"
)

func main() {
	addr := flag.String("addr", ":5000", "HTTP listen address")
	dbPath := flag.String("db", "fall_events.db", "Path to the SQLite event database")
	broker := flag.String("broker", "", "MQTT broker to subscribe for sensor alerts (empty to disable)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "console", "Log format (console or json)")

	flag.Parse()

	log, err := logging.New(*logLevel, *logFormat, "fall-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*addr, *dbPath, *broker, log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}

func smsConfigFromEnv() server.SMSConfig {
	return server.SMSConfig{
		AccountSID: os.Getenv(envTwilioSID),
		AuthToken:  os.Getenv(envTwilioToken),
		From:       os.Getenv(envTwilioFrom),
		To:         os.Getenv(envAlertTo),
	}
}

func run(addr, dbPath, broker string, log *zap.Logger) error {
	store, err := server.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	var notifier server.Notifier
	smsCfg := smsConfigFromEnv()
	if smsCfg.Configured() {
		notifier = server.NewSMSNotifier(smsCfg, log)
		log.Info("sms alerts enabled", zap.String("to", smsCfg.To))
	} else {
		log.Warn("sms alerts disabled: Twilio credentials not configured")
	}

	srv := server.New(addr, store, notifier, log)

	if broker != "" {
		ingestor, err := server.NewIngestor(broker, "fall-server", srv, log)
		if err != nil {
			return fmt.Errorf("init mqtt ingest: %w", err)
		}
		defer ingestor.Close()
		log.Info("subscribed to sensor alerts", zap.String("broker", broker))
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("db", dbPath))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case s := <-sigCh:
		log.Info("shutting down", zap.String("signal", s.String()))
		return srv.Shutdown(context.Background())
	}
}
