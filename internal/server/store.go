// Package server implements the alert receiver: event storage, the HTTP
// API the wearable posts to, SMS notification, and optional MQTT ingest.
package server

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Event is one received fall event.
type Event struct {
	ID        int64  `json:"-"`
	Timestamp string `json:"timestamp"`
	Detection bool   `json:"detection"`
	AlertType string `json:"alert_type"`
	DeviceID  string `json:"device_id"`
	SMSSent   string `json:"sms_sent"`
}

// Store persists events in SQLite.
type Store struct {
	*sql.DB
}

// NewStore opens (or creates) the event database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			detection BOOLEAN NOT NULL,
			alert_type TEXT NOT NULL,
			device_id TEXT NOT NULL,
			sms_sent TEXT NOT NULL DEFAULT 'No'
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db}, nil
}

// RecordEvent inserts one event, stamping it with the given time.
func (s *Store) RecordEvent(now time.Time, detection bool, alertType, deviceID, smsSent string) error {
	_, err := s.Exec(
		"INSERT INTO events (timestamp, detection, alert_type, device_id, sms_sent) VALUES (?, ?, ?, ?, ?)",
		now.UTC().Format(time.RFC3339), detection, alertType, deviceID, smsSent,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first.
func (s *Store) RecentEvents(limit int) ([]Event, error) {
	rows, err := s.Query(
		"SELECT id, timestamp, detection, alert_type, device_id, sms_sent FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Detection, &e.AlertType, &e.DeviceID, &e.SMSSent); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEvents returns the total number of stored events.
func (s *Store) CountEvents() (int, error) {
	var n int
	if err := s.QueryRow("SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
