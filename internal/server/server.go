package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/CodeWithAlvin/fallDetection/internal/alert"
)

// recentLimit caps the dashboard and /events listings.
const recentLimit = 20

// Server is the alert receiver's HTTP front end.
type Server struct {
	httpServer *http.Server
	store      *Store
	notifier   Notifier
	log        *zap.Logger
	startTime  time.Time
	now        func() time.Time
}

// New creates a Server backed by the given store. notifier may be nil when
// SMS is not configured.
func New(addr string, store *Store, notifier Notifier, log *zap.Logger) *Server {
	s := &Server{
		store:     store,
		notifier:  notifier,
		log:       log,
		startTime: time.Now(),
		now:       time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/fall_event", s.handleFallEvent)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/config", s.handleConfig)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Ingest records one fall event and triggers SMS for real detections.
// Shared by the HTTP handler and the MQTT ingestor. Returns the SMS
// disposition ("No", "Yes", or "Failed").
func (s *Server) Ingest(ctx context.Context, p alert.Payload) (string, error) {
	s.log.Info("received fall event",
		zap.Bool("detect", p.Detect),
		zap.String("type", p.Type),
		zap.String("device_id", p.DeviceID))

	smsSent := "No"
	if p.Detect && p.Type == alert.TypeReal && s.notifier != nil {
		if err := s.notifier.Notify(ctx, p.DeviceID, p.Type); err != nil {
			// SMS failure must not reject the event itself.
			s.log.Error("sms notification failed", zap.Error(err))
			smsSent = "Failed"
		} else {
			smsSent = "Yes"
		}
	}

	if err := s.store.RecordEvent(s.now(), p.Detect, p.Type, p.DeviceID, smsSent); err != nil {
		return smsSent, err
	}
	return smsSent, nil
}

func (s *Server) handleFallEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p alert.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "message": fmt.Sprintf("decode payload: %v", err),
		})
		return
	}
	if p.DeviceID == "" {
		p.DeviceID = "unknown"
	}
	if p.Type == "" {
		p.Type = "unknown"
	}

	smsSent, err := s.Ingest(r.Context(), p)
	if err != nil {
		s.log.Error("record event failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error", "message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"message":   "Event logged successfully",
		"sms_alert": smsSent,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.RecentEvents(recentLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if events == nil {
		events = []Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountEvents()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	sms := "disabled"
	if s.notifier != nil {
		sms = "configured"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "online",
		"time":           s.now().UTC().Format(time.RFC3339),
		"uptime_seconds": int64(s.now().Sub(s.startTime).Seconds()),
		"records_count":  count,
		"database":       "sqlite",
		"sms":            sms,
	})
}

// handleConfig tells a provisioning device where to post alerts.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"api_endpoint": fmt.Sprintf("http://%s/fall_event", r.Host),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	events, err := s.store.RecentEvents(recentLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderDashboard(w, dashboardData{
		Events:  events,
		SMS:     s.notifier != nil,
		Updated: s.now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
