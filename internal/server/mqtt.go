package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/CodeWithAlvin/fallDetection/internal/alert"
)

// Ingestor subscribes to the device fall topic and feeds events into the
// server alongside the HTTP path.
type Ingestor struct {
	client paho.Client
	log    *zap.Logger
}

// NewIngestor connects to the broker and subscribes to the fall topic,
// forwarding decoded payloads into srv.Ingest.
func NewIngestor(broker, clientID string, srv *Server, log *zap.Logger) (*Ingestor, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	in := &Ingestor{client: client, log: log}

	subToken := client.Subscribe(alert.TopicFall, 1, func(_ paho.Client, msg paho.Message) {
		var p alert.Payload
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Warn("discarding malformed alert payload", zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if _, err := srv.Ingest(ctx, p); err != nil {
			log.Error("mqtt ingest failed", zap.Error(err))
		}
	})
	if !subToken.WaitTimeout(10 * time.Second) {
		client.Disconnect(250)
		return nil, fmt.Errorf("subscribe timeout")
	}
	if err := subToken.Error(); err != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("subscribe %s: %w", alert.TopicFall, err)
	}

	return in, nil
}

// Close disconnects from the broker.
func (i *Ingestor) Close() error {
	i.client.Disconnect(1000)
	return nil
}
