package alert

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSink publishes fall and lifecycle events to an MQTT broker.
type MQTTSink struct {
	client paho.Client
}

// NewMQTTSink creates a sink connected to the given broker.
func NewMQTTSink(broker, clientID string) (*MQTTSink, error) {
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

	return &MQTTSink{client: client}, nil
}

// Deliver publishes the fall event. QoS 1 (at-least-once): a fall alert is
// worth a duplicate.
func (s *MQTTSink) Deliver(ctx context.Context, event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	token := s.client.Publish(TopicFall, 1, false, payload)
	if !waitToken(ctx, token) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishSystem sends a daemon lifecycle event.
func (s *MQTTSink) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	token := s.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (s *MQTTSink) IsConnected() bool {
	return s.client.IsConnected()
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() error {
	s.client.Disconnect(1000) // 1 second timeout
	return nil
}

func waitToken(ctx context.Context, token paho.Token) bool {
	deadline, ok := ctx.Deadline()
	if !ok {
		return token.WaitTimeout(5 * time.Second)
	}
	return token.WaitTimeout(time.Until(deadline))
}
