package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-enocean/internal/device"
	"github.com/nerrad567/gray-logic-enocean/internal/gateway"
)

// healthClient is the slice of Client the health reporter needs.
type healthClient interface {
	HealthCheck(ctx context.Context) error
	PublishRetained(topic string, payload []byte) error
}

// HealthPublisher periodically reports the bridge's pipeline counters and
// device registry totals on the health topic. Retained, so dashboards see
// the latest snapshot without waiting a full interval.
type HealthPublisher struct {
	client  healthClient
	topics  Topics
	started time.Time
}

// NewHealthPublisher creates a reporter over a connected client. Uptime
// counts from here.
func NewHealthPublisher(client *Client) *HealthPublisher {
	return &HealthPublisher{client: client, started: time.Now()}
}

// healthMessage is the wire shape of a bridge health report.
type healthMessage struct {
	Status        string            `json:"status"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Timestamp     time.Time         `json:"timestamp"`
	Pipeline      gateway.Stats     `json:"pipeline"`
	Devices       device.Statistics `json:"devices"`
}

// Publish sends one health report. A dead broker link is returned as an
// error so the caller can log the missed report.
func (p *HealthPublisher) Publish(ctx context.Context, pipeline gateway.Stats, devices device.Statistics) error {
	if err := p.client.HealthCheck(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(healthMessage{
		Status:        statusOnline,
		UptimeSeconds: int64(time.Since(p.started).Seconds()),
		Timestamp:     time.Now().UTC(),
		Pipeline:      pipeline,
		Devices:       devices,
	})
	if err != nil {
		return fmt.Errorf("mqtt: encoding health report: %w", err)
	}

	return p.client.PublishRetained(p.topics.BridgeHealth(protocolName), payload)
}
