package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-enocean/internal/eep"
)

// protocolName is the protocol segment this bridge publishes under.
const protocolName = "enocean"

// publisher is the slice of Client the reading publisher needs, split out
// so payload construction is testable without a broker.
type publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// ReadingPublisher adapts the MQTT client to the gateway's Sink interface.
//
// Known-profile readings go to the per-device state topic, retained, so
// subscribers joining late see the latest value. Unknown-device records go
// to the discovery topic, not retained.
type ReadingPublisher struct {
	client publisher
	qos    byte
	topics Topics
}

// NewReadingPublisher creates a publisher over a connected client.
func NewReadingPublisher(client *Client, qos byte) *ReadingPublisher {
	return &ReadingPublisher{client: client, qos: qos}
}

// readingMessage is the wire shape of a published reading.
type readingMessage struct {
	DeviceID  string      `json:"device_id"`
	Profile   string      `json:"eep_profile"`
	Timestamp time.Time   `json:"timestamp"`
	Fields    []eep.Field `json:"fields"`
	SignalDBm int         `json:"signal_dbm"`
	TeachIn   bool        `json:"teach_in,omitempty"`
}

// Publish sends one decoded reading to its topic.
func (p *ReadingPublisher) Publish(ctx context.Context, r *eep.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(readingMessage{
		DeviceID:  r.DeviceID.String(),
		Profile:   r.Profile,
		Timestamp: r.Timestamp,
		Fields:    r.Fields,
		SignalDBm: r.SignalDBm,
		TeachIn:   r.TeachIn,
	})
	if err != nil {
		return fmt.Errorf("mqtt: encoding reading: %w", err)
	}

	if r.IsUnknown() {
		return p.client.Publish(p.topics.BridgeDiscovery(protocolName), payload, p.qos, false)
	}
	return p.client.Publish(p.topics.BridgeState(protocolName, r.DeviceID.Key()), payload, p.qos, true)
}
