package mqtt

import "fmt"

// maxPayloadSize guards against runaway payloads; brokers commonly cap
// messages around this size.
const maxPayloadSize = 1 << 20

// Publish sends one message and waits for the broker acknowledgement
// (QoS > 0) or the network write (QoS 0), bounded by the operation
// timeout.
//
// Retained messages replace the broker's stored value for the topic; the
// reading publisher uses this for per-device state so late subscribers
// see the current value immediately.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrBadTopic
	}
	if qos > maxQoS {
		return ErrBadQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: %d byte payload", ErrPublishFailed, len(payload))
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.paho.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(opTimeout) {
		return fmt.Errorf("%w: no ack within %v", ErrPublishFailed, opTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishRetained publishes retained at the configured default QoS. Used
// for state-style topics such as the bridge health report.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}
