package mqtt

import (
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// MessageHandler receives inbound messages. Paho invokes handlers on its
// own goroutines; a returned error is logged, not redelivered.
type MessageHandler func(topic string, payload []byte) error

// subscription is what resubscribeAll needs to replay after a reconnect.
type subscription struct {
	qos     byte
	handler MessageHandler
}

// Subscribe registers a handler for a topic filter. MQTT wildcards work:
// the bridge subscribes to its whole command subtree with a single "+".
// The subscription is replayed after every reconnect.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if topic == "" {
		return ErrBadTopic
	}
	if qos > maxQoS {
		return ErrBadQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subsMu.Lock()
	c.subs[topic] = subscription{qos: qos, handler: handler}
	c.subsMu.Unlock()

	token := c.paho.Subscribe(topic, qos, c.dispatch(handler))
	if !token.WaitTimeout(opTimeout) {
		c.forget(topic)
		return fmt.Errorf("%w: no ack within %v", ErrSubscribeFailed, opTimeout)
	}
	if err := token.Error(); err != nil {
		c.forget(topic)
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

func (c *Client) forget(topic string) {
	c.subsMu.Lock()
	delete(c.subs, topic)
	c.subsMu.Unlock()
}

// resubscribeAll replays tracked subscriptions after a reconnect.
// Failures are logged; if the link has already dropped again, paho will
// run another reconnect cycle and this is retried.
func (c *Client) resubscribeAll() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	for topic, sub := range c.subs {
		token := c.paho.Subscribe(topic, sub.qos, c.dispatch(sub.handler))
		if token.WaitTimeout(opTimeout) && token.Error() != nil {
			if log := c.getLogger(); log != nil {
				log.Warn("resubscribe failed", "topic", topic, "error", token.Error())
			}
		}
	}
}

// dispatch adapts a MessageHandler to paho, adding panic recovery so a
// malformed command payload cannot take the receive path down.
func (c *Client) dispatch(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if log := c.getLogger(); log != nil {
					log.Error("message handler panicked", "topic", msg.Topic(), "panic", r)
				}
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			if log := c.getLogger(); log != nil {
				log.Warn("message handler error", "topic", msg.Topic(), "error", err)
			}
		}
	}
}
