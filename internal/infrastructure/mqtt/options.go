package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-enocean/internal/infrastructure/config"
)

const (
	// connectTimeout bounds the initial broker dial.
	connectTimeout = 10 * time.Second

	// opTimeout bounds a single publish or subscribe acknowledgement.
	opTimeout = 5 * time.Second

	// disconnectQuiesceMs is how long Close waits for in-flight messages.
	disconnectQuiesceMs = 1000

	// keepAlive is the MQTT ping interval for dead-link detection.
	keepAlive = 60 * time.Second

	// maxQoS is the highest valid MQTT QoS level.
	maxQoS = 2
)

// Bridge lifecycle states published on the system status topic.
const (
	statusOnline  = "online"
	statusOffline = "offline"
)

// statusMessage is the wire shape of a system status announcement,
// retained so subscribers always see the bridge's last known state.
type statusMessage struct {
	Status    string    `json:"status"`
	ClientID  string    `json:"client_id"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// buildClientOptions maps the bridge config onto paho options: broker
// URL, credentials, a TLS 1.2 floor, clean sessions, and auto-reconnect
// capped by the configured backoff.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port)).
		SetClientID(cfg.Broker.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second).
		SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(keepAlive)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}
	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	// Last will: the broker announces the bridge as offline if the
	// connection dies without a graceful Close.
	opts.SetBinaryWill(Topics{}.SystemStatus(), statusPayload(statusOffline,
		cfg.Broker.ClientID, "connection_lost"), 1, true)

	return opts
}

// publishStatus announces a lifecycle transition on the system status
// topic. Fire and forget on connect; Close waits for the offline one.
func (c *Client) publishStatus(status string) {
	reason := ""
	if status == statusOffline {
		reason = "graceful_shutdown"
	}
	payload := statusPayload(status, c.cfg.Broker.ClientID, reason)

	token := c.paho.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, payload)
	if status == statusOffline {
		token.WaitTimeout(opTimeout)
	}
}

func statusPayload(status, clientID, reason string) []byte {
	payload, err := json.Marshal(statusMessage{
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil
	}
	return payload
}
