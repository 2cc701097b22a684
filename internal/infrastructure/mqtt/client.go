package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-enocean/internal/infrastructure/config"
)

// Client is the bridge's connection to the message bus. It wraps the paho
// client with the pieces the bridge needs: a last-will status topic,
// acknowledged publishing, command subscriptions that survive reconnects,
// and a liveness probe for the periodic health report.
//
// All methods are safe for concurrent use.
type Client struct {
	paho pahomqtt.Client
	cfg  config.MQTTConfig

	// subs is replayed against the broker after every reconnect.
	subs   map[string]subscription
	subsMu sync.Mutex

	stateMu      sync.RWMutex
	connected    bool
	onConnect    func()
	onDisconnect func(err error)
	logger       Logger
}

// Logger is the slice of logging.Logger the client reports through.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Connect dials the broker and announces the bridge as online on the
// system status topic. The returned client reconnects on its own;
// subscriptions made through Subscribe are restored automatically.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{
		cfg:  cfg,
		subs: make(map[string]subscription),
	}

	opts := buildClientOptions(cfg)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.handleConnect() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.handleConnectionLost(err) })

	c.paho = pahomqtt.NewClient(opts)
	token := c.paho.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: no broker response within %v", ErrConnectFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	// The OnConnect handler runs asynchronously; mark the link up here so
	// callers can publish straight away.
	c.setConnected(true)
	return c, nil
}

// Close announces a graceful shutdown on the status topic, then
// disconnects. Distinct from the last will, which the broker publishes
// only when the bridge dies without closing.
func (c *Client) Close() error {
	if c.paho == nil {
		return nil
	}
	if c.IsConnected() {
		c.publishStatus(statusOffline)
	}
	c.paho.Disconnect(disconnectQuiesceMs)
	c.setConnected(false)
	return nil
}

// IsConnected reports the broker link state as of the last event.
func (c *Client) IsConnected() bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.connected && c.paho.IsConnected()
}

// HealthCheck reports whether the broker link is usable. The health
// reporter calls it before each report so a dead link surfaces as an
// error instead of a silently dropped publish.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt: health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// SetOnConnect registers a callback invoked on the initial connection and
// after every reconnect.
func (c *Client) SetOnConnect(cb func()) {
	c.stateMu.Lock()
	c.onConnect = cb
	c.stateMu.Unlock()
}

// SetOnDisconnect registers a callback invoked when the connection drops.
func (c *Client) SetOnDisconnect(cb func(err error)) {
	c.stateMu.Lock()
	c.onDisconnect = cb
	c.stateMu.Unlock()
}

// SetLogger routes handler errors and panics to a logger. Without one
// they are dropped.
func (c *Client) SetLogger(logger Logger) {
	c.stateMu.Lock()
	c.logger = logger
	c.stateMu.Unlock()
}

func (c *Client) handleConnect() {
	c.setConnected(true)
	c.resubscribeAll()
	c.publishStatus(statusOnline)

	c.stateMu.RLock()
	cb := c.onConnect
	c.stateMu.RUnlock()
	if cb != nil {
		cb()
	}
}

func (c *Client) handleConnectionLost(err error) {
	c.setConnected(false)

	c.stateMu.RLock()
	cb := c.onDisconnect
	c.stateMu.RUnlock()
	if cb != nil {
		cb(err)
	}
}

func (c *Client) setConnected(up bool) {
	c.stateMu.Lock()
	c.connected = up
	c.stateMu.Unlock()
}

func (c *Client) getLogger() Logger {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.logger
}
