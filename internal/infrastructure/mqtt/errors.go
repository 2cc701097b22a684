package mqtt

import "errors"

// Sentinel errors for broker operations, matched with errors.Is.
var (
	// ErrNotConnected means the broker link is down and the operation was
	// not attempted.
	ErrNotConnected = errors.New("mqtt: not connected")

	// ErrConnectFailed wraps a failed initial connection.
	ErrConnectFailed = errors.New("mqtt: connect failed")

	// ErrPublishFailed wraps a failed or timed-out publish.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed wraps a failed or timed-out subscribe.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrBadTopic means an empty topic was given.
	ErrBadTopic = errors.New("mqtt: empty topic")

	// ErrBadQoS means a QoS level outside 0..2 was given.
	ErrBadQoS = errors.New("mqtt: QoS must be 0, 1 or 2")
)
