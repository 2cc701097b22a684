package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-enocean/internal/eep"
	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// txDBm is the optional-data dBm byte for transmitted telegrams, where the
// field carries no measurement.
const txDBm = 0xFF

// ErrBadCommand wraps malformed or unsupported command payloads.
var ErrBadCommand = errors.New("gateway: bad command")

// Command is an actuator control request received over the message bus.
// Exactly one action applies per message.
type Command struct {
	// Action selects the encoding: "switch", "shutter" or "press".
	Action string `json:"action"`

	// Switch fields (D2-01-01).
	On      bool `json:"on,omitempty"`
	Channel int  `json:"channel,omitempty"`

	// Shutter fields (D2-05-00).
	Position float64 `json:"position,omitempty"`
	Angle    float64 `json:"angle,omitempty"`

	// Press fields (F6 rocker emulation).
	Button string `json:"button,omitempty"`
}

// EncodeCommand turns a command payload into a ready-to-transmit ESP3
// frame, sent from the transceiver's chip ID to the addressed device.
//
// Parameters:
//   - payload: JSON command as received from the command topic
//   - address: target device address, lowercase hex sender key
//   - chipID: the transceiver's own sender ID
//
// Returns the complete frame bytes, ready for the serial port.
func EncodeCommand(payload []byte, address string, chipID esp3.SenderID) ([]byte, error) {
	dest, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCommand, err)
	}

	var (
		rorg   byte
		body   []byte
		status byte
		encErr error
	)
	switch cmd.Action {
	case "switch":
		rorg = eep.RORGVLD
		body, encErr = eep.EncodeSwitch(cmd.On, cmd.Channel, 0x00)
	case "shutter":
		rorg = eep.RORGVLD
		body, encErr = eep.EncodeShutter(cmd.Position, cmd.Angle, 0x00)
	case "press":
		rorg = eep.RORGRPS
		var data byte
		data, status, encErr = eep.EncodeRockerPress(cmd.Button)
		body = []byte{data}
	default:
		return nil, fmt.Errorf("%w: unsupported action %q", ErrBadCommand, cmd.Action)
	}
	if encErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCommand, encErr)
	}

	data := eep.BuildRadioData(rorg, body, chipID, status)
	return esp3.EncodeRadioTo(data, dest, txDBm), nil
}

// parseAddress validates a lowercase hex device address from a command
// topic.
func parseAddress(address string) (esp3.SenderID, error) {
	id, err := esp3.ParseSenderID(address)
	if err != nil {
		return id, fmt.Errorf("%w: bad device address %q", ErrBadCommand, address)
	}
	return id, nil
}
