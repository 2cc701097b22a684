// Package transport opens the byte streams the gateway consumes: the
// serial port of an EnOcean transceiver (TCM310 and friends), or anything
// else satisfying io.ReadCloser, which is all the pipeline requires.
package transport

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaudRate is the fixed rate of ESP3 transceiver modules.
const DefaultBaudRate = 57600

// OpenSerial opens an ESP3 transceiver's serial port in 8N1 framing.
//
// Parameters:
//   - device: port path, e.g. /dev/ttyUSB0
//   - baud: line rate; <= 0 selects DefaultBaudRate
//
// Returns a stream that is also writable, for transmitting encoded frames.
func OpenSerial(device string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}

	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", device, err)
	}
	return port, nil
}
