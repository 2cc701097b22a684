package esp3

import "errors"

// Domain errors for the ESP3 framing layer.
// All of these are locally recoverable: the pipeline counts the error,
// discards the frame and keeps reading.
var (
	// ErrHeaderCRC is returned when the header checksum does not match.
	ErrHeaderCRC = errors.New("esp3: header CRC mismatch")

	// ErrDataCRC is returned when the data checksum does not match.
	ErrDataCRC = errors.New("esp3: data CRC mismatch")

	// ErrLengthMismatch is returned when the declared header lengths do not
	// match the actual payload length.
	ErrLengthMismatch = errors.New("esp3: declared length does not match payload")

	// ErrNotRadio is returned when a packet is not a RADIO_ERP1 telegram.
	ErrNotRadio = errors.New("esp3: not a radio telegram")

	// ErrTelegramTooShort is returned when a radio telegram's data section is
	// too small to carry RORG, sender ID and status.
	ErrTelegramTooShort = errors.New("esp3: radio telegram too short")
)
