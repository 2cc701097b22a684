package esp3

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Frame layout constants.
const (
	// SyncByte starts every ESP3 frame.
	SyncByte = 0x55

	// headerSize is the size of the packet header without its CRC byte.
	headerSize = 4

	// senderIDSize is the size of an EnOcean device ID.
	senderIDSize = 4

	// radioTrailerSize is sender ID + status byte at the end of every
	// RADIO_ERP1 data section.
	radioTrailerSize = senderIDSize + 1

	// minRadioDataSize is RORG + at least one profile data byte + trailer.
	minRadioDataSize = 1 + 1 + radioTrailerSize

	// RadioOptionalSize is the standard optional-data length for radio
	// telegrams: subtelegram count, destination ID, dBm, security level.
	RadioOptionalSize = 7
)

// ESP3 packet types.
const (
	PacketTypeRadioERP1     = 0x01
	PacketTypeResponse      = 0x02
	PacketTypeEvent         = 0x04
	PacketTypeCommonCommand = 0x05
)

// Header holds the parsed ESP3 packet header fields.
type Header struct {
	// DataLength is the size of the data section in bytes.
	DataLength uint16

	// OptionalLength is the size of the optional data section in bytes.
	OptionalLength uint8

	// PacketType identifies the packet class (radio, response, event, ...).
	PacketType uint8
}

// bytes serialises the header to its four wire bytes (data length big-endian,
// optional length, packet type). The header CRC is computed over exactly
// these bytes.
func (h Header) bytes() [headerSize]byte {
	var b [headerSize]byte
	binary.BigEndian.PutUint16(b[0:2], h.DataLength)
	b[2] = h.OptionalLength
	b[3] = h.PacketType
	return b
}

// parseHeader reads the four header bytes following the sync byte.
func parseHeader(b []byte) Header {
	return Header{
		DataLength:     binary.BigEndian.Uint16(b[0:2]),
		OptionalLength: b[2],
		PacketType:     b[3],
	}
}

// Candidate is an unvalidated frame cut out of the byte stream by the
// Assembler. Body holds the data + optional sections followed by the data
// CRC byte, exactly as received.
type Candidate struct {
	Header    Header
	HeaderCRC byte
	Body      []byte
}

// Telegram is a fully validated ESP3 packet.
//
// Invariant: a Telegram is only produced by Validate, after both the header
// and data CRC checks have passed and the declared lengths have been checked
// against the actual payload.
type Telegram struct {
	Header   Header
	Data     []byte
	Optional []byte
}

// Validate checks a candidate frame's checksums and lengths.
//
// The header CRC is verified over the re-serialised header bytes, then the
// body length is checked against the declared data + optional lengths (plus
// the trailing data CRC byte), and finally the data CRC is verified over the
// data + optional sections.
//
// Returns:
//   - *Telegram: Validated telegram with data and optional sections split out
//   - error: ErrHeaderCRC, ErrLengthMismatch or ErrDataCRC
func Validate(c Candidate) (*Telegram, error) {
	hdr := c.Header.bytes()
	if got := CRC8(hdr[:]); got != c.HeaderCRC {
		return nil, fmt.Errorf("%w: computed %#02x, frame carries %#02x", ErrHeaderCRC, got, c.HeaderCRC)
	}

	want := int(c.Header.DataLength) + int(c.Header.OptionalLength) + 1
	if len(c.Body) != want {
		return nil, fmt.Errorf("%w: header declares %d body bytes, got %d", ErrLengthMismatch, want, len(c.Body))
	}

	payload := c.Body[:len(c.Body)-1]
	dataCRC := c.Body[len(c.Body)-1]
	if got := CRC8(payload); got != dataCRC {
		return nil, fmt.Errorf("%w: computed %#02x, frame carries %#02x", ErrDataCRC, got, dataCRC)
	}

	data := make([]byte, c.Header.DataLength)
	copy(data, payload[:c.Header.DataLength])
	optional := make([]byte, c.Header.OptionalLength)
	copy(optional, payload[c.Header.DataLength:])

	return &Telegram{
		Header:   c.Header,
		Data:     data,
		Optional: optional,
	}, nil
}

// SenderID is the 4-byte ID of an EnOcean device.
type SenderID [senderIDSize]byte

// String formats the ID in the conventional colon-separated hex form,
// e.g. "78:9A:BC:DE".
func (id SenderID) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X", id[0], id[1], id[2], id[3])
}

// Key returns the compact lowercase hex form used for map keys and MQTT
// topic segments, e.g. "789abcde".
func (id SenderID) Key() string {
	return fmt.Sprintf("%02x%02x%02x%02x", id[0], id[1], id[2], id[3])
}

// ParseSenderID parses the compact hex form produced by Key, case
// insensitively.
func ParseSenderID(s string) (SenderID, error) {
	var id SenderID
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != senderIDSize {
		return id, fmt.Errorf("esp3: bad sender ID %q", s)
	}
	copy(id[:], raw)
	return id, nil
}

// RadioTelegram is the EEP-level view of a validated RADIO_ERP1 packet:
// the RORG byte, the profile-specific payload, the sender ID and the status
// byte, plus the signal information carried in the optional data.
type RadioTelegram struct {
	// RORG is the Radio ORGanization byte identifying the telegram family
	// (0xA5, 0xF6, 0xD5, 0xD2, 0xD4, ...).
	RORG byte

	// Payload holds the profile-specific data bytes between RORG and the
	// sender ID. Its length depends on the RORG family and, for VLD, on the
	// profile itself.
	Payload []byte

	// Sender is the transmitting device's ID.
	Sender SenderID

	// Status carries repeater and integrity information.
	Status byte

	// SubTelegrams is the subtelegram count from the optional data
	// (0 when no optional data was present).
	SubTelegrams byte

	// Destination is the addressed device, FF:FF:FF:FF for broadcast.
	Destination SenderID

	// SignalDBm is the received signal strength as a negative dBm value,
	// 0 when unknown.
	SignalDBm int

	// Security is the security level from the optional data.
	Security byte
}

// ParseRadio extracts the EEP payload from a validated radio telegram.
//
// The data section must hold at least RORG, one profile data byte, the
// 4-byte sender ID and the status byte. The payload length is whatever the
// declared header length implies; profile decoders check the payload
// length they require rather than assuming a fixed telegram size.
//
// Returns:
//   - *RadioTelegram: Parsed payload with signal info from optional data
//   - error: ErrNotRadio or ErrTelegramTooShort
func ParseRadio(t *Telegram) (*RadioTelegram, error) {
	if t.Header.PacketType != PacketTypeRadioERP1 {
		return nil, fmt.Errorf("%w: packet type %#02x", ErrNotRadio, t.Header.PacketType)
	}
	if len(t.Data) < minRadioDataSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTelegramTooShort, len(t.Data))
	}

	r := &RadioTelegram{
		RORG:   t.Data[0],
		Status: t.Data[len(t.Data)-1],
	}

	payloadEnd := len(t.Data) - radioTrailerSize
	r.Payload = make([]byte, payloadEnd-1)
	copy(r.Payload, t.Data[1:payloadEnd])
	copy(r.Sender[:], t.Data[payloadEnd:payloadEnd+senderIDSize])

	// Optional data: [subtelegram count, destination ID ×4, dBm, security].
	if len(t.Optional) >= RadioOptionalSize {
		r.SubTelegrams = t.Optional[0]
		copy(r.Destination[:], t.Optional[1:5])
		r.SignalDBm = -int(t.Optional[5])
		r.Security = t.Optional[6]
	}

	return r, nil
}
