package esp3

// Encode wraps data and optional sections into a complete ESP3 frame:
// sync byte, header, header CRC, payload, data CRC. The inverse of
// Assembler + Validate.
//
// Parameters:
//   - packetType: ESP3 packet type (e.g. PacketTypeRadioERP1)
//   - data: Data section (RORG + payload + sender + status for radio)
//   - optional: Optional data section (may be nil)
//
// Returns:
//   - []byte: Frame ready to write to the serial link
func Encode(packetType byte, data, optional []byte) []byte {
	h := Header{
		DataLength:     uint16(len(data)),
		OptionalLength: uint8(len(optional)),
		PacketType:     packetType,
	}
	hdr := h.bytes()

	buf := make([]byte, 0, 1+headerWithCRCSize+len(data)+len(optional)+1)
	buf = append(buf, SyncByte)
	buf = append(buf, hdr[:]...)
	buf = append(buf, CRC8(hdr[:]))
	buf = append(buf, data...)
	buf = append(buf, optional...)
	buf = append(buf, CRC8(buf[1+headerWithCRCSize:]))
	return buf
}

// EncodeRadio wraps an ERP1 data section into a RADIO_ERP1 frame with the
// standard 7-byte optional data.
//
// Parameters:
//   - data: RORG + profile payload + sender ID + status
//   - dBm: Simulated/actual signal strength as a positive attenuation
//     (e.g. 45 for −45 dBm)
//
// Returns:
//   - []byte: Complete framed telegram
func EncodeRadio(data []byte, dBm byte) []byte {
	return Encode(PacketTypeRadioERP1, data, BroadcastOptional(dBm))
}

// EncodeRadioTo is EncodeRadio with a unicast destination in the optional
// data, used when transmitting commands to a specific device.
func EncodeRadioTo(data []byte, dest SenderID, dBm byte) []byte {
	return Encode(PacketTypeRadioERP1, data, AddressedOptional(dest, dBm))
}

// BroadcastOptional builds the standard radio optional data for a broadcast
// telegram: 3 subtelegrams, destination FF:FF:FF:FF, the given dBm value and
// security level 0.
func BroadcastOptional(dBm byte) []byte {
	return []byte{0x03, 0xFF, 0xFF, 0xFF, 0xFF, dBm, 0x00}
}

// AddressedOptional builds radio optional data carrying a unicast
// destination.
func AddressedOptional(dest SenderID, dBm byte) []byte {
	return []byte{0x03, dest[0], dest[1], dest[2], dest[3], dBm, 0x00}
}
