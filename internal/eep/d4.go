package eep

import (
	"fmt"

	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// UTE (universal teach-in) payload, seven bytes:
//
//	byte 0  flags (request type, bidirectional, response expected)
//	byte 1  channel count (0xFF = all channels)
//	byte 2  manufacturer ID LSB
//	byte 3  manufacturer ID MSB in bits 0..2
//	byte 4  announced TYPE
//	byte 5  announced FUNC
//	byte 6  announced RORG
const utePayloadSize = 7

// uteDecoder handles D4 universal teach-in requests. The announced
// RORG/FUNC/TYPE names the profile the device will transmit with, letting
// the device registry bind the sender before its first data telegram.
type uteDecoder struct{}

func (uteDecoder) RORG() byte      { return RORGUTE }
func (uteDecoder) Profile() string { return "D4-UTE" }

func (uteDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return len(t.Payload) == utePayloadSize
}

func (uteDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	p := t.Payload
	mfg := int(p[3]&0x07)<<8 | int(p[2])
	eep := fmt.Sprintf("%02X-%02X-%02X", p[6], p[5], p[4])

	rd := newReading(t, eep)
	rd.TeachIn = true
	rd.add("eep", eep, "")
	rd.add("manufacturer_id", mfg, "")
	rd.add("channels", int(p[1]), "")
	return rd, nil
}
