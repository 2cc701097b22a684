package eep

import (
	"fmt"

	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// VLD payloads open with three identification bytes (FUNC, TYPE,
// manufacturer) followed by profile-specific data, so D2 decoders
// self-select instead of relying on teach-in hints.
const vldHeaderSize = 3

// vldMatch reports whether a VLD payload announces the given FUNC/TYPE and
// carries at least n data bytes after the identification header.
func vldMatch(t *esp3.RadioTelegram, fn, ty byte, n int) bool {
	p := t.Payload
	return len(p) >= vldHeaderSize+n && p[0] == fn && p[1] == ty
}

// Shared field codecs for the D2-14-xx and D2-01-12 packings.
//
//	temperature  10 bits, 0..1023 → −40..+60 °C
//	humidity      6 bits, 0..63   → 0..100 %
//	illumination 16 bits, 0..65535 → 0..100000 lx
//	acceleration  8 bits, 0..255  → −2.5..+2.5 g
func tempFromRaw10(raw uint16) float64 {
	return -40.0 + float64(raw)*100.0/1023.0
}

func humidityFromRaw6(raw byte) float64 {
	return float64(raw) * 100.0 / 63.0
}

func illuminationFromRaw16(raw uint16) float64 {
	return float64(raw) * 100000.0 / 65535.0
}

func accelFromRaw(raw byte) float64 {
	return float64(raw)*5.0/255.0 - 2.5
}

// d2MultiSensorDecoder handles the D2-14-41 multi-sensor and its
// magnet-less sibling D2-14-40. Both carry nine data bytes:
//
//	d0..d1  temperature (10 bits) + humidity (low 6 bits of d1)
//	d2..d3  illumination, big-endian
//	d4..d6  acceleration x, y, z
//	d7      reserved
//	d8      magnet contact in bit 0 (1 = open), D2-14-41 only
type d2MultiSensorDecoder struct {
	withMagnet bool
}

func (d d2MultiSensorDecoder) typeByte() byte {
	if d.withMagnet {
		return 0x41
	}
	return 0x40
}

func (d d2MultiSensorDecoder) RORG() byte { return RORGVLD }

func (d d2MultiSensorDecoder) Profile() string {
	if d.withMagnet {
		return ProfileMultiSensor
	}
	return ProfileMultiSensorNM
}

func (d d2MultiSensorDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return vldMatch(t, 0x14, d.typeByte(), 9)
}

func (d d2MultiSensorDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	data := t.Payload[vldHeaderSize:]

	tempRaw := uint16(data[0])<<2 | uint16(data[1])>>6
	humRaw := data[1] & 0x3F
	illumRaw := uint16(data[2])<<8 | uint16(data[3])

	rd := newReading(t, d.Profile())
	rd.add("temperature_c", tempFromRaw10(tempRaw), "°C")
	rd.add("humidity_percent", humidityFromRaw6(humRaw), "%")
	rd.add("illumination_lux", illuminationFromRaw16(illumRaw), "lx")
	rd.add("acceleration_x_g", accelFromRaw(data[4]), "g")
	rd.add("acceleration_y_g", accelFromRaw(data[5]), "g")
	rd.add("acceleration_z_g", accelFromRaw(data[6]), "g")

	if d.withMagnet {
		open := data[8]&0x01 != 0
		if open {
			rd.add("magnet_contact", "open", "")
		} else {
			rd.add("magnet_contact", "closed", "")
		}
	}
	return rd, nil
}

// d2TempHumidityDecoder handles D2-01-12: the D2-14-xx temperature and
// humidity packing in a two-byte payload.
type d2TempHumidityDecoder struct{}

func (d2TempHumidityDecoder) RORG() byte      { return RORGVLD }
func (d2TempHumidityDecoder) Profile() string { return ProfileVLDTempHum }

func (d2TempHumidityDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return vldMatch(t, 0x01, 0x12, 2)
}

func (d2TempHumidityDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	data := t.Payload[vldHeaderSize:]

	tempRaw := uint16(data[0])<<2 | uint16(data[1])>>6
	humRaw := data[1] & 0x3F

	rd := newReading(t, ProfileVLDTempHum)
	rd.add("temperature_c", tempFromRaw10(tempRaw), "°C")
	rd.add("humidity_percent", humidityFromRaw6(humRaw), "%")
	return rd, nil
}

// d2SwitchDecoder handles D2-01-01 switch actuator status: one command
// byte, on/off in bit 0 and the output channel in bits 1..5.
type d2SwitchDecoder struct{}

func (d2SwitchDecoder) RORG() byte      { return RORGVLD }
func (d2SwitchDecoder) Profile() string { return ProfileSwitchActor }

func (d2SwitchDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return vldMatch(t, 0x01, 0x01, 1)
}

func (d2SwitchDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	cmd := t.Payload[vldHeaderSize]

	rd := newReading(t, ProfileSwitchActor)
	rd.add("on", cmd&0x01 != 0, "")
	rd.add("channel", int(cmd>>1)&0x1F, "")
	return rd, nil
}

// d2ShutterDecoder handles D2-05-00 blinds: position and slat angle as
// percentages 0..100.
type d2ShutterDecoder struct{}

func (d2ShutterDecoder) RORG() byte      { return RORGVLD }
func (d2ShutterDecoder) Profile() string { return ProfileShutter }

func (d2ShutterDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return vldMatch(t, 0x05, 0x00, 2)
}

func (d2ShutterDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	data := t.Payload[vldHeaderSize:]
	pos, angle := data[0], data[1]
	if pos > 100 || angle > 100 {
		return nil, fmt.Errorf("%w: D2-05-00 position=%d angle=%d above 100",
			ErrDecodeValue, pos, angle)
	}

	rd := newReading(t, ProfileShutter)
	rd.add("position_percent", float64(pos), "%")
	rd.add("angle_percent", float64(angle), "%")
	return rd, nil
}
