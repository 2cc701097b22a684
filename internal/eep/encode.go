package eep

import (
	"fmt"
	"math"

	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// Encoders produce the payload bytes a real device would transmit, used by
// the simulator and by round-trip tests against the decoders. Each encoder
// validates its physical ranges up front and never emits a partial payload.

// BuildRadioData assembles a full ERP1 data block from its parts:
// RORG, profile payload, sender ID, status byte.
func BuildRadioData(rorg byte, payload []byte, sender esp3.SenderID, status byte) []byte {
	data := make([]byte, 0, 1+len(payload)+len(sender)+1)
	data = append(data, rorg)
	data = append(data, payload...)
	data = append(data, sender[:]...)
	data = append(data, status)
	return data
}

// EncodeRockerPress returns the RPS data and status bytes for pressing the
// named button ("a".."d"). The press lands on the O side of the rocker.
func EncodeRockerPress(button string) (data, status byte, err error) {
	for i, name := range rockerButtons {
		if name == button {
			action := byte(i*2 + 1)
			return action<<rockerActionShift | rockerEnergyBow, 0x30, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: unknown rocker button %q", ErrEncodeRange, button)
}

// EncodeRockerRelease returns the RPS data and status bytes for letting go
// of the rocker.
func EncodeRockerRelease() (data, status byte) {
	return 0x00, 0x20
}

// EncodeContact returns the 1BS data byte for a D5-00-01 contact state.
func EncodeContact(closed bool) byte {
	b := byte(contactLRNBit)
	if closed {
		b |= contactStateBit
	}
	return b
}

// EncodeTempHumidity4BS returns the four data bytes of an A5-04-01
// telegram. Humidity 0..100 %, temperature 0..40 °C.
func EncodeTempHumidity4BS(humidity, temperature float64) ([]byte, error) {
	if humidity < 0 || humidity > 100 {
		return nil, fmt.Errorf("%w: humidity %.1f%%", ErrEncodeRange, humidity)
	}
	if temperature < 0 || temperature > 40 {
		return nil, fmt.Errorf("%w: temperature %.1f°C", ErrEncodeRange, temperature)
	}
	db2 := byte(math.Round(humidity * 250.0 / 100.0))
	db1 := byte(math.Round(temperature * 250.0 / 40.0))
	return []byte{0x00, db2, db1, fourBSLRNBit}, nil
}

// EncodeTemperature4BS returns the four data bytes of an A5-02-05
// telegram. Temperature 0..40 °C.
func EncodeTemperature4BS(temperature float64) ([]byte, error) {
	if temperature < 0 || temperature > 40 {
		return nil, fmt.Errorf("%w: temperature %.1f°C", ErrEncodeRange, temperature)
	}
	db1 := byte(math.Round(temperature * 255.0 / 40.0))
	return []byte{0x00, 0x00, db1, fourBSLRNBit}, nil
}

// EncodeIllumination4BS returns the four data bytes of an A5-06-01
// telegram. Illumination 0..60000 lx.
func EncodeIllumination4BS(lux float64) ([]byte, error) {
	if lux < 0 || lux > 60000 {
		return nil, fmt.Errorf("%w: illumination %.0f lx", ErrEncodeRange, lux)
	}
	db2 := byte(math.Round(lux * 255.0 / 60000.0))
	return []byte{0x00, db2, 0x00, fourBSLRNBit}, nil
}

// EncodeOccupancy4BS returns the four data bytes of an A5-07-01 telegram.
// Supply voltage 0..5 V; motion sets the PIR byte above the threshold.
func EncodeOccupancy4BS(occupied bool, voltage float64) ([]byte, error) {
	if voltage < 0 || voltage > 5 {
		return nil, fmt.Errorf("%w: supply voltage %.2f V", ErrEncodeRange, voltage)
	}
	db3 := byte(math.Round(voltage * 250.0 / 5.0))
	var db1 byte
	if occupied {
		db1 = 0xC8
	}
	return []byte{db3, 0x00, db1, fourBSLRNBit}, nil
}

// EncodeAirQuality4BS returns the four data bytes of an A5-09-04 telegram.
// Humidity 0..100 %, CO2 0..2550 ppm, temperature 0..51 °C.
func EncodeAirQuality4BS(humidity, co2, temperature float64) ([]byte, error) {
	if humidity < 0 || humidity > 100 {
		return nil, fmt.Errorf("%w: humidity %.1f%%", ErrEncodeRange, humidity)
	}
	if co2 < 0 || co2 > 2550 {
		return nil, fmt.Errorf("%w: CO2 %.0f ppm", ErrEncodeRange, co2)
	}
	if temperature < 0 || temperature > 51 {
		return nil, fmt.Errorf("%w: temperature %.1f°C", ErrEncodeRange, temperature)
	}
	db3 := byte(math.Round(humidity * 2.0))
	db2 := byte(math.Round(co2 / 10.0))
	db1 := byte(math.Round(temperature * 5.0))
	return []byte{db3, db2, db1, fourBSLRNBit}, nil
}

// EncodeTeachIn4BS returns the four data bytes of a variation-2 4BS
// teach-in announcing FUNC/TYPE and a manufacturer ID (11 bits).
func EncodeTeachIn4BS(fn, ty byte, mfg int) []byte {
	db3 := fn<<2 | ty>>5
	db2 := ty<<3 | byte(mfg>>8)&0x07
	db1 := byte(mfg)
	return []byte{db3, db2, db1, fourBSLRNTypeBit}
}

// MultiSensorValues carries the physical quantities of a D2-14-4x
// multi-sensor telegram.
type MultiSensorValues struct {
	TemperatureC    float64 // −40..+60
	HumidityPercent float64 // 0..100
	IlluminationLux float64 // 0..100000
	AccelXG         float64 // −2.5..+2.5
	AccelYG         float64
	AccelZG         float64
	MagnetOpen      bool // D2-14-41 only
}

// EncodeMultiSensor returns the full VLD payload (identification header
// plus nine data bytes) for D2-14-41 (withMagnet) or D2-14-40.
func EncodeMultiSensor(v MultiSensorValues, withMagnet bool, mfg byte) ([]byte, error) {
	tempRaw, err := tempToRaw10(v.TemperatureC)
	if err != nil {
		return nil, err
	}
	humRaw, err := humidityToRaw6(v.HumidityPercent)
	if err != nil {
		return nil, err
	}
	illumRaw, err := illuminationToRaw16(v.IlluminationLux)
	if err != nil {
		return nil, err
	}
	ax, err := accelToRaw(v.AccelXG)
	if err != nil {
		return nil, err
	}
	ay, err := accelToRaw(v.AccelYG)
	if err != nil {
		return nil, err
	}
	az, err := accelToRaw(v.AccelZG)
	if err != nil {
		return nil, err
	}

	ty := byte(0x40)
	if withMagnet {
		ty = 0x41
	}
	var magnet byte
	if withMagnet && v.MagnetOpen {
		magnet = 0x01
	}

	return []byte{
		0x14, ty, mfg,
		byte(tempRaw >> 2),
		byte(tempRaw&0x03)<<6 | humRaw,
		byte(illumRaw >> 8), byte(illumRaw),
		ax, ay, az,
		0x00, // reserved
		magnet,
	}, nil
}

// EncodeVLDTempHumidity returns the D2-01-12 payload for a temperature and
// humidity pair.
func EncodeVLDTempHumidity(temperature, humidity float64, mfg byte) ([]byte, error) {
	tempRaw, err := tempToRaw10(temperature)
	if err != nil {
		return nil, err
	}
	humRaw, err := humidityToRaw6(humidity)
	if err != nil {
		return nil, err
	}
	return []byte{
		0x01, 0x12, mfg,
		byte(tempRaw >> 2),
		byte(tempRaw&0x03)<<6 | humRaw,
	}, nil
}

// EncodeSwitch returns the D2-01-01 payload for an actuator channel state.
// Channels 0..30; 31 addresses all channels.
func EncodeSwitch(on bool, channel int, mfg byte) ([]byte, error) {
	if channel < 0 || channel > 31 {
		return nil, fmt.Errorf("%w: channel %d", ErrEncodeRange, channel)
	}
	cmd := byte(channel) << 1
	if on {
		cmd |= 0x01
	}
	return []byte{0x01, 0x01, mfg, cmd}, nil
}

// EncodeShutter returns the D2-05-00 payload for a blind position and slat
// angle, both 0..100 %.
func EncodeShutter(position, angle float64, mfg byte) ([]byte, error) {
	if position < 0 || position > 100 || angle < 0 || angle > 100 {
		return nil, fmt.Errorf("%w: position %.0f angle %.0f", ErrEncodeRange, position, angle)
	}
	return []byte{
		0x05, 0x00, mfg,
		byte(math.Round(position)),
		byte(math.Round(angle)),
	}, nil
}

// EncodeUTE returns the D4 universal teach-in payload announcing the given
// profile and manufacturer.
func EncodeUTE(rorg, fn, ty byte, mfg int, channels byte) []byte {
	return []byte{
		0xA0, // bidirectional teach-in request
		channels,
		byte(mfg),
		byte(mfg>>8) & 0x07,
		ty, fn, rorg,
	}
}

// Inverse raw codecs for the shared D2 field packings.

func tempToRaw10(t float64) (uint16, error) {
	if t < -40 || t > 60 {
		return 0, fmt.Errorf("%w: temperature %.1f°C", ErrEncodeRange, t)
	}
	return uint16(math.Round((t + 40.0) * 1023.0 / 100.0)), nil
}

func humidityToRaw6(h float64) (byte, error) {
	if h < 0 || h > 100 {
		return 0, fmt.Errorf("%w: humidity %.1f%%", ErrEncodeRange, h)
	}
	return byte(math.Round(h * 63.0 / 100.0)), nil
}

func illuminationToRaw16(lx float64) (uint16, error) {
	if lx < 0 || lx > 100000 {
		return 0, fmt.Errorf("%w: illumination %.0f lx", ErrEncodeRange, lx)
	}
	return uint16(math.Round(lx * 65535.0 / 100000.0)), nil
}

func accelToRaw(g float64) (byte, error) {
	if g < -2.5 || g > 2.5 {
		return 0, fmt.Errorf("%w: acceleration %.2f g", ErrEncodeRange, g)
	}
	return byte(math.Round((g + 2.5) * 255.0 / 5.0)), nil
}
