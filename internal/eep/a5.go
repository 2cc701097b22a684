package eep

import (
	"fmt"

	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// 4BS payloads are four data bytes, conventionally named DB3..DB0 with DB3
// transmitted first. DB0 carries the control bits:
//
//	bit 3  LRN (0 = teach-in, 1 = data)
//	bit 7  LRN type, teach-in only (1 = telegram carries EEP + manufacturer)
const (
	fourBSLRNBit     = 0x08
	fourBSLRNTypeBit = 0x80
)

// fourBS splits a 4BS payload into its conventional data bytes.
func fourBS(t *esp3.RadioTelegram) (db3, db2, db1, db0 byte) {
	return t.Payload[0], t.Payload[1], t.Payload[2], t.Payload[3]
}

func is4BSData(t *esp3.RadioTelegram) bool {
	return len(t.Payload) == 4 && t.Payload[3]&fourBSLRNBit != 0
}

// fourBSTeachInDecoder handles 4BS teach-in telegrams (LRN bit clear).
// Variation 2 packs the announced profile into DB3..DB1:
//
//	FUNC = DB3 >> 2
//	TYPE = (DB3 & 0x03) << 5 | DB2 >> 3
//	MFG  = (DB2 & 0x07) << 8 | DB1
type fourBSTeachInDecoder struct{}

func (fourBSTeachInDecoder) RORG() byte      { return RORG4BS }
func (fourBSTeachInDecoder) Profile() string { return "A5-TEACH-IN" }

func (fourBSTeachInDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return len(t.Payload) == 4 && t.Payload[3]&fourBSLRNBit == 0
}

func (fourBSTeachInDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	db3, db2, db1, db0 := fourBS(t)

	if db0&fourBSLRNTypeBit == 0 {
		// Variation 1: announcement without EEP data. The device exists but
		// its profile stays unknown until configured manually.
		rd := newReading(t, ProfileUnknown)
		rd.TeachIn = true
		rd.add("teach_in_variation", 1, "")
		return rd, nil
	}

	fn := db3 >> 2
	ty := (db3&0x03)<<5 | db2>>3
	mfg := int(db2&0x07)<<8 | int(db1)

	rd := newReading(t, fmt.Sprintf("A5-%02X-%02X", fn, ty))
	rd.TeachIn = true
	rd.add("eep", rd.Profile, "")
	rd.add("manufacturer_id", mfg, "")
	return rd, nil
}

// a5TemperatureDecoder handles A5-02-05: temperature in DB1, 0..40 °C.
type a5TemperatureDecoder struct{}

func (a5TemperatureDecoder) RORG() byte      { return RORG4BS }
func (a5TemperatureDecoder) Profile() string { return ProfileTemperature }

func (a5TemperatureDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return is4BSData(t)
}

func (a5TemperatureDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	_, _, db1, _ := fourBS(t)

	rd := newReading(t, ProfileTemperature)
	rd.add("temperature_c", float64(db1)*40.0/255.0, "°C")
	return rd, nil
}

// a5TempHumidityDecoder handles A5-04-01: humidity in DB2 (0..250 → 0..100 %),
// temperature in DB1 (0..250 → 0..40 °C).
type a5TempHumidityDecoder struct{}

func (a5TempHumidityDecoder) RORG() byte      { return RORG4BS }
func (a5TempHumidityDecoder) Profile() string { return ProfileTempHumidity }

func (a5TempHumidityDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return is4BSData(t)
}

func (a5TempHumidityDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	_, db2, db1, _ := fourBS(t)
	if db2 > 250 || db1 > 250 {
		return nil, fmt.Errorf("%w: A5-04-01 raw value above 250 (hum=%d temp=%d)",
			ErrDecodeValue, db2, db1)
	}

	rd := newReading(t, ProfileTempHumidity)
	rd.add("humidity_percent", float64(db2)*100.0/250.0, "%")
	rd.add("temperature_c", float64(db1)*40.0/250.0, "°C")
	return rd, nil
}

// a5IlluminationDecoder handles A5-06-01: illumination in DB2, 0..60000 lx.
type a5IlluminationDecoder struct{}

func (a5IlluminationDecoder) RORG() byte      { return RORG4BS }
func (a5IlluminationDecoder) Profile() string { return ProfileIllumination }

func (a5IlluminationDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return is4BSData(t)
}

func (a5IlluminationDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	_, db2, _, _ := fourBS(t)

	rd := newReading(t, ProfileIllumination)
	rd.add("illumination_lux", float64(db2)*60000.0/255.0, "lx")
	return rd, nil
}

// a5OccupancyDecoder handles A5-07-01: PIR status in DB1 (≥128 = motion),
// supply voltage in DB3 (0..250 → 0..5 V).
type a5OccupancyDecoder struct{}

func (a5OccupancyDecoder) RORG() byte      { return RORG4BS }
func (a5OccupancyDecoder) Profile() string { return ProfileOccupancy }

func (a5OccupancyDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return is4BSData(t)
}

func (a5OccupancyDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	db3, _, db1, _ := fourBS(t)
	if db3 > 250 {
		return nil, fmt.Errorf("%w: A5-07-01 supply voltage raw %d above 250",
			ErrDecodeValue, db3)
	}

	rd := newReading(t, ProfileOccupancy)
	rd.add("occupied", db1 >= 128, "")
	rd.add("supply_voltage_v", float64(db3)*5.0/250.0, "V")
	return rd, nil
}

// a5AirQualityDecoder handles A5-09-04: humidity in DB3 (0..200 → 0..100 %),
// CO2 in DB2 (0..255 → 0..2550 ppm), temperature in DB1 (0..255 → 0..51 °C).
type a5AirQualityDecoder struct{}

func (a5AirQualityDecoder) RORG() byte      { return RORG4BS }
func (a5AirQualityDecoder) Profile() string { return ProfileAirQuality }

func (a5AirQualityDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return is4BSData(t)
}

func (a5AirQualityDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	db3, db2, db1, _ := fourBS(t)
	if db3 > 200 {
		return nil, fmt.Errorf("%w: A5-09-04 humidity raw %d above 200",
			ErrDecodeValue, db3)
	}

	rd := newReading(t, ProfileAirQuality)
	rd.add("humidity_percent", float64(db3)*0.5, "%")
	rd.add("co2_ppm", float64(db2)*10.0, "ppm")
	rd.add("temperature_c", float64(db1)*0.2, "°C")
	return rd, nil
}
