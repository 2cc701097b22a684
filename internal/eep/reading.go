package eep

import (
	"time"

	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// RORG bytes for the supported telegram families.
const (
	RORGRPS byte = 0xF6 // Repeated push-button (rocker switches)
	RORG1BS byte = 0xD5 // 1-byte sensors (contacts)
	RORG4BS byte = 0xA5 // 4-byte sensors
	RORGVLD byte = 0xD2 // Variable length data
	RORGUTE byte = 0xD4 // Universal teach-in
)

// EEP profile tags produced by the built-in decoders.
const (
	ProfileRocker        = "F6-02-01"
	ProfileContact       = "D5-00-01"
	ProfileTemperature   = "A5-02-05"
	ProfileTempHumidity  = "A5-04-01"
	ProfileIllumination  = "A5-06-01"
	ProfileOccupancy     = "A5-07-01"
	ProfileAirQuality    = "A5-09-04"
	ProfileMultiSensor   = "D2-14-41"
	ProfileMultiSensorNM = "D2-14-40"
	ProfileVLDTempHum    = "D2-01-12"
	ProfileSwitchActor   = "D2-01-01"
	ProfileShutter       = "D2-05-00"

	// ProfileUnknown tags readings for senders no registered decoder claims.
	ProfileUnknown = "unknown"
)

// Field is one named semantic value in a Reading, with its physical unit
// ("°C", "%", "lx", "g", or empty for dimensionless/boolean fields).
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// Reading is a fully decoded sensor or control reading.
//
// Invariant: a Reading is never partially populated; a decoder returns
// either a complete Reading or an error. Fields preserve the profile's
// declaration order.
type Reading struct {
	// DeviceID is the 4-byte sender ID of the transmitting device.
	DeviceID esp3.SenderID `json:"device_id"`

	// Profile is the EEP tag, e.g. "D2-14-41", or "unknown".
	Profile string `json:"eep_profile"`

	// Timestamp records when the telegram was decoded.
	Timestamp time.Time `json:"timestamp"`

	// Fields holds the named semantic values in profile order.
	Fields []Field `json:"fields"`

	// SignalDBm is the received signal strength (negative dBm, 0 if unknown).
	SignalDBm int `json:"signal_dbm"`

	// TeachIn marks profile-announcement telegrams (4BS teach-in, D4 UTE).
	TeachIn bool `json:"teach_in,omitempty"`
}

// Field returns the named field and whether it is present.
func (r *Reading) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Bool returns the named field's value as a bool, false if absent or not
// boolean.
func (r *Reading) Bool(name string) bool {
	f, ok := r.Field(name)
	if !ok {
		return false
	}
	v, _ := f.Value.(bool)
	return v
}

// Float returns the named field's value as a float64, 0 if absent or not
// numeric.
func (r *Reading) Float(name string) float64 {
	f, ok := r.Field(name)
	if !ok {
		return 0
	}
	v, _ := f.Value.(float64)
	return v
}

// String returns the named field's value as a string, "" if absent or not a
// string.
func (r *Reading) String(name string) string {
	f, ok := r.Field(name)
	if !ok {
		return ""
	}
	v, _ := f.Value.(string)
	return v
}

// IsUnknown reports whether this is an unknown-device record produced for a
// telegram no registered decoder claims.
func (r *Reading) IsUnknown() bool {
	return r.Profile == ProfileUnknown
}

// add appends a field, keeping declaration order.
func (r *Reading) add(name string, value any, unit string) {
	r.Fields = append(r.Fields, Field{Name: name, Value: value, Unit: unit})
}

// newReading builds the common envelope for a decoded telegram.
func newReading(t *esp3.RadioTelegram, profile string) *Reading {
	return &Reading{
		DeviceID:  t.Sender,
		Profile:   profile,
		Timestamp: time.Now().UTC(),
		SignalDBm: t.SignalDBm,
	}
}
