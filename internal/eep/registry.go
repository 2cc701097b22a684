package eep

import (
	"encoding/hex"
	"fmt"

	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// Decoder decodes one EEP profile's payloads into Readings.
//
// CanDecode must be cheap and side-effect free: it is called on every
// candidate in a RORG bucket during dispatch. Decode may assume CanDecode
// returned true for the same telegram.
type Decoder interface {
	// RORG returns the telegram family this decoder handles.
	RORG() byte

	// Profile returns the EEP tag, e.g. "A5-04-01".
	Profile() string

	// CanDecode reports whether this decoder claims the telegram.
	CanDecode(t *esp3.RadioTelegram) bool

	// Decode produces a complete Reading or an error. Never partial results.
	Decode(t *esp3.RadioTelegram) (*Reading, error)
}

// Registry dispatches radio telegrams to profile decoders by RORG.
//
// Decoders are bucketed per RORG byte and tried in registration order, so
// registration order is the tiebreak for families whose payloads are
// structurally ambiguous (all 4BS data telegrams are four bytes). A profile
// hint, when the caller knows the sender's taught-in EEP, short-circuits the
// scan. The registry is not safe for concurrent registration; register
// everything at startup, then Decode freely from any goroutine.
type Registry struct {
	buckets map[byte][]Decoder
}

// NewRegistry returns an empty registry. Most callers want DefaultRegistry.
func NewRegistry() *Registry {
	return &Registry{buckets: make(map[byte][]Decoder)}
}

// DefaultRegistry returns a registry with all built-in profile decoders.
// Teach-in decoders are registered ahead of data decoders within each
// bucket so profile announcements are never misread as sensor data.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Teach-in first.
	r.Register(&fourBSTeachInDecoder{})
	r.Register(&uteDecoder{})

	// RPS and 1BS.
	r.Register(&rockerDecoder{})
	r.Register(&contactDecoder{})

	// 4BS data profiles. Order matters only when no hint is available;
	// A5-04-01 leads as the most common multi-field sensor.
	r.Register(&a5TempHumidityDecoder{})
	r.Register(&a5TemperatureDecoder{})
	r.Register(&a5IlluminationDecoder{})
	r.Register(&a5OccupancyDecoder{})
	r.Register(&a5AirQualityDecoder{})

	// VLD profiles self-select on FUNC/TYPE bytes.
	r.Register(&d2MultiSensorDecoder{withMagnet: true})
	r.Register(&d2MultiSensorDecoder{withMagnet: false})
	r.Register(&d2TempHumidityDecoder{})
	r.Register(&d2SwitchDecoder{})
	r.Register(&d2ShutterDecoder{})

	return r
}

// Register appends a decoder to its RORG bucket.
func (r *Registry) Register(d Decoder) {
	r.buckets[d.RORG()] = append(r.buckets[d.RORG()], d)
}

// Profiles returns the EEP tags registered for a RORG, in registration
// order. Used to populate candidate lists on unknown-device records.
func (r *Registry) Profiles(rorg byte) []string {
	bucket := r.buckets[rorg]
	out := make([]string, 0, len(bucket))
	for _, d := range bucket {
		out = append(out, d.Profile())
	}
	return out
}

// Decode dispatches a telegram to the first claiming decoder.
//
// Parameters:
//   - t: a parsed radio telegram
//   - hint: the sender's known EEP tag ("" when unknown); a hinted decoder
//     that claims the telegram wins over registration order
//
// Returns an unknown-device Reading (never nil, never an error) when no
// decoder claims the telegram, so unrecognised hardware surfaces in the
// discovery workflow instead of vanishing. Errors come only from claimed
// telegrams with malformed field data.
func (r *Registry) Decode(t *esp3.RadioTelegram, hint string) (*Reading, error) {
	bucket := r.buckets[t.RORG]

	if hint != "" && hint != ProfileUnknown {
		for _, d := range bucket {
			if d.Profile() == hint && d.CanDecode(t) {
				return d.Decode(t)
			}
		}
	}

	for _, d := range bucket {
		if d.CanDecode(t) {
			return d.Decode(t)
		}
	}

	return r.unknownReading(t), nil
}

// unknownReading builds the discovery record for an unclaimed telegram:
// raw bytes plus every registered profile for the same RORG as candidates.
func (r *Registry) unknownReading(t *esp3.RadioTelegram) *Reading {
	rd := newReading(t, ProfileUnknown)
	rd.add("rorg", fmt.Sprintf("0x%02X", t.RORG), "")
	rd.add("raw", hex.EncodeToString(t.Payload), "")
	if candidates := r.Profiles(t.RORG); len(candidates) > 0 {
		rd.add("eep_candidates", candidates, "")
	}
	return rd
}
