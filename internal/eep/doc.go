// Package eep implements EnOcean Equipment Profile decoding and encoding.
//
// An EEP (e.g. "D2-14-41") defines the semantic layout of a telegram's
// payload: which bits mean temperature, which mean humidity, and how the raw
// values scale to physical units. This package turns the framed payloads
// produced by the esp3 package into typed Readings, and, for the simulator
// and round-trip tests, turns Readings back into bit-exact payloads.
//
// # Architecture
//
//	esp3.RadioTelegram ──▶ Registry.Decode ──▶ Reading
//	                         │
//	                         ├── RORG bucket (F6, D5, A5, D2, D4)
//	                         └── FUNC/TYPE match within the D2 bucket
//
// Decoders are registered at startup in a deterministic order; dispatch
// tries each candidate's CanDecode (cheap, side-effect free) and uses the
// first match. A sender-profile hint from the device registry takes
// precedence inside a bucket, which is how ambiguous fixed-length families
// (all 4BS payloads look alike) resolve once a device has taught in.
//
// # Supported profiles
//
//   - F6-02-01/02 rocker switches (RPS)
//   - D5-00-01 magnet contact (1BS)
//   - A5-02-05, A5-04-01, A5-06-01, A5-07-01, A5-09-04 sensors (4BS),
//     plus 4BS teach-in (variation 2)
//   - D2-14-41 / D2-14-40 multi-sensors, D2-01-12 temp+humidity,
//     D2-01-01 switch actuator, D2-05-00 shutter (VLD)
//   - D4 universal teach-in
//
// Unknown RORG/FUNC/TYPE combinations decode to a structured unknown-device
// Reading carrying the raw bytes and best-guess profile candidates, feeding
// the discovery workflow instead of being dropped.
package eep
