// Package esp3 implements the EnOcean Serial Protocol v3 framing layer.
//
// ESP3 is the byte-framing protocol spoken by EnOcean transceiver modules
// (TCM 310 and friends) over a serial link. Every packet has the shape:
//
//	┌──────┬────────────────────────────────┬───────┬──────────────────┬───────┐
//	│ 0x55 │ data_len(2) opt_len(1) type(1) │ CRC8H │ data … optional …│ CRC8D │
//	└──────┴────────────────────────────────┴───────┴──────────────────┴───────┘
//
// CRC8H covers the four header bytes; CRC8D covers the data and optional
// sections. Both use the ESP3 CRC8 (polynomial 0x07, init 0x00, no
// reflection).
//
// # Key Responsibilities
//
//   - Reassemble frames from an arbitrary, possibly corrupted byte stream
//     (Assembler: tolerates partial reads and resynchronises on the sync byte)
//   - Validate header and data checksums (Validate)
//   - Parse RADIO_ERP1 packets into their EEP payload, sender ID, status and
//     signal quality (ParseRadio)
//   - Encode outgoing packets with freshly computed checksums (Encode,
//     EncodeRadio: used by the simulator and round-trip tests)
//
// A Telegram is only constructible through Validate, so any Telegram value in
// the system is known to have passed both CRC checks. Semantic decoding of
// the payload is the job of the eep package.
package esp3
