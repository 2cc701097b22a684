// Package gateway wires the receive pipeline together: raw bytes in,
// published readings out.
//
//	┌────────┐   ┌───────────┐   ┌──────────┐   ┌─────────────┐
//	│ Source │──▶│ Assembler │──▶│ Validate │──▶│ eep.Decode  │
//	└────────┘   └───────────┘   └──────────┘   └──────┬──────┘
//	 serial /      sync + CRC      reject bad          │
//	 simulator     framing         frames       ┌──────▼──────┐   ┌──────┐
//	                                            │ device reg. │──▶│ Sink │
//	                                            └─────────────┘   └──────┘
//	                                             teach-in +        MQTT /
//	                                             activity          collector
//
// One reader goroutine owns the source and the assembler; decoded readings
// cross a bounded queue to a single publisher goroutine so a slow sink can
// never stall frame assembly. When the queue fills, the oldest queued
// reading is dropped and counted, keeping the stream fresh.
//
// Corrupt input never stops the pipeline: CRC failures, length mismatches
// and malformed profile data are counted, logged and skipped, and the
// assembler resynchronises on the next sync byte. Only source exhaustion
// (or context cancellation) ends Run.
package gateway
