// Package device tracks the EnOcean devices seen by the gateway.
//
// The registry is an in-memory map keyed by the 4-byte sender ID. Devices
// enter it two ways: explicitly via Register (teach-in telegrams, manual
// configuration) or implicitly via RecordActivity when a data telegram
// arrives from an unseen sender, in which case the profile stays "unknown"
// until a teach-in or operator fills it in.
//
// Concurrency: one writer (the gateway's reader goroutine) and any number
// of concurrent readers (statistics, listings). A single RWMutex guards the
// map, and every returned Device is a deep copy so callers can never mutate
// registry state through a stale pointer.
//
// Liveness is computed at query time from LastSeen against a configurable
// trailing window; there is no background expiry and devices are never
// removed implicitly.
package device
