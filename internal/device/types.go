package device

import (
	"time"

	"github.com/nerrad567/gray-logic-enocean/internal/eep"
	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// Device is one EnOcean transmitter known to the gateway.
type Device struct {
	// ID is the 4-byte sender ID, unique per radio chip.
	ID esp3.SenderID `json:"id"`

	// Profile is the device's EEP tag, "unknown" until taught in.
	Profile string `json:"eep_profile"`

	// Name is an optional operator-assigned label.
	Name string `json:"name,omitempty"`

	// FirstSeen is when the registry first recorded this sender.
	FirstSeen time.Time `json:"first_seen"`

	// LastSeen is updated on every received telegram.
	LastSeen time.Time `json:"last_seen"`

	// PacketCount is the number of telegrams received from this sender.
	PacketCount uint64 `json:"packet_count"`

	// SignalDBm is the signal strength of the most recent telegram.
	SignalDBm int `json:"signal_dbm"`

	// Metadata holds free-form operator annotations (location, notes).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Known reports whether the device has a taught-in or configured profile.
func (d *Device) Known() bool {
	return d.Profile != "" && d.Profile != eep.ProfileUnknown
}

// deepCopy returns an isolated copy, cloning the metadata map.
func (d *Device) deepCopy() *Device {
	cp := *d
	if d.Metadata != nil {
		cp.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// Statistics summarises the registry at a point in time.
type Statistics struct {
	// Total is the number of devices ever seen.
	Total int `json:"total"`

	// Active is the number of devices heard within the activity window.
	Active int `json:"active"`

	// ByProfile counts devices per EEP tag, "unknown" included.
	ByProfile map[string]int `json:"by_profile"`
}
