package device

import (
	"sort"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-enocean/internal/eep"
	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// DefaultActivityWindow is the trailing window used for the Active count
// when none is configured. Battery-less sensors can sit quiet for a while,
// so the default is generous.
const DefaultActivityWindow = 24 * time.Hour

// Registry is the in-memory device table. Safe for one writer and many
// concurrent readers.
type Registry struct {
	mu      sync.RWMutex
	devices map[esp3.SenderID]*Device

	window time.Duration

	// nowFunc is replaceable in tests.
	nowFunc func() time.Time
}

// NewRegistry creates an empty registry.
//
// Parameters:
//   - window: trailing activity window for Statistics; <= 0 selects
//     DefaultActivityWindow
func NewRegistry(window time.Duration) *Registry {
	if window <= 0 {
		window = DefaultActivityWindow
	}
	return &Registry{
		devices: make(map[esp3.SenderID]*Device),
		window:  window,
		nowFunc: time.Now,
	}
}

// Register adds or updates a device with a known profile. Idempotent: a
// repeat teach-in for the same sender refreshes the profile and merges the
// metadata without resetting FirstSeen or PacketCount. An empty profile is
// recorded as "unknown"; a nil metadata map leaves existing entries alone.
func (r *Registry) Register(id esp3.SenderID, profile string, metadata map[string]string) *Device {
	if profile == "" {
		profile = eep.ProfileUnknown
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	d, ok := r.devices[id]
	if !ok {
		d = &Device{
			ID:        id,
			Profile:   profile,
			FirstSeen: now,
		}
		r.devices[id] = d
	} else if profile != eep.ProfileUnknown {
		// Never downgrade a taught-in profile to unknown.
		d.Profile = profile
	}

	if len(metadata) > 0 {
		if d.Metadata == nil {
			d.Metadata = make(map[string]string, len(metadata))
		}
		for k, v := range metadata {
			d.Metadata[k] = v
		}
	}
	d.LastSeen = now
	return d.deepCopy()
}

// RecordActivity notes a received telegram from a sender, creating the
// device with an unknown profile when it has never been seen. Returns the
// updated device and whether it was newly created.
func (r *Registry) RecordActivity(id esp3.SenderID, signalDBm int) (*Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	d, ok := r.devices[id]
	if !ok {
		d = &Device{
			ID:        id,
			Profile:   eep.ProfileUnknown,
			FirstSeen: now,
		}
		r.devices[id] = d
	}

	d.LastSeen = now
	d.PacketCount++
	d.SignalDBm = signalDBm
	return d.deepCopy(), !ok
}

// SetName attaches an operator label to a known device. Returns false when
// the sender has never been seen.
func (r *Registry) SetName(id esp3.SenderID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return false
	}
	d.Name = name
	return true
}

// SetMetadata stores a free-form annotation on a known device.
func (r *Registry) SetMetadata(id esp3.SenderID, key, value string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return false
	}
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
	d.Metadata[key] = value
	return true
}

// Get returns a copy of the device, or nil when the sender is unseen.
func (r *Registry) Get(id esp3.SenderID) *Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return nil
	}
	return d.deepCopy()
}

// Profile returns the sender's EEP tag, "" when unseen. This is the decode
// hint lookup on the hot path, so it avoids the deep copy Get performs.
func (r *Registry) Profile(id esp3.SenderID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return ""
	}
	return d.Profile
}

// List returns copies of all devices, ordered by sender ID for stable
// output.
func (r *Registry) List() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d.deepCopy())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Key() < out[j].ID.Key()
	})
	return out
}

// Statistics computes registry totals at query time. Active counts devices
// with LastSeen inside the trailing activity window.
func (r *Registry) Statistics() Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Statistics{
		Total:     len(r.devices),
		ByProfile: make(map[string]int),
	}
	cutoff := r.nowFunc().Add(-r.window)
	for _, d := range r.devices {
		if d.LastSeen.After(cutoff) {
			stats.Active++
		}
		stats.ByProfile[d.Profile]++
	}
	return stats
}
