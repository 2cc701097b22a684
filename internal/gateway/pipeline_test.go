package gateway

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-enocean/internal/device"
	"github.com/nerrad567/gray-logic-enocean/internal/eep"
	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

var (
	rockerID = esp3.SenderID{0x78, 0x9A, 0xBC, 0xDE}
	sensorID = esp3.SenderID{0x01, 0x02, 0x03, 0x04}
)

// captureSink records published readings.
type captureSink struct {
	mu       sync.Mutex
	readings []*eep.Reading
}

func (s *captureSink) Publish(_ context.Context, r *eep.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, r)
	return nil
}

func (s *captureSink) all() []*eep.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*eep.Reading(nil), s.readings...)
}

// frame wraps an ERP1 data block in a complete ESP3 frame at −45 dBm.
func frame(t *testing.T, rorg byte, payload []byte, sender esp3.SenderID) []byte {
	t.Helper()
	return esp3.EncodeRadio(eep.BuildRadioData(rorg, payload, sender, 0x30), 0x2D)
}

func runPipeline(t *testing.T, stream []byte, devices *device.Registry) (*captureSink, Stats) {
	t.Helper()
	sink := &captureSink{}
	p := New(Config{}, io.NopCloser(bytes.NewReader(stream)), sink, devices, nil, nil)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sink, p.Stats()
}

func TestPipelineEndToEnd(t *testing.T) {
	var stream []byte
	stream = append(stream, 0x12, 0x34) // line noise before the first frame
	stream = append(stream, frame(t, eep.RORGRPS, []byte{0x70}, rockerID)...)

	// A frame with a flipped payload bit: rejected on data CRC, stream
	// continues.
	corrupt := frame(t, eep.RORGRPS, []byte{0x70}, rockerID)
	corrupt[6] ^= 0x01
	stream = append(stream, corrupt...)

	stream = append(stream, frame(t, eep.RORG4BS, eep.EncodeTeachIn4BS(0x04, 0x01, 0x2D), sensorID)...)

	data, err := eep.EncodeTempHumidity4BS(60.0, 20.0)
	if err != nil {
		t.Fatalf("EncodeTempHumidity4BS: %v", err)
	}
	stream = append(stream, frame(t, eep.RORG4BS, data, sensorID)...)

	devices := device.NewRegistry(0)
	sink, stats := runPipeline(t, stream, devices)

	readings := sink.all()
	if len(readings) != 3 {
		t.Fatalf("published %d readings, want 3", len(readings))
	}
	if readings[0].Profile != eep.ProfileRocker || !readings[0].Bool("pressed") {
		t.Errorf("reading 0 = %+v, want rocker press", readings[0])
	}
	if !readings[1].TeachIn {
		t.Error("reading 1 not a teach-in")
	}
	if readings[2].Profile != eep.ProfileTempHumidity {
		t.Errorf("reading 2 profile = %q, want %q", readings[2].Profile, eep.ProfileTempHumidity)
	}

	if stats.FramesRx != 4 {
		t.Errorf("FramesRx = %d, want 4", stats.FramesRx)
	}
	if stats.SyncDiscards != 2 {
		t.Errorf("SyncDiscards = %d, want 2", stats.SyncDiscards)
	}
	if stats.DataCRCErrors != 1 {
		t.Errorf("DataCRCErrors = %d, want 1", stats.DataCRCErrors)
	}
	if stats.TeachIns != 1 {
		t.Errorf("TeachIns = %d, want 1", stats.TeachIns)
	}
	if stats.Published != 3 {
		t.Errorf("Published = %d, want 3", stats.Published)
	}

	// The teach-in must have bound the sensor's profile.
	d := devices.Get(sensorID)
	if d == nil {
		t.Fatal("sensor not in registry")
	}
	if d.Profile != "A5-04-01" {
		t.Errorf("registry profile = %q, want A5-04-01", d.Profile)
	}
	if d.PacketCount != 2 {
		t.Errorf("PacketCount = %d, want 2", d.PacketCount)
	}
	if d.Metadata["manufacturer_id"] != "45" {
		t.Errorf("Metadata[manufacturer_id] = %q, want 45", d.Metadata["manufacturer_id"])
	}
}

func TestPipelineHintSelectsTaughtProfile(t *testing.T) {
	// Without a hint a 4BS data telegram decodes as the first registered
	// profile; after a teach-in it must decode as the announced one.
	var stream []byte
	stream = append(stream, frame(t, eep.RORG4BS, eep.EncodeTeachIn4BS(0x02, 0x05, 0x00), sensorID)...)
	stream = append(stream, frame(t, eep.RORG4BS, []byte{0x00, 0x00, 0x7F, 0x08}, sensorID)...)

	sink, _ := runPipeline(t, stream, device.NewRegistry(0))

	readings := sink.all()
	if len(readings) != 2 {
		t.Fatalf("published %d readings, want 2", len(readings))
	}
	if readings[1].Profile != eep.ProfileTemperature {
		t.Errorf("data reading profile = %q, want %q", readings[1].Profile, eep.ProfileTemperature)
	}
}

func TestPipelineUnknownProfilePublished(t *testing.T) {
	stream := frame(t, 0xAA, []byte{0xDE, 0xAD}, sensorID)

	devices := device.NewRegistry(0)
	sink, stats := runPipeline(t, stream, devices)

	readings := sink.all()
	if len(readings) != 1 {
		t.Fatalf("published %d readings, want 1", len(readings))
	}
	if !readings[0].IsUnknown() {
		t.Errorf("Profile = %q, want unknown", readings[0].Profile)
	}
	if stats.UnknownProfiles != 1 {
		t.Errorf("UnknownProfiles = %d, want 1", stats.UnknownProfiles)
	}

	d := devices.Get(sensorID)
	if d == nil {
		t.Fatal("unknown sender not auto-created in registry")
	}
	if d.Profile != eep.ProfileUnknown {
		t.Errorf("registry profile = %q, want unknown", d.Profile)
	}
}

// gateSink blocks every publish until released.
type gateSink struct {
	captureSink
	release chan struct{}
}

func (s *gateSink) Publish(ctx context.Context, r *eep.Reading) error {
	<-s.release
	return s.captureSink.Publish(ctx, r)
}

// warnCounter counts warn-level log calls.
type warnCounter struct {
	mu    sync.Mutex
	warns int
}

func (l *warnCounter) Debug(string, ...any) {}
func (l *warnCounter) Info(string, ...any)  {}
func (l *warnCounter) Error(string, ...any) {}
func (l *warnCounter) Warn(string, ...any) {
	l.mu.Lock()
	l.warns++
	l.mu.Unlock()
}

func (l *warnCounter) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warns
}

func TestPipelineBackpressureDropsOldest(t *testing.T) {
	// Three data frames against a queue of one and a stalled sink: the
	// reader must wait briefly, then evict with a logged warning rather
	// than block forever or drop silently.
	var stream []byte
	for i := 0; i < 3; i++ {
		data, err := eep.EncodeTempHumidity4BS(50.0+float64(i), 20.0)
		if err != nil {
			t.Fatalf("EncodeTempHumidity4BS: %v", err)
		}
		stream = append(stream, frame(t, eep.RORG4BS, data, sensorID)...)
	}

	sink := &gateSink{release: make(chan struct{})}
	log := &warnCounter{}
	p := New(Config{QueueSize: 1}, io.NopCloser(bytes.NewReader(stream)),
		sink, device.NewRegistry(0), nil, log)

	go func() {
		time.Sleep(500 * time.Millisecond)
		close(sink.release)
	}()
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	stats := p.Stats()
	if stats.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", stats.Dropped)
	}
	if stats.Published != 2 {
		t.Errorf("Published = %d, want 2", stats.Published)
	}
	if log.count() == 0 {
		t.Error("eviction was not logged at warn level")
	}
}

// trickleSource emits its stream one byte at a time, yielding between
// reads so a concurrent Stats poll interleaves with the reader.
type trickleSource struct {
	data []byte
	pos  int
}

func (s *trickleSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	time.Sleep(time.Millisecond)
	p[0] = s.data[s.pos]
	s.pos++
	return 1, nil
}

func (s *trickleSource) Close() error { return nil }

func TestPipelineStatsDuringRun(t *testing.T) {
	// Stats is documented as callable at any time; poll it continuously
	// while the reader is counting sync discards and frames.
	var stream []byte
	stream = append(stream, 0x12, 0x34)
	stream = append(stream, frame(t, eep.RORGRPS, []byte{0x70}, rockerID)...)
	stream = append(stream, 0x56)
	stream = append(stream, frame(t, eep.RORGRPS, []byte{0x00}, rockerID)...)

	p := New(Config{}, &trickleSource{data: stream}, &captureSink{},
		device.NewRegistry(0), nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for p.Stats().FramesRx < 2 {
			time.Sleep(time.Millisecond)
		}
	}()

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	<-done

	stats := p.Stats()
	if stats.SyncDiscards != 3 {
		t.Errorf("SyncDiscards = %d, want 3", stats.SyncDiscards)
	}
	if stats.FramesRx != 2 {
		t.Errorf("FramesRx = %d, want 2", stats.FramesRx)
	}
}

// blockingSource blocks Read until closed, then reports EOF.
type blockingSource struct {
	once sync.Once
	ch   chan struct{}
}

func newBlockingSource() *blockingSource {
	return &blockingSource{ch: make(chan struct{})}
}

func (s *blockingSource) Read([]byte) (int, error) {
	<-s.ch
	return 0, io.EOF
}

func (s *blockingSource) Close() error {
	s.once.Do(func() { close(s.ch) })
	return nil
}

func TestPipelineCancelUnblocksRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(Config{}, newBlockingSource(), &captureSink{}, device.NewRegistry(0), nil, nil)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run after cancel = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
