package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-enocean/internal/device"
	"github.com/nerrad567/gray-logic-enocean/internal/eep"
	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// Defaults for pipeline tuning.
const (
	// defaultQueueSize is the reading queue depth between reader and
	// publisher.
	defaultQueueSize = 256

	// defaultPublishTimeout bounds a single sink publish.
	defaultPublishTimeout = 5 * time.Second

	// readBufferSize is the chunk size for source reads.
	readBufferSize = 256

	// enqueueWait is how long the reader blocks on a full queue before
	// evicting the oldest reading.
	enqueueWait = 50 * time.Millisecond
)

// Sink receives decoded readings. Implementations must be safe for use
// from the publisher goroutine and should honour the context deadline.
type Sink interface {
	Publish(ctx context.Context, r *eep.Reading) error
}

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds pipeline tuning.
type Config struct {
	// QueueSize is the reading queue depth. Default: 256.
	QueueSize int

	// PublishTimeout bounds a single sink publish. Default: 5 seconds.
	PublishTimeout time.Duration

	// CRCStrict controls how loudly payload CRC failures are reported.
	// The frame is dropped either way; strict logs at warn, lenient at
	// debug for noisy radio environments.
	CRCStrict bool
}

// Stats is a snapshot of pipeline counters. It marshals as the pipeline
// section of the bridge health report.
type Stats struct {
	FramesRx        uint64 `json:"frames_rx"`         // candidates emitted by the assembler
	SyncDiscards    uint64 `json:"sync_discards"`     // bytes discarded hunting for sync
	HeaderCRCErrors uint64 `json:"header_crc_errors"` // headers rejected before a candidate existed
	DataCRCErrors   uint64 `json:"data_crc_errors"`   // candidates rejected on payload CRC
	LengthErrors    uint64 `json:"length_errors"`     // candidates rejected on length mismatch
	DecodeErrors    uint64 `json:"decode_errors"`     // claimed telegrams with malformed field data
	UnknownProfiles uint64 `json:"unknown_profiles"`  // readings published as discovery records
	TeachIns        uint64 `json:"teach_ins"`         // teach-in telegrams processed
	Published       uint64 `json:"published"`         // readings delivered to the sink
	PublishErrors   uint64 `json:"publish_errors"`    // sink failures (reading lost)
	Dropped         uint64 `json:"dropped"`           // readings evicted from a full queue
}

// Pipeline connects a byte source to a reading sink. One reader goroutine
// owns the source; one publisher goroutine owns the sink.
type Pipeline struct {
	cfg      Config
	source   io.ReadCloser
	sink     Sink
	devices  *device.Registry
	decoders *eep.Registry
	log      Logger

	asm     *esp3.Assembler
	running atomic.Bool

	// Statistics (atomic, read concurrently via Stats)
	framesRx        atomic.Uint64
	dataCRCErrors   atomic.Uint64
	lengthErrors    atomic.Uint64
	decodeErrors    atomic.Uint64
	unknownProfiles atomic.Uint64
	teachIns        atomic.Uint64
	published       atomic.Uint64
	publishErrors   atomic.Uint64
	dropped         atomic.Uint64
}

// New creates a pipeline.
//
// Parameters:
//   - cfg: tuning; zero values select defaults
//   - source: the byte stream (serial port, simulator, file)
//   - sink: reading destination
//   - devices: device registry, shared with external readers
//   - decoders: profile registry; nil selects eep.DefaultRegistry
//   - log: optional logger; nil disables logging
func New(cfg Config, source io.ReadCloser, sink Sink, devices *device.Registry,
	decoders *eep.Registry, log Logger) *Pipeline {

	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	if decoders == nil {
		decoders = eep.DefaultRegistry()
	}
	if log == nil {
		log = noopLogger{}
	}

	return &Pipeline{
		cfg:      cfg,
		source:   source,
		sink:     sink,
		devices:  devices,
		decoders: decoders,
		log:      log,
		asm:      esp3.NewAssembler(),
	}
}

// Run consumes the source until it ends or ctx is cancelled, then drains
// the queue and returns. A clean source EOF and context cancellation both
// return nil; read failures return an error wrapping ErrSourceUnavailable.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)

	queue := make(chan *eep.Reading, p.cfg.QueueSize)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.publishLoop(ctx, queue)
	}()

	// Unblock a pending Read on cancellation by closing the source.
	stopWatch := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			p.source.Close()
		case <-stopWatch:
		}
	}()

	err := p.readLoop(ctx, queue)
	close(stopWatch)
	close(queue)
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		FramesRx:        p.framesRx.Load(),
		SyncDiscards:    p.asm.SyncDiscards(),
		HeaderCRCErrors: p.asm.HeaderErrors(),
		DataCRCErrors:   p.dataCRCErrors.Load(),
		LengthErrors:    p.lengthErrors.Load(),
		DecodeErrors:    p.decodeErrors.Load(),
		UnknownProfiles: p.unknownProfiles.Load(),
		TeachIns:        p.teachIns.Load(),
		Published:       p.published.Load(),
		PublishErrors:   p.publishErrors.Load(),
		Dropped:         p.dropped.Load(),
	}
}

func (p *Pipeline) readLoop(ctx context.Context, queue chan *eep.Reading) error {
	buf := make([]byte, readBufferSize)
	for {
		n, err := p.source.Read(buf)
		if n > 0 {
			for _, c := range p.asm.Feed(buf[:n]) {
				p.framesRx.Add(1)
				p.handleCandidate(queue, c)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
	}
}

// handleCandidate runs one framed candidate through validation, parsing,
// decoding and registry bookkeeping. Failures are counted and skipped.
func (p *Pipeline) handleCandidate(queue chan *eep.Reading, c esp3.Candidate) {
	tg, err := esp3.Validate(c)
	if err != nil {
		switch {
		case errors.Is(err, esp3.ErrDataCRC):
			p.dataCRCErrors.Add(1)
			if p.cfg.CRCStrict {
				p.log.Warn("frame rejected", "reason", "data_crc", "error", err)
			} else {
				p.log.Debug("frame rejected", "reason", "data_crc", "error", err)
			}
		case errors.Is(err, esp3.ErrLengthMismatch):
			p.lengthErrors.Add(1)
			p.log.Warn("frame rejected", "reason", "length", "error", err)
		default:
			p.decodeErrors.Add(1)
			p.log.Warn("frame rejected", "error", err)
		}
		return
	}

	radio, err := esp3.ParseRadio(tg)
	if err != nil {
		if errors.Is(err, esp3.ErrNotRadio) {
			// Responses and events from the transceiver are expected
			// traffic, just not readings.
			p.log.Debug("non-radio packet skipped", "packet_type", tg.Header.PacketType)
			return
		}
		p.decodeErrors.Add(1)
		p.log.Warn("radio telegram rejected", "error", err)
		return
	}

	hint := p.devices.Profile(radio.Sender)
	reading, err := p.decoders.Decode(radio, hint)
	if err != nil {
		p.decodeErrors.Add(1)
		p.log.Warn("telegram decode failed",
			"sender", radio.Sender.String(), "error", err)
		return
	}

	_, created := p.devices.RecordActivity(radio.Sender, radio.SignalDBm)
	if created {
		p.log.Info("new device seen",
			"sender", radio.Sender.String(), "eep", reading.Profile)
	}

	if reading.TeachIn {
		p.teachIns.Add(1)
		if !reading.IsUnknown() {
			p.devices.Register(radio.Sender, reading.Profile, teachInMetadata(reading))
			p.log.Info("device taught in",
				"sender", radio.Sender.String(), "eep", reading.Profile)
		}
	}
	if reading.IsUnknown() {
		p.unknownProfiles.Add(1)
	}

	p.enqueue(queue, reading)
}

// teachInMetadata extracts the registry annotations a teach-in telegram
// carries alongside its profile.
func teachInMetadata(r *eep.Reading) map[string]string {
	f, ok := r.Field("manufacturer_id")
	if !ok {
		return nil
	}
	return map[string]string{"manufacturer_id": fmt.Sprint(f.Value)}
}

// enqueue pushes a reading. On a full queue it blocks briefly to give the
// publisher a chance to catch up, then evicts the oldest queued reading so
// the stream stays fresh under a stalled sink.
func (p *Pipeline) enqueue(queue chan *eep.Reading, r *eep.Reading) {
	select {
	case queue <- r:
		return
	default:
	}

	timer := time.NewTimer(enqueueWait)
	defer timer.Stop()
	select {
	case queue <- r:
		return
	case <-timer.C:
	}

	select {
	case old := <-queue:
		p.dropped.Add(1)
		p.log.Warn("publish queue full, dropping oldest reading",
			"sender", old.DeviceID.String(), "eep", old.Profile, "queue_size", p.cfg.QueueSize)
	default:
	}
	select {
	case queue <- r:
	default:
		p.dropped.Add(1)
		p.log.Warn("publish queue full, dropping reading",
			"sender", r.DeviceID.String(), "eep", r.Profile, "queue_size", p.cfg.QueueSize)
	}
}

// publishLoop drains the queue into the sink. It keeps draining after ctx
// cancellation so already-decoded readings are not lost, bounded per
// publish by the configured timeout.
func (p *Pipeline) publishLoop(ctx context.Context, queue <-chan *eep.Reading) {
	for r := range queue {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.PublishTimeout)
		err := p.sink.Publish(pubCtx, r)
		cancel()

		if err != nil {
			p.publishErrors.Add(1)
			p.log.Error("publish failed",
				"sender", r.DeviceID.String(), "eep", r.Profile, "error", err)
			continue
		}
		p.published.Add(1)
	}
}
