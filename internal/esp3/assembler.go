package esp3

import "sync/atomic"

// assemblerState tracks progress through the frame being reassembled.
type assemblerState int

const (
	// stateSeekSync discards bytes until a sync byte is seen.
	stateSeekSync assemblerState = iota

	// stateReadHeader accumulates the four header bytes plus header CRC.
	stateReadHeader

	// stateReadData accumulates data + optional + data CRC.
	stateReadData
)

// headerWithCRCSize is the number of bytes accumulated in stateReadHeader.
const headerWithCRCSize = headerSize + 1

// Assembler reassembles ESP3 frames from an arbitrary byte stream.
//
// Feed it whatever a serial read returns (single bytes, partial frames,
// several frames at once) and it emits candidate frames as they complete.
// State is buffered across calls, so partial reads are fine.
//
// Corruption handling: bytes before a sync byte are discarded and counted.
// If the header CRC does not match, the sync byte is dropped and the header
// bytes themselves are re-scanned for the next sync, so a corrupted frame
// costs at most a handful of bytes before the stream resynchronises.
//
// Feed must be called from a single goroutine; the counters are atomic so
// SyncDiscards and HeaderErrors can be read concurrently with it.
type Assembler struct {
	state   assemblerState
	buf     []byte
	header  Header
	hdrCRC  byte
	bodyLen int

	syncDiscards atomic.Uint64
	headerErrors atomic.Uint64
}

// NewAssembler creates an assembler ready to receive bytes.
func NewAssembler() *Assembler {
	return &Assembler{
		buf: make([]byte, 0, headerWithCRCSize),
	}
}

// Feed consumes a chunk of the byte stream and returns the candidate frames
// completed by it, in order. The returned candidates still need Validate;
// only the header CRC has been checked (it is needed to know the frame
// length); the data CRC has not.
func (a *Assembler) Feed(p []byte) []Candidate {
	var out []Candidate
	for _, b := range p {
		a.processByte(b, &out)
	}
	return out
}

// processByte advances the state machine by one byte.
func (a *Assembler) processByte(b byte, out *[]Candidate) {
	switch a.state {
	case stateSeekSync:
		if b == SyncByte {
			a.state = stateReadHeader
			a.buf = a.buf[:0]
		} else {
			a.syncDiscards.Add(1)
		}

	case stateReadHeader:
		a.buf = append(a.buf, b)
		if len(a.buf) < headerWithCRCSize {
			return
		}

		crc := a.buf[headerSize]
		if CRC8(a.buf[:headerSize]) != crc {
			// Corrupt header: drop the sync byte and re-scan the header
			// bytes for the next sync so a 0x55 inside them is not lost.
			a.headerErrors.Add(1)
			replay := make([]byte, len(a.buf))
			copy(replay, a.buf)
			a.state = stateSeekSync
			a.buf = a.buf[:0]
			for _, rb := range replay {
				a.processByte(rb, out)
			}
			return
		}

		a.header = parseHeader(a.buf[:headerSize])
		a.hdrCRC = crc
		a.bodyLen = int(a.header.DataLength) + int(a.header.OptionalLength) + 1
		a.buf = a.buf[:0]
		a.state = stateReadData

	case stateReadData:
		a.buf = append(a.buf, b)
		if len(a.buf) < a.bodyLen {
			return
		}

		body := make([]byte, len(a.buf))
		copy(body, a.buf)
		*out = append(*out, Candidate{
			Header:    a.header,
			HeaderCRC: a.hdrCRC,
			Body:      body,
		})
		a.buf = a.buf[:0]
		a.state = stateSeekSync
	}
}

// SyncDiscards returns the number of bytes discarded while hunting for a
// sync byte. Safe to call concurrently with Feed.
func (a *Assembler) SyncDiscards() uint64 {
	return a.syncDiscards.Load()
}

// HeaderErrors returns the number of header CRC failures that triggered a
// resync. Safe to call concurrently with Feed.
func (a *Assembler) HeaderErrors() uint64 {
	return a.headerErrors.Load()
}
