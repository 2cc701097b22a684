// Gray Logic EnOcean Simulator
//
// enoceansim emits a realistic ESP3 byte stream for a small fleet of
// simulated devices: teach-ins first, then periodic data telegrams with
// drifting sensor values. It writes raw frames to stdout (pipe it into the
// bridge with GRAYLOGIC_SERIAL_DEVICE=-) or to a serial device, and can
// inject corruption to exercise CRC rejection and resynchronisation.
//
// Usage:
//
//	enoceansim -rate 2 -count 100 -corrupt 0.05 | enoceanbridge
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/nerrad567/gray-logic-enocean/internal/eep"
	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
	"github.com/nerrad567/gray-logic-enocean/internal/transport"
)

func main() {
	var (
		rate    = flag.Float64("rate", 1.0, "telegrams per second")
		count   = flag.Int("count", 0, "telegrams to send (0 = run until interrupted)")
		corrupt = flag.Float64("corrupt", 0.0, "fraction of frames to corrupt (0..1)")
		device  = flag.String("device", "-", "serial device to write to, or - for stdout")
		seed    = flag.Int64("seed", 0, "random seed (0 = time-based)")
	)
	flag.Parse()

	if err := run(*rate, *count, *corrupt, *device, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rate float64, count int, corrupt float64, device string, seed int64) error {
	if rate <= 0 {
		return fmt.Errorf("rate must be positive")
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	out := os.Stdout
	if device != "-" {
		port, err := transport.OpenSerial(device, 0)
		if err != nil {
			return err
		}
		defer port.Close()
		return emit(port.Write, rate, count, corrupt, rng)
	}
	return emit(out.Write, rate, count, corrupt, rng)
}

// fleet is the set of simulated devices.
var fleet = struct {
	rocker  esp3.SenderID
	door    esp3.SenderID
	climate esp3.SenderID
	multi   esp3.SenderID
}{
	rocker:  esp3.SenderID{0x00, 0x24, 0xA1, 0x01},
	door:    esp3.SenderID{0x00, 0x24, 0xA1, 0x02},
	climate: esp3.SenderID{0x00, 0x24, 0xA1, 0x03},
	multi:   esp3.SenderID{0x00, 0x24, 0xA1, 0x04},
}

func emit(write func([]byte) (int, error), rate float64, count int, corrupt float64, rng *rand.Rand) error {
	interval := time.Duration(float64(time.Second) / rate)

	// Announce profiles before data so the bridge decodes unambiguously.
	teachIns := [][]byte{
		radioFrame(eep.RORG4BS, eep.EncodeTeachIn4BS(0x04, 0x01, 0x2D), fleet.climate, 0x00, rng),
		radioFrame(eep.RORGUTE, eep.EncodeUTE(0xD2, 0x14, 0x41, 0x46, 1), fleet.multi, 0x00, rng),
	}
	for _, frame := range teachIns {
		if _, err := write(frame); err != nil {
			return err
		}
	}

	sent := len(teachIns)
	for tick := 0; count == 0 || sent < count; tick++ {
		frame, err := nextFrame(tick, rng)
		if err != nil {
			return err
		}
		if corrupt > 0 && rng.Float64() < corrupt {
			// Flip one bit past the sync byte.
			pos := 1 + rng.Intn(len(frame)-1)
			frame[pos] ^= 1 << rng.Intn(8)
		}
		if _, err := write(frame); err != nil {
			return err
		}
		sent++
		time.Sleep(interval)
	}
	return nil
}

// nextFrame cycles through the fleet with gently drifting values.
func nextFrame(tick int, rng *rand.Rand) ([]byte, error) {
	phase := float64(tick) / 20.0

	switch tick % 4 {
	case 0: // rocker press or release
		if tick%8 == 0 {
			data, status, err := eep.EncodeRockerPress([]string{"a", "b", "c", "d"}[rng.Intn(4)])
			if err != nil {
				return nil, err
			}
			return radioFrame(eep.RORGRPS, []byte{data}, fleet.rocker, status, rng), nil
		}
		data, status := eep.EncodeRockerRelease()
		return radioFrame(eep.RORGRPS, []byte{data}, fleet.rocker, status, rng), nil

	case 1: // door contact toggles slowly
		closed := (tick/16)%2 == 0
		return radioFrame(eep.RORG1BS, []byte{eep.EncodeContact(closed)}, fleet.door, 0x00, rng), nil

	case 2: // climate sensor drifts around 21 °C / 50 %
		payload, err := eep.EncodeTempHumidity4BS(
			50.0+10.0*math.Sin(phase),
			21.0+2.0*math.Sin(phase/3),
		)
		if err != nil {
			return nil, err
		}
		return radioFrame(eep.RORG4BS, payload, fleet.climate, 0x00, rng), nil

	default: // multi-sensor
		payload, err := eep.EncodeMultiSensor(eep.MultiSensorValues{
			TemperatureC:    19.0 + 3.0*math.Sin(phase/2),
			HumidityPercent: 45.0 + 5.0*math.Cos(phase),
			IlluminationLux: 400.0 + 350.0*math.Sin(phase),
			AccelXG:         0.1 * math.Sin(phase*4),
			AccelYG:         0.1 * math.Cos(phase*4),
			AccelZG:         1.0,
			MagnetOpen:      (tick/24)%2 == 1,
		}, true, 0x46)
		if err != nil {
			return nil, err
		}
		return radioFrame(eep.RORGVLD, payload, fleet.multi, 0x00, rng), nil
	}
}

func radioFrame(rorg byte, payload []byte, sender esp3.SenderID, status byte, rng *rand.Rand) []byte {
	dBm := byte(40 + rng.Intn(40)) // plausible −40..−79 dBm
	data := eep.BuildRadioData(rorg, payload, sender, status)
	return esp3.EncodeRadio(data, dBm)
}
