package gateway

import (
	"errors"
	"testing"

	"github.com/nerrad567/gray-logic-enocean/internal/eep"
	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

var chipID = esp3.SenderID{0xFF, 0x80, 0x00, 0x01}

// decodeFrame runs an encoded frame back through assembly, validation and
// profile decoding, as the target device's receiver would.
func decodeFrame(t *testing.T, frame []byte) *eep.Reading {
	t.Helper()

	a := esp3.NewAssembler()
	candidates := a.Feed(frame)
	if len(candidates) != 1 {
		t.Fatalf("frame yielded %d candidates, want 1", len(candidates))
	}
	tg, err := esp3.Validate(candidates[0])
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	radio, err := esp3.ParseRadio(tg)
	if err != nil {
		t.Fatalf("ParseRadio: %v", err)
	}
	rd, err := eep.DefaultRegistry().Decode(radio, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return rd
}

func TestEncodeCommandSwitch(t *testing.T) {
	frame, err := EncodeCommand([]byte(`{"action":"switch","on":true,"channel":3}`), "051a2b3c", chipID)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	rd := decodeFrame(t, frame)
	if rd.Profile != eep.ProfileSwitchActor {
		t.Fatalf("Profile = %q, want %q", rd.Profile, eep.ProfileSwitchActor)
	}
	if !rd.Bool("on") {
		t.Error("on = false, want true")
	}
	if got, _ := rd.Field("channel"); got.Value != 3 {
		t.Errorf("channel = %v, want 3", got.Value)
	}
	if rd.DeviceID != chipID {
		t.Errorf("sender = %s, want chip ID", rd.DeviceID)
	}
}

func TestEncodeCommandShutter(t *testing.T) {
	frame, err := EncodeCommand([]byte(`{"action":"shutter","position":80,"angle":15}`), "051a2b3c", chipID)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	rd := decodeFrame(t, frame)
	if rd.Profile != eep.ProfileShutter {
		t.Fatalf("Profile = %q, want %q", rd.Profile, eep.ProfileShutter)
	}
	if rd.Float("position_percent") != 80 {
		t.Errorf("position = %v, want 80", rd.Float("position_percent"))
	}
}

func TestEncodeCommandPress(t *testing.T) {
	frame, err := EncodeCommand([]byte(`{"action":"press","button":"b"}`), "051a2b3c", chipID)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	rd := decodeFrame(t, frame)
	if rd.Profile != eep.ProfileRocker {
		t.Fatalf("Profile = %q, want %q", rd.Profile, eep.ProfileRocker)
	}
	if got := rd.String("button_name"); got != "button_b" {
		t.Errorf("button_name = %q, want button_b", got)
	}
	if !rd.Bool("button_b_pressed") {
		t.Error("button_b_pressed = false, want true")
	}
}

func TestEncodeCommandRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		address string
	}{
		{"bad json", `{"action":`, "051a2b3c"},
		{"unsupported action", `{"action":"dim"}`, "051a2b3c"},
		{"bad address", `{"action":"switch"}`, "zz"},
		{"out of range", `{"action":"shutter","position":200}`, "051a2b3c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeCommand([]byte(tt.payload), tt.address, chipID)
			if !errors.Is(err, ErrBadCommand) {
				t.Errorf("error = %v, want ErrBadCommand", err)
			}
		})
	}
}
