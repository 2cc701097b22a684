package eep

import "github.com/nerrad567/gray-logic-enocean/internal/esp3"

// RPS rocker bit layout (F6-02-01/02):
//
//	bit 7..5  first action (rocker position code)
//	bit 4     energy bow (1 = pressed, 0 = released)
//	bit 3..1  second action
//	bit 0     second action valid
const (
	rockerEnergyBow    = 0x10
	rockerSecondValid  = 0x01
	rockerActionShift  = 5
	rockerSecondShift  = 1
	rockerPositionMask = 0x07
)

// rockerButtons maps a rocker position code (action >> 1) to a button name.
// Even codes are the I side, odd codes the O side of the same rocker.
var rockerButtons = [4]string{"a", "b", "c", "d"}

// rockerDecoder handles F6-02-01/02 two-rocker switches.
type rockerDecoder struct{}

func (rockerDecoder) RORG() byte      { return RORGRPS }
func (rockerDecoder) Profile() string { return ProfileRocker }

func (rockerDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return len(t.Payload) == 1
}

func (rockerDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	db := t.Payload[0]
	pressed := db&rockerEnergyBow != 0

	rd := newReading(t, ProfileRocker)
	rd.add("pressed", pressed, "")

	var down [4]bool
	if pressed {
		action := db >> rockerActionShift
		first := (action >> 1) & 0x03
		down[first] = true
		rd.add("button_name", "button_"+rockerButtons[first], "")
		if db&rockerSecondValid != 0 {
			second := (db >> rockerSecondShift) & rockerPositionMask
			down[(second>>1)&0x03] = true
		}
	}
	for i, name := range rockerButtons {
		rd.add("button_"+name+"_pressed", down[i], "")
	}

	return rd, nil
}
