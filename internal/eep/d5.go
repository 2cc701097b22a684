package eep

import "github.com/nerrad567/gray-logic-enocean/internal/esp3"

// 1BS bit layout (D5-00-01):
//
//	bit 3  LRN (0 = teach-in, 1 = data)
//	bit 0  contact (1 = closed, 0 = open)
const (
	contactLRNBit   = 0x08
	contactStateBit = 0x01
)

// contactDecoder handles D5-00-01 magnet contacts. A 1BS telegram with the
// LRN bit clear is the device's teach-in announcement; the profile is
// implied by the RORG, so the announcement carries no EEP bytes.
type contactDecoder struct{}

func (contactDecoder) RORG() byte      { return RORG1BS }
func (contactDecoder) Profile() string { return ProfileContact }

func (contactDecoder) CanDecode(t *esp3.RadioTelegram) bool {
	return len(t.Payload) == 1
}

func (contactDecoder) Decode(t *esp3.RadioTelegram) (*Reading, error) {
	db := t.Payload[0]

	rd := newReading(t, ProfileContact)
	if db&contactLRNBit == 0 {
		rd.TeachIn = true
		rd.add("eep", ProfileContact, "")
		return rd, nil
	}

	closed := db&contactStateBit != 0
	rd.add("closed", closed, "")
	if closed {
		rd.add("contact", "closed", "")
	} else {
		rd.add("contact", "open", "")
	}
	return rd, nil
}
