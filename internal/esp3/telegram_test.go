package esp3

import (
	"bytes"
	"errors"
	"testing"
)

// rockerCandidate returns a valid F6 rocker frame as a Candidate:
// data F6 70 78 9A BC DE 30, standard broadcast optional data at −45 dBm.
func rockerCandidate() Candidate {
	return Candidate{
		Header:    Header{DataLength: 7, OptionalLength: 7, PacketType: PacketTypeRadioERP1},
		HeaderCRC: 0x7A,
		Body: []byte{
			0xF6, 0x70, 0x78, 0x9A, 0xBC, 0xDE, 0x30, // data
			0x03, 0xFF, 0xFF, 0xFF, 0xFF, 0x2D, 0x00, // optional
			0x2B, // data CRC
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid frame", func(t *testing.T) {
		tg, err := Validate(rockerCandidate())
		if err != nil {
			t.Fatalf("Validate() unexpected error: %v", err)
		}
		if !bytes.Equal(tg.Data, []byte{0xF6, 0x70, 0x78, 0x9A, 0xBC, 0xDE, 0x30}) {
			t.Errorf("Data = % X", tg.Data)
		}
		if len(tg.Optional) != 7 {
			t.Errorf("Optional length = %d, want 7", len(tg.Optional))
		}
	})

	t.Run("header CRC mismatch", func(t *testing.T) {
		c := rockerCandidate()
		c.HeaderCRC ^= 0x01
		if _, err := Validate(c); !errors.Is(err, ErrHeaderCRC) {
			t.Errorf("Validate() error = %v, want ErrHeaderCRC", err)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		c := rockerCandidate()
		c.Body = c.Body[:len(c.Body)-2]
		if _, err := Validate(c); !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("Validate() error = %v, want ErrLengthMismatch", err)
		}
	})

	t.Run("data CRC mismatch on any bit flip", func(t *testing.T) {
		base := rockerCandidate()
		for i := 0; i < len(base.Body)-1; i++ {
			for bit := 0; bit < 8; bit++ {
				c := rockerCandidate()
				c.Body[i] ^= 1 << bit
				if _, err := Validate(c); !errors.Is(err, ErrDataCRC) {
					t.Fatalf("flip byte %d bit %d: error = %v, want ErrDataCRC", i, bit, err)
				}
			}
		}
	})
}

func TestParseRadio(t *testing.T) {
	tg, err := Validate(rockerCandidate())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	r, err := ParseRadio(tg)
	if err != nil {
		t.Fatalf("ParseRadio() unexpected error: %v", err)
	}

	if r.RORG != 0xF6 {
		t.Errorf("RORG = %#02x, want 0xF6", r.RORG)
	}
	if !bytes.Equal(r.Payload, []byte{0x70}) {
		t.Errorf("Payload = % X, want 70", r.Payload)
	}
	if got := r.Sender.String(); got != "78:9A:BC:DE" {
		t.Errorf("Sender = %q, want 78:9A:BC:DE", got)
	}
	if got := r.Sender.Key(); got != "789abcde" {
		t.Errorf("Sender key = %q, want 789abcde", got)
	}
	if r.Status != 0x30 {
		t.Errorf("Status = %#02x, want 0x30", r.Status)
	}
	if r.SignalDBm != -45 {
		t.Errorf("SignalDBm = %d, want -45", r.SignalDBm)
	}
	if r.SubTelegrams != 3 {
		t.Errorf("SubTelegrams = %d, want 3", r.SubTelegrams)
	}
}

func TestParseRadioRejects(t *testing.T) {
	tests := []struct {
		name    string
		tg      Telegram
		wantErr error
	}{
		{
			name: "non-radio packet type",
			tg: Telegram{
				Header: Header{DataLength: 4, PacketType: PacketTypeResponse},
				Data:   []byte{0x00, 0x01, 0x02, 0x03},
			},
			wantErr: ErrNotRadio,
		},
		{
			name: "data too short for trailer",
			tg: Telegram{
				Header: Header{DataLength: 5, PacketType: PacketTypeRadioERP1},
				Data:   []byte{0xF6, 0x70, 0x78, 0x9A, 0xBC},
			},
			wantErr: ErrTelegramTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRadio(&tt.tg); !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRadio() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
