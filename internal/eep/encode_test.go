package eep

import (
	"errors"
	"testing"

	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
)

// decodePayload runs an encoded payload back through the default registry
// as if it had just arrived over the air.
func decodePayload(t *testing.T, rorg byte, payload []byte) *Reading {
	t.Helper()
	return decodePayloadAs(t, rorg, payload, "")
}

// decodePayloadAs decodes with a profile hint, as the gateway does for a
// taught-in sender. Needed for 4BS profiles that share a wire shape.
func decodePayloadAs(t *testing.T, rorg byte, payload []byte, hint string) *Reading {
	t.Helper()
	rd, err := DefaultRegistry().Decode(radio(rorg, payload...), hint)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return rd
}

func TestEncodeRockerRoundTrip(t *testing.T) {
	for _, button := range []string{"a", "b", "c", "d"} {
		t.Run(button, func(t *testing.T) {
			data, status, err := EncodeRockerPress(button)
			if err != nil {
				t.Fatalf("EncodeRockerPress: %v", err)
			}
			if status != 0x30 {
				t.Errorf("status = %#02x, want 0x30", status)
			}

			rd := decodePayload(t, RORGRPS, []byte{data})
			if !rd.Bool("pressed") {
				t.Error("pressed = false, want true")
			}
			if got := rd.String("button_name"); got != "button_"+button {
				t.Errorf("button_name = %q, want button_%s", got, button)
			}
			if !rd.Bool("button_" + button + "_pressed") {
				t.Errorf("button_%s_pressed = false, want true", button)
			}
		})
	}

	t.Run("press b is 0x70", func(t *testing.T) {
		data, _, err := EncodeRockerPress("b")
		if err != nil {
			t.Fatalf("EncodeRockerPress: %v", err)
		}
		if data != 0x70 {
			t.Errorf("data = %#02x, want 0x70", data)
		}
	})

	t.Run("release", func(t *testing.T) {
		data, _ := EncodeRockerRelease()
		rd := decodePayload(t, RORGRPS, []byte{data})
		if rd.Bool("pressed") {
			t.Error("pressed = true, want false")
		}
	})

	t.Run("unknown button", func(t *testing.T) {
		if _, _, err := EncodeRockerPress("e"); !errors.Is(err, ErrEncodeRange) {
			t.Errorf("error = %v, want ErrEncodeRange", err)
		}
	})
}

func TestEncodeContactRoundTrip(t *testing.T) {
	for _, closed := range []bool{true, false} {
		rd := decodePayload(t, RORG1BS, []byte{EncodeContact(closed)})
		if rd.TeachIn {
			t.Error("data telegram decoded as teach-in")
		}
		if rd.Bool("closed") != closed {
			t.Errorf("closed = %v, want %v", rd.Bool("closed"), closed)
		}
	}
}

func TestEncodeTempHumidity4BSRoundTrip(t *testing.T) {
	payload, err := EncodeTempHumidity4BS(60.0, 20.0)
	if err != nil {
		t.Fatalf("EncodeTempHumidity4BS: %v", err)
	}

	rd := decodePayload(t, RORG4BS, payload)
	if rd.Profile != ProfileTempHumidity {
		t.Fatalf("Profile = %q, want %q", rd.Profile, ProfileTempHumidity)
	}
	approx(t, "humidity_percent", rd.Float("humidity_percent"), 60.0, 0.5)
	approx(t, "temperature_c", rd.Float("temperature_c"), 20.0, 0.2)

	t.Run("range errors", func(t *testing.T) {
		if _, err := EncodeTempHumidity4BS(101, 20); !errors.Is(err, ErrEncodeRange) {
			t.Errorf("humidity 101: error = %v, want ErrEncodeRange", err)
		}
		if _, err := EncodeTempHumidity4BS(50, 40.5); !errors.Is(err, ErrEncodeRange) {
			t.Errorf("temperature 40.5: error = %v, want ErrEncodeRange", err)
		}
	})
}

func TestEncodeTemperature4BSRoundTrip(t *testing.T) {
	payload, err := EncodeTemperature4BS(22.5)
	if err != nil {
		t.Fatalf("EncodeTemperature4BS: %v", err)
	}

	rd := decodePayloadAs(t, RORG4BS, payload, ProfileTemperature)
	if rd.Profile != ProfileTemperature {
		t.Fatalf("Profile = %q, want %q", rd.Profile, ProfileTemperature)
	}
	approx(t, "temperature_c", rd.Float("temperature_c"), 22.5, 0.1)

	if _, err := EncodeTemperature4BS(40.5); !errors.Is(err, ErrEncodeRange) {
		t.Errorf("temperature 40.5: error = %v, want ErrEncodeRange", err)
	}
}

func TestEncodeIllumination4BSRoundTrip(t *testing.T) {
	payload, err := EncodeIllumination4BS(45000)
	if err != nil {
		t.Fatalf("EncodeIllumination4BS: %v", err)
	}

	rd := decodePayloadAs(t, RORG4BS, payload, ProfileIllumination)
	if rd.Profile != ProfileIllumination {
		t.Fatalf("Profile = %q, want %q", rd.Profile, ProfileIllumination)
	}
	// 8-bit quantisation over 0..60000 lx ≈ 235 lx steps.
	approx(t, "illumination_lux", rd.Float("illumination_lux"), 45000, 120)

	if _, err := EncodeIllumination4BS(60001); !errors.Is(err, ErrEncodeRange) {
		t.Errorf("illumination 60001: error = %v, want ErrEncodeRange", err)
	}
}

func TestEncodeOccupancy4BSRoundTrip(t *testing.T) {
	for _, occupied := range []bool{true, false} {
		payload, err := EncodeOccupancy4BS(occupied, 3.1)
		if err != nil {
			t.Fatalf("EncodeOccupancy4BS: %v", err)
		}

		rd := decodePayloadAs(t, RORG4BS, payload, ProfileOccupancy)
		if rd.Profile != ProfileOccupancy {
			t.Fatalf("Profile = %q, want %q", rd.Profile, ProfileOccupancy)
		}
		if rd.Bool("occupied") != occupied {
			t.Errorf("occupied = %v, want %v", rd.Bool("occupied"), occupied)
		}
		approx(t, "supply_voltage_v", rd.Float("supply_voltage_v"), 3.1, 0.01)
	}

	if _, err := EncodeOccupancy4BS(true, 5.1); !errors.Is(err, ErrEncodeRange) {
		t.Errorf("voltage 5.1: error = %v, want ErrEncodeRange", err)
	}
}

func TestEncodeAirQuality4BSRoundTrip(t *testing.T) {
	payload, err := EncodeAirQuality4BS(47.5, 620, 21.8)
	if err != nil {
		t.Fatalf("EncodeAirQuality4BS: %v", err)
	}

	rd := decodePayloadAs(t, RORG4BS, payload, ProfileAirQuality)
	if rd.Profile != ProfileAirQuality {
		t.Fatalf("Profile = %q, want %q", rd.Profile, ProfileAirQuality)
	}
	approx(t, "humidity_percent", rd.Float("humidity_percent"), 47.5, 0.25)
	approx(t, "co2_ppm", rd.Float("co2_ppm"), 620, 5)
	approx(t, "temperature_c", rd.Float("temperature_c"), 21.8, 0.1)

	t.Run("range errors", func(t *testing.T) {
		if _, err := EncodeAirQuality4BS(101, 0, 0); !errors.Is(err, ErrEncodeRange) {
			t.Errorf("humidity 101: error = %v, want ErrEncodeRange", err)
		}
		if _, err := EncodeAirQuality4BS(0, 2551, 0); !errors.Is(err, ErrEncodeRange) {
			t.Errorf("CO2 2551: error = %v, want ErrEncodeRange", err)
		}
		if _, err := EncodeAirQuality4BS(0, 0, 51.5); !errors.Is(err, ErrEncodeRange) {
			t.Errorf("temperature 51.5: error = %v, want ErrEncodeRange", err)
		}
	})
}

func TestEncodeMultiSensorRoundTrip(t *testing.T) {
	values := MultiSensorValues{
		TemperatureC:    21.5,
		HumidityPercent: 55.0,
		IlluminationLux: 12000.0,
		AccelXG:         0.0,
		AccelYG:         1.0,
		AccelZG:         -1.0,
		MagnetOpen:      true,
	}

	t.Run("D2-14-41", func(t *testing.T) {
		payload, err := EncodeMultiSensor(values, true, 0x00)
		if err != nil {
			t.Fatalf("EncodeMultiSensor: %v", err)
		}

		rd := decodePayload(t, RORGVLD, payload)
		if rd.Profile != ProfileMultiSensor {
			t.Fatalf("Profile = %q, want %q", rd.Profile, ProfileMultiSensor)
		}
		// Quantisation: 10-bit temperature ≈ 0.1 °C steps, 6-bit humidity
		// ≈ 1.6 % steps, 16-bit illumination ≈ 1.5 lx, 8-bit accel ≈ 0.02 g.
		approx(t, "temperature_c", rd.Float("temperature_c"), values.TemperatureC, 0.05)
		approx(t, "humidity_percent", rd.Float("humidity_percent"), values.HumidityPercent, 0.8)
		approx(t, "illumination_lux", rd.Float("illumination_lux"), values.IlluminationLux, 1.0)
		approx(t, "acceleration_x_g", rd.Float("acceleration_x_g"), values.AccelXG, 0.01)
		approx(t, "acceleration_y_g", rd.Float("acceleration_y_g"), values.AccelYG, 0.01)
		approx(t, "acceleration_z_g", rd.Float("acceleration_z_g"), values.AccelZG, 0.01)
		if got := rd.String("magnet_contact"); got != "open" {
			t.Errorf("magnet_contact = %q, want open", got)
		}
	})

	t.Run("D2-14-40", func(t *testing.T) {
		payload, err := EncodeMultiSensor(values, false, 0x00)
		if err != nil {
			t.Fatalf("EncodeMultiSensor: %v", err)
		}
		rd := decodePayload(t, RORGVLD, payload)
		if rd.Profile != ProfileMultiSensorNM {
			t.Fatalf("Profile = %q, want %q", rd.Profile, ProfileMultiSensorNM)
		}
	})

	t.Run("temperature out of range", func(t *testing.T) {
		bad := values
		bad.TemperatureC = 61.0
		if _, err := EncodeMultiSensor(bad, true, 0x00); !errors.Is(err, ErrEncodeRange) {
			t.Errorf("error = %v, want ErrEncodeRange", err)
		}
	})
}

func TestEncodeVLDTempHumidityRoundTrip(t *testing.T) {
	payload, err := EncodeVLDTempHumidity(-10.0, 33.0, 0x00)
	if err != nil {
		t.Fatalf("EncodeVLDTempHumidity: %v", err)
	}

	rd := decodePayload(t, RORGVLD, payload)
	if rd.Profile != ProfileVLDTempHum {
		t.Fatalf("Profile = %q, want %q", rd.Profile, ProfileVLDTempHum)
	}
	approx(t, "temperature_c", rd.Float("temperature_c"), -10.0, 0.05)
	approx(t, "humidity_percent", rd.Float("humidity_percent"), 33.0, 0.8)
}

func TestEncodeSwitchRoundTrip(t *testing.T) {
	payload, err := EncodeSwitch(true, 5, 0x00)
	if err != nil {
		t.Fatalf("EncodeSwitch: %v", err)
	}

	rd := decodePayload(t, RORGVLD, payload)
	if !rd.Bool("on") {
		t.Error("on = false, want true")
	}
	if got, _ := rd.Field("channel"); got.Value != 5 {
		t.Errorf("channel = %v, want 5", got.Value)
	}

	if _, err := EncodeSwitch(true, 32, 0x00); !errors.Is(err, ErrEncodeRange) {
		t.Errorf("channel 32: error = %v, want ErrEncodeRange", err)
	}
}

func TestEncodeShutterRoundTrip(t *testing.T) {
	payload, err := EncodeShutter(75, 30, 0x00)
	if err != nil {
		t.Fatalf("EncodeShutter: %v", err)
	}
	rd := decodePayload(t, RORGVLD, payload)
	approx(t, "position_percent", rd.Float("position_percent"), 75.0, 0.001)
	approx(t, "angle_percent", rd.Float("angle_percent"), 30.0, 0.001)

	if _, err := EncodeShutter(101, 0, 0x00); !errors.Is(err, ErrEncodeRange) {
		t.Errorf("position 101: error = %v, want ErrEncodeRange", err)
	}
}

func TestEncodeUTERoundTrip(t *testing.T) {
	payload := EncodeUTE(0xD2, 0x14, 0x41, 0x46, 1)
	rd := decodePayload(t, RORGUTE, payload)
	if !rd.TeachIn {
		t.Fatal("TeachIn = false, want true")
	}
	if rd.Profile != "D2-14-41" {
		t.Errorf("Profile = %q, want D2-14-41", rd.Profile)
	}
}

func TestBuildRadioData(t *testing.T) {
	sender := esp3.SenderID{0x78, 0x9A, 0xBC, 0xDE}
	data := BuildRadioData(RORGRPS, []byte{0x70}, sender, 0x30)

	want := []byte{0xF6, 0x70, 0x78, 0x9A, 0xBC, 0xDE, 0x30}
	if len(data) != len(want) {
		t.Fatalf("length = %d, want %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("data = % X, want % X", data, want)
		}
	}
}
