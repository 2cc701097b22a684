package esp3

// crc8Poly is the ESP3 CRC8 generator polynomial (x⁸ + x² + x + 1).
const crc8Poly = 0x07

// crc8Table is the lookup table for the ESP3 CRC8, built once at init.
// The algorithm is the plain table-driven CRC8 from the ESP3 specification:
// polynomial 0x07, initial value 0x00, no input or output reflection.
var crc8Table [256]byte

func init() {
	for i := range crc8Table {
		crc := byte(i)
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ crc8Poly
			} else {
				crc <<= 1
			}
		}
		crc8Table[i] = crc
	}
}

// CRC8 computes the ESP3 checksum over data.
//
// Used for both the header checksum (over the four header bytes) and the
// data checksum (over the data + optional sections).
func CRC8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc = crc8Table[crc^b]
	}
	return crc
}
