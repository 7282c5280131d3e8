package protocol

// CRC16 is the CRC-16/MCRF4XX checksum that guards every frame: reflected
// polynomial 0x1021, initial value 0xFFFF, no final xor.
func CRC16(data []byte) uint16 {
	return crc16Update(0xFFFF, data)
}

func crc16Update(crc uint16, data []byte) uint16 {
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// frameCRCValid checks the big-endian trailer CRC of a complete frame
func frameCRCValid(frame []byte) bool {
	n := len(frame)
	got := uint16(frame[n-MessageTrailerCRC])<<8 | uint16(frame[n-MessageTrailerCRC+1])
	return got == CRC16(frame[:n-MessageTrailerSize])
}
