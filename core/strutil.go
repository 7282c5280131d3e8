package core

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// PadNumber formats n in decimal, left-aligned and padded with spaces to
// width, so a shorter number overwrites every digit of a longer one
func PadNumber(n, width int) string {
	var s string
	if n < 0 {
		s = "-" + utoa(uint32(-n))
	} else {
		s = utoa(uint32(n))
	}
	if len(s) >= width {
		return s
	}
	buf := make([]byte, width)
	copy(buf, s)
	for i := len(s); i < width; i++ {
		buf[i] = ' '
	}
	return string(buf)
}
