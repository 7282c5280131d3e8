package protocol

import "io"

// Encoder writes frames to an io.Writer. Not safe for concurrent use.
type Encoder struct {
	w       io.Writer
	seq     uint8
	scratch ScratchOutput
}

// NewEncoder creates an encoder writing to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Send encodes one message into a frame and writes it.
// args may be nil for messages without arguments. The sequence advances once
// the frame is built, so a frame lost to a write error shows up as a gap on
// the receiving side.
func (e *Encoder) Send(msgID uint32, args func(output OutputBuffer)) error {
	frame, err := e.encodeFrame(func(output OutputBuffer) {
		EncodeVLQUint(output, msgID)
		if args != nil {
			args(output)
		}
	})
	if err != nil {
		return err
	}
	_, err = e.w.Write(frame)
	return err
}

// encodeFrame builds a frame in the scratch buffer. The returned slice is
// valid until the next call.
func (e *Encoder) encodeFrame(frameData func(output OutputBuffer)) ([]byte, error) {
	out := &e.scratch
	out.Reset()

	// Header (length placeholder and sequence)
	out.Output([]byte{0, seqByte(e.seq)})

	frameData(out)

	msgLen := out.CurPosition() + MessageTrailerSize
	if out.Overflowed() || msgLen > MessageLengthMax {
		return nil, ErrFrameTooLong
	}
	out.Update(MessagePositionLen, uint8(msgLen))

	crc := CRC16(out.DataSince(0))
	out.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	e.seq = (e.seq + 1) & MessageSeqMask
	return out.Result(), nil
}

// Sequence returns the low nibble of the next frame's seq byte
func (e *Encoder) Sequence() uint8 {
	return e.seq
}
