// Package protocol implements the framed telemetry stream between the motor
// firmware and host tools.
//
// A frame is [len][seq][payload...][crc16 hi][crc16 lo][0x7E]. The payload is
// a VLQ message id followed by VLQ arguments.
package protocol

import "errors"

// Frame layout
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Sequence numbers live in the low nibble of the seq byte
	MessageSeqMask = 0x0F

	// MessageMax bounds the scratch buffer used to build one frame
	MessageMax = 128
)

var (
	ErrInvalidVLQ     = errors.New("invalid VLQ encoding")
	ErrBufferTooSmall = errors.New("buffer too small for VLQ")
	ErrFrameTooLong   = errors.New("frame exceeds maximum length")
	ErrUnknownMessage = errors.New("unknown message id")
)

// seqByte returns the seq header byte for frame number n
func seqByte(n uint8) uint8 {
	return MessageDest | (n & MessageSeqMask)
}
