package protocol

import (
	"context"
	"io"
)

// FrameHandler receives the payload of each valid frame. The payload slice is
// only valid during the call.
type FrameHandler func(seq uint8, payload []byte) error

// DecoderStats counts stream health
type DecoderStats struct {
	Frames     uint64 // Valid frames dispatched
	SyncLosses uint64 // Times the decoder dropped sync on a corrupt frame
	Dropped    uint64 // Frames missing according to the sequence numbers
}

// Decoder reassembles frames from arbitrary chunks of a byte stream.
// Not safe for concurrent use.
type Decoder struct {
	input        *window
	synchronized bool
	haveSeq      bool
	expected     uint8
	handler      FrameHandler
	stats        DecoderStats
}

// NewDecoder creates a decoder dispatching frames to handler
func NewDecoder(handler FrameHandler) *Decoder {
	return &Decoder{
		input:        newWindow(4 * MessageLengthMax),
		synchronized: true,
		handler:      handler,
	}
}

// Stats returns a copy of the counters
func (d *Decoder) Stats() DecoderStats {
	return d.stats
}

// Feed consumes a chunk of the stream. Complete frames are dispatched before
// Feed returns; partial frames stay buffered. A handler error stops
// processing of the chunk and is returned.
func (d *Decoder) Feed(data []byte) error {
	for len(data) > 0 {
		n := d.input.Write(data)
		data = data[n:]
		if err := d.process(); err != nil {
			return err
		}
	}
	return nil
}

// Run reads r until EOF, a read error or ctx cancellation. Cancellation is
// observed between reads; close r to interrupt a blocked Read.
func (d *Decoder) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := d.Feed(buf[:n]); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// process consumes as many complete frames as the buffer holds
func (d *Decoder) process() error {
	data := d.input.Data()
	consumed := 0
	defer func() {
		d.input.Pop(consumed)
	}()

	for consumed < len(data) {
		rest := data[consumed:]

		if !d.synchronized {
			// Skip garbage up to and including the next sync byte
			syncPos := -1
			for i, b := range rest {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				consumed = len(data)
				return nil
			}
			consumed += syncPos + 1
			d.synchronized = true
			continue
		}

		// Skip leading sync bytes
		if rest[0] == MessageValueSync {
			consumed++
			continue
		}

		msgLen := int(rest[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.loseSync()
			continue
		}

		// Need the seq byte before checking it
		if len(rest) < MessageHeaderSize {
			return nil
		}
		seq := rest[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.loseSync()
			continue
		}

		// Wait for full message
		if len(rest) < msgLen {
			return nil
		}

		if rest[msgLen-MessageTrailerSync] != MessageValueSync {
			d.loseSync()
			continue
		}

		if !frameCRCValid(rest[:msgLen]) {
			d.loseSync()
			continue
		}

		frame := rest[MessageHeaderSize : msgLen-MessageTrailerSize]
		consumed += msgLen

		nibble := seq & MessageSeqMask
		if d.haveSeq && nibble != d.expected {
			d.stats.Dropped += uint64((nibble - d.expected) & MessageSeqMask)
		}
		d.expected = (nibble + 1) & MessageSeqMask
		d.haveSeq = true
		d.stats.Frames++

		if d.handler != nil {
			if err := d.handler(nibble, frame); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) loseSync() {
	d.synchronized = false
	d.stats.SyncLosses++
}
