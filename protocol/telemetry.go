package protocol

import (
	"time"

	"dcmotor/core"
)

// Message ids
const (
	MsgProfile uint32 = 1
	MsgSample  uint32 = 2
)

// ProfileInfo is the profile announcement sent once at start
type ProfileInfo struct {
	Name       string
	TickRate   uint32
	Period     uint32
	Steps      uint32
	DwellCount uint32
	DwellDelay time.Duration // Millisecond resolution on the wire
	Traversal  core.Traversal
	Policy     core.StalePolicy
}

// ProfileInfoFrom summarises p for the wire
func ProfileInfoFrom(p core.Profile) ProfileInfo {
	rate, _ := p.TickRate()
	return ProfileInfo{
		Name:       p.Name,
		TickRate:   rate,
		Period:     p.Period,
		Steps:      uint32(p.Duty.Len()),
		DwellCount: p.DwellCount,
		DwellDelay: p.DwellDelay,
		Traversal:  p.Traversal,
		Policy:     p.Policy,
	}
}

// EncodeProfileInfo writes the MsgProfile arguments
func EncodeProfileInfo(output OutputBuffer, info ProfileInfo) {
	EncodeVLQString(output, info.Name)
	EncodeVLQUint(output, info.TickRate)
	EncodeVLQUint(output, info.Period)
	EncodeVLQUint(output, info.Steps)
	EncodeVLQUint(output, info.DwellCount)
	EncodeVLQUint(output, uint32(info.DwellDelay/time.Millisecond))
	EncodeVLQUint(output, uint32(info.Traversal))
	EncodeVLQUint(output, uint32(info.Policy))
}

// DecodeProfileInfo reads the MsgProfile arguments
func DecodeProfileInfo(data *[]byte) (ProfileInfo, error) {
	var info ProfileInfo
	var err error
	if info.Name, err = DecodeVLQString(data); err != nil {
		return info, err
	}

	var v [7]uint32
	for i := range v {
		if v[i], err = DecodeVLQUint(data); err != nil {
			return info, err
		}
	}
	info.TickRate = v[0]
	info.Period = v[1]
	info.Steps = v[2]
	info.DwellCount = v[3]
	info.DwellDelay = time.Duration(v[4]) * time.Millisecond
	info.Traversal = core.Traversal(v[5])
	info.Policy = core.StalePolicy(v[6])
	return info, nil
}

// EncodeSample writes the MsgSample arguments
func EncodeSample(output OutputBuffer, s core.Sample) {
	EncodeVLQUint(output, s.Iteration)
	EncodeVLQUint(output, uint32(s.Index))
	EncodeVLQInt(output, int32(s.Direction))
	EncodeVLQUint(output, s.Duty)
	EncodeVLQUint(output, s.Period)
	EncodeVLQUint(output, s.Ticks)
	EncodeVLQUint(output, s.RPS)
	EncodeVLQUint(output, s.Edges)
	EncodeVLQUint(output, s.Overflows)
	EncodeVLQUint(output, s.Overwrites)
}

// DecodeSample reads the MsgSample arguments
func DecodeSample(data *[]byte) (core.Sample, error) {
	var s core.Sample

	iteration, err := DecodeVLQUint(data)
	if err != nil {
		return s, err
	}
	index, err := DecodeVLQUint(data)
	if err != nil {
		return s, err
	}
	dir, err := DecodeVLQInt(data)
	if err != nil {
		return s, err
	}

	var v [7]uint32
	for i := range v {
		if v[i], err = DecodeVLQUint(data); err != nil {
			return s, err
		}
	}

	s.Iteration = iteration
	s.Index = int(index)
	s.Direction = core.Direction(dir)
	s.Duty = v[0]
	s.Period = v[1]
	s.Ticks = v[2]
	s.RPS = v[3]
	s.Edges = v[4]
	s.Overflows = v[5]
	s.Overwrites = v[6]
	return s, nil
}

// Message is one decoded telemetry payload. Exactly one of Profile or Sample
// is set, according to ID.
type Message struct {
	ID      uint32
	Seq     uint8
	Profile *ProfileInfo
	Sample  *core.Sample
}

// DecodeMessage parses a frame payload
func DecodeMessage(seq uint8, payload []byte) (Message, error) {
	data := payload
	id, err := DecodeVLQUint(&data)
	if err != nil {
		return Message{}, err
	}

	msg := Message{ID: id, Seq: seq}
	switch id {
	case MsgProfile:
		info, err := DecodeProfileInfo(&data)
		if err != nil {
			return msg, err
		}
		msg.Profile = &info
	case MsgSample:
		s, err := DecodeSample(&data)
		if err != nil {
			return msg, err
		}
		msg.Sample = &s
	default:
		return msg, ErrUnknownMessage
	}
	return msg, nil
}

// Reporter sends sequencer telemetry through an Encoder. It satisfies
// core.Reporter and core.ProfileReporter. Write errors are counted since the
// foreground loop has no caller to return them to.
type Reporter struct {
	enc     *Encoder
	errors  uint32
	lastErr error
}

// NewReporter creates a reporter writing frames through enc
func NewReporter(enc *Encoder) *Reporter {
	return &Reporter{enc: enc}
}

// ReportProfile sends a MsgProfile frame
func (r *Reporter) ReportProfile(p core.Profile) {
	info := ProfileInfoFrom(p)
	r.check(r.enc.Send(MsgProfile, func(output OutputBuffer) {
		EncodeProfileInfo(output, info)
	}))
}

// Report sends a MsgSample frame
func (r *Reporter) Report(s core.Sample) {
	r.check(r.enc.Send(MsgSample, func(output OutputBuffer) {
		EncodeSample(output, s)
	}))
}

// Errors returns the number of failed sends and the most recent error
func (r *Reporter) Errors() (uint32, error) {
	return r.errors, r.lastErr
}

func (r *Reporter) check(err error) {
	if err != nil {
		r.errors++
		r.lastErr = err
	}
}
