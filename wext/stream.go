package wext

import (
	"bytes"
	"io"
	"net"
	"strconv"

	"github.com/josharian/native"
	"github.com/pkg/errors"
)

// An Event is one decoded record of a scan result stream.
type Event interface {
	Cmd() uint16
}

// AddrEvent opens the record of a new access point.
type AddrEvent struct{ Addr net.HardwareAddr }

// FreqEvent carries the channel frequency.
type FreqEvent struct{ Freq Freq }

// ModeEvent carries the unvalidated operating mode.
type ModeEvent struct{ Mode uint32 }

// ESSIDEvent carries the network name. ESSID aliases the stream buffer.
type ESSIDEvent struct {
	ESSID []byte
	Flags uint16
}

// RateEvent carries one of the offered bitrates.
type RateEvent struct{ Param Param }

// QualityEvent carries link quality statistics.
type QualityEvent struct{ Quality Quality }

// EncodeEvent carries the encryption key flags. Key aliases the stream
// buffer.
type EncodeEvent struct {
	Flags uint16
	Key   []byte
}

// NameEvent carries the protocol name.
type NameEvent struct{ Name string }

func (AddrEvent) Cmd() uint16    { return SIOCGIWAP }
func (FreqEvent) Cmd() uint16    { return SIOCGIWFREQ }
func (ModeEvent) Cmd() uint16    { return SIOCGIWMODE }
func (ESSIDEvent) Cmd() uint16   { return SIOCGIWESSID }
func (RateEvent) Cmd() uint16    { return SIOCGIWRATE }
func (QualityEvent) Cmd() uint16 { return IWEVQUAL }
func (EncodeEvent) Cmd() uint16  { return SIOCGIWENCODE }
func (NameEvent) Cmd() uint16    { return SIOCGIWNAME }

// Quality is an iw_quality.
type Quality struct {
	Qual    uint8
	Level   uint8
	Noise   uint8
	Updated uint8
}

type headerType int

const (
	headerChar headerType = iota
	headerUint
	headerFreq
	headerAddr
	headerPoint
	headerParam
	headerQual
)

// payloadSize is the fixed part of each payload, following the event
// header and its alignment padding.
var payloadSize = map[headerType]int{
	headerChar:  ifNameSize,
	headerUint:  4,
	headerFreq:  freqSize,
	headerAddr:  16,
	headerPoint: 4,
	headerParam: 8,
	headerQual:  4,
}

var eventTypes = map[uint16]headerType{
	SIOCGIWNAME:   headerChar,
	SIOCGIWFREQ:   headerFreq,
	SIOCGIWMODE:   headerUint,
	SIOCGIWAP:     headerAddr,
	SIOCGIWESSID:  headerPoint,
	SIOCGIWRATE:   headerParam,
	SIOCGIWENCODE: headerPoint,
	IWEVQUAL:      headerQual,
}

const (
	eventHeaderLen = 4
	// Before version 19 point events kept the user space pointer slot.
	pointVersion = 19
	pointerSize  = strconv.IntSize / 8
)

// A Layout is the framing the kernel used for an event stream. Header
// is the distance from the start of an event to its payload, Pointer
// the size of a user space pointer.
type Layout struct {
	Header  int
	Pointer int
}

var (
	// NativeLayout pads the 4 byte header to the alignment of the
	// pointer carrying union, as kernels do for native processes.
	NativeLayout = Layout{Header: pointerSize, Pointer: pointerSize}
	// PackedLayout is the 32-bit framing, also used for compat tasks.
	PackedLayout = Layout{Header: eventHeaderLen, Pointer: 4}
)

// pointLen is the size of an iw_point without its pointer, padded
// the way the kernel pads it.
func (l Layout) pointLen() int {
	n := l.Pointer + payloadSize[headerPoint]
	return (n+l.Pointer-1)/l.Pointer*l.Pointer - l.Pointer
}

// Stream decodes the event stream returned by SIOCGIWSCAN. It never
// reads outside buf and cannot be rewound.
type Stream struct {
	buf     []byte
	cur     int
	end     int
	value   int // next value of a multi-value event, 0 if none
	version int
	layout  Layout
}

// NewStream returns a decoder over buf for wireless extensions version,
// framed the way the running kernel frames it.
func NewStream(buf []byte, version int) *Stream {
	return NewStreamLayout(buf, version, NativeLayout)
}

// NewStreamLayout is NewStream for a stream framed with l. A layout
// without a pointer size or with a short header means NativeLayout.
func NewStreamLayout(buf []byte, version int, l Layout) *Stream {
	if l.Pointer <= 0 || l.Header < eventHeaderLen {
		l = NativeLayout
	}
	return &Stream{buf: buf, end: len(buf), version: version, layout: l}
}

// Offset returns the start of the event under the cursor.
func (s *Stream) Offset() int { return s.cur }

// Next returns the next event, or io.EOF once the buffer is consumed.
// Events with unknown commands are skipped.
func (s *Stream) Next() (Event, error) {
	if s.value != 0 {
		return s.nextValue()
	}
	hdr := s.layout.Header
	for s.cur < s.end {
		if s.end-s.cur < eventHeaderLen {
			return nil, s.malformed("truncated event header")
		}
		length := int(native.Endian.Uint16(s.buf[s.cur:]))
		cmd := native.Endian.Uint16(s.buf[s.cur+2:])
		if length <= hdr {
			return nil, s.malformed("event length %d", length)
		}
		if length > s.end-s.cur {
			return nil, s.malformed("event length %d exceeds %d remaining bytes", length, s.end-s.cur)
		}
		typ, ok := eventTypes[cmd]
		if !ok {
			s.cur += length
			continue
		}
		payload := s.buf[s.cur+hdr : s.cur+length]
		if len(payload) < payloadSize[typ] {
			return nil, s.malformed("command %#x needs %d payload bytes, has %d", cmd, payloadSize[typ], len(payload))
		}
		ev, err := s.decode(cmd, typ, payload)
		if err != nil {
			return nil, err
		}
		if typ == headerParam && len(payload) >= 2*payloadSize[headerParam] {
			s.value = s.cur + hdr + payloadSize[headerParam]
		} else {
			s.cur += length
		}
		return ev, nil
	}
	return nil, io.EOF
}

// nextValue yields the following value of the param event at the cursor.
func (s *Stream) nextValue() (Event, error) {
	evEnd := s.cur + int(native.Endian.Uint16(s.buf[s.cur:]))
	cmd := native.Endian.Uint16(s.buf[s.cur+2:])
	v := s.buf[s.value : s.value+payloadSize[headerParam]]
	s.value += payloadSize[headerParam]
	if s.value+payloadSize[headerParam] > evEnd {
		s.value = 0
		s.cur = evEnd
	}
	return s.decode(cmd, headerParam, v)
}

func (s *Stream) decode(cmd uint16, typ headerType, p []byte) (Event, error) {
	switch typ {
	case headerChar:
		name := p[:ifNameSize]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		return NameEvent{Name: string(name)}, nil
	case headerUint:
		return ModeEvent{Mode: native.Endian.Uint32(p)}, nil
	case headerFreq:
		return FreqEvent{Freq: decodeFreq(p)}, nil
	case headerAddr:
		return AddrEvent{Addr: decodeAddr(p)}, nil
	case headerParam:
		return RateEvent{Param: decodeParam(p)}, nil
	case headerQual:
		return QualityEvent{Quality: Quality{Qual: p[0], Level: p[1], Noise: p[2], Updated: p[3]}}, nil
	}

	// Length and flags, then the data past the padded iw_point.
	off, data := 0, s.layout.pointLen()
	if s.version < pointVersion {
		off, data = s.layout.Pointer, s.layout.Pointer+data
	}
	if len(p) < off+payloadSize[headerPoint] || len(p) < data {
		return nil, s.malformed("point event %#x too short for version %d", cmd, s.version)
	}
	n := int(native.Endian.Uint16(p[off:]))
	flags := native.Endian.Uint16(p[off+2:])
	extra := p[data:]
	if n > len(extra) {
		return nil, s.malformed("point length %d exceeds %d carried bytes", n, len(extra))
	}
	if cmd == SIOCGIWENCODE {
		return EncodeEvent{Flags: flags, Key: extra[:n]}, nil
	}
	return ESSIDEvent{ESSID: extra[:n], Flags: flags}, nil
}

func (s *Stream) malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedStream, "offset %d: "+format, append([]interface{}{s.cur}, args...)...)
}
