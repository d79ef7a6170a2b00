package wext

import (
	"net"

	"github.com/josharian/native"
	"github.com/pkg/errors"
)

// Wireless extensions ioctl numbers.
const (
	SIOCGIWNAME    = 0x8B01
	SIOCSIWFREQ    = 0x8B04
	SIOCGIWFREQ    = 0x8B05
	SIOCSIWMODE    = 0x8B06
	SIOCGIWMODE    = 0x8B07
	SIOCGIWRANGE   = 0x8B0B
	SIOCSIWAP      = 0x8B14
	SIOCGIWAP      = 0x8B15
	SIOCSIWSCAN    = 0x8B18
	SIOCGIWSCAN    = 0x8B19
	SIOCSIWESSID   = 0x8B1A
	SIOCGIWESSID   = 0x8B1B
	SIOCSIWRATE    = 0x8B20
	SIOCGIWRATE    = 0x8B21
	SIOCSIWTXPOW   = 0x8B26
	SIOCGIWTXPOW   = 0x8B27
	SIOCGIWENCODE  = 0x8B2B
	IWEVQUAL       = 0x8C01
	IWEVCUSTOM     = 0x8C02
	IWEVGENIE      = 0x8C05
	ifNameSize     = 16 // IFNAMSIZ
	unionSize      = 16 // sizeof(union iwreq_data)
	arphrdEther    = 1
	ESSIDMaxSize   = 32
	hwAddrLen      = 6
	maxPointLength = 0xFFFF
)

// A Controller issues one control request against an interface. It
// returns the raw errno (unix.Errno) on failure.
type Controller interface {
	Control(cmd uint, r *Request) error
}

// ControllerFunc adapts a function to a Controller.
type ControllerFunc func(cmd uint, r *Request) error

func (f ControllerFunc) Control(cmd uint, r *Request) error { return f(cmd, r) }

// Request is an iwreq: an interface name plus the operation's union
// payload. Point requests (scan, range, essid) carry Data, Length and
// Flags; every other request uses the fixed-size union.
type Request struct {
	Name string

	Data   []byte
	Length uint16
	Flags  uint16

	u [unionSize]byte
}

func newRequest(ifname string) (*Request, error) {
	if len(ifname) == 0 || len(ifname) >= ifNameSize {
		return nil, errors.Wrapf(ErrInvalidArgument, "interface name %q", ifname)
	}
	return &Request{Name: ifname}, nil
}

// IsPoint reports whether cmd exchanges a point payload.
func IsPoint(cmd uint) bool {
	switch cmd {
	case SIOCSIWSCAN, SIOCGIWSCAN, SIOCGIWRANGE, SIOCSIWESSID, SIOCGIWESSID, SIOCGIWENCODE:
		return true
	}
	return false
}

// SetPoint points the request at buf, asking for length bytes.
func (r *Request) SetPoint(buf []byte, length int, flags uint16) {
	if length > maxPointLength {
		length = maxPointLength
	}
	r.Data, r.Length, r.Flags = buf, uint16(length), flags
}

// Union exposes the raw union bytes.
func (r *Request) Union() *[unionSize]byte { return &r.u }

func (r *Request) SetFreq(f Freq) {
	native.Endian.PutUint32(r.u[0:], uint32(f.M))
	native.Endian.PutUint16(r.u[4:], uint16(f.E))
	r.u[6], r.u[7] = f.I, f.Flags
}

func (r *Request) Freq() Freq { return decodeFreq(r.u[:]) }

// Param is an iw_param: bitrate, txpower and friends.
type Param struct {
	Value    int32
	Fixed    bool
	Disabled bool
	Flags    uint16
}

func (r *Request) SetParam(p Param) {
	native.Endian.PutUint32(r.u[0:], uint32(p.Value))
	r.u[4], r.u[5] = boolByte(p.Fixed), boolByte(p.Disabled)
	native.Endian.PutUint16(r.u[6:], p.Flags)
}

func (r *Request) Param() Param { return decodeParam(r.u[:]) }

func (r *Request) SetMode(m uint32) { native.Endian.PutUint32(r.u[0:], m) }

func (r *Request) Mode() uint32 { return native.Endian.Uint32(r.u[0:]) }

// SetAddr fills the union's sockaddr with family and hardware address.
func (r *Request) SetAddr(family uint16, hw net.HardwareAddr) {
	native.Endian.PutUint16(r.u[0:], family)
	copy(r.u[2:], hw)
}

func (r *Request) Addr() net.HardwareAddr { return decodeAddr(r.u[:]) }

func decodeFreq(b []byte) Freq {
	return Freq{
		M:     int32(native.Endian.Uint32(b[0:])),
		E:     int16(native.Endian.Uint16(b[4:])),
		I:     b[6],
		Flags: b[7],
	}
}

func decodeParam(b []byte) Param {
	return Param{
		Value:    int32(native.Endian.Uint32(b[0:])),
		Fixed:    b[4] != 0,
		Disabled: b[5] != 0,
		Flags:    native.Endian.Uint16(b[6:]),
	}
}

// decodeAddr copies the hardware address out of a sockaddr.
func decodeAddr(b []byte) net.HardwareAddr {
	hw := make(net.HardwareAddr, hwAddrLen)
	copy(hw, b[2:2+hwAddrLen])
	return hw
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
